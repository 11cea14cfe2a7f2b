package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hackwithroshan/atootbandhan-sub000/internal/models"
)

var ErrTicketNotFound = errors.New("ticket not found")

const (
	ticketColumns        = `id, user_id, subject, category, status, created_at, last_updated_at`
	ticketMessageColumns = `id, ticket_id, sender, author_id, text, attachment_url, attachment_name, attachment_kind, created_at`
)

// TicketRepository abstracts support ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, userID int, subject string, category string, first models.ThreadEntry) (models.SupportTicket, error)
	Get(ctx context.Context, ticketID int) (models.SupportTicket, error)
	ListForUser(ctx context.Context, userID int) ([]models.SupportTicket, error)
	ListAll(ctx context.Context) ([]models.SupportTicket, error)
	AppendEntry(ctx context.Context, ticketID int, entry models.ThreadEntry, transition func(models.TicketStatus) models.TicketStatus) (models.SupportTicket, models.ThreadEntry, error)
	SetStatus(ctx context.Context, ticketID int, status models.TicketStatus) (models.SupportTicket, error)
}

// TicketRepo is a sqlx implementation of TicketRepository.
type TicketRepo struct {
	db *sqlx.DB
}

// NewTicketRepo constructs a TicketRepo.
func NewTicketRepo(db *sqlx.DB) *TicketRepo {
	return &TicketRepo{db: db}
}

type ticketMessageRow struct {
	ID             int            `db:"id"`
	TicketID       int            `db:"ticket_id"`
	Sender         string         `db:"sender"`
	AuthorID       int            `db:"author_id"`
	Text           string         `db:"text"`
	AttachmentURL  sql.NullString `db:"attachment_url"`
	AttachmentName sql.NullString `db:"attachment_name"`
	AttachmentKind sql.NullString `db:"attachment_kind"`
	CreatedAt      time.Time      `db:"created_at"`
}

func (r ticketMessageRow) entry() models.ThreadEntry {
	e := models.ThreadEntry{
		ID:        r.ID,
		Sender:    models.SenderRole(r.Sender),
		AuthorID:  r.AuthorID,
		Text:      r.Text,
		CreatedAt: r.CreatedAt,
	}
	if r.AttachmentURL.Valid {
		e.Attachment = &models.Attachment{
			URL:  r.AttachmentURL.String,
			Name: r.AttachmentName.String,
			Kind: models.AttachmentKind(r.AttachmentKind.String),
		}
	}
	return e
}

// Create inserts a ticket and its first thread entry atomically.
func (r *TicketRepo) Create(ctx context.Context, userID int, subject string, category string, first models.ThreadEntry) (models.SupportTicket, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.SupportTicket{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var ticket models.SupportTicket
	if err := tx.QueryRowxContext(ctx, `INSERT INTO support_tickets (user_id, subject, category, status) VALUES ($1, $2, $3, $4) RETURNING `+ticketColumns,
		userID, subject, category, models.TicketOpen).StructScan(&ticket); err != nil {
		return models.SupportTicket{}, err
	}

	entry, err := insertEntry(ctx, tx, ticket.ID, first)
	if err != nil {
		return models.SupportTicket{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.SupportTicket{}, err
	}
	ticket.Thread = []models.ThreadEntry{entry}
	return ticket, nil
}

// Get fetches a ticket with its full thread.
func (r *TicketRepo) Get(ctx context.Context, ticketID int) (models.SupportTicket, error) {
	return loadTicket(ctx, r.db, ticketID)
}

// ListForUser returns the user's tickets, most recently updated first. Threads are not loaded.
func (r *TicketRepo) ListForUser(ctx context.Context, userID int) ([]models.SupportTicket, error) {
	var tickets []models.SupportTicket
	err := r.db.SelectContext(ctx, &tickets, `SELECT `+ticketColumns+` FROM support_tickets WHERE user_id=$1 ORDER BY last_updated_at DESC`, userID)
	return tickets, err
}

// ListAll returns every ticket, most recently updated first. Threads are not loaded.
func (r *TicketRepo) ListAll(ctx context.Context) ([]models.SupportTicket, error) {
	var tickets []models.SupportTicket
	err := r.db.SelectContext(ctx, &tickets, `SELECT `+ticketColumns+` FROM support_tickets ORDER BY last_updated_at DESC`)
	return tickets, err
}

// AppendEntry appends to the thread and applies transition to the status while
// holding the ticket row lock.
func (r *TicketRepo) AppendEntry(ctx context.Context, ticketID int, entry models.ThreadEntry, transition func(models.TicketStatus) models.TicketStatus) (models.SupportTicket, models.ThreadEntry, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.SupportTicket{}, models.ThreadEntry{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var current models.TicketStatus
	if err := tx.GetContext(ctx, &current, `SELECT status FROM support_tickets WHERE id=$1 FOR UPDATE`, ticketID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.SupportTicket{}, models.ThreadEntry{}, ErrTicketNotFound
		}
		return models.SupportTicket{}, models.ThreadEntry{}, err
	}

	stored, err := insertEntry(ctx, tx, ticketID, entry)
	if err != nil {
		return models.SupportTicket{}, models.ThreadEntry{}, err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE support_tickets SET status=$2, last_updated_at=$3 WHERE id=$1`,
		ticketID, transition(current), stored.CreatedAt); err != nil {
		return models.SupportTicket{}, models.ThreadEntry{}, err
	}

	ticket, err := loadTicket(ctx, tx, ticketID)
	if err != nil {
		return models.SupportTicket{}, models.ThreadEntry{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.SupportTicket{}, models.ThreadEntry{}, err
	}
	return ticket, stored, nil
}

// SetStatus overwrites the ticket status.
func (r *TicketRepo) SetStatus(ctx context.Context, ticketID int, status models.TicketStatus) (models.SupportTicket, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE support_tickets SET status=$2, last_updated_at=NOW() WHERE id=$1`, ticketID, status)
	if err != nil {
		return models.SupportTicket{}, err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return models.SupportTicket{}, err
	}
	if count == 0 {
		return models.SupportTicket{}, ErrTicketNotFound
	}
	return loadTicket(ctx, r.db, ticketID)
}

func insertEntry(ctx context.Context, tx *sqlx.Tx, ticketID int, entry models.ThreadEntry) (models.ThreadEntry, error) {
	var url, name, kind sql.NullString
	if entry.Attachment != nil {
		url = sql.NullString{String: entry.Attachment.URL, Valid: true}
		name = sql.NullString{String: entry.Attachment.Name, Valid: true}
		kind = sql.NullString{String: string(entry.Attachment.Kind), Valid: true}
	}

	var row ticketMessageRow
	err := tx.QueryRowxContext(ctx, `INSERT INTO ticket_messages (ticket_id, sender, author_id, text, attachment_url, attachment_name, attachment_kind)
        VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING `+ticketMessageColumns,
		ticketID, entry.Sender, entry.AuthorID, entry.Text, url, name, kind).StructScan(&row)
	if err != nil {
		return models.ThreadEntry{}, err
	}
	return row.entry(), nil
}

func loadTicket(ctx context.Context, q sqlx.QueryerContext, ticketID int) (models.SupportTicket, error) {
	var ticket models.SupportTicket
	if err := sqlx.GetContext(ctx, q, &ticket, `SELECT `+ticketColumns+` FROM support_tickets WHERE id=$1`, ticketID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.SupportTicket{}, ErrTicketNotFound
		}
		return models.SupportTicket{}, err
	}

	var rows []ticketMessageRow
	if err := sqlx.SelectContext(ctx, q, &rows, `SELECT `+ticketMessageColumns+` FROM ticket_messages WHERE ticket_id=$1 ORDER BY created_at ASC, id ASC`, ticketID); err != nil {
		return models.SupportTicket{}, err
	}
	ticket.Thread = make([]models.ThreadEntry, 0, len(rows))
	for _, row := range rows {
		ticket.Thread = append(ticket.Thread, row.entry())
	}
	return ticket, nil
}
