package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/hackwithroshan/atootbandhan-sub000/internal/models"
)

const messageColumns = `id, conversation_id, sender_id, text, status, created_at`

// MessageRepository defines interactions for private messages.
type MessageRepository interface {
	Append(ctx context.Context, conversationID int, senderID int, text string) (models.Message, error)
	History(ctx context.Context, conversationID int) ([]models.Message, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// Append stores a message and refreshes the conversation's last-message snapshot
// in one transaction. The conversation row lock orders concurrent appends.
func (r *MessageRepo) Append(ctx context.Context, conversationID int, senderID int, text string) (models.Message, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Message{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var locked int
	if err := tx.GetContext(ctx, &locked, `SELECT id FROM conversations WHERE id=$1 FOR UPDATE`, conversationID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Message{}, ErrConversationNotFound
		}
		return models.Message{}, err
	}

	var msg models.Message
	if err := tx.QueryRowxContext(ctx, `INSERT INTO messages (conversation_id, sender_id, text, status) VALUES ($1, $2, $3, $4) RETURNING `+messageColumns,
		conversationID, senderID, text, models.MessageSent).StructScan(&msg); err != nil {
		return models.Message{}, err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE conversations
        SET last_message_text=$2, last_message_sender=$3, last_message_at=$4, updated_at=NOW()
        WHERE id=$1`, conversationID, msg.Text, msg.SenderID, msg.CreatedAt); err != nil {
		return models.Message{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Message{}, err
	}
	return msg, nil
}

// History returns every message of a conversation in creation order.
func (r *MessageRepo) History(ctx context.Context, conversationID int) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs, `SELECT `+messageColumns+` FROM messages WHERE conversation_id=$1 ORDER BY created_at ASC, id ASC`, conversationID)
	return msgs, err
}
