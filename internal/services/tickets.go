package services

import (
	"context"
	"log"
	"strings"

	"github.com/hackwithroshan/atootbandhan-sub000/internal/models"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/observability"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/repositories"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/rooms"
)

// NewTicket is the input of TicketService.Create.
type NewTicket struct {
	Subject     string
	Category    string
	Description string
	Attachment  *models.Attachment
}

// TicketMessage is a reply validated at the transport boundary.
type TicketMessage struct {
	Sender     models.SenderRole
	Text       string
	Attachment *models.Attachment
}

// TicketEvent is the single state-transition event both ticket channels are fed from.
type TicketEvent struct {
	Ticket models.SupportTicket
	Entry  *models.ThreadEntry
}

// TicketService runs the support ticket lifecycle.
type TicketService struct {
	repo repositories.TicketRepository
	bus  Broadcaster
}

// NewTicketService constructs a TicketService.
func NewTicketService(repo repositories.TicketRepository, bus Broadcaster) *TicketService {
	return &TicketService{repo: repo, bus: bus}
}

// Create opens a ticket whose thread starts with the description.
func (s *TicketService) Create(ctx context.Context, actor models.Identity, in NewTicket) (models.SupportTicket, error) {
	in.Subject = strings.TrimSpace(in.Subject)
	in.Category = strings.TrimSpace(in.Category)
	in.Description = strings.TrimSpace(in.Description)
	if in.Subject == "" || in.Category == "" || in.Description == "" {
		return models.SupportTicket{}, ErrMissingTicketFields
	}
	if in.Attachment != nil {
		if err := in.Attachment.Validate(); err != nil {
			return models.SupportTicket{}, err
		}
	}

	ticket, err := s.repo.Create(ctx, actor.UserID, in.Subject, in.Category, models.ThreadEntry{
		Sender:     models.SenderUser,
		AuthorID:   actor.UserID,
		Text:       in.Description,
		Attachment: in.Attachment,
	})
	if err != nil {
		return models.SupportTicket{}, err
	}
	observability.IncTicketTransition(string(ticket.Status))
	s.publish(ctx, TicketEvent{Ticket: ticket})
	return ticket, nil
}

// Get returns a ticket to its owner or to an admin.
func (s *TicketService) Get(ctx context.Context, actor models.Identity, ticketID int) (models.SupportTicket, error) {
	ticket, err := s.repo.Get(ctx, ticketID)
	if err != nil {
		return models.SupportTicket{}, err
	}
	if !actor.IsAdmin() && ticket.UserID != actor.UserID {
		return models.SupportTicket{}, ErrForbidden
	}
	return ticket, nil
}

// ListMine returns the caller's tickets.
func (s *TicketService) ListMine(ctx context.Context, actor models.Identity) ([]models.SupportTicket, error) {
	tickets, err := s.repo.ListForUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if tickets == nil {
		tickets = []models.SupportTicket{}
	}
	return tickets, nil
}

// ListAll returns every ticket. Admin only.
func (s *TicketService) ListAll(ctx context.Context, actor models.Identity) ([]models.SupportTicket, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	tickets, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if tickets == nil {
		tickets = []models.SupportTicket{}
	}
	return tickets, nil
}

// PostMessage appends a reply and applies the status transition for its sender
// and channel.
func (s *TicketService) PostMessage(ctx context.Context, actor models.Identity, ticketID int, msg TicketMessage, channel models.Channel) (models.SupportTicket, models.ThreadEntry, error) {
	msg.Text = strings.TrimSpace(msg.Text)
	if msg.Text == "" && msg.Attachment == nil {
		return models.SupportTicket{}, models.ThreadEntry{}, ErrEmptyText
	}
	if msg.Attachment != nil {
		if err := msg.Attachment.Validate(); err != nil {
			return models.SupportTicket{}, models.ThreadEntry{}, err
		}
	}

	switch msg.Sender {
	case models.SenderAdmin:
		if !actor.IsAdmin() {
			return models.SupportTicket{}, models.ThreadEntry{}, ErrAdminOnly
		}
	case models.SenderUser:
		ticket, err := s.repo.Get(ctx, ticketID)
		if err != nil {
			return models.SupportTicket{}, models.ThreadEntry{}, err
		}
		if ticket.UserID != actor.UserID {
			return models.SupportTicket{}, models.ThreadEntry{}, ErrForbidden
		}
	default:
		return models.SupportTicket{}, models.ThreadEntry{}, models.ErrInvalidSender
	}

	ticket, entry, err := s.repo.AppendEntry(ctx, ticketID, models.ThreadEntry{
		Sender:     msg.Sender,
		AuthorID:   actor.UserID,
		Text:       msg.Text,
		Attachment: msg.Attachment,
	}, func(current models.TicketStatus) models.TicketStatus {
		return models.NextTicketStatus(current, msg.Sender, channel)
	})
	if err != nil {
		return models.SupportTicket{}, models.ThreadEntry{}, err
	}
	observability.IncTicketTransition(string(ticket.Status))
	s.publish(ctx, TicketEvent{Ticket: ticket, Entry: &entry})
	return ticket, entry, nil
}

// SetStatus is the explicit admin status change (resolve, close, reopen).
func (s *TicketService) SetStatus(ctx context.Context, actor models.Identity, ticketID int, status models.TicketStatus) (models.SupportTicket, error) {
	if !actor.IsAdmin() {
		return models.SupportTicket{}, ErrAdminOnly
	}
	if _, err := models.ParseTicketStatus(string(status)); err != nil {
		return models.SupportTicket{}, err
	}
	ticket, err := s.repo.SetStatus(ctx, ticketID, status)
	if err != nil {
		return models.SupportTicket{}, err
	}
	observability.IncTicketTransition(string(ticket.Status))
	s.publish(ctx, TicketEvent{Ticket: ticket})
	return ticket, nil
}

// publish feeds both delivery channels from one event: the ticket room gets the
// appended entry, the admin feed and the owner's personal room get the ticket.
func (s *TicketService) publish(ctx context.Context, ev TicketEvent) {
	if s.bus != nil {
		if ev.Entry != nil {
			s.bus.EmitToRoom(rooms.Ticket(ev.Ticket.ID), models.EventMessageReceived, models.TicketMessageEvent{
				TicketID: ev.Ticket.ID,
				Message:  *ev.Entry,
			})
		}
		s.bus.EmitToRoom(rooms.AdminTicketFeed, models.EventTicketUpdated, ev.Ticket)
		s.bus.EmitToUser(ev.Ticket.UserID, models.EventTicketUpdated, ev.Ticket)
	}

	if err := observability.PublishEvent(ctx, "tickets.updated", observability.EventEnvelope{
		EventType: "tickets",
		EventName: "ticket_updated",
		Payload: map[string]interface{}{
			"ticket_id": ev.Ticket.ID,
			"user_id":   ev.Ticket.UserID,
			"status":    ev.Ticket.Status,
		},
	}, nil); err != nil {
		log.Printf("ticket event publish failed ticket_id=%d: %v", ev.Ticket.ID, err)
	}
}
