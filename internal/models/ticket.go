package models

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

var (
	ErrInvalidSender     = errors.New("sender must be user or admin")
	ErrInvalidAttachment = errors.New("invalid attachment")
	ErrInvalidStatus     = errors.New("invalid ticket status")
)

// TicketStatus is the lifecycle state of a support ticket.
type TicketStatus string

const (
	TicketOpen              TicketStatus = "open"
	TicketInProgress        TicketStatus = "in_progress"
	TicketAwaitingUserReply TicketStatus = "awaiting_user_reply"
	TicketResolved          TicketStatus = "resolved"
	TicketClosed            TicketStatus = "closed"
)

// ParseTicketStatus validates a wire value.
func ParseTicketStatus(raw string) (TicketStatus, error) {
	switch s := TicketStatus(raw); s {
	case TicketOpen, TicketInProgress, TicketAwaitingUserReply, TicketResolved, TicketClosed:
		return s, nil
	}
	return "", ErrInvalidStatus
}

// SenderRole tags a ticket thread entry.
type SenderRole string

const (
	SenderUser  SenderRole = "user"
	SenderAdmin SenderRole = "admin"
)

// ParseSenderRole validates a wire value.
func ParseSenderRole(raw string) (SenderRole, error) {
	switch s := SenderRole(raw); s {
	case SenderUser, SenderAdmin:
		return s, nil
	}
	return "", ErrInvalidSender
}

// AttachmentKind is the coarse type of an uploaded file.
type AttachmentKind string

const (
	AttachmentImage    AttachmentKind = "image"
	AttachmentDocument AttachmentKind = "document"
)

// Attachment is the only file metadata stored on a thread entry.
type Attachment struct {
	URL  string         `json:"url"`
	Name string         `json:"name"`
	Kind AttachmentKind `json:"kind"`
}

// Validate checks the attachment shape. It does not inspect the file itself.
func (a Attachment) Validate() error {
	if a.Kind != AttachmentImage && a.Kind != AttachmentDocument {
		return ErrInvalidAttachment
	}
	if strings.TrimSpace(a.Name) == "" {
		return ErrInvalidAttachment
	}
	u, err := url.Parse(a.URL)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return ErrInvalidAttachment
	}
	return nil
}

// ThreadEntry is one message in a ticket thread.
type ThreadEntry struct {
	ID         int         `json:"id"`
	Sender     SenderRole  `json:"sender"`
	AuthorID   int         `json:"author_id"`
	Text       string      `json:"text"`
	Attachment *Attachment `json:"attachment,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// SupportTicket is a user's support request with its ordered thread.
type SupportTicket struct {
	ID            int           `db:"id" json:"id"`
	UserID        int           `db:"user_id" json:"user_id"`
	Subject       string        `db:"subject" json:"subject"`
	Category      string        `db:"category" json:"category"`
	Status        TicketStatus  `db:"status" json:"status"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	LastUpdatedAt time.Time     `db:"last_updated_at" json:"last_updated_at"`
	Thread        []ThreadEntry `db:"-" json:"thread"`
}

// Channel identifies which transport delivered a ticket message.
type Channel string

const (
	ChannelLive     Channel = "live"
	ChannelFallback Channel = "fallback"
)

// NextTicketStatus returns the status a ticket moves to after a message from
// sender arrives over channel.
func NextTicketStatus(current TicketStatus, sender SenderRole, channel Channel) TicketStatus {
	switch sender {
	case SenderAdmin:
		if current == TicketClosed {
			return current
		}
		return TicketInProgress
	case SenderUser:
		if current == TicketResolved || current == TicketClosed {
			return TicketOpen
		}
		if channel == ChannelFallback {
			return TicketAwaitingUserReply
		}
	}
	return current
}

// TicketMessageEvent is pushed on message_received to a ticket room.
type TicketMessageEvent struct {
	TicketID int         `json:"ticketId"`
	Message  ThreadEntry `json:"message"`
}
