package models

import "time"

// Conversation represents a private chat between exactly two users.
// User1ID is always the smaller of the two ids.
type Conversation struct {
	ID                int        `db:"id" json:"id"`
	User1ID           int        `db:"user1_id" json:"user1_id"`
	User2ID           int        `db:"user2_id" json:"user2_id"`
	LastMessageText   *string    `db:"last_message_text" json:"-"`
	LastMessageSender *int       `db:"last_message_sender" json:"-"`
	LastMessageAt     *time.Time `db:"last_message_at" json:"-"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

// LastMessage is the cached snapshot of the newest message in a conversation.
type LastMessage struct {
	Text     string    `json:"text"`
	SenderID int       `json:"sender_id"`
	SentAt   time.Time `json:"sent_at"`
}

// Snapshot returns the cached last message, if any.
func (c Conversation) Snapshot() *LastMessage {
	if c.LastMessageText == nil || c.LastMessageSender == nil || c.LastMessageAt == nil {
		return nil
	}
	return &LastMessage{Text: *c.LastMessageText, SenderID: *c.LastMessageSender, SentAt: *c.LastMessageAt}
}

// HasParticipant reports whether userID is one of the two participants.
func (c Conversation) HasParticipant(userID int) bool {
	return c.User1ID == userID || c.User2ID == userID
}

// PartnerOf returns the other participant.
func (c Conversation) PartnerOf(userID int) int {
	if c.User1ID == userID {
		return c.User2ID
	}
	return c.User1ID
}

// ConversationView is the populated conversation pushed to clients and returned by the API.
type ConversationView struct {
	ID           int           `json:"id"`
	Participants []UserProfile `json:"participants"`
	LastMessage  *LastMessage  `json:"last_message,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}
