package models

import "time"

// MessageStatus is the delivery state of a private message.
type MessageStatus string

const (
	MessageSent      MessageStatus = "sent"
	MessageDelivered MessageStatus = "delivered"
	MessageSeen      MessageStatus = "seen"
)

// Message represents a private chat message.
type Message struct {
	ID             int           `db:"id" json:"id"`
	ConversationID int           `db:"conversation_id" json:"conversation_id"`
	SenderID       int           `db:"sender_id" json:"sender_id"`
	Text           string        `db:"text" json:"text"`
	Status         MessageStatus `db:"status" json:"status"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
}

// PrivateMessageEvent is pushed on receive_private_message.
type PrivateMessageEvent struct {
	Message
	ReceiverID int    `json:"receiver_id"`
	PairKey    string `json:"pair_key"`
}
