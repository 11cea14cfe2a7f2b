package models

import "encoding/json"

// Inbound websocket events.
const (
	EventAuthenticate       = "authenticate"
	EventJoinTicketRoom     = "join_ticket_room"
	EventLeaveTicketRoom    = "leave_ticket_room"
	EventNewMessage         = "new_message"
	EventJoinChatRoom       = "join_chat_room"
	EventLeaveChatRoom      = "leave_chat_room"
	EventSendPrivateMessage = "send_private_message"
)

// Outbound websocket events.
const (
	EventMessageReceived       = "message_received"
	EventTicketUpdated         = "ticket_updated"
	EventReceivePrivateMessage = "receive_private_message"
	EventConversationUpdated   = "conversation_updated"
	EventMessageError          = "message_error"
	EventNewNotification       = "new_notification"
)

// Envelope is the frame format on the websocket in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// OutboundEnvelope is an Envelope whose data has not been encoded yet.
type OutboundEnvelope struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// ErrorEvent is the payload of message_error.
type ErrorEvent struct {
	Context string `json:"context"`
	Reason  string `json:"reason"`
}

// AuthenticatePayload is the data of an authenticate event.
type AuthenticatePayload struct {
	UserID int `json:"userId"`
}

// TicketRoomPayload is the data of join_ticket_room and leave_ticket_room.
type TicketRoomPayload struct {
	TicketID int `json:"ticketId"`
}

// ChatRoomPayload is the data of join_chat_room and leave_chat_room.
type ChatRoomPayload struct {
	PairKey string `json:"pairKey"`
}

// TicketMessagePayload is the data of a new_message event.
type TicketMessagePayload struct {
	TicketID   int         `json:"ticketId"`
	Sender     string      `json:"sender"`
	Text       string      `json:"text"`
	Attachment *Attachment `json:"attachment,omitempty"`
}

// PrivateMessagePayload is the data of a send_private_message event.
type PrivateMessagePayload struct {
	FromUserID int    `json:"fromUserId"`
	ToUserID   int    `json:"toUserId"`
	Text       string `json:"text"`
}
