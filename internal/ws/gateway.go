package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/hackwithroshan/atootbandhan-sub000/internal/models"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/observability"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/rooms"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/services"
)

// unknownEventLabel keeps client-chosen names out of metric labels.
const unknownEventLabel = "unknown"

var (
	errIdentityMismatch = errors.New("identity does not match connection")
	errUnknownEvent     = errors.New("unknown event")
	errMalformedPayload = errors.New("malformed payload")
)

// TicketBackend is the part of the ticket service the gateway drives.
type TicketBackend interface {
	Get(ctx context.Context, actor models.Identity, ticketID int) (models.SupportTicket, error)
	PostMessage(ctx context.Context, actor models.Identity, ticketID int, msg services.TicketMessage, channel models.Channel) (models.SupportTicket, models.ThreadEntry, error)
}

// MessageBackend is the part of the messenger the gateway drives.
type MessageBackend interface {
	SendPrivateMessage(ctx context.Context, fromUserID int, toUserID int, text string) (models.Message, error)
}

// Gateway validates inbound events and delegates them. Results reach clients
// through the hub; failures go back to the originating connection only.
type Gateway struct {
	hub       *Hub
	tickets   TicketBackend
	messenger MessageBackend
}

// NewGateway constructs a Gateway.
func NewGateway(hub *Hub, tickets TicketBackend, messenger MessageBackend) *Gateway {
	return &Gateway{hub: hub, tickets: tickets, messenger: messenger}
}

// Dispatch handles one inbound envelope from c.
func (g *Gateway) Dispatch(ctx context.Context, c *Client, env models.Envelope) {
	ctx, span := otel.Tracer("bandhan-realtime/ws").Start(ctx, "ws.dispatch", trace.WithAttributes(
		attribute.String("ws.event", env.Event),
		attribute.Int("user.id", c.identity.UserID),
	))
	defer span.End()

	var err error
	label := env.Event
	switch env.Event {
	case models.EventAuthenticate:
		err = g.authenticate(c, env.Data)
	case models.EventJoinTicketRoom:
		err = g.joinTicketRoom(ctx, c, env.Data)
	case models.EventLeaveTicketRoom:
		err = g.leaveTicketRoom(c, env.Data)
	case models.EventNewMessage:
		err = g.newMessage(ctx, c, env.Data)
	case models.EventJoinChatRoom:
		err = g.joinChatRoom(c, env.Data)
	case models.EventLeaveChatRoom:
		err = g.leaveChatRoom(c, env.Data)
	case models.EventSendPrivateMessage:
		err = g.sendPrivateMessage(ctx, c, env.Data)
	default:
		label = unknownEventLabel
		err = errUnknownEvent
	}
	observability.IncWSEvent("in", label)
	if err != nil {
		g.fail(c, env.Event, err)
	}
}

func (g *Gateway) authenticate(c *Client, data json.RawMessage) error {
	var p models.AuthenticatePayload
	if err := decode(data, &p); err != nil {
		return err
	}
	if p.UserID != c.identity.UserID {
		return errIdentityMismatch
	}
	g.hub.Authenticate(c)
	return nil
}

func (g *Gateway) joinTicketRoom(ctx context.Context, c *Client, data json.RawMessage) error {
	var p models.TicketRoomPayload
	if err := decode(data, &p); err != nil {
		return err
	}
	if _, err := g.tickets.Get(ctx, c.identity, p.TicketID); err != nil {
		return err
	}
	g.hub.Join(c, rooms.Ticket(p.TicketID))
	return nil
}

func (g *Gateway) leaveTicketRoom(c *Client, data json.RawMessage) error {
	var p models.TicketRoomPayload
	if err := decode(data, &p); err != nil {
		return err
	}
	g.hub.Leave(c, rooms.Ticket(p.TicketID))
	return nil
}

func (g *Gateway) newMessage(ctx context.Context, c *Client, data json.RawMessage) error {
	var p models.TicketMessagePayload
	if err := decode(data, &p); err != nil {
		return err
	}
	sender, err := models.ParseSenderRole(p.Sender)
	if err != nil {
		return err
	}
	_, _, err = g.tickets.PostMessage(ctx, c.identity, p.TicketID, services.TicketMessage{
		Sender:     sender,
		Text:       p.Text,
		Attachment: p.Attachment,
	}, models.ChannelLive)
	return err
}

func (g *Gateway) joinChatRoom(c *Client, data json.RawMessage) error {
	key, err := g.chatRoom(c, data)
	if err != nil {
		return err
	}
	g.hub.Join(c, rooms.Chat(key))
	return nil
}

func (g *Gateway) leaveChatRoom(c *Client, data json.RawMessage) error {
	key, err := g.chatRoom(c, data)
	if err != nil {
		return err
	}
	g.hub.Leave(c, rooms.Chat(key))
	return nil
}

// chatRoom validates that the pair key names the caller.
func (g *Gateway) chatRoom(c *Client, data json.RawMessage) (string, error) {
	var p models.ChatRoomPayload
	if err := decode(data, &p); err != nil {
		return "", err
	}
	lo, hi, err := rooms.ParsePairKey(p.PairKey)
	if err != nil {
		return "", err
	}
	if c.identity.UserID != lo && c.identity.UserID != hi {
		return "", services.ErrNotParticipant
	}
	return rooms.PairKey(lo, hi), nil
}

func (g *Gateway) sendPrivateMessage(ctx context.Context, c *Client, data json.RawMessage) error {
	var p models.PrivateMessagePayload
	if err := decode(data, &p); err != nil {
		return err
	}
	if p.FromUserID != c.identity.UserID {
		return errIdentityMismatch
	}
	_, err := g.messenger.SendPrivateMessage(ctx, p.FromUserID, p.ToUserID, p.Text)
	return err
}

func (g *Gateway) fail(c *Client, event string, err error) {
	reason := err.Error()
	switch {
	case errors.Is(err, errIdentityMismatch), errors.Is(err, errUnknownEvent), errors.Is(err, errMalformedPayload):
	case services.Classify(err) == services.KindInternal:
		log.Printf("websocket event failed event=%s user_id=%d: %v", event, c.identity.UserID, err)
		reason = "internal error"
	}
	g.hub.Send(c, models.EventMessageError, models.ErrorEvent{Context: event, Reason: reason})
}

func decode(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return errMalformedPayload
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errMalformedPayload
	}
	return nil
}
