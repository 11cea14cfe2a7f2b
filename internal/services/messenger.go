package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/hackwithroshan/atootbandhan-sub000/internal/models"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/observability"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/repositories"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/rooms"
)

// Messenger owns the two-party conversation log.
type Messenger struct {
	conversations repositories.ConversationRepository
	messages      repositories.MessageRepository
	notifier      *Notifier
	directory     Directory
	bus           Broadcaster
}

// NewMessenger constructs a Messenger.
func NewMessenger(conversations repositories.ConversationRepository, messages repositories.MessageRepository, notifier *Notifier, directory Directory, bus Broadcaster) *Messenger {
	return &Messenger{
		conversations: conversations,
		messages:      messages,
		notifier:      notifier,
		directory:     directory,
		bus:           bus,
	}
}

// Open returns the conversation of two users, creating it when missing.
func (m *Messenger) Open(ctx context.Context, userID int, partnerID int) (models.ConversationView, bool, error) {
	if partnerID <= 0 {
		return models.ConversationView{}, false, ErrInvalidUser
	}
	conv, created, err := m.conversations.CreateOrGet(ctx, userID, partnerID)
	if err != nil {
		return models.ConversationView{}, false, err
	}
	return m.populate(ctx, conv), created, nil
}

// SendPrivateMessage appends a message to the pair's conversation, creating the
// conversation on first contact, and fans the result out.
func (m *Messenger) SendPrivateMessage(ctx context.Context, fromUserID int, toUserID int, text string) (models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Message{}, ErrEmptyText
	}
	if toUserID <= 0 {
		return models.Message{}, ErrInvalidUser
	}
	if fromUserID == toUserID {
		return models.Message{}, ErrSelfMessage
	}

	conv, _, err := m.conversations.CreateOrGet(ctx, fromUserID, toUserID)
	if err != nil {
		return models.Message{}, fmt.Errorf("open conversation: %w", err)
	}
	msg, err := m.messages.Append(ctx, conv.ID, fromUserID, text)
	if err != nil {
		return models.Message{}, fmt.Errorf("append message: %w", err)
	}
	observability.IncInteraction("private_message")

	conv.LastMessageText = &msg.Text
	conv.LastMessageSender = &msg.SenderID
	conv.LastMessageAt = &msg.CreatedAt
	conv.UpdatedAt = msg.CreatedAt

	pairKey := rooms.PairKey(fromUserID, toUserID)
	if m.bus != nil {
		m.bus.EmitToRoom(rooms.Chat(pairKey), models.EventReceivePrivateMessage, models.PrivateMessageEvent{
			Message:    msg,
			ReceiverID: toUserID,
			PairKey:    pairKey,
		})
	}

	view := m.populate(ctx, conv)
	m.announce(view)

	sender := displayName(profileOf(view, fromUserID))
	m.notifier.notify(ctx, models.NewNotification{
		UserID:      toUserID,
		Type:        models.NotificationMessageReceived,
		Title:       "New Message",
		Message:     fmt.Sprintf("%s sent you a message.", sender),
		SenderID:    &fromUserID,
		RedirectURL: strPtr(fmt.Sprintf("/messages/%d", fromUserID)),
	}, true)

	return msg, nil
}

// ListConversations returns the user's conversations with participant profiles.
func (m *Messenger) ListConversations(ctx context.Context, userID int) ([]models.ConversationView, error) {
	convs, err := m.conversations.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := []int{userID}
	for _, conv := range convs {
		ids = append(ids, conv.PartnerOf(userID))
	}
	profiles := lookupProfiles(ctx, m.directory, ids...)

	views := make([]models.ConversationView, 0, len(convs))
	for _, conv := range convs {
		views = append(views, viewOf(conv, profiles))
	}
	return views, nil
}

// History returns the ordered messages of a conversation the user takes part in.
func (m *Messenger) History(ctx context.Context, userID int, conversationID int) ([]models.Message, error) {
	conv, err := m.conversations.Get(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(userID) {
		return nil, ErrNotParticipant
	}
	return m.history(ctx, conv.ID)
}

// HistoryWithPartner returns the messages exchanged with partnerID; empty when
// the two users never talked.
func (m *Messenger) HistoryWithPartner(ctx context.Context, userID int, partnerID int) ([]models.Message, error) {
	if partnerID <= 0 || partnerID == userID {
		return nil, ErrInvalidUser
	}
	conv, err := m.conversations.FindByPair(ctx, userID, partnerID)
	if err != nil {
		if errors.Is(err, repositories.ErrConversationNotFound) {
			return []models.Message{}, nil
		}
		return nil, err
	}
	return m.history(ctx, conv.ID)
}

func (m *Messenger) history(ctx context.Context, conversationID int) ([]models.Message, error) {
	msgs, err := m.messages.History(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	return msgs, nil
}

// announce pushes conversation_updated to both participants' personal rooms.
func (m *Messenger) announce(view models.ConversationView) {
	if m.bus == nil {
		return
	}
	for _, p := range view.Participants {
		m.bus.EmitToUser(p.ID, models.EventConversationUpdated, view)
	}
}

func (m *Messenger) populate(ctx context.Context, conv models.Conversation) models.ConversationView {
	return viewOf(conv, lookupProfiles(ctx, m.directory, conv.User1ID, conv.User2ID))
}

func viewOf(conv models.Conversation, profiles map[int]models.UserProfile) models.ConversationView {
	participants := make([]models.UserProfile, 0, 2)
	for _, id := range []int{conv.User1ID, conv.User2ID} {
		p, ok := profiles[id]
		if !ok {
			p = models.UserProfile{ID: id}
		}
		participants = append(participants, p)
	}
	return models.ConversationView{
		ID:           conv.ID,
		Participants: participants,
		LastMessage:  conv.Snapshot(),
		CreatedAt:    conv.CreatedAt,
		UpdatedAt:    conv.UpdatedAt,
	}
}

func profileOf(view models.ConversationView, userID int) models.UserProfile {
	for _, p := range view.Participants {
		if p.ID == userID {
			return p
		}
	}
	log.Printf("conversation %d has no participant %d", view.ID, userID)
	return models.UserProfile{ID: userID}
}

func strPtr(s string) *string {
	return &s
}
