package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hackwithroshan/atootbandhan-sub000/internal/models"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/repositories"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/rooms"
)

// clock hands out strictly increasing timestamps.
type clock struct {
	mu   sync.Mutex
	base time.Time
	tick int
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tick++
	return c.base.Add(time.Duration(c.tick) * time.Millisecond)
}

// Store is an in-memory backend for every repository, used by scenario tests
// that need real concurrency semantics.
type Store struct {
	Conversations *MemoryConversations
	Messages      *MemoryMessages
	Interests     *MemoryInterests
	Notifications *MemoryNotifications
	Tickets       *MemoryTickets
}

// NewStore returns an empty Store.
func NewStore() *Store {
	clk := &clock{base: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	convs := &MemoryConversations{clock: clk, byPair: map[string]*models.Conversation{}}
	return &Store{
		Conversations: convs,
		Messages:      &MemoryMessages{clock: clk, conversations: convs},
		Interests:     &MemoryInterests{clock: clk},
		Notifications: &MemoryNotifications{clock: clk},
		Tickets:       &MemoryTickets{clock: clk, byID: map[int]*models.SupportTicket{}},
	}
}

type MemoryConversations struct {
	mu     sync.Mutex
	clock  *clock
	nextID int
	byPair map[string]*models.Conversation
}

func (m *MemoryConversations) CreateOrGet(ctx context.Context, userID int, partnerID int) (models.Conversation, bool, error) {
	if userID == partnerID {
		return models.Conversation{}, false, repositories.ErrSelfConversation
	}
	lo, hi := rooms.CanonicalPair(userID, partnerID)
	key := rooms.PairKey(lo, hi)

	m.mu.Lock()
	defer m.mu.Unlock()
	if conv, ok := m.byPair[key]; ok {
		return *conv, false, nil
	}
	m.nextID++
	now := m.clock.now()
	conv := &models.Conversation{ID: m.nextID, User1ID: lo, User2ID: hi, CreatedAt: now, UpdatedAt: now}
	m.byPair[key] = conv
	return *conv, true, nil
}

func (m *MemoryConversations) Get(ctx context.Context, conversationID int) (models.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, conv := range m.byPair {
		if conv.ID == conversationID {
			return *conv, nil
		}
	}
	return models.Conversation{}, repositories.ErrConversationNotFound
}

func (m *MemoryConversations) FindByPair(ctx context.Context, userID int, partnerID int) (models.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if conv, ok := m.byPair[rooms.PairKey(userID, partnerID)]; ok {
		return *conv, nil
	}
	return models.Conversation{}, repositories.ErrConversationNotFound
}

func (m *MemoryConversations) ListForUser(ctx context.Context, userID int) ([]models.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Conversation
	for _, conv := range m.byPair {
		if conv.HasParticipant(userID) {
			out = append(out, *conv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

// Len reports how many conversations exist.
func (m *MemoryConversations) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byPair)
}

func (m *MemoryConversations) touch(conversationID int, msg models.Message) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, conv := range m.byPair {
		if conv.ID == conversationID {
			text, sender, at := msg.Text, msg.SenderID, msg.CreatedAt
			conv.LastMessageText = &text
			conv.LastMessageSender = &sender
			conv.LastMessageAt = &at
			conv.UpdatedAt = at
			return true
		}
	}
	return false
}

type MemoryMessages struct {
	mu            sync.Mutex
	clock         *clock
	conversations *MemoryConversations
	messages      []models.Message
}

func (m *MemoryMessages) Append(ctx context.Context, conversationID int, senderID int, text string) (models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg := models.Message{
		ID:             len(m.messages) + 1,
		ConversationID: conversationID,
		SenderID:       senderID,
		Text:           text,
		Status:         models.MessageSent,
		CreatedAt:      m.clock.now(),
	}
	if !m.conversations.touch(conversationID, msg) {
		return models.Message{}, repositories.ErrConversationNotFound
	}
	m.messages = append(m.messages, msg)
	return msg, nil
}

func (m *MemoryMessages) History(ctx context.Context, conversationID int) ([]models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Message
	for _, msg := range m.messages {
		if msg.ConversationID == conversationID {
			out = append(out, msg)
		}
	}
	return out, nil
}

type MemoryInterests struct {
	mu        sync.Mutex
	clock     *clock
	interests []models.Interest
}

func (m *MemoryInterests) Create(ctx context.Context, fromUserID int, toUserID int) (models.Interest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, in := range m.interests {
		if in.FromUserID == fromUserID && in.ToUserID == toUserID {
			return models.Interest{}, repositories.ErrInterestExists
		}
	}
	now := m.clock.now()
	in := models.Interest{
		ID:         len(m.interests) + 1,
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Status:     models.InterestPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	m.interests = append(m.interests, in)
	return in, nil
}

func (m *MemoryInterests) Get(ctx context.Context, interestID int) (models.Interest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if interestID <= 0 || interestID > len(m.interests) {
		return models.Interest{}, repositories.ErrInterestNotFound
	}
	return m.interests[interestID-1], nil
}

func (m *MemoryInterests) Transition(ctx context.Context, interestID int, from models.InterestStatus, to models.InterestStatus) (models.Interest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if interestID <= 0 || interestID > len(m.interests) {
		return models.Interest{}, repositories.ErrInterestNotFound
	}
	in := &m.interests[interestID-1]
	if in.Status != from {
		return models.Interest{}, repositories.ErrInterestNotPending
	}
	in.Status = to
	in.UpdatedAt = m.clock.now()
	return *in, nil
}

func (m *MemoryInterests) ListReceived(ctx context.Context, userID int) ([]models.Interest, error) {
	return m.list(func(in models.Interest) bool { return in.ToUserID == userID }), nil
}

func (m *MemoryInterests) ListSent(ctx context.Context, userID int) ([]models.Interest, error) {
	return m.list(func(in models.Interest) bool { return in.FromUserID == userID }), nil
}

func (m *MemoryInterests) list(keep func(models.Interest) bool) []models.Interest {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Interest
	for i := len(m.interests) - 1; i >= 0; i-- {
		if keep(m.interests[i]) {
			out = append(out, m.interests[i])
		}
	}
	return out
}

type MemoryNotifications struct {
	mu    sync.Mutex
	clock *clock
	items []models.Notification
}

func (m *MemoryNotifications) Create(ctx context.Context, n models.NewNotification) (models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	created := models.Notification{
		ID:          len(m.items) + 1,
		UserID:      n.UserID,
		Type:        n.Type,
		Title:       n.Title,
		Message:     n.Message,
		SenderID:    n.SenderID,
		RedirectURL: n.RedirectURL,
		CreatedAt:   m.clock.now(),
	}
	m.items = append(m.items, created)
	return created, nil
}

func (m *MemoryNotifications) ListForUser(ctx context.Context, userID int, limit int) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Notification
	for i := len(m.items) - 1; i >= 0 && len(out) < limit; i-- {
		if m.items[i].UserID == userID {
			out = append(out, m.items[i])
		}
	}
	return out, nil
}

func (m *MemoryNotifications) UnreadCount(ctx context.Context, userID int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, n := range m.items {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *MemoryNotifications) MarkRead(ctx context.Context, notificationID int, userID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == notificationID && m.items[i].UserID == userID {
			m.items[i].IsRead = true
			return nil
		}
	}
	return repositories.ErrNotificationNotFound
}

func (m *MemoryNotifications) MarkAllRead(ctx context.Context, userID int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var changed int64
	for i := range m.items {
		if m.items[i].UserID == userID && !m.items[i].IsRead {
			m.items[i].IsRead = true
			changed++
		}
	}
	return changed, nil
}

type MemoryTickets struct {
	mu      sync.Mutex
	clock   *clock
	nextID  int
	entryID int
	byID    map[int]*models.SupportTicket
}

func (m *MemoryTickets) Create(ctx context.Context, userID int, subject string, category string, first models.ThreadEntry) (models.SupportTicket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.entryID++
	now := m.clock.now()
	first.ID = m.entryID
	first.CreatedAt = now
	ticket := &models.SupportTicket{
		ID:            m.nextID,
		UserID:        userID,
		Subject:       subject,
		Category:      category,
		Status:        models.TicketOpen,
		CreatedAt:     now,
		LastUpdatedAt: now,
		Thread:        []models.ThreadEntry{first},
	}
	m.byID[ticket.ID] = ticket
	return copyTicket(ticket), nil
}

func (m *MemoryTickets) Get(ctx context.Context, ticketID int) (models.SupportTicket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ticket, ok := m.byID[ticketID]
	if !ok {
		return models.SupportTicket{}, repositories.ErrTicketNotFound
	}
	return copyTicket(ticket), nil
}

func (m *MemoryTickets) ListForUser(ctx context.Context, userID int) ([]models.SupportTicket, error) {
	return m.list(func(t *models.SupportTicket) bool { return t.UserID == userID }), nil
}

func (m *MemoryTickets) ListAll(ctx context.Context) ([]models.SupportTicket, error) {
	return m.list(func(*models.SupportTicket) bool { return true }), nil
}

func (m *MemoryTickets) list(keep func(*models.SupportTicket) bool) []models.SupportTicket {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.SupportTicket
	for _, t := range m.byID {
		if keep(t) {
			out = append(out, copyTicket(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastUpdatedAt.After(out[j].LastUpdatedAt) })
	return out
}

func (m *MemoryTickets) AppendEntry(ctx context.Context, ticketID int, entry models.ThreadEntry, transition func(models.TicketStatus) models.TicketStatus) (models.SupportTicket, models.ThreadEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ticket, ok := m.byID[ticketID]
	if !ok {
		return models.SupportTicket{}, models.ThreadEntry{}, repositories.ErrTicketNotFound
	}
	m.entryID++
	entry.ID = m.entryID
	entry.CreatedAt = m.clock.now()
	ticket.Thread = append(ticket.Thread, entry)
	ticket.Status = transition(ticket.Status)
	ticket.LastUpdatedAt = entry.CreatedAt
	return copyTicket(ticket), entry, nil
}

func (m *MemoryTickets) SetStatus(ctx context.Context, ticketID int, status models.TicketStatus) (models.SupportTicket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ticket, ok := m.byID[ticketID]
	if !ok {
		return models.SupportTicket{}, repositories.ErrTicketNotFound
	}
	ticket.Status = status
	ticket.LastUpdatedAt = m.clock.now()
	return copyTicket(ticket), nil
}

func copyTicket(t *models.SupportTicket) models.SupportTicket {
	out := *t
	out.Thread = append([]models.ThreadEntry(nil), t.Thread...)
	return out
}

var (
	_ repositories.ConversationRepository = (*MemoryConversations)(nil)
	_ repositories.MessageRepository      = (*MemoryMessages)(nil)
	_ repositories.InterestRepository     = (*MemoryInterests)(nil)
	_ repositories.NotificationRepository = (*MemoryNotifications)(nil)
	_ repositories.TicketRepository       = (*MemoryTickets)(nil)
)
