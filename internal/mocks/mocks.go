package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/hackwithroshan/atootbandhan-sub000/internal/models"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/repositories"
)

type ConversationRepositoryMock struct {
	mock.Mock
}

func (m *ConversationRepositoryMock) CreateOrGet(ctx context.Context, userID int, partnerID int) (models.Conversation, bool, error) {
	args := m.Called(ctx, userID, partnerID)
	var conv models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(models.Conversation)
	}
	return conv, args.Bool(1), args.Error(2)
}

func (m *ConversationRepositoryMock) Get(ctx context.Context, conversationID int) (models.Conversation, error) {
	args := m.Called(ctx, conversationID)
	var conv models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(models.Conversation)
	}
	return conv, args.Error(1)
}

func (m *ConversationRepositoryMock) FindByPair(ctx context.Context, userID int, partnerID int) (models.Conversation, error) {
	args := m.Called(ctx, userID, partnerID)
	var conv models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(models.Conversation)
	}
	return conv, args.Error(1)
}

func (m *ConversationRepositoryMock) ListForUser(ctx context.Context, userID int) ([]models.Conversation, error) {
	args := m.Called(ctx, userID)
	var list []models.Conversation
	if val := args.Get(0); val != nil {
		list = val.([]models.Conversation)
	}
	return list, args.Error(1)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) Append(ctx context.Context, conversationID int, senderID int, text string) (models.Message, error) {
	args := m.Called(ctx, conversationID, senderID, text)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) History(ctx context.Context, conversationID int) ([]models.Message, error) {
	args := m.Called(ctx, conversationID)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

type InterestRepositoryMock struct {
	mock.Mock
}

func (m *InterestRepositoryMock) Create(ctx context.Context, fromUserID int, toUserID int) (models.Interest, error) {
	args := m.Called(ctx, fromUserID, toUserID)
	var interest models.Interest
	if val := args.Get(0); val != nil {
		interest = val.(models.Interest)
	}
	return interest, args.Error(1)
}

func (m *InterestRepositoryMock) Get(ctx context.Context, interestID int) (models.Interest, error) {
	args := m.Called(ctx, interestID)
	var interest models.Interest
	if val := args.Get(0); val != nil {
		interest = val.(models.Interest)
	}
	return interest, args.Error(1)
}

func (m *InterestRepositoryMock) Transition(ctx context.Context, interestID int, from models.InterestStatus, to models.InterestStatus) (models.Interest, error) {
	args := m.Called(ctx, interestID, from, to)
	var interest models.Interest
	if val := args.Get(0); val != nil {
		interest = val.(models.Interest)
	}
	return interest, args.Error(1)
}

func (m *InterestRepositoryMock) ListReceived(ctx context.Context, userID int) ([]models.Interest, error) {
	args := m.Called(ctx, userID)
	var list []models.Interest
	if val := args.Get(0); val != nil {
		list = val.([]models.Interest)
	}
	return list, args.Error(1)
}

func (m *InterestRepositoryMock) ListSent(ctx context.Context, userID int) ([]models.Interest, error) {
	args := m.Called(ctx, userID)
	var list []models.Interest
	if val := args.Get(0); val != nil {
		list = val.([]models.Interest)
	}
	return list, args.Error(1)
}

type NotificationRepositoryMock struct {
	mock.Mock
}

func (m *NotificationRepositoryMock) Create(ctx context.Context, n models.NewNotification) (models.Notification, error) {
	args := m.Called(ctx, n)
	var created models.Notification
	if val := args.Get(0); val != nil {
		created = val.(models.Notification)
	}
	return created, args.Error(1)
}

func (m *NotificationRepositoryMock) ListForUser(ctx context.Context, userID int, limit int) ([]models.Notification, error) {
	args := m.Called(ctx, userID, limit)
	var list []models.Notification
	if val := args.Get(0); val != nil {
		list = val.([]models.Notification)
	}
	return list, args.Error(1)
}

func (m *NotificationRepositoryMock) UnreadCount(ctx context.Context, userID int) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *NotificationRepositoryMock) MarkRead(ctx context.Context, notificationID int, userID int) error {
	args := m.Called(ctx, notificationID, userID)
	return args.Error(0)
}

func (m *NotificationRepositoryMock) MarkAllRead(ctx context.Context, userID int) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type TicketRepositoryMock struct {
	mock.Mock
}

func (m *TicketRepositoryMock) Create(ctx context.Context, userID int, subject string, category string, first models.ThreadEntry) (models.SupportTicket, error) {
	args := m.Called(ctx, userID, subject, category, first)
	var ticket models.SupportTicket
	if val := args.Get(0); val != nil {
		ticket = val.(models.SupportTicket)
	}
	return ticket, args.Error(1)
}

func (m *TicketRepositoryMock) Get(ctx context.Context, ticketID int) (models.SupportTicket, error) {
	args := m.Called(ctx, ticketID)
	var ticket models.SupportTicket
	if val := args.Get(0); val != nil {
		ticket = val.(models.SupportTicket)
	}
	return ticket, args.Error(1)
}

func (m *TicketRepositoryMock) ListForUser(ctx context.Context, userID int) ([]models.SupportTicket, error) {
	args := m.Called(ctx, userID)
	var list []models.SupportTicket
	if val := args.Get(0); val != nil {
		list = val.([]models.SupportTicket)
	}
	return list, args.Error(1)
}

func (m *TicketRepositoryMock) ListAll(ctx context.Context) ([]models.SupportTicket, error) {
	args := m.Called(ctx)
	var list []models.SupportTicket
	if val := args.Get(0); val != nil {
		list = val.([]models.SupportTicket)
	}
	return list, args.Error(1)
}

// AppendEntry runs transition against the status configured in the first
// return value so callers can assert on the resulting status.
func (m *TicketRepositoryMock) AppendEntry(ctx context.Context, ticketID int, entry models.ThreadEntry, transition func(models.TicketStatus) models.TicketStatus) (models.SupportTicket, models.ThreadEntry, error) {
	args := m.Called(ctx, ticketID, entry)
	var ticket models.SupportTicket
	if val := args.Get(0); val != nil {
		ticket = val.(models.SupportTicket)
	}
	var stored models.ThreadEntry
	if val := args.Get(1); val != nil {
		stored = val.(models.ThreadEntry)
	}
	if err := args.Error(2); err != nil {
		return ticket, stored, err
	}
	ticket.Status = transition(ticket.Status)
	return ticket, stored, nil
}

func (m *TicketRepositoryMock) SetStatus(ctx context.Context, ticketID int, status models.TicketStatus) (models.SupportTicket, error) {
	args := m.Called(ctx, ticketID, status)
	var ticket models.SupportTicket
	if val := args.Get(0); val != nil {
		ticket = val.(models.SupportTicket)
	}
	return ticket, args.Error(1)
}

type DirectoryMock struct {
	mock.Mock
}

func (m *DirectoryMock) BulkUsers(ctx context.Context, ids []int) ([]models.UserProfile, error) {
	args := m.Called(ctx, ids)
	var users []models.UserProfile
	if val := args.Get(0); val != nil {
		users = val.([]models.UserProfile)
	}
	return users, args.Error(1)
}

var (
	_ repositories.ConversationRepository = (*ConversationRepositoryMock)(nil)
	_ repositories.MessageRepository      = (*MessageRepositoryMock)(nil)
	_ repositories.InterestRepository     = (*InterestRepositoryMock)(nil)
	_ repositories.NotificationRepository = (*NotificationRepositoryMock)(nil)
	_ repositories.TicketRepository       = (*TicketRepositoryMock)(nil)
)
