package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hackwithroshan/atootbandhan-sub000/internal/mocks"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/models"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/rooms"
)

func newTicket(t *testing.T, f *fixture, owner models.Identity) models.SupportTicket {
	t.Helper()
	ticket, err := f.tickets.Create(context.Background(), owner, NewTicket{
		Subject:     "Payment failed",
		Category:    "billing",
		Description: "My card was charged twice",
	})
	require.NoError(t, err)
	return ticket
}

func TestTicketLifecycle(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()

	ticket := newTicket(t, f, alice)
	assert.Equal(t, models.TicketOpen, ticket.Status)
	require.Len(t, ticket.Thread, 1)
	assert.Equal(t, models.SenderUser, ticket.Thread[0].Sender)

	ticket, entry, err := f.tickets.PostMessage(ctx, admin, ticket.ID, TicketMessage{
		Sender: models.SenderAdmin,
		Text:   "Looking into it",
	}, models.ChannelLive)
	require.NoError(t, err)
	assert.Equal(t, models.TicketInProgress, ticket.Status)
	assert.Equal(t, admin.UserID, entry.AuthorID)

	received := f.bus.Named(models.EventMessageReceived)
	require.Len(t, received, 1)
	assert.Equal(t, rooms.Ticket(ticket.ID), received[0].Room)
	assert.Equal(t, entry.ID, received[0].Payload.(models.TicketMessageEvent).Message.ID)

	ticket, _, err = f.tickets.PostMessage(ctx, alice, ticket.ID, TicketMessage{
		Sender: models.SenderUser,
		Text:   "Any update?",
	}, models.ChannelFallback)
	require.NoError(t, err)
	assert.Equal(t, models.TicketAwaitingUserReply, ticket.Status)

	ticket, err = f.tickets.SetStatus(ctx, admin, ticket.ID, models.TicketResolved)
	require.NoError(t, err)
	assert.Equal(t, models.TicketResolved, ticket.Status)

	ticket, _, err = f.tickets.PostMessage(ctx, alice, ticket.ID, TicketMessage{
		Sender: models.SenderUser,
		Text:   "Still broken",
	}, models.ChannelLive)
	require.NoError(t, err)
	assert.Equal(t, models.TicketOpen, ticket.Status)

	stored, err := f.tickets.Get(ctx, alice, ticket.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Thread, 4)
	for i := 1; i < len(stored.Thread); i++ {
		assert.True(t, stored.Thread[i].CreatedAt.After(stored.Thread[i-1].CreatedAt))
	}
}

func TestTicketUpdatesReachAdminFeedAndOwner(t *testing.T) {
	f := newFixture(nil)
	ticket := newTicket(t, f, alice)

	_, _, err := f.tickets.PostMessage(context.Background(), admin, ticket.ID, TicketMessage{
		Sender: models.SenderAdmin,
		Text:   "hello",
	}, models.ChannelLive)
	require.NoError(t, err)

	var feed, owner int
	for _, e := range f.bus.Named(models.EventTicketUpdated) {
		if e.Room == rooms.AdminTicketFeed {
			feed++
		}
		if e.UserID == alice.UserID {
			owner++
		}
	}
	// one for creation, one for the reply
	assert.Equal(t, 2, feed)
	assert.Equal(t, 2, owner)
}

func TestTicketAccessRules(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	ticket := newTicket(t, f, alice)

	_, err := f.tickets.Get(ctx, bob, ticket.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.tickets.Get(ctx, admin, ticket.ID)
	assert.NoError(t, err)

	_, _, err = f.tickets.PostMessage(ctx, bob, ticket.ID, TicketMessage{Sender: models.SenderUser, Text: "x"}, models.ChannelLive)
	assert.ErrorIs(t, err, ErrForbidden)

	_, _, err = f.tickets.PostMessage(ctx, alice, ticket.ID, TicketMessage{Sender: models.SenderAdmin, Text: "x"}, models.ChannelLive)
	assert.ErrorIs(t, err, ErrAdminOnly)

	_, err = f.tickets.SetStatus(ctx, alice, ticket.ID, models.TicketClosed)
	assert.ErrorIs(t, err, ErrAdminOnly)

	_, err = f.tickets.ListAll(ctx, alice)
	assert.ErrorIs(t, err, ErrAdminOnly)

	all, err := f.tickets.ListAll(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	mine, err := f.tickets.ListMine(ctx, bob)
	require.NoError(t, err)
	assert.NotNil(t, mine)
	assert.Empty(t, mine)
}

func TestTicketValidation(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()

	_, err := f.tickets.Create(ctx, alice, NewTicket{Subject: "s", Category: " "})
	assert.ErrorIs(t, err, ErrMissingTicketFields)

	_, err = f.tickets.Create(ctx, alice, NewTicket{
		Subject:     "s",
		Category:    "c",
		Description: "d",
		Attachment:  &models.Attachment{URL: "not a url", Name: "x", Kind: models.AttachmentImage},
	})
	assert.ErrorIs(t, err, models.ErrInvalidAttachment)

	ticket := newTicket(t, f, alice)
	_, _, err = f.tickets.PostMessage(ctx, alice, ticket.ID, TicketMessage{Sender: models.SenderUser}, models.ChannelLive)
	assert.ErrorIs(t, err, ErrEmptyText)

	_, _, err = f.tickets.PostMessage(ctx, alice, ticket.ID, TicketMessage{Sender: "robot", Text: "x"}, models.ChannelLive)
	assert.ErrorIs(t, err, models.ErrInvalidSender)

	_, err = f.tickets.SetStatus(ctx, admin, ticket.ID, "archived")
	assert.ErrorIs(t, err, models.ErrInvalidStatus)

	_, err = f.tickets.SetStatus(ctx, admin, 404, models.TicketClosed)
	assert.Equal(t, KindNotFound, Classify(err))
}

func TestTicketAttachmentOnlyReply(t *testing.T) {
	f := newFixture(nil)
	ticket := newTicket(t, f, alice)

	_, entry, err := f.tickets.PostMessage(context.Background(), alice, ticket.ID, TicketMessage{
		Sender:     models.SenderUser,
		Attachment: &models.Attachment{URL: "https://cdn.example.com/a.png", Name: "a.png", Kind: models.AttachmentImage},
	}, models.ChannelLive)
	require.NoError(t, err)
	require.NotNil(t, entry.Attachment)
	assert.Equal(t, "a.png", entry.Attachment.Name)
}

func TestPostMessageRepositoryError(t *testing.T) {
	repo := new(mocks.TicketRepositoryMock)
	bus := &mocks.Broadcaster{}
	svc := NewTicketService(repo, bus)

	repo.On("AppendEntry", mock.Anything, 3, mock.Anything).Return(nil, nil, assert.AnError).Once()

	_, _, err := svc.PostMessage(context.Background(), admin, 3, TicketMessage{Sender: models.SenderAdmin, Text: "hi"}, models.ChannelLive)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, KindInternal, Classify(err))
	assert.Empty(t, bus.Emissions())
	repo.AssertExpectations(t)
}

func TestPostMessageClosedTicketStaysClosedForAdmin(t *testing.T) {
	repo := new(mocks.TicketRepositoryMock)
	svc := NewTicketService(repo, &mocks.Broadcaster{})

	repo.On("AppendEntry", mock.Anything, 3, mock.Anything).
		Return(models.SupportTicket{ID: 3, UserID: 1, Status: models.TicketClosed}, models.ThreadEntry{ID: 9}, nil).Once()

	ticket, _, err := svc.PostMessage(context.Background(), admin, 3, TicketMessage{Sender: models.SenderAdmin, Text: "note"}, models.ChannelLive)
	require.NoError(t, err)
	assert.Equal(t, models.TicketClosed, ticket.Status)
	repo.AssertExpectations(t)
}
