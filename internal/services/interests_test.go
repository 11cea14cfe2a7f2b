package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hackwithroshan/atootbandhan-sub000/internal/mocks"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/models"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/repositories"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/rooms"
)

func TestSendInterestToSelf(t *testing.T) {
	f := newFixture(nil)
	_, err := f.interests.Send(context.Background(), 1, 1)
	require.ErrorIs(t, err, ErrSelfInterest)
	assert.Equal(t, KindValidation, Classify(err))
}

func TestSendInterestDuplicate(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()

	_, err := f.interests.Send(ctx, 1, 2)
	require.NoError(t, err)

	_, err = f.interests.Send(ctx, 1, 2)
	require.ErrorIs(t, err, ErrInterestAlreadySent)
	assert.Equal(t, "interest already sent", err.Error())

	list, err := f.interests.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list.Sent, 1)

	// the reverse direction is a separate interest
	_, err = f.interests.Send(ctx, 2, 1)
	require.NoError(t, err)
}

func TestSendInterestNotifiesRecipient(t *testing.T) {
	dir := new(mocks.DirectoryMock)
	dir.On("BulkUsers", mock.Anything, []int{1}).Return([]models.UserProfile{{ID: 1, Name: "Asha"}}, nil).Once()
	f := newFixture(dir)

	interest, err := f.interests.Send(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, models.InterestPending, interest.Status)

	list, err := f.notifier.List(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.NotificationInterestReceived, list[0].Type)
	assert.Equal(t, "Asha has sent you an interest.", list[0].Message)
	require.NotNil(t, list[0].SenderID)
	assert.Equal(t, 1, *list[0].SenderID)

	pushed := f.bus.Named(models.EventNewNotification)
	require.Len(t, pushed, 1)
	assert.Equal(t, rooms.User(2), pushed[0].Room)
	dir.AssertExpectations(t)
}

func TestAcceptInterestOpensConversation(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()

	interest, err := f.interests.Send(ctx, 1, 2)
	require.NoError(t, err)

	updated, err := f.interests.UpdateStatus(ctx, interest.ID, 2, models.InterestAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.InterestAccepted, updated.Status)

	assert.Equal(t, 1, f.store.Conversations.Len())
	_, err = f.store.Conversations.FindByPair(ctx, 2, 1)
	require.NoError(t, err)

	list, err := f.notifier.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.NotificationInterestAccepted, list[0].Type)
	assert.Equal(t, "/messages/2", *list[0].RedirectURL)

	reached := usersReached(f.bus.Named(models.EventConversationUpdated))
	assert.True(t, reached[1])
	assert.True(t, reached[2])
}

func TestAcceptInterestReusesExistingConversation(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()

	_, err := f.messenger.SendPrivateMessage(ctx, 2, 1, "hello first")
	require.NoError(t, err)
	before := len(f.bus.Named(models.EventConversationUpdated))

	interest, err := f.interests.Send(ctx, 1, 2)
	require.NoError(t, err)
	_, err = f.interests.UpdateStatus(ctx, interest.ID, 2, models.InterestAccepted)
	require.NoError(t, err)

	assert.Equal(t, 1, f.store.Conversations.Len())
	assert.Len(t, f.bus.Named(models.EventConversationUpdated), before)
}

func TestUpdateStatusIsIdempotentThenFinal(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()

	interest, err := f.interests.Send(ctx, 1, 2)
	require.NoError(t, err)
	_, err = f.interests.UpdateStatus(ctx, interest.ID, 2, models.InterestAccepted)
	require.NoError(t, err)

	again, err := f.interests.UpdateStatus(ctx, interest.ID, 2, models.InterestAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.InterestAccepted, again.Status)

	count, err := f.notifier.UnreadCount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = f.interests.UpdateStatus(ctx, interest.ID, 2, models.InterestDeclined)
	require.ErrorIs(t, err, ErrInterestFinal)
	assert.Equal(t, KindConflict, Classify(err))
}

func TestUpdateStatusDeclineDoesNotOpenConversation(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()

	interest, err := f.interests.Send(ctx, 1, 2)
	require.NoError(t, err)
	_, err = f.interests.UpdateStatus(ctx, interest.ID, 2, models.InterestDeclined)
	require.NoError(t, err)

	assert.Equal(t, 0, f.store.Conversations.Len())
	count, err := f.notifier.UnreadCount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestUpdateStatusRejects(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	interest, err := f.interests.Send(ctx, 1, 2)
	require.NoError(t, err)

	_, err = f.interests.UpdateStatus(ctx, interest.ID, 3, models.InterestAccepted)
	assert.ErrorIs(t, err, ErrNotParticipant)
	assert.Equal(t, KindForbidden, Classify(err))

	_, err = f.interests.UpdateStatus(ctx, interest.ID, 2, models.InterestPending)
	assert.ErrorIs(t, err, ErrInvalidInterestStatus)

	_, err = f.interests.UpdateStatus(ctx, 404, 2, models.InterestAccepted)
	assert.Equal(t, KindNotFound, Classify(err))
}

func TestUpdateStatusLosesRace(t *testing.T) {
	repo := new(mocks.InterestRepositoryMock)
	f := newFixture(nil)
	svc := NewInterestService(repo, f.messenger, f.notifier, nil)

	pending := models.Interest{ID: 7, FromUserID: 1, ToUserID: 2, Status: models.InterestPending}
	repo.On("Get", mock.Anything, 7).Return(pending, nil).Once()
	repo.On("Transition", mock.Anything, 7, models.InterestPending, models.InterestAccepted).
		Return(nil, repositories.ErrInterestNotPending).Once()

	_, err := svc.UpdateStatus(context.Background(), 7, 2, models.InterestAccepted)
	assert.ErrorIs(t, err, ErrInterestFinal)
	assert.Equal(t, 0, f.store.Conversations.Len())
	repo.AssertExpectations(t)
}
