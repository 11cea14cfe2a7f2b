package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/hackwithroshan/atootbandhan-sub000/internal/models"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/observability"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/repositories"
)

// InterestService runs the interest lifecycle: pending, then accepted or declined.
type InterestService struct {
	repo      repositories.InterestRepository
	messenger *Messenger
	notifier  *Notifier
	directory Directory
}

// NewInterestService constructs an InterestService.
func NewInterestService(repo repositories.InterestRepository, messenger *Messenger, notifier *Notifier, directory Directory) *InterestService {
	return &InterestService{repo: repo, messenger: messenger, notifier: notifier, directory: directory}
}

// Send records a pending interest from one user to another and notifies the recipient.
func (s *InterestService) Send(ctx context.Context, fromUserID int, toUserID int) (models.Interest, error) {
	if fromUserID == toUserID {
		return models.Interest{}, ErrSelfInterest
	}
	if toUserID <= 0 {
		return models.Interest{}, ErrInvalidUser
	}

	interest, err := s.repo.Create(ctx, fromUserID, toUserID)
	if err != nil {
		return models.Interest{}, err
	}
	observability.IncInteraction("interest_sent")

	sender := displayName(lookupProfiles(ctx, s.directory, fromUserID)[fromUserID])
	s.notifier.notify(ctx, models.NewNotification{
		UserID:      toUserID,
		Type:        models.NotificationInterestReceived,
		Title:       "New Interest Received",
		Message:     fmt.Sprintf("%s has sent you an interest.", sender),
		SenderID:    &fromUserID,
		RedirectURL: strPtr("/interests"),
	}, true)
	return interest, nil
}

// UpdateStatus answers an interest. Only its sender or recipient may call it.
// Re-applying the current status is a no-op; changing an answered interest fails
// with ErrInterestFinal.
func (s *InterestService) UpdateStatus(ctx context.Context, interestID int, actorID int, status models.InterestStatus) (models.Interest, error) {
	if status != models.InterestAccepted && status != models.InterestDeclined {
		return models.Interest{}, ErrInvalidInterestStatus
	}

	interest, err := s.repo.Get(ctx, interestID)
	if err != nil {
		return models.Interest{}, err
	}
	if !interest.IsParticipant(actorID) {
		return models.Interest{}, ErrNotParticipant
	}
	if interest.Status == status {
		return interest, nil
	}
	if interest.Status.Terminal() {
		return models.Interest{}, ErrInterestFinal
	}

	updated, err := s.repo.Transition(ctx, interestID, models.InterestPending, status)
	if err != nil {
		if errors.Is(err, repositories.ErrInterestNotPending) {
			return models.Interest{}, ErrInterestFinal
		}
		return models.Interest{}, err
	}
	observability.IncInteraction("interest_" + string(status))

	if status == models.InterestAccepted {
		s.onAccepted(ctx, updated)
	}
	return updated, nil
}

func (s *InterestService) onAccepted(ctx context.Context, interest models.Interest) {
	accepter := displayName(lookupProfiles(ctx, s.directory, interest.ToUserID)[interest.ToUserID])
	s.notifier.notify(ctx, models.NewNotification{
		UserID:      interest.FromUserID,
		Type:        models.NotificationInterestAccepted,
		Title:       "Interest Accepted",
		Message:     fmt.Sprintf("%s accepted your interest. Say hello!", accepter),
		SenderID:    &interest.ToUserID,
		RedirectURL: strPtr(fmt.Sprintf("/messages/%d", interest.ToUserID)),
	}, true)

	view, created, err := s.messenger.Open(ctx, interest.FromUserID, interest.ToUserID)
	if err != nil {
		// The conversation is created lazily on the first message instead.
		log.Printf("conversation bootstrap failed interest_id=%d: %v", interest.ID, err)
		return
	}
	if created {
		s.messenger.announce(view)
	}
}

// List returns the user's received and sent interests.
func (s *InterestService) List(ctx context.Context, userID int) (models.InterestList, error) {
	received, err := s.repo.ListReceived(ctx, userID)
	if err != nil {
		return models.InterestList{}, err
	}
	sent, err := s.repo.ListSent(ctx, userID)
	if err != nil {
		return models.InterestList{}, err
	}
	if received == nil {
		received = []models.Interest{}
	}
	if sent == nil {
		sent = []models.Interest{}
	}
	return models.InterestList{Received: received, Sent: sent}, nil
}
