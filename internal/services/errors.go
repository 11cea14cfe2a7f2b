package services

import (
	"errors"

	"github.com/hackwithroshan/atootbandhan-sub000/internal/models"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/repositories"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/rooms"
)

var (
	ErrInvalidUser           = errors.New("invalid user id")
	ErrSelfInterest          = errors.New("cannot send interest to yourself")
	ErrInterestAlreadySent   = repositories.ErrInterestExists
	ErrInvalidInterestStatus = errors.New("status must be accepted or declined")
	ErrInterestFinal         = errors.New("interest has already been answered")
	ErrEmptyText             = errors.New("text is required")
	ErrSelfMessage           = errors.New("cannot message yourself")
	ErrMissingTicketFields   = errors.New("subject, category and description are required")
	ErrMissingNotification   = errors.New("title and message are required")
	ErrNotParticipant        = errors.New("not a participant")
	ErrForbidden             = errors.New("not allowed")
	ErrAdminOnly             = errors.New("admin role required")
)

// Kind classifies an error for the transport layers.
type Kind string

const (
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"
	KindForbidden  Kind = "forbidden"
	KindNotFound   Kind = "not_found"
	KindInternal   Kind = "internal"
)

var validationErrors = []error{
	ErrInvalidUser,
	ErrSelfInterest,
	ErrInterestAlreadySent,
	ErrInvalidInterestStatus,
	ErrEmptyText,
	ErrSelfMessage,
	ErrMissingTicketFields,
	ErrMissingNotification,
	models.ErrInvalidSender,
	models.ErrInvalidAttachment,
	models.ErrInvalidStatus,
	rooms.ErrInvalidPairKey,
	repositories.ErrSelfConversation,
}

var notFoundErrors = []error{
	repositories.ErrConversationNotFound,
	repositories.ErrInterestNotFound,
	repositories.ErrTicketNotFound,
	repositories.ErrNotificationNotFound,
}

// Classify maps an error returned by this package onto a Kind.
func Classify(err error) Kind {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return KindValidation
		}
	}
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return KindNotFound
		}
	}
	switch {
	case errors.Is(err, ErrInterestFinal):
		return KindConflict
	case errors.Is(err, ErrNotParticipant), errors.Is(err, ErrForbidden), errors.Is(err, ErrAdminOnly):
		return KindForbidden
	}
	return KindInternal
}
