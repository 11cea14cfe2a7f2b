package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hackwithroshan/atootbandhan-sub000/internal/models"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/repositories"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/rooms"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		err  error
		kind Kind
	}{
		{ErrSelfInterest, KindValidation},
		{ErrInterestAlreadySent, KindValidation},
		{models.ErrInvalidAttachment, KindValidation},
		{rooms.ErrInvalidPairKey, KindValidation},
		{fmt.Errorf("open conversation: %w", repositories.ErrSelfConversation), KindValidation},
		{repositories.ErrTicketNotFound, KindNotFound},
		{repositories.ErrNotificationNotFound, KindNotFound},
		{ErrInterestFinal, KindConflict},
		{ErrNotParticipant, KindForbidden},
		{ErrAdminOnly, KindForbidden},
		{assert.AnError, KindInternal},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.kind, Classify(tc.err), tc.err.Error())
	}
}
