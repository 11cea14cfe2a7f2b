package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackwithroshan/atootbandhan-sub000/internal/models"
)

func TestInterestFlow(t *testing.T) {
	e := setupRouter()

	rec := e.do(t, asha, http.MethodPost, "/interests", map[string]int{"to_user_id": 2})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	interest := decodeBody[models.Interest](t, rec)
	assert.Equal(t, models.InterestPending, interest.Status)

	body := requireError(t, e.do(t, asha, http.MethodPost, "/interests", map[string]int{"to_user_id": 2}), http.StatusBadRequest, "validation")
	assert.Equal(t, "interest already sent", body.Error)

	rec = e.do(t, ravi, http.MethodGet, "/interests", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[models.InterestList](t, rec)
	assert.Len(t, list.Received, 1)
	assert.Empty(t, list.Sent)

	path := fmt.Sprintf("/interests/%d", interest.ID)
	rec = e.do(t, ravi, http.MethodPatch, path, map[string]string{"status": "accepted"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.InterestAccepted, decodeBody[models.Interest](t, rec).Status)
	assert.Equal(t, 1, e.store.Conversations.Len())

	requireError(t, e.do(t, ravi, http.MethodPatch, path, map[string]string{"status": "declined"}), http.StatusConflict, "conflict")
	requireError(t, e.do(t, staff, http.MethodPatch, path, map[string]string{"status": "accepted"}), http.StatusForbidden, "forbidden")
	requireError(t, e.do(t, ravi, http.MethodPatch, "/interests/77", map[string]string{"status": "accepted"}), http.StatusNotFound, "not_found")
}

func TestSendInterestValidation(t *testing.T) {
	e := setupRouter()
	requireError(t, e.do(t, asha, http.MethodPost, "/interests", map[string]int{"to_user_id": 1}), http.StatusBadRequest, "validation")
	requireError(t, e.do(t, asha, http.MethodPost, "/interests", map[string]int{}), http.StatusBadRequest, "validation")
}
