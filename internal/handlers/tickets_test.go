package handlers

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackwithroshan/atootbandhan-sub000/internal/models"
)

func createTicket(t *testing.T, e *testEnv, who caller) models.SupportTicket {
	t.Helper()
	rec := e.do(t, who, http.MethodPost, "/tickets", map[string]any{
		"subject":     "Profile not visible",
		"category":    "account",
		"description": "Nobody can find my profile",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[models.SupportTicket](t, rec)
}

func TestCreateTicket(t *testing.T) {
	e := setupRouter()
	ticket := createTicket(t, e, asha)

	assert.Equal(t, models.TicketOpen, ticket.Status)
	require.Len(t, ticket.Thread, 1)
	assert.Equal(t, "Nobody can find my profile", ticket.Thread[0].Text)

	rec := e.do(t, asha, http.MethodPost, "/tickets", map[string]any{"subject": "x"})
	requireError(t, rec, http.StatusBadRequest, "validation")
}

func TestFallbackReplyTransitions(t *testing.T) {
	e := setupRouter()
	ticket := createTicket(t, e, asha)
	path := fmt.Sprintf("/tickets/%d/replies", ticket.ID)

	rec := e.do(t, staff, http.MethodPost, path, map[string]any{"text": "Checking"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	reply := decodeBody[struct {
		Ticket  models.SupportTicket `json:"ticket"`
		Message models.ThreadEntry   `json:"message"`
	}](t, rec)
	assert.Equal(t, models.TicketInProgress, reply.Ticket.Status)
	assert.Equal(t, models.SenderAdmin, reply.Message.Sender)

	rec = e.do(t, asha, http.MethodPost, path, map[string]any{"text": "Thanks"})
	require.Equal(t, http.StatusCreated, rec.Code)
	reply = decodeBody[struct {
		Ticket  models.SupportTicket `json:"ticket"`
		Message models.ThreadEntry   `json:"message"`
	}](t, rec)
	assert.Equal(t, models.TicketAwaitingUserReply, reply.Ticket.Status)

	rec = e.do(t, ravi, http.MethodPost, path, map[string]any{"text": "hijack"})
	requireError(t, rec, http.StatusForbidden, "forbidden")

	rec = e.do(t, asha, http.MethodPost, path, map[string]any{"sender": "admin", "text": "spoof"})
	requireError(t, rec, http.StatusForbidden, "forbidden")

	rec = e.do(t, asha, http.MethodPost, path, map[string]any{"sender": "bot", "text": "x"})
	requireError(t, rec, http.StatusBadRequest, "validation")

	rec = e.do(t, asha, http.MethodPost, "/tickets/abc/replies", map[string]any{"text": "x"})
	requireError(t, rec, http.StatusBadRequest, "validation")

	rec = e.do(t, asha, http.MethodPost, "/tickets/404/replies", map[string]any{"text": "x"})
	requireError(t, rec, http.StatusNotFound, "not_found")
}

func TestTicketVisibility(t *testing.T) {
	e := setupRouter()
	ticket := createTicket(t, e, asha)
	path := fmt.Sprintf("/tickets/%d", ticket.ID)

	assert.Equal(t, http.StatusOK, e.do(t, asha, http.MethodGet, path, nil).Code)
	assert.Equal(t, http.StatusOK, e.do(t, staff, http.MethodGet, path, nil).Code)
	requireError(t, e.do(t, ravi, http.MethodGet, path, nil), http.StatusForbidden, "forbidden")

	rec := e.do(t, ravi, http.MethodGet, "/tickets", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"tickets":[]}`, rec.Body.String())

	requireError(t, e.do(t, asha, http.MethodGet, "/admin/tickets", nil), http.StatusForbidden, "forbidden")
	rec = e.do(t, staff, http.MethodGet, "/admin/tickets", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[map[string][]models.SupportTicket](t, rec)
	assert.Len(t, list["tickets"], 1)
}

func TestAdminStatusChange(t *testing.T) {
	e := setupRouter()
	ticket := createTicket(t, e, asha)
	path := fmt.Sprintf("/admin/tickets/%d/status", ticket.ID)

	rec := e.do(t, staff, http.MethodPatch, path, map[string]string{"status": "resolved"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.TicketResolved, decodeBody[models.SupportTicket](t, rec).Status)

	requireError(t, e.do(t, staff, http.MethodPatch, path, map[string]string{"status": "archived"}), http.StatusBadRequest, "validation")
	requireError(t, e.do(t, asha, http.MethodPatch, path, map[string]string{"status": "closed"}), http.StatusForbidden, "forbidden")

	// a user reply reopens a resolved ticket
	rec = e.do(t, asha, http.MethodPost, fmt.Sprintf("/tickets/%d/replies", ticket.ID), map[string]any{"text": "not fixed"})
	require.Equal(t, http.StatusCreated, rec.Code)
	stored, err := e.store.Tickets.Get(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TicketOpen, stored.Status)
}
