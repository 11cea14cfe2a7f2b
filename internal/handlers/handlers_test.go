package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/hackwithroshan/atootbandhan-sub000/internal/middleware"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/mocks"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/models"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/services"
)

type testEnv struct {
	store     *mocks.Store
	bus       *mocks.Broadcaster
	router    *gin.Engine
	tickets   *services.TicketService
	messenger *services.Messenger
	notifier  *services.Notifier
}

// setupRouter mounts every fallback route. The caller is chosen per request
// with X-Test-User and X-Test-Role.
func setupRouter() *testEnv {
	gin.SetMode(gin.TestMode)
	store := mocks.NewStore()
	bus := &mocks.Broadcaster{}
	notifier := services.NewNotifier(store.Notifications, bus, 50)
	messenger := services.NewMessenger(store.Conversations, store.Messages, notifier, nil, bus)
	interests := services.NewInterestService(store.Interests, messenger, notifier, nil)
	tickets := services.NewTicketService(store.Tickets, bus)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		id, _ := strconv.Atoi(c.GetHeader("X-Test-User"))
		identity := models.Identity{UserID: id, Role: models.Role(c.GetHeader("X-Test-Role"))}
		c.Set(middleware.UserIDKey, identity.UserID)
		c.Set(middleware.IdentityKey, identity)
		c.Next()
	})

	th := NewTicketHandler(tickets, nil)
	ih := NewInterestHandler(interests)
	ch := NewConversationHandler(messenger)
	nh := NewNotificationHandler(notifier, nil)

	r.POST("/tickets", th.CreateTicket)
	r.GET("/tickets", th.ListMyTickets)
	r.GET("/tickets/:ticket_id", th.GetTicket)
	r.POST("/tickets/:ticket_id/replies", th.PostReply)
	r.GET("/admin/tickets", th.ListAllTickets)
	r.PATCH("/admin/tickets/:ticket_id/status", th.UpdateStatus)
	r.POST("/admin/notifications", nh.Announce)

	r.GET("/interests", ih.ListInterests)
	r.POST("/interests", ih.SendInterest)
	r.PATCH("/interests/:interest_id", ih.UpdateInterest)

	r.GET("/conversations", ch.ListConversations)
	r.GET("/conversations/:conversation_id/messages", ch.GetConversationMessages)
	r.GET("/messages/:partner_id", ch.GetMessagesWithPartner)
	r.POST("/messages/:partner_id", ch.SendMessage)

	r.GET("/notifications", nh.ListNotifications)
	r.GET("/notifications/unread-count", nh.UnreadCount)
	r.PATCH("/notifications/read-all", nh.MarkAllRead)
	r.PATCH("/notifications/:notification_id/read", nh.MarkRead)

	return &testEnv{store: store, bus: bus, router: r, tickets: tickets, messenger: messenger, notifier: notifier}
}

type caller struct {
	id   int
	role models.Role
}

var (
	asha  = caller{1, models.RoleUser}
	ravi  = caller{2, models.RoleUser}
	staff = caller{9, models.RoleAdmin}
)

func (e *testEnv) do(t *testing.T, who caller, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-User", strconv.Itoa(who.id))
	req.Header.Set("X-Test-Role", string(who.role))
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

type errorBody struct {
	Error  string `json:"error"`
	Status string `json:"status"`
}

func requireError(t *testing.T, rec *httptest.ResponseRecorder, code int, status string) errorBody {
	t.Helper()
	require.Equal(t, code, rec.Code, rec.Body.String())
	body := decodeBody[errorBody](t, rec)
	require.Equal(t, status, body.Status)
	return body
}
