package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/hackwithroshan/atootbandhan-sub000/internal/middleware"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/observability"
)

// Options tunes every connection accepted by a Handler.
type Options struct {
	EventsPerSecond float64
	EventBurst      int
	WriteTimeout    time.Duration
	AllowedOrigins  []string
}

// Handler upgrades GET /ws and runs the connection until it closes.
type Handler struct {
	hub      *Hub
	gateway  *Gateway
	auth     middleware.TokenValidator
	opts     Options
	upgrader websocket.Upgrader
}

// NewHandler constructs a Handler.
func NewHandler(hub *Hub, gateway *Gateway, auth middleware.TokenValidator, opts Options) *Handler {
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 10 * time.Second
	}
	h := &Handler{hub: hub, gateway: gateway, auth: auth, opts: opts}
	h.upgrader = websocket.Upgrader{CheckOrigin: h.checkOrigin}
	return h
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.opts.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// Handle validates the token, upgrades the connection and blocks on its read loop.
func (h *Handler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("bandhan-realtime/ws").Start(c.Request.Context(), "ws.handshake", trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	token, ok := middleware.BearerToken(c.GetHeader("Authorization"))
	if !ok {
		token = c.Query("token")
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token", "status": "unauthorized"})
		return
	}
	identity, err := h.auth.ValidateToken(ctx, token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token", "status": "unauthorized"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	traceID := span.SpanContext().TraceID().String()
	requestID := observability.RequestIDFromRequest(c.Request)
	info := ConnInfo{
		ConnID:      uuid.NewString(),
		UserID:      identity.UserID,
		DeviceID:    observability.DeviceIDFromRequest(c.Request),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   requestID,
		TraceID:     traceID,
		ConnectedAt: time.Now(),
	}

	var limiter *rate.Limiter
	if h.opts.EventsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(h.opts.EventsPerSecond), h.opts.EventBurst)
	}
	client := newClient(conn, identity, info, limiter)
	h.hub.Register(client)
	go client.writePump(h.opts.WriteTimeout)

	headers := observability.BuildHeaders(requestID, traceID)
	observability.IncWSActive()
	observability.IncWSEvent("in", "ws_connect")
	_ = observability.PublishEvent(ctx, wsRoutingKey, observability.EventEnvelope{
		EventType: "ws_events",
		EventName: "ws_connect",
		Payload:   info.payload("ws_connect", ""),
	}, headers)

	err = client.readPump(ctx, h.hub, h.gateway)

	h.hub.Remove(client)
	observability.DecWSActive()
	if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		observability.IncWSEvent("in", "ws_error")
		_ = observability.PublishEvent(ctx, wsRoutingKey, observability.EventEnvelope{
			EventType: "ws_events",
			EventName: "ws_error",
			Payload:   info.payload("ws_error", err.Error()),
		}, headers)
	}
	observability.IncWSEvent("in", "ws_disconnect")
	_ = observability.PublishEvent(ctx, wsRoutingKey, observability.EventEnvelope{
		EventType: "ws_events",
		EventName: "ws_disconnect",
		Payload:   info.payload("ws_disconnect", err.Error()),
	}, headers)
}
