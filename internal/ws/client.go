package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/hackwithroshan/atootbandhan-sub000/internal/models"
)

const (
	sendBuffer     = 64
	maxMessageSize = 64 << 10
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
)

// Client is one live websocket connection. The hub owns rooms and send; the
// write pump is the only goroutine writing to conn.
type Client struct {
	conn     *websocket.Conn
	send     chan []byte
	identity models.Identity
	info     ConnInfo
	limiter  *rate.Limiter
	rooms    map[string]struct{}
}

func newClient(conn *websocket.Conn, identity models.Identity, info ConnInfo, limiter *rate.Limiter) *Client {
	return &Client{
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		identity: identity,
		info:     info,
		limiter:  limiter,
		rooms:    make(map[string]struct{}),
	}
}

// Identity is the caller resolved at handshake.
func (c *Client) Identity() models.Identity {
	return c.identity
}

// enqueue must be called with the hub lock held.
func (c *Client) enqueue(frame []byte) bool {
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *Client) writePump(writeTimeout time.Duration) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump blocks until the connection fails and returns the close reason.
// Every frame is dispatched on its own goroutine with a context that outlives
// the connection.
func (c *Client) readPump(ctx context.Context, hub *Hub, gateway *Gateway) error {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	detached := context.WithoutCancel(ctx)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return err
		}
		var env models.Envelope
		if err := json.Unmarshal(data, &env); err != nil || env.Event == "" {
			hub.Send(c, models.EventMessageError, models.ErrorEvent{Context: "envelope", Reason: "malformed frame"})
			continue
		}
		if c.limiter != nil && !c.limiter.Allow() {
			hub.Send(c, models.EventMessageError, models.ErrorEvent{Context: env.Event, Reason: "rate limit exceeded"})
			continue
		}
		go gateway.Dispatch(detached, c, env)
	}
}
