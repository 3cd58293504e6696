package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	writeWait    = 10 * time.Second
	pingInterval = 30 * time.Second
	sendBufSize  = 256
)

// Client is a single WebSocket connection owned by one authenticated user.
type Client struct {
	id       uuid.UUID
	username string
	hub      *Hub
	conn     *websocket.Conn
	log      *slog.Logger

	send chan []byte
	done chan struct{}
}

func NewClient(hub *Hub, conn *websocket.Conn, username string, log *slog.Logger) *Client {
	return &Client{
		id:       uuid.New(),
		username: username,
		hub:      hub,
		conn:     conn,
		log:      log,
		send:     make(chan []byte, sendBufSize),
		done:     make(chan struct{}),
	}
}

// ReadPump consumes inbound frames until the connection closes. The socket
// is push-only apart from application-level pings, so anything else is
// answered with an error event.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		var event Event
		if err := wsjson.Read(ctx, c.conn, &event); err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure &&
				status != websocket.StatusGoingAway &&
				!errors.Is(err, context.Canceled) {
				c.log.Debug("ws read error",
					slog.String("username", c.username),
					slog.String("error", err.Error()),
				)
			}
			return
		}

		switch event.Type {
		case EventTypePing:
			c.enqueue(&Event{Type: EventTypePong, Timestamp: time.Now().Unix()})
		default:
			payload, _ := NewEvent(EventTypeError, ErrorPayload{
				Code:    "unsupported_event",
				Message: "this endpoint only accepts ping events",
			})
			if payload != nil {
				c.enqueue(payload)
			}
		}
	}
}

// WritePump flushes queued events to the connection and keeps it alive
// with protocol-level pings.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
		close(c.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case data, ok := <-c.send:
			if !ok {
				c.conn.Close(websocket.StatusNormalClosure, "")
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

func (c *Client) enqueue(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}
