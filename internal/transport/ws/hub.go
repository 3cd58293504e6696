package ws

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"datespark/internal/lib/logger/sl"
	"datespark/internal/metrics"
)

type directMessage struct {
	username string
	data     []byte
}

type presenceQuery struct {
	reply chan []string
}

// Hub keeps the set of active clients grouped by username. A user may hold
// several connections at once (multiple tabs); presence changes are announced
// only when the first connection opens or the last one closes.
type Hub struct {
	log *slog.Logger

	// clients maps username -> connection id -> client.
	clients map[string]map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client
	direct     chan directMessage
	presence   chan presenceQuery
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		log:        log,
		clients:    make(map[string]map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		direct:     make(chan directMessage, 64),
		presence:   make(chan presenceQuery),
	}
}

// Run processes hub events. Must be called in a dedicated goroutine;
// it owns the clients map, so no locking is needed elsewhere.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for _, conns := range h.clients {
				for _, client := range conns {
					close(client.send)
				}
			}
			h.clients = make(map[string]map[uuid.UUID]*Client)
			return

		case client := <-h.register:
			conns, ok := h.clients[client.username]
			if !ok {
				conns = make(map[uuid.UUID]*Client)
				h.clients[client.username] = conns
			}
			conns[client.id] = client
			metrics.WSConnections.Inc()
			h.log.Debug("ws client connected",
				slog.String("username", client.username),
				slog.String("conn_id", client.id.String()),
			)
			if len(conns) == 1 {
				h.announcePresence(client.username, "online")
			}

		case client := <-h.unregister:
			conns, ok := h.clients[client.username]
			if !ok {
				continue
			}
			if _, ok := conns[client.id]; !ok {
				continue
			}
			delete(conns, client.id)
			close(client.send)
			metrics.WSConnections.Dec()
			h.log.Debug("ws client disconnected",
				slog.String("username", client.username),
				slog.String("conn_id", client.id.String()),
			)
			if len(conns) == 0 {
				delete(h.clients, client.username)
				h.announcePresence(client.username, "offline")
			}

		case msg := <-h.direct:
			for _, client := range h.clients[msg.username] {
				select {
				case client.send <- msg.data:
				default:
					// slow consumer, drop the message
					h.log.Warn("ws send buffer full, dropping message",
						slog.String("username", client.username),
					)
				}
			}

		case q := <-h.presence:
			online := make([]string, 0, len(h.clients))
			for username := range h.clients {
				online = append(online, username)
			}
			q.reply <- online
		}
	}
}

// SendToUser delivers an event to every open connection of the given user.
// It is a no-op when the user is offline.
func (h *Hub) SendToUser(username string, event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error("failed to marshal ws event", sl.Err(err))
		return
	}
	h.direct <- directMessage{username: username, data: data}
}

// OnlineUsers returns the usernames with at least one open connection.
func (h *Hub) OnlineUsers() []string {
	q := presenceQuery{reply: make(chan []string, 1)}
	h.presence <- q
	return <-q.reply
}

func (h *Hub) announcePresence(username, status string) {
	event, err := NewEvent(EventTypePresence, PresencePayload{
		Username: username,
		Status:   status,
	})
	if err != nil {
		h.log.Error("failed to build presence event", sl.Err(err))
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error("failed to marshal presence event", sl.Err(err))
		return
	}
	for name, conns := range h.clients {
		if name == username {
			continue
		}
		for _, client := range conns {
			select {
			case client.send <- data:
			default:
				h.log.Warn("ws send buffer full, dropping presence",
					slog.String("username", name),
				)
			}
		}
	}
}
