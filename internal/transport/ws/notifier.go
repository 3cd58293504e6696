package ws

import (
	"log/slog"

	"datespark/internal/lib/logger/sl"
)

// HubNotifier pushes photo moderation results to the owner's open
// WebSocket connections.
type HubNotifier struct {
	hub *Hub
	log *slog.Logger
}

func NewHubNotifier(hub *Hub, log *slog.Logger) *HubNotifier {
	return &HubNotifier{hub: hub, log: log}
}

func (n *HubNotifier) NotifyPhotoApproved(username, photoURL string) {
	n.notify(EventTypePhotoApproved, username, photoURL)
}

func (n *HubNotifier) NotifyPhotoRejected(username, photoURL string) {
	n.notify(EventTypePhotoRejected, username, photoURL)
}

func (n *HubNotifier) notify(eventType, username, photoURL string) {
	event, err := NewEvent(eventType, PhotoModerationPayload{PhotoURL: photoURL})
	if err != nil {
		n.log.Error("failed to build moderation event", sl.Err(err))
		return
	}
	n.hub.SendToUser(username, event)
}
