package ws

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := NewHub(log)

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)

	return hub
}

func connect(hub *Hub, username string) *Client {
	client := NewClient(hub, nil, username, hub.log)
	hub.register <- client
	return client
}

func receive(t *testing.T, client *Client) Event {
	t.Helper()

	select {
	case data, ok := <-client.send:
		require.True(t, ok, "send channel closed")
		var event Event
		require.NoError(t, json.Unmarshal(data, &event))
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestHub_SendToUser(t *testing.T) {
	hub := newTestHub(t)

	alice := connect(hub, "alice")
	bob := connect(hub, "bob")

	// drain the "bob online" broadcast alice received
	receive(t, alice)

	event, err := NewEvent(EventTypePhotoApproved, PhotoModerationPayload{PhotoURL: "http://x/1.png"})
	require.NoError(t, err)
	hub.SendToUser("alice", event)

	got := receive(t, alice)
	assert.Equal(t, EventTypePhotoApproved, got.Type)

	var payload PhotoModerationPayload
	require.NoError(t, json.Unmarshal(got.Payload, &payload))
	assert.Equal(t, "http://x/1.png", payload.PhotoURL)

	select {
	case <-bob.send:
		t.Fatal("bob received an event addressed to alice")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_SendToUser_AllConnections(t *testing.T) {
	hub := newTestHub(t)

	tab1 := connect(hub, "alice")
	tab2 := connect(hub, "alice")

	event, err := NewEvent(EventTypePhotoRejected, PhotoModerationPayload{PhotoURL: "http://x/2.png"})
	require.NoError(t, err)
	hub.SendToUser("alice", event)

	assert.Equal(t, EventTypePhotoRejected, receive(t, tab1).Type)
	assert.Equal(t, EventTypePhotoRejected, receive(t, tab2).Type)
}

func TestHub_SendToUser_Offline(t *testing.T) {
	hub := newTestHub(t)

	event, err := NewEvent(EventTypePhotoApproved, PhotoModerationPayload{PhotoURL: "http://x/3.png"})
	require.NoError(t, err)

	// must not block or panic when nobody is connected
	hub.SendToUser("ghost", event)
	assert.Empty(t, hub.OnlineUsers())
}

func TestHub_Presence(t *testing.T) {
	hub := newTestHub(t)

	alice := connect(hub, "alice")
	assert.Equal(t, []string{"alice"}, hub.OnlineUsers())

	// bob's first connection announces him to alice
	connect(hub, "bob")
	got := receive(t, alice)
	assert.Equal(t, EventTypePresence, got.Type)

	var payload PresencePayload
	require.NoError(t, json.Unmarshal(got.Payload, &payload))
	assert.Equal(t, "bob", payload.Username)
	assert.Equal(t, "online", payload.Status)

	assert.ElementsMatch(t, []string{"alice", "bob"}, hub.OnlineUsers())
}

func TestHub_Presence_LastConnectionWins(t *testing.T) {
	hub := newTestHub(t)

	alice := connect(hub, "alice")
	tab1 := connect(hub, "bob")
	tab2 := connect(hub, "bob")

	// only the first of bob's connections announced him
	receive(t, alice)

	hub.unregister <- tab1
	assert.ElementsMatch(t, []string{"alice", "bob"}, hub.OnlineUsers())

	hub.unregister <- tab2
	assert.Equal(t, []string{"alice"}, hub.OnlineUsers())

	got := receive(t, alice)
	assert.Equal(t, EventTypePresence, got.Type)

	var payload PresencePayload
	require.NoError(t, json.Unmarshal(got.Payload, &payload))
	assert.Equal(t, "bob", payload.Username)
	assert.Equal(t, "offline", payload.Status)
}

func TestHub_Unregister_ClosesSendChannel(t *testing.T) {
	hub := newTestHub(t)

	alice := connect(hub, "alice")
	hub.unregister <- alice
	assert.Empty(t, hub.OnlineUsers())

	select {
	case _, ok := <-alice.send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed on unregister")
	}
}

func TestHubNotifier(t *testing.T) {
	hub := newTestHub(t)
	notifier := NewHubNotifier(hub, hub.log)

	alice := connect(hub, "alice")

	notifier.NotifyPhotoApproved("alice", "http://x/4.png")
	got := receive(t, alice)
	assert.Equal(t, EventTypePhotoApproved, got.Type)

	notifier.NotifyPhotoRejected("alice", "http://x/5.png")
	got = receive(t, alice)
	assert.Equal(t, EventTypePhotoRejected, got.Type)

	var payload PhotoModerationPayload
	require.NoError(t, json.Unmarshal(got.Payload, &payload))
	assert.Equal(t, "http://x/5.png", payload.PhotoURL)
}
