package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(h *Hub) *Client {
	c := &Client{hub: h, send: make(chan []byte, sendBuffer)}
	h.Register(c)
	return c
}

func drain(c *Client) []Envelope {
	var out []Envelope
	for {
		select {
		case raw := <-c.send:
			var env Envelope
			if json.Unmarshal(raw, &env) == nil {
				out = append(out, env)
			}
		default:
			return out
		}
	}
}

func lastEvent(t *testing.T, c *Client, event string) Envelope {
	t.Helper()
	var found *Envelope
	for _, env := range drain(c) {
		if env.Event == event {
			e := env
			found = &e
		}
	}
	require.NotNil(t, found, "expected a %q envelope", event)
	return *found
}

func TestHubPresence(t *testing.T) {
	h := NewHub()
	observer := newTestClient(h)
	session := newTestClient(h)

	h.RegisterUser(session, "user-1")

	assert.True(t, h.IsOnline("user-1"))
	env := lastEvent(t, observer, EventUpdateOnlineUsers)
	var online []string
	require.NoError(t, json.Unmarshal(env.Data, &online))
	assert.Equal(t, []string{"user-1"}, online)

	// Presence survives as long as one session remains.
	second := newTestClient(h)
	h.RegisterUser(second, "user-1")
	h.Unregister(second)
	assert.True(t, h.IsOnline("user-1"))

	h.Unregister(session)
	assert.False(t, h.IsOnline("user-1"))
	env = lastEvent(t, observer, EventUpdateOnlineUsers)
	online = nil
	require.NoError(t, json.Unmarshal(env.Data, &online))
	assert.Empty(t, online)
}

func TestHubOnlineUsersSorted(t *testing.T) {
	h := NewHub()
	h.RegisterUser(newTestClient(h), "zeta")
	h.RegisterUser(newTestClient(h), "alpha")

	assert.Equal(t, []string{"alpha", "zeta"}, h.OnlineUsers())
}

func TestHubRooms(t *testing.T) {
	h := NewHub()
	a := newTestClient(h)
	b := newTestClient(h)
	outsider := newTestClient(h)

	h.JoinRoom(a, "room-1")
	h.JoinRoom(b, "room-1")
	h.JoinRoom(outsider, "room-2")

	t.Run("Emit Skips The Sender", func(t *testing.T) {
		h.EmitToRoom("room-1", a, EventNewComment, map[string]string{"roomId": "room-1"})

		assert.Empty(t, drain(a))
		env := lastEvent(t, b, EventNewComment)
		assert.Equal(t, EventNewComment, env.Event)
		assert.Empty(t, drain(outsider))
	})

	t.Run("Joining Another Room Leaves The First", func(t *testing.T) {
		h.JoinRoom(b, "room-2")

		h.EmitToRoom("room-1", nil, EventNewComment, "x")
		assert.Empty(t, drain(b))

		h.EmitToRoom("room-2", nil, EventNewComment, "x")
		assert.NotEmpty(t, drain(b))
		h.JoinRoom(b, "room-1")
		drain(outsider)
	})

	t.Run("Leave Requires Matching Room", func(t *testing.T) {
		h.LeaveRoom(b, "room-2") // not b's room, ignored

		h.EmitToRoom("room-1", nil, EventNewComment, "x")
		assert.NotEmpty(t, drain(b))

		h.LeaveRoom(b, "room-1")
		h.EmitToRoom("room-1", nil, EventNewComment, "x")
		assert.Empty(t, drain(b))
	})
}

func TestHubEmitToUser(t *testing.T) {
	h := NewHub()
	first := newTestClient(h)
	second := newTestClient(h)
	other := newTestClient(h)

	h.RegisterUser(first, "user-1")
	h.RegisterUser(second, "user-1")
	h.RegisterUser(other, "user-2")
	drain(first)
	drain(second)
	drain(other)

	h.EmitToUser("user-1", EventNotifyDoctor, "payload")

	assert.NotEmpty(t, drain(first))
	assert.NotEmpty(t, drain(second))
	assert.Empty(t, drain(other))
}

func TestHubSubscribe(t *testing.T) {
	h := NewHub()
	client := newTestClient(h)

	var got []string
	dispose := h.Subscribe("custom_event", func(c *Client, data json.RawMessage) {
		var s string
		_ = json.Unmarshal(data, &s)
		got = append(got, s)
	})

	payload, _ := json.Marshal("hello")
	h.dispatch(client, Envelope{Event: "custom_event", Data: payload})
	assert.Equal(t, []string{"hello"}, got)

	dispose()
	dispose() // second call is a no-op
	h.dispatch(client, Envelope{Event: "custom_event", Data: payload})
	assert.Len(t, got, 1)
}

func TestHubDispatchLifecycleEvents(t *testing.T) {
	h := NewHub()
	client := newTestClient(h)

	userID, _ := json.Marshal("user-9")
	h.dispatch(client, Envelope{Event: EventRegisterUser, Data: userID})
	assert.True(t, h.IsOnline("user-9"))

	roomID, _ := json.Marshal("room-9")
	h.dispatch(client, Envelope{Event: EventJoinRoom, Data: roomID})
	peer := newTestClient(h)
	h.JoinRoom(peer, "room-9")
	drain(client)

	h.EmitToRoom("room-9", peer, EventNewReply, "x")
	assert.NotEmpty(t, drain(client))

	h.dispatch(client, Envelope{Event: EventLeaveRoom, Data: roomID})
	h.EmitToRoom("room-9", peer, EventNewReply, "x")
	assert.Empty(t, drain(client))
}

func TestHubRegisterUserIdempotent(t *testing.T) {
	h := NewHub()
	client := newTestClient(h)

	h.RegisterUser(client, "user-1")
	h.RegisterUser(client, "user-1")
	drain(client)

	h.EmitToUser("user-1", EventNotifyPatient, "once")

	assert.Len(t, drain(client), 1)
}
