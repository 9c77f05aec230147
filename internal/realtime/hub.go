package realtime

import (
	"encoding/json"
	"log"
	"sort"
	"sync"
)

// Handler processes one inbound event from a connected client.
type Handler func(c *Client, data json.RawMessage)

// Disposer releases a subscription. Safe to call more than once; only the
// first call has an effect.
type Disposer func()

// Hub owns every live connection and fans events out by room, by user or to
// everyone. Registration is idempotent: re-registering a connected client
// must not create a duplicate delivery channel.
type Hub struct {
	mu sync.RWMutex

	clients map[*Client]struct{}
	users   map[string]map[*Client]struct{}
	rooms   map[string]map[*Client]struct{}

	handlers map[string]map[int]Handler
	nextSub  int
}

func NewHub() *Hub {
	return &Hub{
		clients:  make(map[*Client]struct{}),
		users:    make(map[string]map[*Client]struct{}),
		rooms:    make(map[string]map[*Client]struct{}),
		handlers: make(map[string]map[int]Handler),
	}
}

// Subscribe registers a handler for an inbound event and returns its
// disposer. Callers must invoke the disposer exactly once when done, pairing
// every subscription with its release.
func (h *Hub) Subscribe(event string, handler Handler) Disposer {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.handlers[event] == nil {
		h.handlers[event] = make(map[int]Handler)
	}
	id := h.nextSub
	h.nextSub++
	h.handlers[event][id] = handler

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.handlers[event], id)
		})
	}
}

// Register adds a connection to the hub. Presence is announced only after the
// client identifies itself with register_user.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

// Unregister drops the connection, its room membership and, when it was the
// user's last session, its presence entry.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()

	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)

	if c.room != "" {
		h.removeFromRoom(c, c.room)
	}

	announce := false
	if c.userID != "" {
		if conns, ok := h.users[c.userID]; ok {
			delete(conns, c)
			if len(conns) == 0 {
				delete(h.users, c.userID)
				announce = true
			}
		}
	}
	c.close()
	h.mu.Unlock()

	if announce {
		h.announcePresence()
	}
}

// RegisterUser binds the connection to a user id and announces the updated
// online set.
func (h *Hub) RegisterUser(c *Client, userID string) {
	if userID == "" {
		return
	}

	h.mu.Lock()
	c.userID = userID
	if h.users[userID] == nil {
		h.users[userID] = make(map[*Client]struct{})
	}
	h.users[userID][c] = struct{}{}
	h.mu.Unlock()

	h.announcePresence()
}

// JoinRoom scopes the client to one room. A client is in at most one room at
// a time, so joining leaves the previous room first.
func (h *Hub) JoinRoom(c *Client, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c.room == roomID {
		return
	}
	if c.room != "" {
		h.removeFromRoom(c, c.room)
	}
	if roomID == "" {
		c.room = ""
		return
	}
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Client]struct{})
	}
	h.rooms[roomID][c] = struct{}{}
	c.room = roomID
}

func (h *Hub) LeaveRoom(c *Client, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c.room != roomID {
		return
	}
	h.removeFromRoom(c, roomID)
	c.room = ""
}

// removeFromRoom expects h.mu to be held.
func (h *Hub) removeFromRoom(c *Client, roomID string) {
	if members, ok := h.rooms[roomID]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

// EmitToRoom sends an event to every room member except the sender. Delivery
// is fire-and-forget: slow consumers are skipped, nobody is retried.
func (h *Hub) EmitToRoom(roomID string, sender *Client, event string, data interface{}) {
	msg, err := NewEnvelope(event, data)
	if err != nil {
		log.Printf("realtime: failed to encode %s event: %v", event, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[roomID] {
		if c == sender {
			continue
		}
		c.trySend(msg)
	}
}

// EmitToUser sends an event to every live session of one user.
func (h *Hub) EmitToUser(userID string, event string, data interface{}) {
	msg, err := NewEnvelope(event, data)
	if err != nil {
		log.Printf("realtime: failed to encode %s event: %v", event, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.users[userID] {
		c.trySend(msg)
	}
}

// Broadcast sends an event to every connected client.
func (h *Hub) Broadcast(event string, data interface{}) {
	msg, err := NewEnvelope(event, data)
	if err != nil {
		log.Printf("realtime: failed to encode %s event: %v", event, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.trySend(msg)
	}
}

// OnlineUsers returns the ids of users with at least one live session,
// sorted for stable output. Advisory only, never used for access control.
func (h *Hub) OnlineUsers() []string {
	h.mu.RLock()
	ids := make([]string, 0, len(h.users))
	for id := range h.users {
		ids = append(ids, id)
	}
	h.mu.RUnlock()

	sort.Strings(ids)
	return ids
}

// IsOnline reports whether the user has a live session.
func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID]) > 0
}

func (h *Hub) announcePresence() {
	h.Broadcast(EventUpdateOnlineUsers, h.OnlineUsers())
}

// dispatch routes one inbound envelope. Lifecycle events are handled by the
// hub itself; everything else goes to the subscribed handlers.
func (h *Hub) dispatch(c *Client, env Envelope) {
	switch env.Event {
	case EventRegisterUser:
		var userID string
		if err := json.Unmarshal(env.Data, &userID); err != nil {
			log.Printf("realtime: malformed register_user payload: %v", err)
			return
		}
		h.RegisterUser(c, userID)
		return
	case EventJoinRoom:
		var roomID string
		if err := json.Unmarshal(env.Data, &roomID); err != nil {
			log.Printf("realtime: malformed join_room payload: %v", err)
			return
		}
		h.JoinRoom(c, roomID)
		return
	case EventLeaveRoom:
		var roomID string
		if err := json.Unmarshal(env.Data, &roomID); err != nil {
			log.Printf("realtime: malformed leave_room payload: %v", err)
			return
		}
		h.LeaveRoom(c, roomID)
		return
	}

	h.mu.RLock()
	handlers := make([]Handler, 0, len(h.handlers[env.Event]))
	for _, fn := range h.handlers[env.Event] {
		handlers = append(handlers, fn)
	}
	h.mu.RUnlock()

	if len(handlers) == 0 {
		log.Printf("realtime: no handler for event %q", env.Event)
		return
	}
	for _, fn := range handlers {
		fn(c, env.Data)
	}
}
