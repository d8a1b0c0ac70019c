package ws

import (
	"encoding/json"
	"sync"
)

// Room is one conversation's set of live connections.
type Room struct {
	ConversationID uint
	mu             sync.RWMutex
	clients        map[*Client]struct{}
}

func newRoom(conversationID uint) *Room {
	return &Room{ConversationID: conversationID, clients: make(map[*Client]struct{})}
}

func (r *Room) Join(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c] = struct{}{}
}

func (r *Room) Leave(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, c)
}

// Broadcast sends to every connection in the room except the sender's.
func (r *Room) Broadcast(from *Client, payload interface{}) {
	data, _ := json.Marshal(payload)
	r.mu.RLock()
	clients := make([]*Client, 0, len(r.clients))
	for c := range r.clients {
		if c != from {
			clients = append(clients, c)
		}
	}
	r.mu.RUnlock()
	for _, c := range clients {
		select {
		case c.Send <- data:
		default:
		}
	}
}

// ChatHub holds live rooms keyed by conversation ID.
type ChatHub struct {
	mu    sync.RWMutex
	rooms map[uint]*Room
}

func NewChatHub() *ChatHub {
	return &ChatHub{rooms: make(map[uint]*Room)}
}

func (h *ChatHub) GetOrCreateRoom(conversationID uint) *Room {
	h.mu.Lock()
	defer h.mu.Unlock()
	if r, ok := h.rooms[conversationID]; ok {
		return r
	}
	r := newRoom(conversationID)
	h.rooms[conversationID] = r
	return r
}

func (h *ChatHub) GetRoom(conversationID uint) *Room {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rooms[conversationID]
}

// RemoveRoom drops a room, e.g. after a duplicate conversation is merged away.
func (h *ChatHub) RemoveRoom(conversationID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms, conversationID)
}
