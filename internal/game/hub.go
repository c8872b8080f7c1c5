package game

import (
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Client is one websocket connection. The id is transport bookkeeping only;
// game membership is keyed by player name, never by connection.
type Client struct {
	ID   string
	conn *websocket.Conn

	writeMu sync.Mutex

	mu    sync.Mutex
	rooms map[string]bool
}

func newClient(conn *websocket.Conn) *Client {
	return &Client{
		ID:    uuid.NewString(),
		conn:  conn,
		rooms: make(map[string]bool),
	}
}

// WriteJSON serializes concurrent writes to the connection. gorilla conns
// only support one writer at a time.
func (c *Client) WriteJSON(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(v)
}

// InRoom reports whether this connection has joined the room's broadcast
// group. Commits from unsubscribed connections are dropped.
func (c *Client) InRoom(roomID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rooms[roomID]
}

func (c *Client) joinedRooms() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]string, 0, len(c.rooms))
	for id := range c.rooms {
		ids = append(ids, id)
	}
	return ids
}

// Hub tracks which connections belong to which room's broadcast group.
type Hub struct {
	mu      sync.RWMutex
	members map[string]map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{members: make(map[string]map[*Client]bool)}
}

func (h *Hub) Subscribe(roomID string, c *Client) {
	h.mu.Lock()
	group, ok := h.members[roomID]
	if !ok {
		group = make(map[*Client]bool)
		h.members[roomID] = group
	}
	group[c] = true
	h.mu.Unlock()

	c.mu.Lock()
	c.rooms[roomID] = true
	c.mu.Unlock()
}

func (h *Hub) Unsubscribe(roomID string, c *Client) {
	h.mu.Lock()
	if group, ok := h.members[roomID]; ok {
		delete(group, c)
		if len(group) == 0 {
			delete(h.members, roomID)
		}
	}
	h.mu.Unlock()

	c.mu.Lock()
	delete(c.rooms, roomID)
	c.mu.Unlock()
}

// Drop removes a disconnected client from every group it joined.
func (h *Hub) Drop(c *Client) {
	for _, roomID := range c.joinedRooms() {
		h.Unsubscribe(roomID, c)
	}
}

// BroadcastSnapshot sends the room snapshot to every member of the room's
// group. The member list is copied under the read lock and writes happen
// outside it; a failed write evicts the client from the group.
func (h *Hub) BroadcastSnapshot(roomID string, snap Snapshot) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.members[roomID]))
	for c := range h.members[roomID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	msg := Message[Snapshot]{Type: EventUpdate, Data: snap}
	for _, c := range clients {
		if err := c.WriteJSON(msg); err != nil {
			log.Printf("[BroadcastSnapshot] write to client %s failed, evicting: %v", c.ID, err)
			h.Unsubscribe(roomID, c)
		}
	}
}
