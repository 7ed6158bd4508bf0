package realtime

import (
	"encoding/json"
	"sync"
)

// Client is one connected websocket. The network conn itself is owned by the ws handler.
type Client interface {
	Send(message []byte) bool
	Close()
}

// TaskEvent is pushed to users whenever one of their tasks changes.
type TaskEvent struct {
	Type      string  `json:"type"`
	TaskID    uint    `json:"taskId"`
	ProjectID uint    `json:"projectId"`
	Status    *string `json:"status"`
	Version   int     `json:"version"`
}

const (
	EventTaskCreated       = "task_created"
	EventTaskStatusChanged = "task_status_changed"
)

// Hub maintains active user connections and fans events out to them.
type Hub struct {
	mu            sync.RWMutex
	clientsByUser map[uint]map[Client]struct{}
}

var (
	hubInstance *Hub
	once        sync.Once
)

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{clientsByUser: make(map[uint]map[Client]struct{})}
}

// GetHub returns the process-wide hub.
func GetHub() *Hub {
	once.Do(func() {
		hubInstance = NewHub()
	})
	return hubInstance
}

// Register adds a client under a user ID.
func (h *Hub) Register(userID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clientsByUser[userID]; !ok {
		h.clientsByUser[userID] = make(map[Client]struct{})
	}
	h.clientsByUser[userID][client] = struct{}{}
}

// Unregister removes a client; if the user has no more clients the entry is dropped.
func (h *Hub) Unregister(userID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.clientsByUser[userID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.clientsByUser, userID)
		}
	}
}

// ClientCount returns the number of live connections for a user.
func (h *Hub) ClientCount(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clientsByUser[userID])
}

// Broadcast sends a message to all clients of a user and returns how many accepted it.
// Sends happen outside the lock so a slow socket never holds up Register or Unregister.
// Failed clients are left for their handler to unregister.
func (h *Hub) Broadcast(userID uint, message []byte) int {
	h.mu.RLock()
	clients := make([]Client, 0, len(h.clientsByUser[userID]))
	for c := range h.clientsByUser[userID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	sent := 0
	for _, c := range clients {
		if c.Send(message) {
			sent++
		}
	}
	return sent
}

// Publish encodes evt once and delivers it to each distinct, non-zero user.
func (h *Hub) Publish(evt TaskEvent, userIDs ...uint) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	seen := make(map[uint]struct{}, len(userIDs))
	for _, id := range userIDs {
		if id == 0 {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		h.Broadcast(id, payload)
	}
	return nil
}
