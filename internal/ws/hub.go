package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// Client is the subset of a websocket connection the hub needs. Real traffic
// uses *websocket.Conn from gofiber/contrib/websocket, which satisfies it.
type Client interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// TextMessage mirrors websocket.TextMessage so callers of the hub do not need
// the websocket import.
const TextMessage = 1

// Event is a change notification for a committed mutation. Consumers treat it
// as a hint to re-fetch authoritative state; delivery is best-effort and
// unordered across entities.
type Event struct {
	Type     string      `json:"type"`
	Action   string      `json:"action"`
	Entity   string      `json:"entity"`
	EntityID string      `json:"entity_id"`
	Data     interface{} `json:"data,omitempty"`
	User     interface{} `json:"user,omitempty"`
	Message  string      `json:"message,omitempty"`
}

type Hub struct {
	Clients    map[Client]bool
	Register   chan Client
	Unregister chan Client
	Broadcast  chan []byte
	mutex      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[Client]bool),
		Register:   make(chan Client),
		Unregister: make(chan Client),
		Broadcast:  make(chan []byte, 256),
	}
}

// Publish queues an event for broadcast without blocking the caller. If the
// queue is full the event is dropped; subscribers re-fetch state anyway.
func (h *Hub) Publish(evt Event) {
	msg, err := json.Marshal(evt)
	if err != nil {
		return
	}
	select {
	case h.Broadcast <- msg:
	default:
		log.Println("WS broadcast queue full, dropping event")
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			log.Println("New WS Client Connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}
