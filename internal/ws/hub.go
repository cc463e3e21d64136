package ws

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"estimate-backend/internal/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans project messages out to connected websocket clients. Each
// connection subscribes to one project thread.
type Hub struct {
	mu        sync.Mutex
	clients   map[*websocket.Conn]int // conn -> project id
	broadcast chan *models.Message
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*websocket.Conn]int),
		broadcast: make(chan *models.Message, 64),
	}
}

// Run drains the broadcast channel. Call in a goroutine at startup.
func (h *Hub) Run() {
	for msg := range h.broadcast {
		h.mu.Lock()
		for conn, projectID := range h.clients {
			if projectID != msg.ProjectID {
				continue
			}
			if err := conn.WriteJSON(msg); err != nil {
				conn.Close()
				delete(h.clients, conn)
			}
		}
		h.mu.Unlock()
	}
}

// Publish queues a message for fan-out. Drops when the hub is saturated
// rather than blocking the sender's request.
func (h *Hub) Publish(msg *models.Message) {
	select {
	case h.broadcast <- msg:
	default:
		log.Printf("[WS] Broadcast queue full, dropping message for project %d", msg.ProjectID)
	}
}

// Subscribe upgrades the request and holds the connection open until the
// client disconnects.
func (h *Hub) Subscribe(w http.ResponseWriter, r *http.Request, projectID int) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = projectID
	h.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			break
		}
	}
}
