package websocket

import (
	"log"
	"sync"
)

// Hub maintains the set of active clients and broadcasts messages to them
type Hub struct {
	clients   map[*Client]bool
	clientsMu sync.RWMutex

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 1000),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clientsMu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.clientsMu.Unlock()
			log.Printf("[ws] Client connected (total: %d)", total)

		case client := <-h.unregister:
			h.clientsMu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.clientsMu.Unlock()
			log.Printf("[ws] Client disconnected (total: %d)", total)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

// Broadcast queues a message for every connected client
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		// Broadcast buffer full - drop message
		log.Println("[ws] ⚠️  Broadcast buffer full, dropping message")
	}
}

// ClientCount returns the number of active clients
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

func (h *Hub) broadcastMessage(message []byte) {
	h.clientsMu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clientsMu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- message:
		default:
			// Client buffer full - they're too slow, disconnect them
			log.Println("[ws] ⚠️  Client buffer full, disconnecting")
			go func(c *Client) { h.unregister <- c }(c)
		}
	}
}
