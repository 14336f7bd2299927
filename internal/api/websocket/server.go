package websocket

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/kayGweb/gridiron/internal/cache"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development (TODO: restrict in production)
	},
}

// Server represents the WebSocket server
type Server struct {
	port   string
	server *http.Server
	hub    *Hub
	cache  *cache.RedisCache
}

// NewServer creates a new WebSocket server
func NewServer(cache *cache.RedisCache) *Server {
	return &Server{
		hub:   NewHub(),
		cache: cache,
	}
}

// Start starts the WebSocket server and the stream consumer
func (s *Server) Start(ctx context.Context, port string) error {
	s.port = port

	// Start the hub in a goroutine
	go s.hub.Run()

	// Forward game updates from Redis streams to connected clients
	if s.cache != nil {
		consumer := NewStreamConsumer(s.cache.Client(), s.hub)
		go consumer.Run(ctx)
	}

	// Set up HTTP routes
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/games", s.handleGames)
	mux.HandleFunc("/ws/health", s.handleHealth)

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: mux,
	}

	log.Printf("WebSocket server listening on :%s", port)
	return s.server.ListenAndServe()
}

// handleGames handles WebSocket connections for game updates
func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	client := &Client{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}

	client.hub.register <- client

	// Start client goroutines
	go client.writePump()
	go client.readPump()
}

// handleHealth returns WebSocket server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status": "healthy", "clients": %d}`, s.hub.ClientCount())
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
