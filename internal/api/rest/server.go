package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kayGweb/gridiron/internal/cache"
	"github.com/kayGweb/gridiron/internal/reconcile"
	"github.com/kayGweb/gridiron/internal/scrape"
	"github.com/kayGweb/gridiron/internal/store"
)

// Server represents the REST API server
type Server struct {
	port    string
	server  *http.Server
	handler *Handler
}

// NewServer creates a new REST API server
func NewServer(port string, db *store.Database, redisCache *cache.RedisCache, engine *reconcile.Engine, orchestrator *scrape.Orchestrator) *Server {
	handler := NewHandler(db, redisCache, engine, orchestrator)

	router := mux.NewRouter()

	// Apply middleware
	router.Use(RecoveryMiddleware)
	router.Use(LoggingMiddleware)
	router.Use(CORSMiddleware)

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()

	// Teams
	api.HandleFunc("/teams", handler.GetTeams).Methods("GET")
	api.HandleFunc("/teams/sync", handler.SyncTeams).Methods("POST")
	api.HandleFunc("/teams/{abbr}", handler.GetTeam).Methods("GET")
	api.HandleFunc("/teams/{abbr}", handler.DeleteTeam).Methods("DELETE")
	api.HandleFunc("/teams/{abbr}/roster", handler.GetTeamRoster).Methods("GET")
	api.HandleFunc("/divisions", handler.GetDivisions).Methods("GET")

	// Games
	api.HandleFunc("/games", handler.GetGames).Methods("GET")
	api.HandleFunc("/games/{gameID}", handler.GetGame).Methods("GET")
	api.HandleFunc("/games/{gameID}/boxscore", handler.GetGameBoxScore).Methods("GET")

	// Players
	api.HandleFunc("/players/{playerID}", handler.GetPlayer).Methods("GET")
	api.HandleFunc("/players/{playerID}/stats", handler.GetPlayerStats).Methods("GET")

	// Scrape operations
	api.HandleFunc("/scrape", handler.TriggerScrape).Methods("POST")

	return &Server{
		port:    port,
		handler: handler,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%s", port),
			Handler: router,
		},
	}
}

// Start starts the REST API server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
