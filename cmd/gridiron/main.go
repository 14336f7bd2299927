package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kayGweb/gridiron/internal/api/rest"
	"github.com/kayGweb/gridiron/internal/api/websocket"
	"github.com/kayGweb/gridiron/internal/cache"
	"github.com/kayGweb/gridiron/internal/config"
	"github.com/kayGweb/gridiron/internal/provider/registry"
	"github.com/kayGweb/gridiron/internal/publisher"
	"github.com/kayGweb/gridiron/internal/ratelimit"
	"github.com/kayGweb/gridiron/internal/reconcile"
	"github.com/kayGweb/gridiron/internal/scrape"
	"github.com/kayGweb/gridiron/internal/store"
	"github.com/kayGweb/gridiron/internal/store/repository"
)

const (
	serviceName    = "gridiron"
	serviceVersion = "1.0.0"
)

func main() {
	log.Printf("Starting %s v%s - NFL Stats Ingestion Service", serviceName, serviceVersion)

	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database connection
	db, err := store.NewDatabase(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("✓ Connected to database")

	// Run migrations
	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// Seed initial data (non-fatal - may already exist)
	if err := db.SeedTeams(); err != nil {
		log.Printf("⚠️  Seed data warning: %v (continuing anyway)", err)
	} else {
		log.Println("✓ Seed data applied")
	}

	// Initialize Redis with retry logic
	var redisCache *cache.RedisCache
	maxRetries := 30
	retryDelay := 2 * time.Second

	log.Println("Connecting to Redis...")
	for i := 0; i < maxRetries; i++ {
		redisCache, err = cache.NewRedisCache(cfg.RedisURL)
		if err == nil {
			break
		}

		if i < maxRetries-1 {
			log.Printf("Redis connection attempt %d/%d failed: %v (retrying in %v)", i+1, maxRetries, err, retryDelay)
			time.Sleep(retryDelay)
		} else {
			log.Fatalf("Failed to connect to Redis after %d attempts: %v", maxRetries, err)
		}
	}
	defer redisCache.Close()

	log.Println("✓ Connected to Redis")

	redisPublisher := publisher.NewRedisStreamPublisher(redisCache.Client())

	// Provider clients share one rate limiter keyed by provider name
	limiter := ratelimit.New(cfg.RequestDelay(""))
	clients := registry.New(cfg, limiter)
	defer clients.Close()

	log.Printf("✓ Providers registered: %v", clients.Names())

	// Reconciliation engine over the repositories
	engine := reconcile.NewEngine(
		repository.NewTeamRepository(db),
		repository.NewPlayerRepository(db),
		repository.NewGameRepository(db),
		repository.NewStatsRepository(db),
	)

	orchestrator := scrape.NewOrchestrator(clients, engine, redisCache, redisPublisher, cfg.MaxRetries)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize REST API server
	restServer := rest.NewServer(cfg.RESTPort, db, redisCache, engine, orchestrator)
	go func() {
		log.Printf("Starting REST API server on port %s", cfg.RESTPort)
		if err := restServer.Start(); err != nil {
			log.Printf("REST server error: %v", err)
		}
	}()

	log.Printf("✓ REST API server listening on :%s", cfg.RESTPort)

	// Initialize WebSocket server
	wsServer := websocket.NewServer(redisCache)
	go func() {
		log.Printf("Starting WebSocket server on port %s", cfg.WSPort)
		if err := wsServer.Start(ctx, cfg.WSPort); err != nil {
			log.Printf("WebSocket server error: %v", err)
		}
	}()

	log.Printf("✓ WebSocket server listening on :%s", cfg.WSPort)
	log.Printf("✓ Gridiron v%s started successfully", serviceVersion)
	log.Printf("  REST API: http://0.0.0.0:%s", cfg.RESTPort)
	log.Printf("  WebSocket: ws://0.0.0.0:%s", cfg.WSPort)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down gracefully...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := restServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("REST API server shutdown error: %v", err)
	}
	if err := wsServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("WebSocket server shutdown error: %v", err)
	}

	log.Println("Gridiron stopped")
}
