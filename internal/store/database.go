package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Database wraps the PostgreSQL connection pool.
type Database struct {
	conn *sql.DB
	dsn  string
}

// NewDatabase opens a connection pool and verifies it with a ping.
func NewDatabase(dsn string) (*Database, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{
		conn: db,
		dsn:  dsn,
	}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// DB returns the underlying *sql.DB for queries
func (db *Database) DB() *sql.DB {
	return db.conn
}

// RunMigrations executes all migration files in order
func (db *Database) RunMigrations() error {
	log.Println("Running database migrations...")

	if err := db.createMigrationsTable(); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	migrations := []string{
		"001_create_teams.sql",
		"002_create_players.sql",
		"003_create_games.sql",
		"004_create_player_game_stats.sql",
	}

	for _, migration := range migrations {
		if err := db.runMigration(migration); err != nil {
			return fmt.Errorf("failed to run migration %s: %w", migration, err)
		}
	}

	log.Println("✓ All migrations completed successfully")

	return nil
}

// createMigrationsTable creates a table to track which migrations have been run
func (db *Database) createMigrationsTable() error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	_, err := db.conn.Exec(query)
	return err
}

// runMigration runs a single migration file if it hasn't been applied yet
func (db *Database) runMigration(filename string) error {
	var exists bool
	err := db.conn.QueryRow("SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)", filename).Scan(&exists)
	if err != nil {
		return err
	}

	if exists {
		log.Printf("  ⊘ Skipping %s (already applied)", filename)
		return nil
	}

	migrationPath := filepath.Join("migrations", filename)
	content, err := os.ReadFile(migrationPath)
	if err != nil {
		// Try alternate path for Docker container
		migrationPath = filepath.Join("/app", "migrations", filename)
		content, err = os.ReadFile(migrationPath)
		if err != nil {
			return fmt.Errorf("failed to read migration file: %w", err)
		}
	}

	// Execute migration in a transaction
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(string(content)); err != nil {
		return fmt.Errorf("failed to execute migration: %w", err)
	}

	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES ($1)", filename); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	log.Printf("  ✓ Applied %s", filename)
	return nil
}

// SeedTeams inserts the 32 franchise rows if they are not already present.
func (db *Database) SeedTeams() error {
	log.Println("Running seed data...")

	seedFiles := []string{
		"001_teams.sql",
	}

	for _, seedFile := range seedFiles {
		seedPath := filepath.Join("seed", seedFile)
		content, err := os.ReadFile(seedPath)
		if err != nil {
			// Try alternate path for Docker container
			seedPath = filepath.Join("/app", "seed", seedFile)
			content, err = os.ReadFile(seedPath)
			if err != nil {
				return fmt.Errorf("failed to read seed file %s: %w", seedFile, err)
			}
		}

		if _, err := db.conn.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute seed file %s: %w", seedFile, err)
		}

		log.Printf("  ✓ Seeded %s", seedFile)
	}

	log.Println("✓ Seed data completed successfully")
	return nil
}

// HealthCheck performs a health check on the database
func (db *Database) HealthCheck() error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	return db.conn.PingContext(ctx)
}
