package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kayGweb/gridiron/internal/store"
)

// StatsRepository handles per-game player stat lines
type StatsRepository struct {
	db *store.Database
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db *store.Database) *StatsRepository {
	return &StatsRepository{db: db}
}

const statColumns = `stat_id, player_id, game_id, pass_completions, pass_attempts,
		pass_yards, pass_touchdowns, interceptions, rush_attempts, rush_yards,
		rush_touchdowns, receptions, receiving_yards, receiving_touchdowns,
		created_at, updated_at`

func scanStatLine(row interface{ Scan(...interface{}) error }) (*store.PlayerGameStats, error) {
	s := &store.PlayerGameStats{}
	err := row.Scan(
		&s.StatID, &s.PlayerID, &s.GameID,
		&s.PassCompletions, &s.PassAttempts, &s.PassYards, &s.PassTouchdowns,
		&s.Interceptions, &s.RushAttempts, &s.RushYards, &s.RushTouchdowns,
		&s.Receptions, &s.ReceivingYards, &s.ReceivingTouchdowns,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// FindByPlayerAndGame finds a stat line by its natural key
func (r *StatsRepository) FindByPlayerAndGame(ctx context.Context, playerID, gameID int) (*store.PlayerGameStats, error) {
	query := fmt.Sprintf(`SELECT %s FROM player_game_stats
		WHERE player_id = $1 AND game_id = $2`, statColumns)

	line, err := scanStatLine(r.db.DB().QueryRowContext(ctx, query, playerID, gameID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, &store.StorageError{Op: "stats.find_by_player_and_game", Err: err}
	}

	return line, nil
}

// GetByGame returns all stat lines recorded for a game
func (r *StatsRepository) GetByGame(ctx context.Context, gameID int) ([]*store.PlayerGameStats, error) {
	query := fmt.Sprintf(`SELECT %s FROM player_game_stats
		WHERE game_id = $1 ORDER BY player_id`, statColumns)

	rows, err := r.db.DB().QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, &store.StorageError{Op: "stats.get_by_game", Err: err}
	}
	defer rows.Close()

	var lines []*store.PlayerGameStats
	for rows.Next() {
		line, err := scanStatLine(rows)
		if err != nil {
			return nil, &store.StorageError{Op: "stats.scan", Err: err}
		}
		lines = append(lines, line)
	}

	return lines, rows.Err()
}

// GetByPlayer returns all stat lines recorded for a player across games
func (r *StatsRepository) GetByPlayer(ctx context.Context, playerID int) ([]*store.PlayerGameStats, error) {
	query := fmt.Sprintf(`SELECT %s FROM player_game_stats
		WHERE player_id = $1 ORDER BY game_id`, statColumns)

	rows, err := r.db.DB().QueryContext(ctx, query, playerID)
	if err != nil {
		return nil, &store.StorageError{Op: "stats.get_by_player", Err: err}
	}
	defer rows.Close()

	var lines []*store.PlayerGameStats
	for rows.Next() {
		line, err := scanStatLine(rows)
		if err != nil {
			return nil, &store.StorageError{Op: "stats.scan", Err: err}
		}
		lines = append(lines, line)
	}

	return lines, rows.Err()
}

// Insert creates a stat line and returns it with its assigned ID
func (r *StatsRepository) Insert(ctx context.Context, s *store.PlayerGameStats) (*store.PlayerGameStats, error) {
	query := `
		INSERT INTO player_game_stats (player_id, game_id, pass_completions,
			pass_attempts, pass_yards, pass_touchdowns, interceptions,
			rush_attempts, rush_yards, rush_touchdowns, receptions,
			receiving_yards, receiving_touchdowns)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING stat_id, created_at, updated_at
	`

	err := r.db.DB().QueryRowContext(ctx, query,
		s.PlayerID, s.GameID, s.PassCompletions, s.PassAttempts, s.PassYards,
		s.PassTouchdowns, s.Interceptions, s.RushAttempts, s.RushYards,
		s.RushTouchdowns, s.Receptions, s.ReceivingYards, s.ReceivingTouchdowns,
	).Scan(&s.StatID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, &store.StorageError{Op: "stats.insert", Err: err}
	}

	return s, nil
}

// Update rewrites an existing stat line in place
func (r *StatsRepository) Update(ctx context.Context, s *store.PlayerGameStats) error {
	query := `
		UPDATE player_game_stats
		SET pass_completions = $1, pass_attempts = $2, pass_yards = $3,
			pass_touchdowns = $4, interceptions = $5, rush_attempts = $6,
			rush_yards = $7, rush_touchdowns = $8, receptions = $9,
			receiving_yards = $10, receiving_touchdowns = $11, updated_at = NOW()
		WHERE stat_id = $12
	`

	result, err := r.db.DB().ExecContext(ctx, query,
		s.PassCompletions, s.PassAttempts, s.PassYards, s.PassTouchdowns,
		s.Interceptions, s.RushAttempts, s.RushYards, s.RushTouchdowns,
		s.Receptions, s.ReceivingYards, s.ReceivingTouchdowns, s.StatID,
	)
	if err != nil {
		return &store.StorageError{Op: "stats.update", Err: err}
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return &store.StorageError{Op: "stats.update", Err: err}
	}
	if affected == 0 {
		return store.ErrNotFound
	}

	return nil
}
