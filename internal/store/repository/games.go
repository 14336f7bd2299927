package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kayGweb/gridiron/internal/store"
)

// GameRepository handles game data access
type GameRepository struct {
	db *store.Database
}

// NewGameRepository creates a new game repository
func NewGameRepository(db *store.Database) *GameRepository {
	return &GameRepository{db: db}
}

const gameColumns = `game_id, external_id, season, week, game_date,
		home_team_id, away_team_id, home_score, away_score, status,
		created_at, updated_at`

func scanGame(row interface{ Scan(...interface{}) error }) (*store.Game, error) {
	game := &store.Game{}
	err := row.Scan(
		&game.GameID, &game.ExternalID, &game.Season, &game.Week, &game.GameDate,
		&game.HomeTeamID, &game.AwayTeamID, &game.HomeScore, &game.AwayScore,
		&game.Status, &game.CreatedAt, &game.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return game, nil
}

// GetByID finds a game by ID
func (r *GameRepository) GetByID(ctx context.Context, gameID int) (*store.Game, error) {
	query := fmt.Sprintf(`SELECT %s FROM games WHERE game_id = $1`, gameColumns)

	game, err := scanGame(r.db.DB().QueryRowContext(ctx, query, gameID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, &store.StorageError{Op: "games.get_by_id", Err: err}
	}

	return game, nil
}

// FindByNaturalKey finds a game by (season, week, home team, away team)
func (r *GameRepository) FindByNaturalKey(ctx context.Context, season, week, homeTeamID, awayTeamID int) (*store.Game, error) {
	query := fmt.Sprintf(`SELECT %s FROM games
		WHERE season = $1 AND week = $2 AND home_team_id = $3 AND away_team_id = $4`, gameColumns)

	game, err := scanGame(r.db.DB().QueryRowContext(ctx, query, season, week, homeTeamID, awayTeamID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, &store.StorageError{Op: "games.find_by_natural_key", Err: err}
	}

	return game, nil
}

// GetBySeason returns games for a season, optionally filtered to one week (week > 0)
func (r *GameRepository) GetBySeason(ctx context.Context, season, week int) ([]*store.Game, error) {
	query := fmt.Sprintf(`SELECT %s FROM games WHERE season = $1`, gameColumns)
	args := []interface{}{season}
	if week > 0 {
		query += ` AND week = $2`
		args = append(args, week)
	}
	query += ` ORDER BY week, game_date`

	rows, err := r.db.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &store.StorageError{Op: "games.get_by_season", Err: err}
	}
	defer rows.Close()

	var games []*store.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, &store.StorageError{Op: "games.scan", Err: err}
		}
		games = append(games, game)
	}

	return games, rows.Err()
}

// CountForTeam returns how many games reference a team as home or away
func (r *GameRepository) CountForTeam(ctx context.Context, teamID int) (int, error) {
	query := `SELECT COUNT(*) FROM games WHERE home_team_id = $1 OR away_team_id = $1`

	var count int
	if err := r.db.DB().QueryRowContext(ctx, query, teamID).Scan(&count); err != nil {
		return 0, &store.StorageError{Op: "games.count_for_team", Err: err}
	}

	return count, nil
}

// Insert creates a game row and returns it with its assigned ID
func (r *GameRepository) Insert(ctx context.Context, game *store.Game) (*store.Game, error) {
	query := `
		INSERT INTO games (external_id, season, week, game_date, home_team_id,
			away_team_id, home_score, away_score, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING game_id, created_at, updated_at
	`

	err := r.db.DB().QueryRowContext(ctx, query,
		game.ExternalID, game.Season, game.Week, game.GameDate,
		game.HomeTeamID, game.AwayTeamID, game.HomeScore, game.AwayScore,
		game.Status,
	).Scan(&game.GameID, &game.CreatedAt, &game.UpdatedAt)
	if err != nil {
		return nil, &store.StorageError{Op: "games.insert", Err: err}
	}

	return game, nil
}

// Update rewrites the mutable columns of an existing game row
func (r *GameRepository) Update(ctx context.Context, game *store.Game) error {
	query := `
		UPDATE games
		SET external_id = $1, game_date = $2, home_score = $3, away_score = $4,
			status = $5, updated_at = NOW()
		WHERE game_id = $6
	`

	result, err := r.db.DB().ExecContext(ctx, query,
		game.ExternalID, game.GameDate, game.HomeScore, game.AwayScore,
		game.Status, game.GameID,
	)
	if err != nil {
		return &store.StorageError{Op: "games.update", Err: err}
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return &store.StorageError{Op: "games.update", Err: err}
	}
	if affected == 0 {
		return store.ErrNotFound
	}

	return nil
}
