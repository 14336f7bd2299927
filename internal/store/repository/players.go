package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kayGweb/gridiron/internal/store"
)

// PlayerRepository handles player data access
type PlayerRepository struct {
	db *store.Database
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(db *store.Database) *PlayerRepository {
	return &PlayerRepository{db: db}
}

const playerColumns = `player_id, external_id, name, team_id, position,
		jersey_number, height, weight, college, created_at, updated_at`

func scanPlayer(row interface{ Scan(...interface{}) error }) (*store.Player, error) {
	player := &store.Player{}
	err := row.Scan(
		&player.PlayerID, &player.ExternalID, &player.Name, &player.TeamID,
		&player.Position, &player.JerseyNumber, &player.Height, &player.Weight,
		&player.College, &player.CreatedAt, &player.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return player, nil
}

// GetByID finds a player by ID
func (r *PlayerRepository) GetByID(ctx context.Context, playerID int) (*store.Player, error) {
	query := fmt.Sprintf(`SELECT %s FROM players WHERE player_id = $1`, playerColumns)

	player, err := scanPlayer(r.db.DB().QueryRowContext(ctx, query, playerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, &store.StorageError{Op: "players.get_by_id", Err: err}
	}

	return player, nil
}

// FindByExternalID finds a player by the provider's player identifier
func (r *PlayerRepository) FindByExternalID(ctx context.Context, externalID string) (*store.Player, error) {
	query := fmt.Sprintf(`SELECT %s FROM players WHERE external_id = $1`, playerColumns)

	player, err := scanPlayer(r.db.DB().QueryRowContext(ctx, query, externalID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, &store.StorageError{Op: "players.find_by_external_id", Err: err}
	}

	return player, nil
}

// FindByNameAndTeam finds a player by exact name on a given team.
// Fallback lookup for providers that publish no stable player IDs.
func (r *PlayerRepository) FindByNameAndTeam(ctx context.Context, name string, teamID int) (*store.Player, error) {
	query := fmt.Sprintf(`SELECT %s FROM players WHERE name = $1 AND team_id = $2`, playerColumns)

	player, err := scanPlayer(r.db.DB().QueryRowContext(ctx, query, name, teamID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, &store.StorageError{Op: "players.find_by_name_and_team", Err: err}
	}

	return player, nil
}

// GetByTeam returns all players currently on a team
func (r *PlayerRepository) GetByTeam(ctx context.Context, teamID int) ([]*store.Player, error) {
	query := fmt.Sprintf(`SELECT %s FROM players WHERE team_id = $1 ORDER BY name`, playerColumns)

	rows, err := r.db.DB().QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, &store.StorageError{Op: "players.get_by_team", Err: err}
	}
	defer rows.Close()

	var players []*store.Player
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, &store.StorageError{Op: "players.scan", Err: err}
		}
		players = append(players, player)
	}

	return players, rows.Err()
}

// Insert creates a player row and returns it with its assigned ID
func (r *PlayerRepository) Insert(ctx context.Context, player *store.Player) (*store.Player, error) {
	query := `
		INSERT INTO players (external_id, name, team_id, position, jersey_number, height, weight, college)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING player_id, created_at, updated_at
	`

	err := r.db.DB().QueryRowContext(ctx, query,
		player.ExternalID, player.Name, player.TeamID, player.Position,
		player.JerseyNumber, player.Height, player.Weight, player.College,
	).Scan(&player.PlayerID, &player.CreatedAt, &player.UpdatedAt)
	if err != nil {
		return nil, &store.StorageError{Op: "players.insert", Err: err}
	}

	return player, nil
}

// Update rewrites the mutable columns of an existing player row
func (r *PlayerRepository) Update(ctx context.Context, player *store.Player) error {
	query := `
		UPDATE players
		SET external_id = $1, name = $2, team_id = $3, position = $4,
			jersey_number = $5, height = $6, weight = $7, college = $8,
			updated_at = NOW()
		WHERE player_id = $9
	`

	result, err := r.db.DB().ExecContext(ctx, query,
		player.ExternalID, player.Name, player.TeamID, player.Position,
		player.JerseyNumber, player.Height, player.Weight, player.College,
		player.PlayerID,
	)
	if err != nil {
		return &store.StorageError{Op: "players.update", Err: err}
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return &store.StorageError{Op: "players.update", Err: err}
	}
	if affected == 0 {
		return store.ErrNotFound
	}

	return nil
}

// ClearTeam detaches every player on a team, marking them free agents
func (r *PlayerRepository) ClearTeam(ctx context.Context, teamID int) error {
	query := `UPDATE players SET team_id = NULL, updated_at = NOW() WHERE team_id = $1`

	if _, err := r.db.DB().ExecContext(ctx, query, teamID); err != nil {
		return &store.StorageError{Op: "players.clear_team", Err: err}
	}

	return nil
}
