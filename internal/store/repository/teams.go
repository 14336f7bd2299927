package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/kayGweb/gridiron/internal/store"
)

// TeamRepository handles team data access
type TeamRepository struct {
	db *store.Database
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *store.Database) *TeamRepository {
	return &TeamRepository{db: db}
}

const teamColumns = `team_id, external_id, abbreviation, name, city,
		conference, division, created_at, updated_at`

func scanTeam(row interface{ Scan(...interface{}) error }) (*store.Team, error) {
	team := &store.Team{}
	err := row.Scan(
		&team.TeamID, &team.ExternalID, &team.Abbreviation, &team.Name,
		&team.City, &team.Conference, &team.Division,
		&team.CreatedAt, &team.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return team, nil
}

// GetAll returns all NFL teams ordered by abbreviation
func (r *TeamRepository) GetAll(ctx context.Context) ([]*store.Team, error) {
	query := fmt.Sprintf(`SELECT %s FROM teams ORDER BY abbreviation`, teamColumns)

	rows, err := r.db.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, &store.StorageError{Op: "teams.get_all", Err: err}
	}
	defer rows.Close()

	var teams []*store.Team
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, &store.StorageError{Op: "teams.scan", Err: err}
		}
		teams = append(teams, team)
	}

	return teams, rows.Err()
}

// GetByID finds a team by ID
func (r *TeamRepository) GetByID(ctx context.Context, teamID int) (*store.Team, error) {
	query := fmt.Sprintf(`SELECT %s FROM teams WHERE team_id = $1`, teamColumns)

	team, err := scanTeam(r.db.DB().QueryRowContext(ctx, query, teamID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, &store.StorageError{Op: "teams.get_by_id", Err: err}
	}

	return team, nil
}

// FindByAbbreviation finds a team by abbreviation (e.g., "KC", "PHI").
// The match is case-insensitive.
func (r *TeamRepository) FindByAbbreviation(ctx context.Context, abbr string) (*store.Team, error) {
	query := fmt.Sprintf(`SELECT %s FROM teams WHERE abbreviation = $1`, teamColumns)

	team, err := scanTeam(r.db.DB().QueryRowContext(ctx, query, strings.ToUpper(abbr)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, &store.StorageError{Op: "teams.find_by_abbreviation", Err: err}
	}

	return team, nil
}

// GetByConference returns all teams in a conference ordered by division
func (r *TeamRepository) GetByConference(ctx context.Context, conference string) ([]*store.Team, error) {
	query := fmt.Sprintf(`SELECT %s FROM teams
		WHERE conference = $1 ORDER BY division, abbreviation`, teamColumns)

	rows, err := r.db.DB().QueryContext(ctx, query, conference)
	if err != nil {
		return nil, &store.StorageError{Op: "teams.get_by_conference", Err: err}
	}
	defer rows.Close()

	var teams []*store.Team
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, &store.StorageError{Op: "teams.scan", Err: err}
		}
		teams = append(teams, team)
	}

	return teams, rows.Err()
}

// Insert creates a team row and returns it with its assigned ID
func (r *TeamRepository) Insert(ctx context.Context, team *store.Team) (*store.Team, error) {
	query := `
		INSERT INTO teams (external_id, abbreviation, name, city, conference, division)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING team_id, created_at, updated_at
	`

	err := r.db.DB().QueryRowContext(ctx, query,
		team.ExternalID, team.Abbreviation, team.Name, team.City,
		team.Conference, team.Division,
	).Scan(&team.TeamID, &team.CreatedAt, &team.UpdatedAt)
	if err != nil {
		return nil, &store.StorageError{Op: "teams.insert", Err: err}
	}

	return team, nil
}

// Update rewrites the mutable columns of an existing team row
func (r *TeamRepository) Update(ctx context.Context, team *store.Team) error {
	query := `
		UPDATE teams
		SET external_id = $1, name = $2, city = $3, conference = $4,
			division = $5, updated_at = NOW()
		WHERE team_id = $6
	`

	result, err := r.db.DB().ExecContext(ctx, query,
		team.ExternalID, team.Name, team.City, team.Conference,
		team.Division, team.TeamID,
	)
	if err != nil {
		return &store.StorageError{Op: "teams.update", Err: err}
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return &store.StorageError{Op: "teams.update", Err: err}
	}
	if affected == 0 {
		return store.ErrNotFound
	}

	return nil
}

// Delete removes a team row
func (r *TeamRepository) Delete(ctx context.Context, teamID int) error {
	result, err := r.db.DB().ExecContext(ctx, `DELETE FROM teams WHERE team_id = $1`, teamID)
	if err != nil {
		return &store.StorageError{Op: "teams.delete", Err: err}
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return &store.StorageError{Op: "teams.delete", Err: err}
	}
	if affected == 0 {
		return store.ErrNotFound
	}

	return nil
}
