package store

import (
	"database/sql"
	"time"
)

// Team represents an NFL franchise row.
type Team struct {
	TeamID       int            `json:"team_id" db:"team_id"`
	ExternalID   sql.NullString `json:"external_id,omitempty" db:"external_id"`
	Abbreviation string         `json:"abbreviation" db:"abbreviation"`
	Name         string         `json:"name" db:"name"`
	City         string         `json:"city" db:"city"`
	Conference   string         `json:"conference" db:"conference"`
	Division     string         `json:"division" db:"division"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

// Player represents a player row. TeamID is null for free agents.
type Player struct {
	PlayerID     int            `json:"player_id" db:"player_id"`
	ExternalID   sql.NullString `json:"external_id,omitempty" db:"external_id"`
	Name         string         `json:"name" db:"name"`
	TeamID       sql.NullInt32  `json:"team_id,omitempty" db:"team_id"`
	Position     string         `json:"position" db:"position"`
	JerseyNumber sql.NullInt32  `json:"jersey_number,omitempty" db:"jersey_number"`
	Height       sql.NullString `json:"height,omitempty" db:"height"`
	Weight       sql.NullInt32  `json:"weight,omitempty" db:"weight"`
	College      sql.NullString `json:"college,omitempty" db:"college"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

// Game represents one game. Scores stay null until the game has been played.
type Game struct {
	GameID     int            `json:"game_id" db:"game_id"`
	ExternalID sql.NullString `json:"external_id,omitempty" db:"external_id"`
	Season     int            `json:"season" db:"season"`
	Week       int            `json:"week" db:"week"`
	GameDate   time.Time      `json:"game_date" db:"game_date"`
	HomeTeamID int            `json:"home_team_id" db:"home_team_id"`
	AwayTeamID int            `json:"away_team_id" db:"away_team_id"`
	HomeScore  sql.NullInt32  `json:"home_score,omitempty" db:"home_score"`
	AwayScore  sql.NullInt32  `json:"away_score,omitempty" db:"away_score"`
	Status     string         `json:"status" db:"status"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at" db:"updated_at"`
}

// PlayerGameStats is one player's stat line in one game. One row per
// (player_id, game_id); corrections update in place.
type PlayerGameStats struct {
	StatID              int       `json:"stat_id" db:"stat_id"`
	PlayerID            int       `json:"player_id" db:"player_id"`
	GameID              int       `json:"game_id" db:"game_id"`
	PassCompletions     int       `json:"pass_completions" db:"pass_completions"`
	PassAttempts        int       `json:"pass_attempts" db:"pass_attempts"`
	PassYards           int       `json:"pass_yards" db:"pass_yards"`
	PassTouchdowns      int       `json:"pass_touchdowns" db:"pass_touchdowns"`
	Interceptions       int       `json:"interceptions" db:"interceptions"`
	RushAttempts        int       `json:"rush_attempts" db:"rush_attempts"`
	RushYards           int       `json:"rush_yards" db:"rush_yards"`
	RushTouchdowns      int       `json:"rush_touchdowns" db:"rush_touchdowns"`
	Receptions          int       `json:"receptions" db:"receptions"`
	ReceivingYards      int       `json:"receiving_yards" db:"receiving_yards"`
	ReceivingTouchdowns int       `json:"receiving_touchdowns" db:"receiving_touchdowns"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}
