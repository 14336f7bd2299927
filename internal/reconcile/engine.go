// Package reconcile contains the write path: it resolves canonical
// records against existing rows by natural key and inserts or updates
// so that re-running an identical scrape never duplicates data.
package reconcile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/kayGweb/gridiron/internal/mapper"
	"github.com/kayGweb/gridiron/internal/store"
)

// ErrTeamHasGames blocks team deletion while games still reference the team.
var ErrTeamHasGames = errors.New("team has recorded games")

// InvalidGameError reports a game record that violates a structural
// invariant, such as a team playing itself.
type InvalidGameError struct {
	Reason string
}

func (e *InvalidGameError) Error() string {
	return fmt.Sprintf("invalid game: %s", e.Reason)
}

// TeamStore is the slice of the team repository the engine needs.
type TeamStore interface {
	FindByAbbreviation(ctx context.Context, abbr string) (*store.Team, error)
	Insert(ctx context.Context, team *store.Team) (*store.Team, error)
	Update(ctx context.Context, team *store.Team) error
	Delete(ctx context.Context, teamID int) error
}

// PlayerStore is the slice of the player repository the engine needs.
type PlayerStore interface {
	FindByExternalID(ctx context.Context, externalID string) (*store.Player, error)
	FindByNameAndTeam(ctx context.Context, name string, teamID int) (*store.Player, error)
	Insert(ctx context.Context, player *store.Player) (*store.Player, error)
	Update(ctx context.Context, player *store.Player) error
	ClearTeam(ctx context.Context, teamID int) error
}

// GameStore is the slice of the game repository the engine needs.
type GameStore interface {
	FindByNaturalKey(ctx context.Context, season, week, homeTeamID, awayTeamID int) (*store.Game, error)
	Insert(ctx context.Context, game *store.Game) (*store.Game, error)
	Update(ctx context.Context, game *store.Game) error
	CountForTeam(ctx context.Context, teamID int) (int, error)
}

// StatsStore is the slice of the stats repository the engine needs.
type StatsStore interface {
	FindByPlayerAndGame(ctx context.Context, playerID, gameID int) (*store.PlayerGameStats, error)
	Insert(ctx context.Context, s *store.PlayerGameStats) (*store.PlayerGameStats, error)
	Update(ctx context.Context, s *store.PlayerGameStats) error
}

// Engine upserts canonical records. Writes against the same natural key
// are serialized with per-key mutexes; everything else runs concurrently.
type Engine struct {
	teams   TeamStore
	players PlayerStore
	games   GameStore
	stats   StatsStore

	teamLocks *keyedMutex
	gameLocks *keyedMutex
	statLocks *keyedMutex
}

// NewEngine creates a reconciliation engine over the given repositories.
func NewEngine(teams TeamStore, players PlayerStore, games GameStore, stats StatsStore) *Engine {
	return &Engine{
		teams:     teams,
		players:   players,
		games:     games,
		stats:     stats,
		teamLocks: newKeyedMutex(),
		gameLocks: newKeyedMutex(),
		statLocks: newKeyedMutex(),
	}
}

// ReconcileTeam upserts a franchise row keyed by abbreviation. Returns
// the stored row and whether a new row was created.
func (e *Engine) ReconcileTeam(ctx context.Context, team *mapper.Team) (*store.Team, bool, error) {
	unlock := e.teamLocks.Lock("team:" + team.Abbreviation)
	defer unlock()

	existing, err := e.teams.FindByAbbreviation(ctx, team.Abbreviation)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, false, err
	}

	if existing == nil {
		row := &store.Team{
			ExternalID:   nullString(team.ExternalID),
			Abbreviation: team.Abbreviation,
			Name:         team.Name,
			City:         team.City,
			Conference:   team.Conference,
			Division:     team.Division,
		}
		created, err := e.teams.Insert(ctx, row)
		if err != nil {
			return nil, false, err
		}
		log.Printf("[reconcile] ✓ Created team %s", team.Abbreviation)
		return created, true, nil
	}

	existing.Name = team.Name
	existing.City = team.City
	existing.Conference = team.Conference
	existing.Division = team.Division
	if team.ExternalID != "" {
		existing.ExternalID = nullString(team.ExternalID)
	}
	if err := e.teams.Update(ctx, existing); err != nil {
		return nil, false, err
	}

	return existing, false, nil
}

// ReconcileGame upserts a game keyed by (season, week, home, away).
// Team abbreviations are resolved to IDs here; a game whose home and
// away sides are the same franchise is rejected before any write.
func (e *Engine) ReconcileGame(ctx context.Context, game *mapper.Game) (*store.Game, bool, error) {
	if game.HomeTeam == game.AwayTeam {
		return nil, false, &InvalidGameError{
			Reason: fmt.Sprintf("%s cannot play itself", game.HomeTeam),
		}
	}

	home, err := e.teams.FindByAbbreviation(ctx, game.HomeTeam)
	if err != nil {
		return nil, false, fmt.Errorf("resolving home team %s: %w", game.HomeTeam, err)
	}
	away, err := e.teams.FindByAbbreviation(ctx, game.AwayTeam)
	if err != nil {
		return nil, false, fmt.Errorf("resolving away team %s: %w", game.AwayTeam, err)
	}

	key := fmt.Sprintf("game:%d/%d/%d/%d", game.Season, game.Week, home.TeamID, away.TeamID)
	unlock := e.gameLocks.Lock(key)
	defer unlock()

	existing, err := e.games.FindByNaturalKey(ctx, game.Season, game.Week, home.TeamID, away.TeamID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, false, err
	}

	if existing == nil {
		row := &store.Game{
			ExternalID: nullString(game.ExternalID),
			Season:     game.Season,
			Week:       game.Week,
			GameDate:   game.Date,
			HomeTeamID: home.TeamID,
			AwayTeamID: away.TeamID,
			HomeScore:  nullScore(game.HomeScore),
			AwayScore:  nullScore(game.AwayScore),
			Status:     game.Status,
		}
		created, err := e.games.Insert(ctx, row)
		if err != nil {
			return nil, false, err
		}
		return created, true, nil
	}

	existing.GameDate = game.Date
	existing.HomeScore = nullScore(game.HomeScore)
	existing.AwayScore = nullScore(game.AwayScore)
	existing.Status = game.Status
	if game.ExternalID != "" {
		existing.ExternalID = nullString(game.ExternalID)
	}
	if err := e.games.Update(ctx, existing); err != nil {
		return nil, false, err
	}

	return existing, false, nil
}

// ReconcileStats upserts one stat line for a stored game. The player is
// resolved by external ID first, then by name on the roster; unknown
// players are created on the fly. Corrections overwrite in place, so
// one (player, game) pair always holds exactly one row.
func (e *Engine) ReconcileStats(ctx context.Context, gameID int, line *mapper.StatLine) (*store.PlayerGameStats, bool, error) {
	player, err := e.resolvePlayer(ctx, line)
	if err != nil {
		return nil, false, fmt.Errorf("resolving player %s: %w", line.PlayerName, err)
	}

	key := fmt.Sprintf("stat:%d/%d", player.PlayerID, gameID)
	unlock := e.statLocks.Lock(key)
	defer unlock()

	existing, err := e.stats.FindByPlayerAndGame(ctx, player.PlayerID, gameID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, false, err
	}

	if existing == nil {
		row := statRow(line)
		row.PlayerID = player.PlayerID
		row.GameID = gameID
		created, err := e.stats.Insert(ctx, row)
		if err != nil {
			return nil, false, err
		}
		return created, true, nil
	}

	updated := statRow(line)
	updated.StatID = existing.StatID
	updated.PlayerID = existing.PlayerID
	updated.GameID = existing.GameID
	updated.CreatedAt = existing.CreatedAt
	if err := e.stats.Update(ctx, updated); err != nil {
		return nil, false, err
	}

	return updated, false, nil
}

// DeleteTeam removes a franchise. Deletion is blocked while any game
// references the team; on success every rostered player becomes a free
// agent rather than being deleted with the franchise.
func (e *Engine) DeleteTeam(ctx context.Context, abbr string) error {
	unlock := e.teamLocks.Lock("team:" + abbr)
	defer unlock()

	team, err := e.teams.FindByAbbreviation(ctx, abbr)
	if err != nil {
		return err
	}

	count, err := e.games.CountForTeam(ctx, team.TeamID)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: %s has %d games", ErrTeamHasGames, abbr, count)
	}

	if err := e.players.ClearTeam(ctx, team.TeamID); err != nil {
		return err
	}
	if err := e.teams.Delete(ctx, team.TeamID); err != nil {
		return err
	}

	log.Printf("[reconcile] ✓ Deleted team %s", abbr)
	return nil
}

// resolvePlayer finds or creates the player row a stat line belongs to.
func (e *Engine) resolvePlayer(ctx context.Context, line *mapper.StatLine) (*store.Player, error) {
	team, err := e.teams.FindByAbbreviation(ctx, line.Team)
	if err != nil {
		return nil, fmt.Errorf("resolving team %s: %w", line.Team, err)
	}

	lockKey := "player:" + line.PlayerExternalID
	if line.PlayerExternalID == "" {
		lockKey = fmt.Sprintf("player:%s/%d", line.PlayerName, team.TeamID)
	}
	unlock := e.statLocks.Lock(lockKey)
	defer unlock()

	var player *store.Player
	if line.PlayerExternalID != "" {
		player, err = e.players.FindByExternalID(ctx, line.PlayerExternalID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}
	if player == nil {
		player, err = e.players.FindByNameAndTeam(ctx, line.PlayerName, team.TeamID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}

	if player == nil {
		row := &store.Player{
			ExternalID:   nullString(line.PlayerExternalID),
			Name:         line.PlayerName,
			TeamID:       sql.NullInt32{Int32: int32(team.TeamID), Valid: true},
			Position:     line.Position,
			JerseyNumber: nullInt(line.Jersey),
		}
		created, err := e.players.Insert(ctx, row)
		if err != nil {
			return nil, err
		}
		log.Printf("[reconcile] ✓ Created player %s (%s)", line.PlayerName, line.Team)
		return created, nil
	}

	// Keep roster facts current: trades move the team, providers may
	// backfill an external ID we did not have before.
	dirty := false
	if !player.TeamID.Valid || int(player.TeamID.Int32) != team.TeamID {
		player.TeamID = sql.NullInt32{Int32: int32(team.TeamID), Valid: true}
		dirty = true
	}
	if line.Position != "" && player.Position != line.Position {
		player.Position = line.Position
		dirty = true
	}
	if line.PlayerExternalID != "" && !player.ExternalID.Valid {
		player.ExternalID = nullString(line.PlayerExternalID)
		dirty = true
	}
	if dirty {
		if err := e.players.Update(ctx, player); err != nil {
			return nil, err
		}
	}

	return player, nil
}

func statRow(line *mapper.StatLine) *store.PlayerGameStats {
	return &store.PlayerGameStats{
		PassCompletions:     line.PassCompletions,
		PassAttempts:        line.PassAttempts,
		PassYards:           line.PassYards,
		PassTouchdowns:      line.PassTouchdowns,
		Interceptions:       line.Interceptions,
		RushAttempts:        line.RushAttempts,
		RushYards:           line.RushYards,
		RushTouchdowns:      line.RushTouchdowns,
		Receptions:          line.Receptions,
		ReceivingYards:      line.ReceivingYards,
		ReceivingTouchdowns: line.ReceivingTouchdowns,
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n *int) sql.NullInt32 {
	if n == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(*n), Valid: true}
}

func nullScore(n *int) sql.NullInt32 {
	if n == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(*n), Valid: true}
}
