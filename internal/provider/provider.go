// Package provider defines the capability-set interface implemented by each
// upstream data source, plus the provider-neutral record types their
// responses are parsed into. Records carry raw strings and the provider's own
// identifiers; resolution against canonical entities happens in the mapper.
package provider

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// TeamRecord is one team as reported by an upstream source.
type TeamRecord struct {
	ExternalID   string
	Abbreviation string
	City         string
	Name         string
}

// GameRecord is one scheduled or played game as reported by an upstream
// source. Scores are raw strings; empty means the game has not been played.
type GameRecord struct {
	ExternalID string
	Season     int
	Week       int
	Date       time.Time
	HomeTeam   string // provider's abbreviation, not yet normalized
	AwayTeam   string
	HomeScore  string
	AwayScore  string
	Status     string
	Completed  bool
}

// PlayerStatRecord is one player's stat line in one game, raw from the
// provider. Counting stats stay strings so blank/absent values survive until
// the mapper normalizes them.
type PlayerStatRecord struct {
	GameExternalID   string
	PlayerExternalID string
	PlayerName       string
	Team             string
	Position         string
	Jersey           string

	PassCompletions string
	PassAttempts    string
	PassYards       string
	PassTouchdowns  string
	Interceptions   string

	RushAttempts   string
	RushYards      string
	RushTouchdowns string

	Receptions          string
	ReceivingYards      string
	ReceivingTouchdowns string
}

// Client is the capability set every provider implements. Each fetch issues
// one or more rate-limited HTTP requests bounded by the configured timeout.
type Client interface {
	// Name returns the registry key for this provider.
	Name() string

	// FetchTeams returns the provider's team list.
	FetchTeams(ctx context.Context) ([]TeamRecord, error)

	// FetchSchedule returns the games of a season. week > 0 restricts the
	// fetch to a single week; otherwise the whole season is fetched.
	FetchSchedule(ctx context.Context, season, week int) ([]GameRecord, error)

	// FetchBoxScore returns the per-player stat lines for one game,
	// identified by the provider's own game id.
	FetchBoxScore(ctx context.Context, gameExternalID string) ([]PlayerStatRecord, error)
}

// FetchError describes a failed fetch. Transient failures (timeouts, 5xx,
// connection resets) are worth retrying; structural ones (4xx, unparseable
// payloads) are not.
type FetchError struct {
	Provider   string
	URL        string
	StatusCode int
	Transient  bool
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: fetch %s: status %d", e.Provider, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s: fetch %s: %v", e.Provider, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsTransient reports whether err is a retryable fetch failure.
func IsTransient(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Transient
}
