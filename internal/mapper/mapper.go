// Package mapper converts provider records into canonical rows. It is
// pure: no I/O, no clocks, identical input always yields identical output.
package mapper

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kayGweb/gridiron/internal/nfl"
	"github.com/kayGweb/gridiron/internal/provider"
)

// Team is a canonical franchise record keyed by abbreviation.
type Team struct {
	ExternalID   string
	Abbreviation string
	Name         string
	City         string
	Conference   string
	Division     string
}

// Game is a canonical game record. Team references are abbreviations;
// database IDs are resolved later, at reconcile time. Scores are nil
// for games that have not been played.
type Game struct {
	ExternalID string
	Season     int
	Week       int
	Date       time.Time
	HomeTeam   string
	AwayTeam   string
	HomeScore  *int
	AwayScore  *int
	Status     string
	Completed  bool
}

// StatLine is one player's canonical stat line for one game.
type StatLine struct {
	GameExternalID   string
	PlayerExternalID string
	PlayerName       string
	Team             string
	Position         string
	Jersey           *int

	PassCompletions     int
	PassAttempts        int
	PassYards           int
	PassTouchdowns      int
	Interceptions       int
	RushAttempts        int
	RushYards           int
	RushTouchdowns      int
	Receptions          int
	ReceivingYards      int
	ReceivingTouchdowns int
}

// UnknownTeamError reports a team reference that could not be resolved
// against the known franchise table.
type UnknownTeamError struct {
	Raw string
}

func (e *UnknownTeamError) Error() string {
	return fmt.Sprintf("unknown team: %q", e.Raw)
}

// MapTeam normalizes a provider team record. The abbreviation is
// resolved through the franchise alias table; city, name, conference
// and division come from the reference table so providers cannot
// disagree about them.
func MapTeam(rec provider.TeamRecord) (*Team, error) {
	info, ok := nfl.Lookup(rec.Abbreviation)
	if !ok {
		return nil, &UnknownTeamError{Raw: rec.Abbreviation}
	}

	return &Team{
		ExternalID:   rec.ExternalID,
		Abbreviation: info.Abbreviation,
		Name:         info.Name,
		City:         info.City,
		Conference:   info.Conference,
		Division:     info.Division,
	}, nil
}

// MapGame normalizes a provider game record. Blank score strings stay
// nil: an unplayed game is not a 0-0 game.
func MapGame(rec provider.GameRecord) (*Game, error) {
	if !nfl.IsValid(rec.HomeTeam) {
		return nil, &UnknownTeamError{Raw: rec.HomeTeam}
	}
	if !nfl.IsValid(rec.AwayTeam) {
		return nil, &UnknownTeamError{Raw: rec.AwayTeam}
	}
	home := nfl.Normalize(rec.HomeTeam)
	away := nfl.Normalize(rec.AwayTeam)

	if rec.Season <= 0 {
		return nil, fmt.Errorf("invalid season: %d", rec.Season)
	}
	if rec.Week <= 0 {
		return nil, fmt.Errorf("invalid week: %d", rec.Week)
	}

	homeScore, err := parseScore(rec.HomeScore)
	if err != nil {
		return nil, fmt.Errorf("home score: %w", err)
	}
	awayScore, err := parseScore(rec.AwayScore)
	if err != nil {
		return nil, fmt.Errorf("away score: %w", err)
	}

	return &Game{
		ExternalID: rec.ExternalID,
		Season:     rec.Season,
		Week:       rec.Week,
		Date:       rec.Date,
		HomeTeam:   home,
		AwayTeam:   away,
		HomeScore:  homeScore,
		AwayScore:  awayScore,
		Status:     rec.Status,
		Completed:  rec.Completed,
	}, nil
}

// MapStatLine normalizes a provider box-score row. Blank counting
// stats become 0; a quarterback with no carries rushed zero times.
func MapStatLine(rec provider.PlayerStatRecord) (*StatLine, error) {
	if !nfl.IsValid(rec.Team) {
		return nil, &UnknownTeamError{Raw: rec.Team}
	}
	team := nfl.Normalize(rec.Team)

	name := strings.TrimSpace(rec.PlayerName)
	if name == "" {
		return nil, fmt.Errorf("missing player name")
	}

	line := &StatLine{
		GameExternalID:   rec.GameExternalID,
		PlayerExternalID: rec.PlayerExternalID,
		PlayerName:       name,
		Team:             team,
		Position:         strings.ToUpper(strings.TrimSpace(rec.Position)),
	}

	if j := strings.TrimSpace(rec.Jersey); j != "" {
		n, err := strconv.Atoi(j)
		if err == nil && n >= 0 {
			line.Jersey = &n
		}
	}

	fields := []struct {
		name string
		raw  string
		dst  *int
	}{
		{"pass completions", rec.PassCompletions, &line.PassCompletions},
		{"pass attempts", rec.PassAttempts, &line.PassAttempts},
		{"pass yards", rec.PassYards, &line.PassYards},
		{"pass touchdowns", rec.PassTouchdowns, &line.PassTouchdowns},
		{"interceptions", rec.Interceptions, &line.Interceptions},
		{"rush attempts", rec.RushAttempts, &line.RushAttempts},
		{"rush yards", rec.RushYards, &line.RushYards},
		{"rush touchdowns", rec.RushTouchdowns, &line.RushTouchdowns},
		{"receptions", rec.Receptions, &line.Receptions},
		{"receiving yards", rec.ReceivingYards, &line.ReceivingYards},
		{"receiving touchdowns", rec.ReceivingTouchdowns, &line.ReceivingTouchdowns},
	}
	for _, f := range fields {
		n, err := parseCount(f.raw, f.name == "pass yards" || f.name == "rush yards" || f.name == "receiving yards")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = n
	}

	return line, nil
}

// parseCount converts a raw counting stat. Blank means the provider
// omitted the category, which reads as zero. Yardage may be negative
// (sacks, losses); event counts may not.
func parseCount(raw string, allowNegative bool) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "-" || raw == "--" {
		return 0, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", raw)
	}
	if n < 0 && !allowNegative {
		return 0, fmt.Errorf("negative count: %d", n)
	}

	return n, nil
}

// parseScore converts a raw score string; blank means not yet played.
func parseScore(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("not a number: %q", raw)
	}
	if n < 0 {
		return nil, fmt.Errorf("negative score: %d", n)
	}

	return &n, nil
}
