// Package sportsdata implements the provider.Client capability set against a
// SportsData.io-style NFL API. Authentication is an API key header
// (Ocp-Apim-Subscription-Key by convention), configured per provider.
package sportsdata

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/kayGweb/gridiron/internal/config"
	"github.com/kayGweb/gridiron/internal/provider"
	"github.com/kayGweb/gridiron/internal/ratelimit"
)

// DefaultBaseURL is the public API root.
const DefaultBaseURL = "https://api.sportsdata.io/v3/nfl"

// apiTeam mirrors the upstream team schema.
type apiTeam struct {
	Key        string `json:"Key"`
	TeamID     int    `json:"TeamID"`
	City       string `json:"City"`
	Name       string `json:"Name"`
	Conference string `json:"Conference"`
	Division   string `json:"Division"`
}

// apiGame mirrors the upstream schedule schema.
type apiGame struct {
	GameKey   string `json:"GameKey"`
	Season    int    `json:"Season"`
	Week      int    `json:"Week"`
	HomeTeam  string `json:"HomeTeam"`
	AwayTeam  string `json:"AwayTeam"`
	HomeScore *int   `json:"HomeScore"`
	AwayScore *int   `json:"AwayScore"`
	Status    string `json:"Status"`
	DateTime  string `json:"DateTime"`
	IsClosed  bool   `json:"IsClosed"`
}

// apiPlayerGame mirrors the upstream per-player box score schema. Counting
// stats are floats upstream even though game-level values are integral.
type apiPlayerGame struct {
	PlayerID             int     `json:"PlayerID"`
	Name                 string  `json:"Name"`
	Team                 string  `json:"Team"`
	Position             string  `json:"Position"`
	Number               int     `json:"Number"`
	PassingCompletions   float64 `json:"PassingCompletions"`
	PassingAttempts      float64 `json:"PassingAttempts"`
	PassingYards         float64 `json:"PassingYards"`
	PassingTouchdowns    float64 `json:"PassingTouchdowns"`
	PassingInterceptions float64 `json:"PassingInterceptions"`
	RushingAttempts      float64 `json:"RushingAttempts"`
	RushingYards         float64 `json:"RushingYards"`
	RushingTouchdowns    float64 `json:"RushingTouchdowns"`
	Receptions           float64 `json:"Receptions"`
	ReceivingYards       float64 `json:"ReceivingYards"`
	ReceivingTouchdowns  float64 `json:"ReceivingTouchdowns"`
}

// Client fetches NFL data from a SportsData.io-compatible API.
type Client struct {
	baseURL string
	fetcher *provider.Fetcher
}

// New creates a SportsData provider client.
func New(cfg config.Provider, limiter *ratelimit.Limiter, userAgent string, timeout time.Duration) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		baseURL: baseURL,
		fetcher: &provider.Fetcher{
			ProviderName: cfg.Name,
			HTTPClient:   &http.Client{Timeout: timeout},
			UserAgent:    userAgent,
			Cfg:          cfg,
			Limiter:      limiter,
		},
	}
}

// Name implements provider.Client.
func (c *Client) Name() string { return c.fetcher.ProviderName }

// FetchTeams returns the league's team list.
func (c *Client) FetchTeams(ctx context.Context) ([]provider.TeamRecord, error) {
	var teams []apiTeam
	if err := c.fetcher.GetJSON(ctx, c.baseURL+"/scores/json/Teams", &teams); err != nil {
		return nil, err
	}

	records := make([]provider.TeamRecord, 0, len(teams))
	for _, t := range teams {
		records = append(records, provider.TeamRecord{
			ExternalID:   strconv.Itoa(t.TeamID),
			Abbreviation: t.Key,
			City:         t.City,
			Name:         t.Name,
		})
	}
	return records, nil
}

// FetchSchedule returns the games of a season. The upstream endpoint is
// season-scoped; a positive week filters the response locally.
func (c *Client) FetchSchedule(ctx context.Context, season, week int) ([]provider.GameRecord, error) {
	url := fmt.Sprintf("%s/scores/json/Schedules/%d", c.baseURL, season)

	var games []apiGame
	if err := c.fetcher.GetJSON(ctx, url, &games); err != nil {
		return nil, err
	}

	records := make([]provider.GameRecord, 0, len(games))
	for _, g := range games {
		if week > 0 && g.Week != week {
			continue
		}

		record := provider.GameRecord{
			ExternalID: g.GameKey,
			Season:     g.Season,
			Week:       g.Week,
			HomeTeam:   g.HomeTeam,
			AwayTeam:   g.AwayTeam,
			Status:     g.Status,
			Completed:  g.IsClosed,
		}
		if g.HomeScore != nil {
			record.HomeScore = strconv.Itoa(*g.HomeScore)
		}
		if g.AwayScore != nil {
			record.AwayScore = strconv.Itoa(*g.AwayScore)
		}
		if g.DateTime != "" {
			if parsed, err := time.Parse("2006-01-02T15:04:05", g.DateTime); err == nil {
				record.Date = parsed
			}
		}
		records = append(records, record)
	}
	return records, nil
}

// FetchBoxScore returns the per-player stat lines for one game.
func (c *Client) FetchBoxScore(ctx context.Context, gameExternalID string) ([]provider.PlayerStatRecord, error) {
	url := fmt.Sprintf("%s/stats/json/PlayerGameStatsByGame/%s", c.baseURL, gameExternalID)

	var lines []apiPlayerGame
	if err := c.fetcher.GetJSON(ctx, url, &lines); err != nil {
		return nil, err
	}

	records := make([]provider.PlayerStatRecord, 0, len(lines))
	for _, line := range lines {
		records = append(records, provider.PlayerStatRecord{
			GameExternalID:      gameExternalID,
			PlayerExternalID:    strconv.Itoa(line.PlayerID),
			PlayerName:          line.Name,
			Team:                line.Team,
			Position:            line.Position,
			Jersey:              strconv.Itoa(line.Number),
			PassCompletions:     formatCount(line.PassingCompletions),
			PassAttempts:        formatCount(line.PassingAttempts),
			PassYards:           formatCount(line.PassingYards),
			PassTouchdowns:      formatCount(line.PassingTouchdowns),
			Interceptions:       formatCount(line.PassingInterceptions),
			RushAttempts:        formatCount(line.RushingAttempts),
			RushYards:           formatCount(line.RushingYards),
			RushTouchdowns:      formatCount(line.RushingTouchdowns),
			Receptions:          formatCount(line.Receptions),
			ReceivingYards:      formatCount(line.ReceivingYards),
			ReceivingTouchdowns: formatCount(line.ReceivingTouchdowns),
		})
	}
	return records, nil
}

func formatCount(v float64) string {
	return strconv.Itoa(int(v))
}
