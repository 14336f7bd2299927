// Package espn implements the provider.Client capability set against the
// ESPN NFL site API.
package espn

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kayGweb/gridiron/internal/config"
	"github.com/kayGweb/gridiron/internal/provider"
	"github.com/kayGweb/gridiron/internal/ratelimit"
)

const (
	// DefaultBaseURL is the public site API root.
	DefaultBaseURL = "https://site.api.espn.com"

	footballNFL = "apis/site/v2/sports/football/nfl"

	// regularSeasonWeeks bounds the week sweep for a full-season fetch.
	regularSeasonWeeks = 18

	// seasonTypeRegular is ESPN's season type code for the regular season.
	seasonTypeRegular = 2
)

// Client fetches NFL teams, schedules and box scores from ESPN.
type Client struct {
	baseURL string
	fetcher *provider.Fetcher
}

// New creates an ESPN provider client.
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
	url := fmt.Sprintf("%s/%s/teams", c.baseURL, footballNFL)

	var payload map[string]interface{}
	if err := c.fetcher.GetJSON(ctx, url, &payload); err != nil {
		return nil, err
	}

	return parseTeams(payload)
}

// FetchSchedule returns the games of a season. A positive week fetches that
// single week; otherwise all regular-season weeks are swept, each request
// going through the rate limiter.
func (c *Client) FetchSchedule(ctx context.Context, season, week int) ([]provider.GameRecord, error) {
	if week > 0 {
		return c.fetchWeek(ctx, season, week)
	}

	var games []provider.GameRecord
	for w := 1; w <= regularSeasonWeeks; w++ {
		if err := ctx.Err(); err != nil {
			return games, err
		}
		weekGames, err := c.fetchWeek(ctx, season, w)
		if err != nil {
			return nil, err
		}
		games = append(games, weekGames...)
	}
	return games, nil
}

func (c *Client) fetchWeek(ctx context.Context, season, week int) ([]provider.GameRecord, error) {
	url := fmt.Sprintf("%s/%s/scoreboard?dates=%d&seasontype=%d&week=%d",
		c.baseURL, footballNFL, season, seasonTypeRegular, week)

	var payload map[string]interface{}
	if err := c.fetcher.GetJSON(ctx, url, &payload); err != nil {
		return nil, err
	}

	return parseScoreboard(payload, season, week)
}

// FetchBoxScore returns the per-player stat lines for one game.
func (c *Client) FetchBoxScore(ctx context.Context, gameExternalID string) ([]provider.PlayerStatRecord, error) {
	url := fmt.Sprintf("%s/%s/summary?event=%s", c.baseURL, footballNFL, gameExternalID)

	var payload map[string]interface{}
	if err := c.fetcher.GetJSON(ctx, url, &payload); err != nil {
		return nil, err
	}

	return parseBoxScore(payload, gameExternalID)
}
