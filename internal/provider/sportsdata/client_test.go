package sportsdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kayGweb/gridiron/internal/config"
	"github.com/kayGweb/gridiron/internal/ratelimit"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.Provider{
		Name:           "sportsdata",
		BaseURL:        server.URL,
		APIKey:         "test-key",
		AuthType:       config.AuthAPIKeyHeader,
		AuthHeaderName: "Ocp-Apim-Subscription-Key",
	}
	return New(cfg, ratelimit.New(time.Millisecond), "gridiron-test/1.0", 5*time.Second)
}

func TestFetchScheduleSendsAPIKeyAndFiltersWeek(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("Ocp-Apim-Subscription-Key"))
		w.Write([]byte(`[
			{"GameKey": "202410120", "Season": 2024, "Week": 1, "HomeTeam": "PHI", "AwayTeam": "GB",
			 "HomeScore": 34, "AwayScore": 29, "Status": "Final", "DateTime": "2024-09-06T20:15:00", "IsClosed": true},
			{"GameKey": "202410238", "Season": 2024, "Week": 2, "HomeTeam": "DAL", "AwayTeam": "NO",
			 "HomeScore": null, "AwayScore": null, "Status": "Scheduled", "DateTime": "2024-09-15T13:00:00", "IsClosed": false}
		]`))
	}))

	games, err := client.FetchSchedule(context.Background(), 2024, 1)
	require.NoError(t, err)
	require.Len(t, games, 1)

	game := games[0]
	assert.Equal(t, "202410120", game.ExternalID)
	assert.Equal(t, "PHI", game.HomeTeam)
	assert.Equal(t, "34", game.HomeScore)
	assert.True(t, game.Completed)
}

func TestFetchSchedulePreservesUnplayedScoresAsBlank(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"GameKey": "202410238", "Season": 2024, "Week": 2, "HomeTeam": "DAL", "AwayTeam": "NO",
			 "HomeScore": null, "AwayScore": null, "Status": "Scheduled", "DateTime": "2024-09-15T13:00:00", "IsClosed": false}
		]`))
	}))

	games, err := client.FetchSchedule(context.Background(), 2024, 0)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Empty(t, games[0].HomeScore)
	assert.Empty(t, games[0].AwayScore)
}

func TestFetchBoxScoreMapsCountingStats(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "PlayerGameStatsByGame/202410120")
		w.Write([]byte(`[
			{"PlayerID": 19063, "Name": "Jalen Hurts", "Team": "PHI", "Position": "QB", "Number": 1,
			 "PassingCompletions": 20, "PassingAttempts": 34, "PassingYards": 278, "PassingTouchdowns": 2,
			 "PassingInterceptions": 2, "RushingAttempts": 13, "RushingYards": 33, "RushingTouchdowns": 2,
			 "Receptions": 0, "ReceivingYards": 0, "ReceivingTouchdowns": 0}
		]`))
	}))

	stats, err := client.FetchBoxScore(context.Background(), "202410120")
	require.NoError(t, err)
	require.Len(t, stats, 1)

	line := stats[0]
	assert.Equal(t, "19063", line.PlayerExternalID)
	assert.Equal(t, "20", line.PassCompletions)
	assert.Equal(t, "34", line.PassAttempts)
	assert.Equal(t, "278", line.PassYards)
	assert.Equal(t, "2", line.Interceptions)
	assert.Equal(t, "13", line.RushAttempts)
	assert.Equal(t, "0", line.Receptions)
}
