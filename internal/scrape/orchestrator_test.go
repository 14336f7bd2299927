package scrape

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kayGweb/gridiron/internal/mapper"
	"github.com/kayGweb/gridiron/internal/provider"
	"github.com/kayGweb/gridiron/internal/reconcile"
	"github.com/kayGweb/gridiron/internal/store"
)

type stubClient struct {
	name string

	teams       []provider.TeamRecord
	games       []provider.GameRecord
	stats       map[string][]provider.PlayerStatRecord
	scheduleErr []error // consumed one per FetchSchedule call

	mu            sync.Mutex
	scheduleCalls int
	boxScoreCalls int
}

func (c *stubClient) Name() string { return c.name }

func (c *stubClient) FetchTeams(_ context.Context) ([]provider.TeamRecord, error) {
	return c.teams, nil
}

func (c *stubClient) FetchSchedule(_ context.Context, _, _ int) ([]provider.GameRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scheduleCalls++
	if len(c.scheduleErr) > 0 {
		err := c.scheduleErr[0]
		c.scheduleErr = c.scheduleErr[1:]
		if err != nil {
			return nil, err
		}
	}
	return c.games, nil
}

func (c *stubClient) FetchBoxScore(_ context.Context, gameExternalID string) ([]provider.PlayerStatRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.boxScoreCalls++
	return c.stats[gameExternalID], nil
}

type stubClients struct {
	client *stubClient
}

func (s *stubClients) Get(name string) (provider.Client, error) {
	if s.client == nil || s.client.name != name {
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
	return s.client, nil
}

type stubReconciler struct {
	mu         sync.Mutex
	nextGameID int
	games      int
	teams      int
	stats      int
	failTeams  map[string]error
}

func newStubReconciler() *stubReconciler {
	return &stubReconciler{nextGameID: 1, failTeams: make(map[string]error)}
}

func (r *stubReconciler) ReconcileTeam(_ context.Context, team *mapper.Team) (*store.Team, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failTeams[team.Abbreviation]; err != nil {
		return nil, false, err
	}
	r.teams++
	return &store.Team{TeamID: r.teams, Abbreviation: team.Abbreviation}, true, nil
}

func (r *stubReconciler) ReconcileGame(_ context.Context, game *mapper.Game) (*store.Game, bool, error) {
	if game.HomeTeam == game.AwayTeam {
		return nil, false, &reconcile.InvalidGameError{
			Reason: fmt.Sprintf("%s cannot play itself", game.HomeTeam),
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.games++
	id := r.nextGameID
	r.nextGameID++
	return &store.Game{GameID: id, Season: game.Season, Week: game.Week}, true, nil
}

func (r *stubReconciler) ReconcileStats(_ context.Context, gameID int, _ *mapper.StatLine) (*store.PlayerGameStats, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats++
	return &store.PlayerGameStats{StatID: r.stats, GameID: gameID}, true, nil
}

type memCache struct {
	mu      sync.Mutex
	data    map[string]string
	deleted []string
}

func newMemCache() *memCache { return &memCache{data: make(map[string]string)} }

func (c *memCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return "", errors.New("miss")
	}
	return v, nil
}

func (c *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value.(string)
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.data, key)
		c.deleted = append(c.deleted, key)
	}
	return nil
}

func transientErr() error {
	return &provider.FetchError{Provider: "espn", StatusCode: 503, Transient: true, Err: errors.New("upstream down")}
}

func gameRecord(id, home, away string, completed bool) provider.GameRecord {
	rec := provider.GameRecord{
		ExternalID: id,
		Season:     2025,
		Week:       1,
		Date:       time.Date(2025, 9, 7, 17, 0, 0, 0, time.UTC),
		HomeTeam:   home,
		AwayTeam:   away,
		Status:     "scheduled",
	}
	if completed {
		rec.HomeScore = "24"
		rec.AwayScore = "17"
		rec.Status = "final"
		rec.Completed = true
	}
	return rec
}

func TestRunRetriesTransientThenSucceeds(t *testing.T) {
	client := &stubClient{
		name:        "espn",
		games:       []provider.GameRecord{gameRecord("g1", "KC", "LV", false)},
		scheduleErr: []error{transientErr(), transientErr(), nil},
	}
	o := NewOrchestrator(&stubClients{client: client}, newStubReconciler(), nil, nil, 3)

	result := o.Run(context.Background(), Job{Provider: "espn", Season: 2025, Week: 1})

	assert.True(t, result.Success)
	assert.Equal(t, 3, client.scheduleCalls)
	assert.Equal(t, 1, result.RecordsProcessed)
}

func TestRunRetriesRequestTimeouts(t *testing.T) {
	timeout := func() error {
		return &provider.FetchError{Provider: "espn", Transient: true, Err: context.DeadlineExceeded}
	}
	client := &stubClient{
		name:        "espn",
		games:       []provider.GameRecord{gameRecord("g1", "KC", "LV", false)},
		scheduleErr: []error{timeout(), timeout(), nil},
	}
	o := NewOrchestrator(&stubClients{client: client}, newStubReconciler(), nil, nil, 3)

	result := o.Run(context.Background(), Job{Provider: "espn", Season: 2025, Week: 1})

	assert.True(t, result.Success)
	assert.Equal(t, 3, client.scheduleCalls)
	assert.Equal(t, 1, result.RecordsProcessed)
}

func TestRunGivesUpAfterMaxRetries(t *testing.T) {
	client := &stubClient{
		name:        "espn",
		scheduleErr: []error{transientErr(), transientErr(), transientErr(), transientErr()},
	}
	o := NewOrchestrator(&stubClients{client: client}, newStubReconciler(), nil, nil, 3)

	result := o.Run(context.Background(), Job{Provider: "espn", Season: 2025, Week: 1})

	assert.False(t, result.Success)
	assert.Equal(t, 3, client.scheduleCalls)
	assert.Contains(t, result.Message, "provider unreachable")
	assert.NotEmpty(t, result.Errors)
}

func TestRunDoesNotRetryPermanentFailure(t *testing.T) {
	permanent := &provider.FetchError{Provider: "espn", StatusCode: 404, Err: errors.New("not found")}
	client := &stubClient{
		name:        "espn",
		scheduleErr: []error{permanent, nil},
	}
	o := NewOrchestrator(&stubClients{client: client}, newStubReconciler(), nil, nil, 3)

	result := o.Run(context.Background(), Job{Provider: "espn", Season: 2025, Week: 1})

	assert.False(t, result.Success)
	assert.Equal(t, 1, client.scheduleCalls)
}

func TestRunPartialBatchStillSucceeds(t *testing.T) {
	games := make([]provider.GameRecord, 0, 10)
	for i := 0; i < 8; i++ {
		games = append(games, gameRecord(fmt.Sprintf("g%d", i), "KC", "LV", false))
	}
	games = append(games, gameRecord("bad1", "XXX", "LV", false)) // unknown home team
	games = append(games, gameRecord("bad2", "KC", "YYY", false)) // unknown away team

	client := &stubClient{name: "espn", games: games}
	engine := newStubReconciler()
	o := NewOrchestrator(&stubClients{client: client}, engine, nil, nil, 3)

	result := o.Run(context.Background(), Job{Provider: "espn", Season: 2025, Week: 1})

	assert.True(t, result.Success)
	assert.Equal(t, 8, result.RecordsProcessed)
	assert.Equal(t, 2, result.RecordsFailed)
	assert.Len(t, result.Errors, 2)
	assert.Equal(t, 8, engine.games)
}

func TestRunSameTeamGameFailsWholeRun(t *testing.T) {
	games := []provider.GameRecord{
		gameRecord("g1", "KC", "LV", false),
		gameRecord("g2", "PHI", "DAL", false),
		gameRecord("bad", "KC", "KC", false),
	}

	client := &stubClient{name: "espn", games: games}
	engine := newStubReconciler()
	o := NewOrchestrator(&stubClients{client: client}, engine, nil, nil, 3)

	result := o.Run(context.Background(), Job{Provider: "espn", Season: 2025, Week: 1})

	assert.False(t, result.Success)
	assert.Equal(t, 2, result.RecordsProcessed)
	assert.Equal(t, 1, result.RecordsFailed)
	assert.Equal(t, 2, engine.games)
}

func TestRunIngestsBoxScoresForCompletedGames(t *testing.T) {
	client := &stubClient{
		name: "espn",
		games: []provider.GameRecord{
			gameRecord("g1", "KC", "LV", true),
			gameRecord("g2", "PHI", "DAL", false),
		},
		stats: map[string][]provider.PlayerStatRecord{
			"g1": {
				{GameExternalID: "g1", PlayerName: "Patrick Mahomes", Team: "KC", Position: "QB", PassYards: "291"},
				{GameExternalID: "g1", PlayerName: "Travis Kelce", Team: "KC", Position: "TE", Receptions: "7"},
			},
		},
	}
	engine := newStubReconciler()
	o := NewOrchestrator(&stubClients{client: client}, engine, nil, nil, 3)

	result := o.Run(context.Background(), Job{Provider: "espn", Season: 2025, Week: 1})

	assert.True(t, result.Success)
	// 2 games + 2 stat lines
	assert.Equal(t, 4, result.RecordsProcessed)
	assert.Equal(t, 1, client.boxScoreCalls)
	assert.Equal(t, 2, engine.stats)
}

func TestRunServesBoxScoreFromCache(t *testing.T) {
	cached, err := json.Marshal([]provider.PlayerStatRecord{
		{GameExternalID: "g1", PlayerName: "Brock Purdy", Team: "SF", Position: "QB", PassYards: "255"},
	})
	require.NoError(t, err)

	cache := newMemCache()
	cache.data["boxscore:espn:g1"] = string(cached)

	client := &stubClient{
		name:  "espn",
		games: []provider.GameRecord{gameRecord("g1", "SF", "SEA", true)},
	}
	o := NewOrchestrator(&stubClients{client: client}, newStubReconciler(), cache, nil, 3)

	result := o.Run(context.Background(), Job{Provider: "espn", Season: 2025, Week: 1})

	assert.True(t, result.Success)
	assert.Equal(t, 0, client.boxScoreCalls)
	assert.Equal(t, 2, result.RecordsProcessed) // game + cached stat line
}

func TestRunEvictsCorruptCacheEntry(t *testing.T) {
	cache := newMemCache()
	cache.data["boxscore:espn:g1"] = "{not json"

	client := &stubClient{
		name:  "espn",
		games: []provider.GameRecord{gameRecord("g1", "SF", "SEA", true)},
		stats: map[string][]provider.PlayerStatRecord{
			"g1": {
				{GameExternalID: "g1", PlayerName: "Brock Purdy", Team: "SF", Position: "QB", PassYards: "255"},
			},
		},
	}
	o := NewOrchestrator(&stubClients{client: client}, newStubReconciler(), cache, nil, 3)

	result := o.Run(context.Background(), Job{Provider: "espn", Season: 2025, Week: 1})

	assert.True(t, result.Success)
	assert.Equal(t, 1, client.boxScoreCalls)
	assert.Equal(t, []string{"boxscore:espn:g1"}, cache.deleted)

	var repopulated []provider.PlayerStatRecord
	require.NoError(t, json.Unmarshal([]byte(cache.data["boxscore:espn:g1"]), &repopulated))
	require.Len(t, repopulated, 1)
	assert.Equal(t, "Brock Purdy", repopulated[0].PlayerName)
}

func TestRunUnknownProvider(t *testing.T) {
	o := NewOrchestrator(&stubClients{}, newStubReconciler(), nil, nil, 3)

	result := o.Run(context.Background(), Job{Provider: "nope", Season: 2025})

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "unsupported provider")
}

func TestRunStopsOnCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &stubClient{
		name:  "espn",
		games: []provider.GameRecord{gameRecord("g1", "KC", "LV", false)},
	}
	o := NewOrchestrator(&stubClients{client: client}, newStubReconciler(), nil, nil, 3)

	result := o.Run(ctx, Job{Provider: "espn", Season: 2025, Week: 1})

	assert.False(t, result.Success)
	assert.Zero(t, result.RecordsProcessed)
}

func TestSyncTeams(t *testing.T) {
	client := &stubClient{
		name: "espn",
		teams: []provider.TeamRecord{
			{ExternalID: "12", Abbreviation: "KC"},
			{ExternalID: "21", Abbreviation: "PHI"},
			{ExternalID: "99", Abbreviation: "XXX"},
		},
	}
	engine := newStubReconciler()
	o := NewOrchestrator(&stubClients{client: client}, engine, nil, nil, 3)

	result := o.SyncTeams(context.Background(), "espn")

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.RecordsProcessed)
	assert.Equal(t, 1, result.RecordsFailed)
	assert.Equal(t, 2, engine.teams)
}
