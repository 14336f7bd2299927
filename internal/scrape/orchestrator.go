// Package scrape drives the ingestion pipeline: fetch from a provider,
// map to canonical records, reconcile into the store, and report what
// happened per record.
package scrape

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/kayGweb/gridiron/internal/cache"
	"github.com/kayGweb/gridiron/internal/mapper"
	"github.com/kayGweb/gridiron/internal/provider"
	"github.com/kayGweb/gridiron/internal/reconcile"
	"github.com/kayGweb/gridiron/internal/store"
)

// Job names one scrape run: which provider to pull from and which
// slice of the season to pull. Week 0 means the whole season.
type Job struct {
	Provider string `json:"provider"`
	Season   int    `json:"season"`
	Week     int    `json:"week,omitempty"`
}

// Result summarizes one scrape run. Success means at least one record
// landed and no structural invariant was violated; a partial batch with
// ordinary per-record failures still counts as a success.
type Result struct {
	Provider         string    `json:"provider"`
	Season           int       `json:"season"`
	Week             int       `json:"week,omitempty"`
	Success          bool      `json:"success"`
	RecordsProcessed int       `json:"records_processed"`
	RecordsFailed    int       `json:"records_failed"`
	Message          string    `json:"message"`
	Errors           []string  `json:"errors,omitempty"`
	StartedAt        time.Time `json:"started_at"`
	FinishedAt       time.Time `json:"finished_at"`

	invariantViolated bool
}

// ClientSource hands out provider clients by name.
type ClientSource interface {
	Get(name string) (provider.Client, error)
}

// Reconciler is the slice of the reconciliation engine the
// orchestrator drives.
type Reconciler interface {
	ReconcileTeam(ctx context.Context, team *mapper.Team) (*store.Team, bool, error)
	ReconcileGame(ctx context.Context, game *mapper.Game) (*store.Game, bool, error)
	ReconcileStats(ctx context.Context, gameID int, line *mapper.StatLine) (*store.PlayerGameStats, bool, error)
}

// Cache is the optional payload cache in front of box-score fetches.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Publisher is the optional event sink for finished runs and game updates.
type Publisher interface {
	PublishGameUpdate(ctx context.Context, gameData interface{}) error
	PublishScrapeResult(ctx context.Context, result interface{}) error
}

// Orchestrator runs scrape jobs end to end.
type Orchestrator struct {
	clients    ClientSource
	engine     Reconciler
	cache      Cache
	publisher  Publisher
	maxRetries int
	cacheTTL   time.Duration
}

// NewOrchestrator creates an orchestrator. boxCache and publisher may
// be nil; the pipeline runs without them.
func NewOrchestrator(clients ClientSource, engine Reconciler, boxCache Cache, publisher Publisher, maxRetries int) *Orchestrator {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Orchestrator{
		clients:    clients,
		engine:     engine,
		cache:      boxCache,
		publisher:  publisher,
		maxRetries: maxRetries,
		cacheTTL:   cache.BoxScoreTTL,
	}
}

// Run executes one scrape job: schedule first, then box scores for
// every completed game. Individual record failures are recorded and
// skipped; the batch keeps going.
func (o *Orchestrator) Run(ctx context.Context, job Job) *Result {
	result := &Result{
		Provider:  job.Provider,
		Season:    job.Season,
		Week:      job.Week,
		StartedAt: time.Now(),
	}
	defer func() {
		result.FinishedAt = time.Now()
		result.Success = result.RecordsProcessed > 0 && !result.invariantViolated
		o.publishResult(ctx, result)
	}()

	client, err := o.clients.Get(job.Provider)
	if err != nil {
		result.Message = err.Error()
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	log.Printf("[scrape] Starting %s season %d week %d", job.Provider, job.Season, job.Week)

	var games []provider.GameRecord
	err = o.retry(ctx, "fetch schedule", func() error {
		var ferr error
		games, ferr = client.FetchSchedule(ctx, job.Season, job.Week)
		return ferr
	})
	if err != nil {
		result.Message = fmt.Sprintf("provider unreachable: %v", err)
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	completed := make(map[string]int) // game external ID -> stored game ID
	for _, rec := range games {
		if ctx.Err() != nil {
			result.Errors = append(result.Errors, ctx.Err().Error())
			result.Message = "cancelled"
			return result
		}

		canonical, err := mapper.MapGame(rec)
		if err != nil {
			result.RecordsFailed++
			result.Errors = append(result.Errors, fmt.Sprintf("game %s: %v", rec.ExternalID, err))
			continue
		}

		stored, created, err := o.engine.ReconcileGame(ctx, canonical)
		if err != nil {
			result.RecordsFailed++
			result.Errors = append(result.Errors, fmt.Sprintf("game %s: %v", rec.ExternalID, err))
			var invalidErr *reconcile.InvalidGameError
			if errors.As(err, &invalidErr) {
				result.invariantViolated = true
			}
			continue
		}
		result.RecordsProcessed++

		if canonical.Completed && rec.ExternalID != "" {
			completed[rec.ExternalID] = stored.GameID
		}
		if o.publisher != nil && (created || canonical.Completed) {
			if err := o.publisher.PublishGameUpdate(ctx, stored); err != nil {
				log.Printf("[scrape] ⚠️  Publishing game %d: %v", stored.GameID, err)
			}
		}
	}

	for externalID, gameID := range completed {
		if ctx.Err() != nil {
			result.Errors = append(result.Errors, ctx.Err().Error())
			result.Message = "cancelled"
			return result
		}
		o.ingestBoxScore(ctx, client, externalID, gameID, result)
	}

	result.Message = fmt.Sprintf("processed %d records, %d failed",
		result.RecordsProcessed, result.RecordsFailed)
	log.Printf("[scrape] ✓ %s: %s", job.Provider, result.Message)
	return result
}

// SyncTeams pulls the provider's franchise list and reconciles it.
func (o *Orchestrator) SyncTeams(ctx context.Context, providerName string) *Result {
	result := &Result{
		Provider:  providerName,
		StartedAt: time.Now(),
	}
	defer func() {
		result.FinishedAt = time.Now()
		result.Success = result.RecordsProcessed > 0
		o.publishResult(ctx, result)
	}()

	client, err := o.clients.Get(providerName)
	if err != nil {
		result.Message = err.Error()
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	var teams []provider.TeamRecord
	err = o.retry(ctx, "fetch teams", func() error {
		var ferr error
		teams, ferr = client.FetchTeams(ctx)
		return ferr
	})
	if err != nil {
		result.Message = fmt.Sprintf("provider unreachable: %v", err)
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	for _, rec := range teams {
		canonical, err := mapper.MapTeam(rec)
		if err != nil {
			result.RecordsFailed++
			result.Errors = append(result.Errors, fmt.Sprintf("team %s: %v", rec.Abbreviation, err))
			continue
		}
		if _, _, err := o.engine.ReconcileTeam(ctx, canonical); err != nil {
			result.RecordsFailed++
			result.Errors = append(result.Errors, fmt.Sprintf("team %s: %v", rec.Abbreviation, err))
			continue
		}
		result.RecordsProcessed++
	}

	result.Message = fmt.Sprintf("synced %d teams, %d failed",
		result.RecordsProcessed, result.RecordsFailed)
	return result
}

// ingestBoxScore fetches one game's box score (through the cache when
// present) and reconciles every stat line, recording per-line failures.
func (o *Orchestrator) ingestBoxScore(ctx context.Context, client provider.Client, externalID string, gameID int, result *Result) {
	lines, err := o.fetchBoxScore(ctx, client, externalID)
	if err != nil {
		result.RecordsFailed++
		result.Errors = append(result.Errors, fmt.Sprintf("boxscore %s: %v", externalID, err))
		return
	}

	for _, rec := range lines {
		canonical, err := mapper.MapStatLine(rec)
		if err != nil {
			result.RecordsFailed++
			result.Errors = append(result.Errors, fmt.Sprintf("stats %s/%s: %v", externalID, rec.PlayerName, err))
			continue
		}
		if _, _, err := o.engine.ReconcileStats(ctx, gameID, canonical); err != nil {
			result.RecordsFailed++
			result.Errors = append(result.Errors, fmt.Sprintf("stats %s/%s: %v", externalID, rec.PlayerName, err))
			continue
		}
		result.RecordsProcessed++
	}
}

func (o *Orchestrator) fetchBoxScore(ctx context.Context, client provider.Client, externalID string) ([]provider.PlayerStatRecord, error) {
	key := cache.BoxScoreKey(client.Name(), externalID)

	if o.cache != nil {
		if raw, err := o.cache.Get(ctx, key); err == nil && raw != "" {
			var lines []provider.PlayerStatRecord
			if err := json.Unmarshal([]byte(raw), &lines); err == nil {
				return lines, nil
			}
			// Corrupt payload: evict it and fall through to the provider.
			if err := o.cache.Delete(ctx, key); err != nil {
				log.Printf("[scrape] ⚠️  Evicting %s: %v", key, err)
			}
		}
	}

	var lines []provider.PlayerStatRecord
	err := o.retry(ctx, "fetch box score "+externalID, func() error {
		var ferr error
		lines, ferr = client.FetchBoxScore(ctx, externalID)
		return ferr
	})
	if err != nil {
		return nil, err
	}

	if o.cache != nil {
		if data, err := json.Marshal(lines); err == nil {
			if err := o.cache.Set(ctx, key, string(data), o.cacheTTL); err != nil {
				log.Printf("[scrape] ⚠️  Caching %s: %v", key, err)
			}
		}
	}

	return lines, nil
}

// retry re-runs fn for transient failures, up to maxRetries attempts
// total. Request spacing between attempts comes from the rate limiter
// inside the client, so retries never hammer a struggling provider.
// Per-request timeouts arrive as transient fetch failures and are
// retried; only the job's own context ending stops the loop early.
func (o *Orchestrator) retry(ctx context.Context, what string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= o.maxRetries; attempt++ {
		if cerr := ctx.Err(); cerr != nil {
			if err != nil {
				return err
			}
			return cerr
		}

		err = fn()
		if err == nil {
			return nil
		}
		if !provider.IsTransient(err) {
			return err
		}
		log.Printf("[scrape] ⚠️  %s attempt %d/%d failed: %v", what, attempt, o.maxRetries, err)
	}
	return err
}

func (o *Orchestrator) publishResult(ctx context.Context, result *Result) {
	if o.publisher == nil {
		return
	}
	if err := o.publisher.PublishScrapeResult(ctx, result); err != nil {
		log.Printf("[scrape] ⚠️  Publishing result: %v", err)
	}
}
