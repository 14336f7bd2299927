package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/kayGweb/gridiron/internal/cache"
	"github.com/kayGweb/gridiron/internal/nfl"
	"github.com/kayGweb/gridiron/internal/reconcile"
	"github.com/kayGweb/gridiron/internal/scrape"
	"github.com/kayGweb/gridiron/internal/store"
	"github.com/kayGweb/gridiron/internal/store/repository"
)

// Handler contains dependencies for HTTP handlers
type Handler struct {
	db           *store.Database
	redisCache   *cache.RedisCache
	engine       *reconcile.Engine
	orchestrator *scrape.Orchestrator
	teamRepo     *repository.TeamRepository
	playerRepo   *repository.PlayerRepository
	gameRepo     *repository.GameRepository
	statsRepo    *repository.StatsRepository
}

// NewHandler creates a new handler
func NewHandler(db *store.Database, redisCache *cache.RedisCache, engine *reconcile.Engine, orchestrator *scrape.Orchestrator) *Handler {
	return &Handler{
		db:           db,
		redisCache:   redisCache,
		engine:       engine,
		orchestrator: orchestrator,
		teamRepo:     repository.NewTeamRepository(db),
		playerRepo:   repository.NewPlayerRepository(db),
		gameRepo:     repository.NewGameRepository(db),
		statsRepo:    repository.NewStatsRepository(db),
	}
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.db.HealthCheck(); err != nil {
		respondError(w, http.StatusServiceUnavailable, "Database unreachable", err)
		return
	}
	if h.redisCache != nil {
		if err := h.redisCache.HealthCheck(r.Context()); err != nil {
			respondError(w, http.StatusServiceUnavailable, "Redis unreachable", err)
			return
		}
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "gridiron",
	})
}

// GetTeams returns all teams
func (h *Handler) GetTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teamRepo.GetAll(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch teams", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"teams": teams,
		"count": len(teams),
	})
}

// GetTeam returns one team by abbreviation
func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	abbr := nfl.Normalize(mux.Vars(r)["abbr"])

	team, err := h.teamRepo.FindByAbbreviation(r.Context(), abbr)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Team not found", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch team", err)
		return
	}

	respondJSON(w, http.StatusOK, team)
}

// DeleteTeam removes a team unless games still reference it
func (h *Handler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	abbr := nfl.Normalize(mux.Vars(r)["abbr"])

	err := h.engine.DeleteTeam(r.Context(), abbr)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Team not found", nil)
		return
	}
	if errors.Is(err, reconcile.ErrTeamHasGames) {
		respondError(w, http.StatusConflict, "Team has recorded games", err)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete team", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Team deleted",
		"team":    abbr,
	})
}

// GetTeamRoster returns all players currently on a team
func (h *Handler) GetTeamRoster(w http.ResponseWriter, r *http.Request) {
	abbr := nfl.Normalize(mux.Vars(r)["abbr"])

	team, err := h.teamRepo.FindByAbbreviation(r.Context(), abbr)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Team not found", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch team", err)
		return
	}

	players, err := h.playerRepo.GetByTeam(r.Context(), team.TeamID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch roster", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"team":    team,
		"players": players,
		"count":   len(players),
	})
}

// GetDivisions returns the league structure grouped by division
func (h *Handler) GetDivisions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, nfl.Divisions())
}

// GetGames returns games for a season, optionally filtered by week
func (h *Handler) GetGames(w http.ResponseWriter, r *http.Request) {
	season, err := strconv.Atoi(r.URL.Query().Get("season"))
	if err != nil || season <= 0 {
		respondError(w, http.StatusBadRequest, "Missing or invalid season parameter", nil)
		return
	}

	week := 0
	if weekStr := r.URL.Query().Get("week"); weekStr != "" {
		week, err = strconv.Atoi(weekStr)
		if err != nil || week <= 0 {
			respondError(w, http.StatusBadRequest, "Invalid week parameter", nil)
			return
		}
	}

	games, err := h.gameRepo.GetBySeason(r.Context(), season, week)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch games", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"games": games,
		"count": len(games),
	})
}

// GetGame returns a specific game by ID
func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := strconv.Atoi(mux.Vars(r)["gameID"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid game ID", nil)
		return
	}

	game, err := h.gameRepo.GetByID(r.Context(), gameID)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Game not found", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch game", err)
		return
	}

	respondJSON(w, http.StatusOK, game)
}

// GetGameBoxScore returns every stat line recorded for a game
func (h *Handler) GetGameBoxScore(w http.ResponseWriter, r *http.Request) {
	gameID, err := strconv.Atoi(mux.Vars(r)["gameID"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid game ID", nil)
		return
	}

	game, err := h.gameRepo.GetByID(r.Context(), gameID)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Game not found", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch game", err)
		return
	}

	stats, err := h.statsRepo.GetByGame(r.Context(), gameID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch box score", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"game":  game,
		"stats": stats,
		"count": len(stats),
	})
}

// GetPlayer returns a specific player by ID
func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := strconv.Atoi(mux.Vars(r)["playerID"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid player ID", nil)
		return
	}

	player, err := h.playerRepo.GetByID(r.Context(), playerID)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Player not found", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch player", err)
		return
	}

	respondJSON(w, http.StatusOK, player)
}

// GetPlayerStats returns a player's stat lines across games
func (h *Handler) GetPlayerStats(w http.ResponseWriter, r *http.Request) {
	playerID, err := strconv.Atoi(mux.Vars(r)["playerID"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid player ID", nil)
		return
	}

	stats, err := h.statsRepo.GetByPlayer(r.Context(), playerID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch stats", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"stats": stats,
		"count": len(stats),
	})
}

// TriggerScrape runs a scrape job synchronously and returns its result
func (h *Handler) TriggerScrape(w http.ResponseWriter, r *http.Request) {
	var job scrape.Job
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if job.Provider == "" || job.Season <= 0 {
		respondError(w, http.StatusBadRequest, "provider and season are required", nil)
		return
	}

	result := h.orchestrator.Run(r.Context(), job)

	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadGateway
	}
	respondJSON(w, status, result)
}

// SyncTeams pulls the franchise list from a provider
func (h *Handler) SyncTeams(w http.ResponseWriter, r *http.Request) {
	providerName := r.URL.Query().Get("provider")
	if providerName == "" {
		providerName = "espn"
	}

	result := h.orchestrator.SyncTeams(r.Context(), providerName)

	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadGateway
	}
	respondJSON(w, status, result)
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}

	if err != nil {
		response["details"] = err.Error()
	}

	json.NewEncoder(w).Encode(response)
}
