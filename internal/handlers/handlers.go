package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/Tejas0041/Dangal-4.0-sub001/internal/cache"
	"github.com/Tejas0041/Dangal-4.0-sub001/internal/processor"
	"github.com/Tejas0041/Dangal-4.0-sub001/internal/store"
	"github.com/Tejas0041/Dangal-4.0-sub001/pkg/models"
	"github.com/go-chi/chi/v5"
)

// ScoreProcessor is the score state machine behind the mutation endpoints
type ScoreProcessor interface {
	Process(ctx context.Context, matchID int64, payload json.RawMessage) (*models.Match, []models.LiveEvent, error)
	UpdateStatus(ctx context.Context, matchID int64, status models.MatchStatus, winnerID *int64) (*models.Match, []models.LiveEvent, error)
}

// MatchCache is the read-side snapshot cache
type MatchCache interface {
	ReadMatch(ctx context.Context, matchID int64) (*models.Match, error)
	WriteMatch(ctx context.Context, match *models.Match) error
}

// Limiter caps operator score submissions
type Limiter interface {
	Allow(ctx context.Context) (bool, error)
}

// Handler manages the schedule and score HTTP endpoints
type Handler struct {
	store     store.MatchStore
	processor ScoreProcessor
	cache     MatchCache
	limiter   Limiter
}

// NewHandler creates a new handler. cache and limiter may be nil.
func NewHandler(matchStore store.MatchStore, proc ScoreProcessor, matchCache MatchCache, limiter Limiter) *Handler {
	return &Handler{
		store:     matchStore,
		processor: proc,
		cache:     matchCache,
		limiter:   limiter,
	}
}

// HealthCheck returns service health
// GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	code := http.StatusOK

	if err := h.store.Ping(r.Context()); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  status,
		"service": "livescore-server",
	})
}

// GetSchedule returns the match schedule with optional filters
// GET /api/v1/schedule?game={key}&status={status}&round={round}
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	filters := store.MatchFilters{
		GameKey: r.URL.Query().Get("game"),
		Status:  r.URL.Query().Get("status"),
		Round:   r.URL.Query().Get("round"),
		Limit:   queryInt(r, "limit", 100),
		Offset:  queryInt(r, "offset", 0),
	}

	matches, err := h.store.List(r.Context(), filters)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if matches == nil {
		matches = []models.Match{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"matches": matches,
		"count":   len(matches),
	})
}

// GetMatch returns a single match, cache-first
// GET /api/v1/schedule/{matchID}
func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathMatchID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	if h.cache != nil {
		if match, err := h.cache.ReadMatch(ctx, matchID); err == nil {
			writeJSON(w, match)
			return
		} else if !cache.IsMiss(err) {
			fmt.Printf("⚠️  cache read error for match %d: %v\n", matchID, err)
		}
	}

	match, err := h.store.GetByID(ctx, matchID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if h.cache != nil {
		if err := h.cache.WriteMatch(ctx, match); err != nil {
			fmt.Printf("⚠️  cache write error for match %d: %v\n", matchID, err)
		}
	}

	writeJSON(w, match)
}

// UpdateScore applies a new score snapshot to a match
// PATCH /api/v1/schedule/{matchID}/score
func (h *Handler) UpdateScore(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathMatchID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !h.allow(w, r) {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	if !json.Valid(body) {
		http.Error(w, "request body is not valid JSON", http.StatusBadRequest)
		return
	}

	match, events, err := h.processor.Process(r.Context(), matchID, body)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, map[string]interface{}{
		"match":  match,
		"events": eventTypes(events),
	})
}

// statusUpdateRequest is the body of a status override
type statusUpdateRequest struct {
	Status   models.MatchStatus `json:"status"`
	WinnerID *int64             `json:"winner_id,omitempty"`
}

// UpdateStatus applies an explicit status/winner override
// PATCH /api/v1/schedule/{matchID}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathMatchID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !h.allow(w, r) {
		return
	}

	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "request body is not valid JSON", http.StatusBadRequest)
		return
	}

	match, events, err := h.processor.UpdateStatus(r.Context(), matchID, req.Status, req.WinnerID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, map[string]interface{}{
		"match":  match,
		"events": eventTypes(events),
	})
}

// allow enforces the mutation rate limit, writing 429 when exhausted
func (h *Handler) allow(w http.ResponseWriter, r *http.Request) bool {
	if h.limiter == nil {
		return true
	}

	ok, err := h.limiter.Allow(r.Context())
	if err != nil {
		// Rate limiting is best effort; a broken limiter never blocks scoring
		fmt.Printf("⚠️  rate limiter error: %v\n", err)
		return true
	}

	if !ok {
		http.Error(w, "Too many score updates", http.StatusTooManyRequests)
		return false
	}

	return true
}

// writeError maps domain errors to the HTTP taxonomy:
// unknown match 404, rejected update 400, anything else 500
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, "Match not found", http.StatusNotFound)
	case errors.Is(err, processor.ErrInvalidUpdate):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		fmt.Printf("❌ request failed: %v\n", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func pathMatchID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "matchID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid match id %q", raw)
	}
	return id, nil
}

func queryInt(r *http.Request, key string, defaultValue int) int {
	if raw := r.URL.Query().Get(key); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			return n
		}
	}
	return defaultValue
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func eventTypes(events []models.LiveEvent) []string {
	types := make([]string, 0, len(events))
	for _, e := range events {
		types = append(types, e.Type)
	}
	return types
}
