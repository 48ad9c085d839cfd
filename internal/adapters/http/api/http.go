// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/okian/rlcoach/internal/domain/dedupe"
	"github.com/okian/rlcoach/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Ingest persists a raw match record and queues it for extraction.
	Ingest(ctx context.Context, playerID string, raw []byte) (string, error)

	// Read operations expose player and baseline data.
	Profile(ctx context.Context, playerID string) (types.Profile, error)
	Coach(ctx context.Context, playerID string) (types.CoachReport, error)
	Baselines(ctx context.Context, tier string) ([]types.Baseline, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	matchesHandler   *MatchesHandler
	profileHandler   *ProfileHandler
	coachHandler     *CoachHandler
	baselinesHandler *BaselinesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxUploadBytes int64) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		matchesHandler:   NewMatchesHandler(deps, maxUploadBytes),
		profileHandler:   NewProfileHandler(deps),
		coachHandler:     NewCoachHandler(deps),
		baselinesHandler: NewBaselinesHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/baselines", MetricsMiddleware(s.baselinesHandler.HandleGetBaselines, "baselines"))
	mux.HandleFunc("/players/", MetricsMiddleware(s.handlePlayers, "players"))
}

// handlePlayers dispatches /players/{id}/{action} to the per-action
// handlers. The player id must be a single non-empty path segment.
func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	playerID, action, ok := splitPlayerPath(r.URL.Path)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind("api.players", ErrBadRequest))
		return
	}
	switch action {
	case "matches":
		s.matchesHandler.HandleUploadMatch(w, r, playerID)
	case "profile":
		s.profileHandler.HandleGetProfile(w, r, playerID)
	case "coach":
		s.coachHandler.HandleGetCoach(w, r, playerID)
	default:
		http.NotFound(w, r)
	}
}

// splitPlayerPath parses /players/{id}/{action}.
func splitPlayerPath(path string) (playerID, action string, ok bool) {
	rest := strings.TrimPrefix(path, "/players/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

type ackResponse struct {
	Status    string `json:"status"`
	MatchID   string `json:"match_id,omitempty"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound allows the API to translate upstream not-found errors to 404
// without coupling to specific store implementations.
func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}
