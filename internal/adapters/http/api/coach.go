// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/rlcoach/internal/domain/types"
)

// CoachDependencies defines the interface for coach report reads.
type CoachDependencies interface {
	Coach(ctx context.Context, playerID string) (types.CoachReport, error)
}

// CoachHandler handles coach report requests.
type CoachHandler struct {
	deps CoachDependencies
}

// NewCoachHandler creates a new coach handler.
func NewCoachHandler(deps CoachDependencies) *CoachHandler {
	return &CoachHandler{deps: deps}
}

// HandleGetCoach handles GET /players/{id}/coach requests.
func (h *CoachHandler) HandleGetCoach(w http.ResponseWriter, r *http.Request, playerID string) {
	const op = "api.get_coach"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	report, err := h.deps.Coach(r.Context(), playerID)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, report)
}
