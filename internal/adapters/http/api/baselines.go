// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/rlcoach/internal/domain/types"
)

// BaselineDependencies defines the interface for baseline reads.
type BaselineDependencies interface {
	Baselines(ctx context.Context, tier string) ([]types.Baseline, error)
}

// BaselinesHandler handles baseline cohort requests.
type BaselinesHandler struct {
	deps BaselineDependencies
}

// NewBaselinesHandler creates a new baselines handler.
func NewBaselinesHandler(deps BaselineDependencies) *BaselinesHandler {
	return &BaselinesHandler{deps: deps}
}

// HandleGetBaselines handles GET /baselines?tier=T requests. Without a
// tier filter all reference performer rows are returned.
func (h *BaselinesHandler) HandleGetBaselines(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_baselines"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	baselines, err := h.deps.Baselines(r.Context(), r.URL.Query().Get("tier"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if baselines == nil {
		baselines = []types.Baseline{}
	}
	writeJSON(w, http.StatusOK, baselines)
}
