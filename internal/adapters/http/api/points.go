package api

import (
	"context"
	"net/http"

	"github.com/okian/diamond/internal/domain/model"
)

// PointsDependencies covers the combined table.
type PointsDependencies interface {
	CombinedPoints(ctx context.Context) ([]model.Record, error)
	RebuildCombined(ctx context.Context) (int, error)
}

// PointsHandler handles /api/points.
type PointsHandler struct {
	deps PointsDependencies
}

// NewPointsHandler creates a new points handler.
func NewPointsHandler(deps PointsDependencies) *PointsHandler {
	return &PointsHandler{deps: deps}
}

// Handle serves the combined table on GET and rebuilds it on POST.
func (h *PointsHandler) Handle(w http.ResponseWriter, r *http.Request) {
	const op = "api.points"
	if !allowMethods(w, r, op, http.MethodGet, http.MethodPost) {
		return
	}
	if r.Method == http.MethodGet {
		docs, err := h.deps.CombinedPoints(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
			return
		}
		writeRecords(w, docs)
		return
	}

	n, err := h.deps.RebuildCombined(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, updated("Combined points updated", n))
}
