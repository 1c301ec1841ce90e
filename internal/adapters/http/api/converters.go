package api

import (
	"context"
	"net/http"

	"github.com/okian/diamond/internal/domain/model"
)

// ConverterDependencies covers the pitching and hitting converters.
type ConverterDependencies interface {
	PitchingStats(ctx context.Context) ([]model.Record, error)
	RecomputePitching(ctx context.Context) (int, error)
	HittingStats(ctx context.Context) ([]model.Record, error)
	RecomputeHitting(ctx context.Context) (int, error)
}

// ConverterHandler serves one converter: GET reads records with computed
// points, POST persists them.
type ConverterHandler struct {
	op        string
	status    string
	read      func(ctx context.Context) ([]model.Record, error)
	recompute func(ctx context.Context) (int, error)
}

// NewPitchingHandler serves /api/pitchingstats.
func NewPitchingHandler(deps ConverterDependencies) *ConverterHandler {
	return &ConverterHandler{
		op:        "api.pitchingstats",
		status:    "Pitching points updated",
		read:      deps.PitchingStats,
		recompute: deps.RecomputePitching,
	}
}

// NewHittingHandler serves /api/hittingstats.
func NewHittingHandler(deps ConverterDependencies) *ConverterHandler {
	return &ConverterHandler{
		op:        "api.hittingstats",
		status:    "Hitting points updated",
		read:      deps.HittingStats,
		recompute: deps.RecomputeHitting,
	}
}

// Handle dispatches GET and POST.
func (h *ConverterHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, h.op, http.MethodGet, http.MethodPost) {
		return
	}
	if r.Method == http.MethodGet {
		docs, err := h.read(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(h.op, err))
			return
		}
		writeRecords(w, docs)
		return
	}

	n, err := h.recompute(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(h.op, err))
		return
	}
	writeJSON(w, http.StatusOK, updated(h.status, n))
}
