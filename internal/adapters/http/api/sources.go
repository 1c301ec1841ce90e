package api

import (
	"context"
	"net/http"

	"github.com/okian/diamond/internal/domain/model"
)

// SourceDependencies exposes the MVP and Win source tables.
type SourceDependencies interface {
	MVP(ctx context.Context) ([]model.Record, error)
	Win(ctx context.Context) ([]model.Record, error)
}

// SourceHandler serves the read-only source tables.
type SourceHandler struct {
	deps SourceDependencies
}

// NewSourceHandler creates a new source handler.
func NewSourceHandler(deps SourceDependencies) *SourceHandler {
	return &SourceHandler{deps: deps}
}

// HandleMVP handles GET /api/mvp.
func (h *SourceHandler) HandleMVP(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "api.mvp", h.deps.MVP)
}

// HandleWin handles GET /api/win.
func (h *SourceHandler) HandleWin(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "api.win", h.deps.Win)
}

func (h *SourceHandler) serve(w http.ResponseWriter, r *http.Request, op string, read func(context.Context) ([]model.Record, error)) {
	if !allowMethods(w, r, op, http.MethodGet) {
		return
	}
	docs, err := read(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeRecords(w, docs)
}
