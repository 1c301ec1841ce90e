package api

import (
	"context"
	"net/http"

	"github.com/okian/diamond/internal/domain/types"
)

// RefreshDependencies runs the full recompute chain.
type RefreshDependencies interface {
	Refresh(ctx context.Context) (types.RefreshResult, error)
}

// RefreshHandler handles POST /api/refresh.
type RefreshHandler struct {
	deps RefreshDependencies
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(deps RefreshDependencies) *RefreshHandler {
	return &RefreshHandler{deps: deps}
}

// HandleRefresh recomputes pitching, hitting and the combined table.
func (h *RefreshHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	const op = "api.refresh"
	if !allowMethods(w, r, op, http.MethodPost) {
		return
	}
	res, err := h.deps.Refresh(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}
