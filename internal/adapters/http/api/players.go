package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/diamond/internal/domain/model"
)

// PlayerDependencies manages the player roster.
type PlayerDependencies interface {
	Players(ctx context.Context) ([]model.Record, error)
	ReplacePlayers(ctx context.Context, players []model.Record) (int, error)
	DeletePlayer(ctx context.Context, id string) error
}

// PlayerHandler handles /api/player_info.
type PlayerHandler struct {
	deps PlayerDependencies
}

// NewPlayerHandler creates a new player handler.
func NewPlayerHandler(deps PlayerDependencies) *PlayerHandler {
	return &PlayerHandler{deps: deps}
}

// playersRequest mirrors the body of POST /api/player_info.
type playersRequest struct {
	Players []model.Record `json:"players"`
}

var errMissingPlayers = errors.New("expected JSON: { players: [...] }")

// HandlePlayers lists the roster on GET and replaces it on POST.
func (h *PlayerHandler) HandlePlayers(w http.ResponseWriter, r *http.Request) {
	const op = "api.player_info"
	if !allowMethods(w, r, op, http.MethodGet, http.MethodPost) {
		return
	}
	if r.Method == http.MethodGet {
		docs, err := h.deps.Players(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
			return
		}
		writeRecords(w, docs)
		return
	}

	var req playersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.Players == nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errMissingPlayers))
		return
	}
	n, err := h.deps.ReplacePlayers(r.Context(), req.Players)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, updated("player_info updated", n))
}

// HandleDeletePlayer handles DELETE /api/player_info/{id}.
func (h *PlayerHandler) HandleDeletePlayer(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_player"
	if !allowMethods(w, r, op, http.MethodDelete) {
		return
	}
	if err := h.deps.DeletePlayer(r.Context(), r.PathValue("id")); err != nil {
		if isNotFound(err) {
			writeJSON(w, http.StatusNotFound, statusResponse{Status: "no player found"})
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "player deleted"})
}
