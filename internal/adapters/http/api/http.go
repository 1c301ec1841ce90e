// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/diamond/internal/adapters/repository"
	"github.com/okian/diamond/internal/domain/model"
	"github.com/okian/diamond/internal/domain/types"
)

const defaultMaxLimit = 100

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ConverterDependencies
	SourceDependencies
	PointsDependencies
	RefreshDependencies
	LeaderboardDependencies
	RankDependencies
	PlayerDependencies
	StatsProvider
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	metricsHandler     http.Handler
	statsHandler       *StatsHandler
	pitchingHandler    *ConverterHandler
	hittingHandler     *ConverterHandler
	sourceHandler      *SourceHandler
	pointsHandler      *PointsHandler
	refreshHandler     *RefreshHandler
	leaderboardHandler *LeaderboardHandler
	rankHandler        *RankHandler
	playerHandler      *PlayerHandler
}

// ServerOption configures a Server.
type ServerOption func(*serverOptions)

type serverOptions struct {
	maxLimit int
}

// WithMaxLeaderboardLimit caps GET /api/leaderboard?limit.
func WithMaxLeaderboardLimit(n int) ServerOption {
	return func(o *serverOptions) {
		if n > 0 {
			o.maxLimit = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...ServerOption) *Server {
	o := serverOptions{maxLimit: defaultMaxLimit}
	for _, opt := range opts {
		opt(&o)
	}
	return &Server{
		healthHandler:      NewHealthHandler(),
		metricsHandler:     NewMetricsHandler(),
		statsHandler:       NewStatsHandler(deps),
		pitchingHandler:    NewPitchingHandler(deps),
		hittingHandler:     NewHittingHandler(deps),
		sourceHandler:      NewSourceHandler(deps),
		pointsHandler:      NewPointsHandler(deps),
		refreshHandler:     NewRefreshHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, o.maxLimit),
		rankHandler:        NewRankHandler(deps),
		playerHandler:      NewPlayerHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("/metrics", s.metricsHandler)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("/api/pitchingstats", MetricsMiddleware(s.pitchingHandler.Handle, "pitchingstats"))
	mux.HandleFunc("/api/hittingstats", MetricsMiddleware(s.hittingHandler.Handle, "hittingstats"))
	mux.HandleFunc("/api/mvp", MetricsMiddleware(s.sourceHandler.HandleMVP, "mvp"))
	mux.HandleFunc("/api/win", MetricsMiddleware(s.sourceHandler.HandleWin, "win"))
	mux.HandleFunc("/api/points", MetricsMiddleware(s.pointsHandler.Handle, "points"))
	mux.HandleFunc("/api/refresh", MetricsMiddleware(s.refreshHandler.HandleRefresh, "refresh"))
	mux.HandleFunc("/api/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/api/rank/{athlete...}", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))
	mux.HandleFunc("/api/player_info", MetricsMiddleware(s.playerHandler.HandlePlayers, "player_info"))
	mux.HandleFunc("/api/player_info/{id}", MetricsMiddleware(s.playerHandler.HandleDeletePlayer, "player_info_delete"))
}

// statusResponse is the acknowledgement shape of write endpoints.
type statusResponse struct {
	Status string `json:"status"`
	Count  *int   `json:"count,omitempty"`
}

func updated(status string, n int) statusResponse {
	return statusResponse{Status: status, Count: &n}
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

// writeRecords writes docs as a JSON array, never null.
func writeRecords(w http.ResponseWriter, docs []model.Record) {
	if docs == nil {
		docs = []model.Record{}
	}
	writeJSON(w, http.StatusOK, docs)
}

// allowMethods answers 405 with an Allow header unless r uses one of methods.
func allowMethods(w http.ResponseWriter, r *http.Request, op string, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	for _, m := range methods {
		w.Header().Add("Allow", m)
	}
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrMethodNotAllowed))
	return false
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
