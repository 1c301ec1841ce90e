// Package service provides the points engine behind the HTTP API: the
// pitching and hitting converters, the combined aggregator, the leaderboard
// view and the player roster.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/okian/diamond/internal/adapters/lock"
	"github.com/okian/diamond/internal/adapters/repository"
	"github.com/okian/diamond/internal/domain/aggregate"
	"github.com/okian/diamond/internal/domain/model"
	"github.com/okian/diamond/internal/domain/scoring"
	"github.com/okian/diamond/internal/domain/types"
	"github.com/okian/diamond/pkg/logger"
	"github.com/okian/diamond/pkg/metrics"
)

// Operation names used for lock keys, logs and metric labels.
const (
	OpPitching = "pitching"
	OpHitting  = "hitting"
	OpCombined = "combined"
	OpPlayers  = "players"
	OpRefresh  = "refresh"
)

// Service implements the API dependencies for the points engine.
type Service struct {
	mu sync.RWMutex

	store    repository.Store
	locker   lock.Locker
	schedule string
	cron     *cron.Cron

	// State
	started        bool
	refreshes      int
	lastRefresh    time.Time
	lastRefreshErr string

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the record store. Defaults to an in-memory store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLocker sets the single-writer lock. Defaults to an in-process lock.
func WithLocker(l lock.Locker) Option {
	return func(s *Service) {
		if l != nil {
			s.locker = l
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRefreshSchedule enables a periodic full refresh on a standard
// five-field cron expression. Empty disables it.
func WithRefreshSchedule(spec string) Option {
	return func(s *Service) {
		s.schedule = spec
	}
}

// New constructs a new Service.
func New(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	if s.locker == nil {
		s.locker = lock.NewLocal()
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	return s
}

// Store returns the record store the service works on.
func (s *Service) Store() repository.Store {
	return s.store
}

// PitchingStats returns every pitching record with Points freshly computed.
func (s *Service) PitchingStats(ctx context.Context) ([]model.Record, error) {
	return s.withPoints(ctx, OpPitching, repository.CollectionPitching, scoring.PitchingPoints)
}

// RecomputePitching writes Points on every pitching record and returns the
// number of records updated.
func (s *Service) RecomputePitching(ctx context.Context) (int, error) {
	return s.recompute(ctx, OpPitching, repository.CollectionPitching, scoring.PitchingPoints)
}

// HittingStats returns every hitting record with Points freshly computed.
func (s *Service) HittingStats(ctx context.Context) ([]model.Record, error) {
	return s.withPoints(ctx, OpHitting, repository.CollectionHitting, scoring.HittingPoints)
}

// RecomputeHitting writes Points on every hitting record and returns the
// number of records updated.
func (s *Service) RecomputeHitting(ctx context.Context) (int, error) {
	return s.recompute(ctx, OpHitting, repository.CollectionHitting, scoring.HittingPoints)
}

// MVP returns the MVP source records.
func (s *Service) MVP(ctx context.Context) ([]model.Record, error) {
	return s.public(ctx, "mvp", repository.CollectionMVP)
}

// Win returns the Win source records.
func (s *Service) Win(ctx context.Context) ([]model.Record, error) {
	return s.public(ctx, "win", repository.CollectionWin)
}

// CombinedPoints returns the combined table as stored.
func (s *Service) CombinedPoints(ctx context.Context) ([]model.Record, error) {
	return s.public(ctx, OpCombined, repository.CollectionCombined)
}

// RebuildCombined merges the four sources into the combined table,
// replacing its previous contents. Returns the number of athletes written.
func (s *Service) RebuildCombined(ctx context.Context) (int, error) {
	start := time.Now()
	unlock, err := s.acquire(ctx, OpCombined)
	if err != nil {
		return 0, err
	}
	defer s.release(ctx, OpCombined, unlock)

	var src aggregate.Sources
	for _, f := range []struct {
		collection string
		dst        *[]model.Record
	}{
		{repository.CollectionPitching, &src.Pitching},
		{repository.CollectionHitting, &src.Hitting},
		{repository.CollectionMVP, &src.MVP},
		{repository.CollectionWin, &src.Win},
	} {
		docs, err := s.store.FetchAll(ctx, f.collection)
		if err != nil {
			return 0, s.storeFailure(ctx, OpCombined, "fetch "+f.collection, err)
		}
		*f.dst = docs
	}

	combined := aggregate.Combine(src)
	if err := s.store.ReplaceAll(ctx, repository.CollectionCombined, combined.Records()); err != nil {
		return 0, s.storeFailure(ctx, OpCombined, "replace", err)
	}

	metrics.UpdateCombinedAthletes(len(combined))
	s.succeeded(ctx, OpCombined, len(combined), start)
	return len(combined), nil
}

// Refresh recomputes pitching, then hitting, then the combined table.
// On failure the counts of the steps that completed are returned with the error.
func (s *Service) Refresh(ctx context.Context) (types.RefreshResult, error) {
	start := time.Now()
	var res types.RefreshResult
	err := s.refresh(ctx, &res)
	res.Duration = time.Since(start)

	s.mu.Lock()
	s.refreshes++
	s.lastRefresh = start
	s.lastRefreshErr = ""
	if err != nil {
		s.lastRefreshErr = err.Error()
	}
	s.mu.Unlock()

	if err != nil {
		metrics.RecordRecompute(OpRefresh, metrics.OutcomeFailure)
		return res, err
	}
	metrics.RecordRecompute(OpRefresh, metrics.OutcomeSuccess)
	metrics.RecordRecomputeDuration(OpRefresh, float64(res.Duration.Milliseconds()))
	s.logger.Info(ctx, "refresh completed",
		logger.Int("pitching", res.Pitching),
		logger.Int("hitting", res.Hitting),
		logger.Int("combined", res.Combined),
		logger.Duration("duration", res.Duration),
	)
	return res, nil
}

func (s *Service) refresh(ctx context.Context, res *types.RefreshResult) error {
	var err error
	if res.Pitching, err = s.RecomputePitching(ctx); err != nil {
		return err
	}
	if res.Hitting, err = s.RecomputeHitting(ctx); err != nil {
		return err
	}
	res.Combined, err = s.RebuildCombined(ctx)
	return err
}

// TopN returns the top n leaderboard entries. n <= 0 returns all of them.
func (s *Service) TopN(ctx context.Context, n int) ([]types.Entry, error) {
	entries, err := s.leaderboard(ctx)
	if err != nil {
		return nil, err
	}
	if n > 0 && n < len(entries) {
		entries = entries[:n]
	}
	return entries, nil
}

// Rank returns the leaderboard entry of athlete.
func (s *Service) Rank(ctx context.Context, athlete string) (types.Entry, error) {
	entries, err := s.leaderboard(ctx)
	if err != nil {
		return types.Entry{}, err
	}
	for _, e := range entries {
		if e.Athlete == athlete {
			return e, nil
		}
	}
	return types.Entry{}, fmt.Errorf("rank %q: %w", athlete, repository.ErrNotFound)
}

func (s *Service) leaderboard(ctx context.Context) ([]types.Entry, error) {
	docs, err := s.store.FetchAll(ctx, repository.CollectionCombined)
	if err != nil {
		return nil, s.storeFailure(ctx, "leaderboard", "fetch", err)
	}
	rows := make([]model.CombinedRecord, 0, len(docs))
	for _, d := range docs {
		row := model.CombinedFrom(d)
		if row.Athlete == "" {
			continue
		}
		rows = append(rows, row)
	}
	return aggregate.Rank(rows), nil
}

// Players returns the roster. Each record keeps its id so it can be deleted.
func (s *Service) Players(ctx context.Context) ([]model.Record, error) {
	docs, err := s.store.FetchAll(ctx, repository.CollectionPlayerInfo)
	if err != nil {
		return nil, s.storeFailure(ctx, OpPlayers, "fetch", err)
	}
	return docs, nil
}

// ReplacePlayers swaps the roster for players. A nil slice is rejected;
// an empty one clears the roster.
func (s *Service) ReplacePlayers(ctx context.Context, players []model.Record) (int, error) {
	if players == nil {
		return 0, ErrMissingPlayers
	}
	start := time.Now()
	unlock, err := s.acquire(ctx, OpPlayers)
	if err != nil {
		return 0, err
	}
	defer s.release(ctx, OpPlayers, unlock)

	if err := s.store.ReplaceAll(ctx, repository.CollectionPlayerInfo, players); err != nil {
		return 0, s.storeFailure(ctx, OpPlayers, "replace", err)
	}
	s.succeeded(ctx, OpPlayers, len(players), start)
	return len(players), nil
}

// DeletePlayer removes one roster entry by id.
func (s *Service) DeletePlayer(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, repository.CollectionPlayerInfo, id); err != nil {
		return s.storeFailure(ctx, OpPlayers, "delete", err)
	}
	s.logger.Info(ctx, "player deleted", logger.String("id", id))
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]any {
	s.mu.RLock()
	stats := map[string]any{
		"started":         s.started,
		"refreshSchedule": s.schedule,
		"refreshes":       s.refreshes,
	}
	if !s.lastRefresh.IsZero() {
		stats["lastRefresh"] = s.lastRefresh.UTC().Format(time.RFC3339)
	}
	if s.lastRefreshErr != "" {
		stats["lastRefreshError"] = s.lastRefreshErr
	}
	s.mu.RUnlock()

	counts := make(map[string]int, len(repository.Collections))
	for _, c := range repository.Collections {
		n, err := s.store.Count(ctx, c)
		if err != nil {
			metrics.RecordStoreError("stats")
			s.logger.Warn(ctx, "count failed", logger.String("collection", c), logger.Error(err))
			continue
		}
		counts[c] = n
	}
	stats["collections"] = counts
	if n, ok := counts[repository.CollectionCombined]; ok {
		metrics.UpdateCombinedAthletes(n)
	}
	return stats
}

func (s *Service) withPoints(ctx context.Context, op, collection string, points func(model.Record) int) ([]model.Record, error) {
	docs, err := s.store.FetchAll(ctx, collection)
	if err != nil {
		return nil, s.storeFailure(ctx, op, "fetch", err)
	}
	out := make([]model.Record, len(docs))
	for i, d := range docs {
		r := d.Public()
		r[model.FieldPoints] = points(d)
		out[i] = r
	}
	return out, nil
}

func (s *Service) recompute(ctx context.Context, op, collection string, points func(model.Record) int) (int, error) {
	start := time.Now()
	unlock, err := s.acquire(ctx, op)
	if err != nil {
		return 0, err
	}
	defer s.release(ctx, op, unlock)

	docs, err := s.store.FetchAll(ctx, collection)
	if err != nil {
		return 0, s.storeFailure(ctx, op, "fetch", err)
	}
	for _, d := range docs {
		p := points(d)
		if err := s.store.UpsertPoints(ctx, collection, d.ID(), p); err != nil {
			return 0, s.storeFailure(ctx, op, "upsert "+d.ID(), err)
		}
		s.logger.Debug(ctx, "points updated",
			logger.String("operation", op),
			logger.String("athlete", d.Athlete()),
			logger.Int("points", p),
		)
	}
	s.succeeded(ctx, op, len(docs), start)
	return len(docs), nil
}

func (s *Service) public(ctx context.Context, op, collection string) ([]model.Record, error) {
	docs, err := s.store.FetchAll(ctx, collection)
	if err != nil {
		return nil, s.storeFailure(ctx, op, "fetch", err)
	}
	return model.PublicAll(docs), nil
}

func (s *Service) acquire(ctx context.Context, op string) (lock.Unlock, error) {
	start := time.Now()
	unlock, err := s.locker.Lock(ctx, op)
	metrics.RecordLockWait(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordRecompute(op, metrics.OutcomeFailure)
		s.logger.Warn(ctx, "lock not acquired", logger.String("operation", op), logger.Error(err))
		return nil, fmt.Errorf("%s: lock: %w", op, err)
	}
	return unlock, nil
}

func (s *Service) release(ctx context.Context, op string, unlock lock.Unlock) {
	// Release even when the caller's ctx is already done.
	if err := unlock(context.WithoutCancel(ctx)); err != nil {
		s.logger.Warn(ctx, "lock release failed", logger.String("operation", op), logger.Error(err))
	}
}

func (s *Service) storeFailure(ctx context.Context, op, step string, err error) error {
	metrics.RecordStoreError(op)
	metrics.RecordRecompute(op, metrics.OutcomeFailure)
	s.logger.Error(ctx, "store operation failed",
		logger.String("operation", op),
		logger.String("step", step),
		logger.Error(err),
	)
	return fmt.Errorf("%s: %s: %w", op, step, err)
}

func (s *Service) succeeded(ctx context.Context, op string, n int, start time.Time) {
	elapsed := time.Since(start)
	metrics.RecordRecompute(op, metrics.OutcomeSuccess)
	metrics.RecordRecordsWritten(op, n)
	metrics.RecordRecomputeDuration(op, float64(elapsed.Microseconds())/1000)
	s.logger.Info(ctx, "records written",
		logger.String("operation", op),
		logger.Int("count", n),
		logger.Duration("duration", elapsed),
	)
}
