package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/diamond/internal/adapters/repository"
	"github.com/okian/diamond/internal/domain/model"
	"github.com/okian/diamond/pkg/logger"
)

const (
	directoryPermission = 0o750
	filePermission      = 0o600
)

// Run seeds store with a generated season, refreshes the service at
// cfg.BaseURL and checks its leaderboard against the local computation.
// The service must read the same store.
func Run(ctx context.Context, cfg *Config, store repository.Store) (*Stats, error) {
	log := logger.Named("seed")
	stats := &Stats{StartTime: time.Now(), Athletes: cfg.Athletes}
	client := NewClient(cfg.BaseURL, cfg.Timeout)

	log.Info(ctx, "starting season seed",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("athletes", cfg.Athletes),
		logger.Int("topN", cfg.TopN),
		logger.Any("seed", cfg.Seed),
	)

	if err := client.Health(ctx); err != nil {
		return stats, err
	}

	season := Generate(rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)), cfg.Athletes)
	stats.PitchingRows = len(season.Pitching)
	stats.HittingRows = len(season.Hitting)
	stats.MVPRows = len(season.MVP)
	stats.WinRows = len(season.Win)

	if err := write(ctx, store, season); err != nil {
		return stats, err
	}
	log.Info(ctx, "season written",
		logger.Int("pitching", stats.PitchingRows),
		logger.Int("hitting", stats.HittingRows),
		logger.Int("mvp", stats.MVPRows),
		logger.Int("win", stats.WinRows),
	)

	if cfg.OutputFile != "" {
		if err := saveSeason(cfg.OutputFile, season); err != nil {
			log.Warn(ctx, "failed to save season", logger.Error(err))
		}
	}

	res, err := client.Refresh(ctx)
	if err != nil {
		return stats, fmt.Errorf("refresh: %w", err)
	}
	log.Info(ctx, "refresh done",
		logger.Int("pitching", res.Pitching),
		logger.Int("hitting", res.Hitting),
		logger.Int("combined", res.Combined),
		logger.Duration("duration", res.Duration),
	)

	got, err := client.Leaderboard(ctx, cfg.TopN)
	if err != nil {
		return stats, fmt.Errorf("leaderboard: %w", err)
	}
	stats.LeaderboardEntries = len(got)

	mismatches := Verify(Expected(season), got, cfg.TopN)
	stats.Mismatches = len(mismatches)
	stats.Duration = time.Since(stats.StartTime)

	if cfg.Verbose {
		for _, e := range got {
			log.Info(ctx, "entry",
				logger.Int("rank", e.Rank),
				logger.String("athlete", e.Athlete),
				logger.Int("total", e.TotalPoints),
			)
		}
	}
	for _, m := range mismatches {
		log.Error(ctx, "leaderboard mismatch", logger.String("detail", m.String()))
	}

	log.Info(ctx, "final statistics",
		logger.Int("leaderboardEntries", stats.LeaderboardEntries),
		logger.Int("mismatches", stats.Mismatches),
		logger.Duration("duration", stats.Duration),
	)
	if len(mismatches) > 0 {
		return stats, fmt.Errorf("%w: %d of %d positions differ", ErrVerification, len(mismatches), cfg.TopN)
	}
	return stats, nil
}

func write(ctx context.Context, store repository.Store, s Season) error {
	for _, t := range []struct {
		collection string
		rows       []model.Record
	}{
		{repository.CollectionPitching, s.Pitching},
		{repository.CollectionHitting, s.Hitting},
		{repository.CollectionMVP, s.MVP},
		{repository.CollectionWin, s.Win},
	} {
		if err := store.ReplaceAll(ctx, t.collection, t.rows); err != nil {
			return fmt.Errorf("write %s: %w", t.collection, err)
		}
	}
	return nil
}

func saveSeason(filename string, s Season) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal season: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return nil
}
