package seed

import (
	"errors"
	"time"

	"github.com/okian/diamond/internal/domain/model"
)

// Config holds configuration for one seed-and-verify run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Athletes   int           // Number of athletes to generate
	TopN       int           // Leaderboard entries to fetch and verify
	Timeout    time.Duration // HTTP request timeout
	Seed       uint64        // Generator seed; equal seeds give equal seasons
	OutputFile string        // Optional JSON dump of the generated season
	Verbose    bool          // Log every verified entry
}

// Season is one generated set of raw source tables.
type Season struct {
	Pitching []model.Record `json:"pitching"`
	Hitting  []model.Record `json:"hitting"`
	MVP      []model.Record `json:"mvp"`
	Win      []model.Record `json:"win"`
}

// Stats holds run statistics.
type Stats struct {
	Athletes           int
	PitchingRows       int
	HittingRows        int
	MVPRows            int
	WinRows            int
	LeaderboardEntries int
	Mismatches         int
	StartTime          time.Time
	Duration           time.Duration
}

// Sentinel errors.
var (
	ErrUnhealthy    = errors.New("service unhealthy")
	ErrUnexpected   = errors.New("unexpected response")
	ErrVerification = errors.New("leaderboard verification failed")
)
