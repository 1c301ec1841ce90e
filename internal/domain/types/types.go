// Package types contains common types used across the application
package types

import "time"

// Entry represents a leaderboard row
type Entry struct {
	Rank           int    `json:"rank"`
	Athlete        string `json:"athlete"`
	TotalPoints    int    `json:"total_points"`
	StatPoints     int    `json:"stat_points"`
	PitchingPoints int    `json:"pitching_points"`
	HittingPoints  int    `json:"hitting_points"`
	MVPPoints      int    `json:"mvp_points"`
	WINPoints      int    `json:"win_points"`
}

// RefreshResult reports the records written by one full refresh.
type RefreshResult struct {
	Pitching int           `json:"pitching"`
	Hitting  int           `json:"hitting"`
	Combined int           `json:"combined"`
	Duration time.Duration `json:"duration_ns"`
}
