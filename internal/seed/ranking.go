package seed

import (
	"github.com/okian/diamond/internal/domain/aggregate"
	"github.com/okian/diamond/internal/domain/model"
	"github.com/okian/diamond/internal/domain/scoring"
	"github.com/okian/diamond/internal/domain/types"
)

// Expected computes the leaderboard a full refresh of s must produce.
func Expected(s Season) []types.Entry {
	src := aggregate.Sources{
		Pitching: withPoints(s.Pitching, scoring.PitchingPoints),
		Hitting:  withPoints(s.Hitting, scoring.HittingPoints),
		MVP:      s.MVP,
		Win:      s.Win,
	}
	return aggregate.Rank(aggregate.Combine(src).Rows())
}

func withPoints(rows []model.Record, points func(model.Record) int) []model.Record {
	out := make([]model.Record, len(rows))
	for i, r := range rows {
		c := r.Clone()
		c[model.FieldPoints] = points(r)
		out[i] = c
	}
	return out
}
