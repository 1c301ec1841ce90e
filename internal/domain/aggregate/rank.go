package aggregate

import (
	"sort"

	"github.com/okian/diamond/internal/domain/model"
	"github.com/okian/diamond/internal/domain/types"
)

// Rank orders rows by TotalPoints desc, then athlete asc, and numbers them
// from 1.
func Rank(rows []model.CombinedRecord) []types.Entry {
	sorted := make([]model.CombinedRecord, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].TotalPoints != sorted[j].TotalPoints {
			return sorted[i].TotalPoints > sorted[j].TotalPoints
		}
		return sorted[i].Athlete < sorted[j].Athlete
	})

	entries := make([]types.Entry, len(sorted))
	for i, row := range sorted {
		entries[i] = types.Entry{
			Rank:           i + 1,
			Athlete:        row.Athlete,
			TotalPoints:    row.TotalPoints,
			StatPoints:     row.PitchingPoints + row.HittingPoints,
			PitchingPoints: row.PitchingPoints,
			HittingPoints:  row.HittingPoints,
			MVPPoints:      row.MVPPoints,
			WINPoints:      row.WINPoints,
		}
	}
	return entries
}
