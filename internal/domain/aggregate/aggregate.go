// Package aggregate merges the four scored sources into one row per athlete.
package aggregate

import (
	"sort"

	"github.com/okian/diamond/internal/domain/coerce"
	"github.com/okian/diamond/internal/domain/model"
)

// Sources holds the raw documents of every scored collection.
type Sources struct {
	Pitching []model.Record
	Hitting  []model.Record
	MVP      []model.Record
	Win      []model.Record
}

// Combined maps athlete names to their merged row.
type Combined map[string]*model.CombinedRecord

// Combine merges sources in four passes: pitching, hitting, MVP, win.
//
// Pitching seeds a fresh row per athlete (a later pitching row for the same
// athlete replaces the earlier one). Each later pass only sets its own
// category, creating a zero row first when the athlete is new. Documents
// without an athlete are skipped. Category values that cannot be read as
// integers count as 0.
func Combine(src Sources) Combined {
	out := make(Combined)

	for _, r := range src.Pitching {
		name := r.Athlete()
		if name == "" {
			continue
		}
		e := newEntry(name)
		e.PitchingPoints = coerce.Int(r[model.FieldPoints], 0)
		out[name] = e
	}

	for _, r := range src.Hitting {
		if name := r.Athlete(); name != "" {
			out.entry(name).HittingPoints = coerce.Int(r[model.FieldPoints], 0)
		}
	}

	for _, r := range src.MVP {
		if name := r.Athlete(); name != "" {
			out.entry(name).MVPPoints = coerce.Int(r[model.FieldTotalMVP], 0)
		}
	}

	for _, r := range src.Win {
		if name := r.Athlete(); name != "" {
			out.entry(name).WINPoints = coerce.Int(r[model.FieldTotalWin], 0)
		}
	}

	for _, e := range out {
		e.TotalPoints = e.Sum()
	}
	return out
}

// newEntry is the only constructor of combined rows, so every pass yields
// the same zero-defaulted shape.
func newEntry(athlete string) *model.CombinedRecord {
	return &model.CombinedRecord{Athlete: athlete}
}

func (c Combined) entry(athlete string) *model.CombinedRecord {
	e, ok := c[athlete]
	if !ok {
		e = newEntry(athlete)
		c[athlete] = e
	}
	return e
}

// Rows returns the merged rows sorted by athlete name.
func (c Combined) Rows() []model.CombinedRecord {
	rows := make([]model.CombinedRecord, 0, len(c))
	for _, e := range c {
		rows = append(rows, *e)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Athlete < rows[j].Athlete })
	return rows
}

// Records returns the merged rows as store documents, sorted by athlete.
// Consumers must not rely on the order once stored.
func (c Combined) Records() []model.Record {
	rows := c.Rows()
	out := make([]model.Record, len(rows))
	for i, row := range rows {
		out[i] = row.Record()
	}
	return out
}
