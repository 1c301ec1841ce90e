package seed

import (
	"fmt"
	"math/rand/v2"

	"github.com/okian/diamond/internal/domain/model"
)

// Participation odds per source, in percent.
const (
	pitchingShare  = 45
	hittingShare   = 85
	mvpShare       = 35
	winShare       = 40
	anonymousShare = 3
	stringShare    = 10
)

// Generate builds a season for n athletes. Not every athlete appears in
// every source, a few rows carry no Athlete, and some numbers are stored
// as strings, the way hand-entered sheets arrive.
func Generate(r *rand.Rand, n int) Season {
	var s Season
	for i := 1; i <= n; i++ {
		name := fmt.Sprintf("Athlete %03d", i)
		if chance(r, pitchingShare) {
			s.Pitching = append(s.Pitching, pitchingRow(r, name))
		}
		if chance(r, hittingShare) {
			s.Hitting = append(s.Hitting, hittingRow(r, name))
		}
		if chance(r, mvpShare) {
			s.MVP = append(s.MVP, model.Record{
				model.FieldAthlete:  name,
				model.FieldTotalMVP: maybeString(r, 10*r.IntN(8)),
			})
		}
		if chance(r, winShare) {
			s.Win = append(s.Win, model.Record{
				model.FieldAthlete:  name,
				model.FieldTotalWin: maybeString(r, 5*r.IntN(10)),
			})
		}
		if chance(r, anonymousShare) {
			s.Hitting = append(s.Hitting, model.Record{model.FieldHomeRun: 1})
		}
	}
	return s
}

func pitchingRow(r *rand.Rand, name string) model.Record {
	// Innings in thirds notation: 6.2 is six innings and two outs.
	ip := float64(r.IntN(8)) + float64(r.IntN(3))/10
	row := model.Record{
		model.FieldAthlete: name,
		model.FieldIP:      ip,
		model.FieldER:      maybeString(r, r.IntN(7)),
	}
	if ip == 0 && chance(r, 50) {
		row[model.FieldIP] = "DNP"
	}
	return row
}

func hittingRow(r *rand.Rand, name string) model.Record {
	row := model.Record{model.FieldAthlete: name}
	for _, f := range []struct {
		field string
		max   int
	}{
		{model.FieldSingle, 6},
		{model.FieldDouble, 3},
		{model.FieldTriple, 2},
		{model.FieldHomeRun, 2},
		{model.FieldSB, 3},
		{model.FieldCS, 2},
		{model.FieldWalk, 4},
		{model.FieldHBP, 2},
		{model.FieldSacFly, 2},
		{model.FieldSacBunt, 2},
	} {
		// Zero counts are often left blank.
		if v := r.IntN(f.max + 1); v > 0 {
			row[f.field] = maybeString(r, v)
		}
	}
	return row
}

func chance(r *rand.Rand, percent int) bool {
	return r.IntN(100) < percent
}

func maybeString(r *rand.Rand, v int) any {
	if chance(r, stringShare) {
		return fmt.Sprint(v)
	}
	return v
}
