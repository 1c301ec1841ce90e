package scoring

import (
	"math"

	"github.com/okian/diamond/internal/domain/coerce"
	"github.com/okian/diamond/internal/domain/model"
)

// Pitching rubric.
const (
	PointsPerOut       = 4
	PointsPerEarnedRun = -10
	outsPerInning      = 3
)

// Outs converts innings pitched into recorded outs. The digit after the
// decimal point is a literal out count, so 6.2 is 6 innings plus 2 outs = 20.
// Digits above 2 are not rejected. Halves round to even, so 6.25 is 20 outs.
// Unreadable input counts as 0 outs.
func Outs(ip any) int {
	v := coerce.Float(ip, 0)
	whole := math.Floor(v)
	partial := math.RoundToEven((v - whole) * 10)
	return int(whole)*outsPerInning + int(partial)
}

// PitchingPoints scores a pitching record from its IP and ER fields.
func PitchingPoints(r model.Record) int {
	return pitchingPoints(Outs(r[model.FieldIP]), coerce.Int(r[model.FieldER], 0))
}

// PitchingLinePoints scores an already decoded pitching line.
func PitchingLinePoints(l model.PitchingLine) int {
	return pitchingPoints(Outs(l.IP), l.ER)
}

func pitchingPoints(outs, earnedRuns int) int {
	return outs*PointsPerOut + earnedRuns*PointsPerEarnedRun
}
