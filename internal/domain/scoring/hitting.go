package scoring

import "github.com/okian/diamond/internal/domain/model"

// Hitting rubric.
const (
	Single           = 10
	Double           = 20
	Triple           = 30
	HomeRun          = 40
	StolenBase       = 10
	CaughtStealing   = -10
	Walk             = 10
	HitByPitch       = 8
	SacrificeFlyBunt = 10
)

// HittingPoints scores a hitting record. Absent counts are zero.
func HittingPoints(r model.Record) int {
	return HittingLinePoints(model.HittingFrom(r))
}

// HittingLinePoints scores a decoded hitting line. Sacrifice flies and bunts
// share one weight applied to their sum.
func HittingLinePoints(l model.HittingLine) int {
	return l.Single*Single +
		l.Double*Double +
		l.Triple*Triple +
		l.HomeRun*HomeRun +
		l.SB*StolenBase +
		l.CS*CaughtStealing +
		l.Walk*Walk +
		l.HBP*HitByPitch +
		(l.SacFly+l.SacBunt)*SacrificeFlyBunt
}
