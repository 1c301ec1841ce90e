package seed

import (
	"fmt"

	"github.com/okian/diamond/internal/domain/types"
)

// Mismatch describes one leaderboard position that differs from the
// locally computed one.
type Mismatch struct {
	Position int
	Want     *types.Entry
	Got      *types.Entry
}

func (m Mismatch) String() string {
	switch {
	case m.Want == nil:
		return fmt.Sprintf("#%d: unexpected %s (%d)", m.Position, m.Got.Athlete, m.Got.TotalPoints)
	case m.Got == nil:
		return fmt.Sprintf("#%d: missing %s (%d)", m.Position, m.Want.Athlete, m.Want.TotalPoints)
	default:
		return fmt.Sprintf("#%d: want %s (%d), got %s (%d)", m.Position,
			m.Want.Athlete, m.Want.TotalPoints, m.Got.Athlete, m.Got.TotalPoints)
	}
}

// Verify compares the first top entries of got against want.
func Verify(want, got []types.Entry, top int) []Mismatch {
	if top > len(want) {
		top = len(want)
	}
	var out []Mismatch
	n := top
	if len(got) > n {
		n = len(got)
	}
	for i := 0; i < n; i++ {
		m := Mismatch{Position: i + 1}
		if i < top {
			m.Want = &want[i]
		}
		if i < len(got) {
			m.Got = &got[i]
		}
		if m.Want != nil && m.Got != nil && *m.Want == *m.Got {
			continue
		}
		out = append(out, m)
	}
	return out
}
