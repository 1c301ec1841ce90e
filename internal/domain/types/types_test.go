package types_test

import (
	"encoding/json"
	"testing"

	types "github.com/okian/diamond/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEntryJSON(t *testing.T) {
	Convey("Given a leaderboard entry", t, func() {
		entry := types.Entry{
			Rank:           1,
			Athlete:        "Doe, Jo",
			TotalPoints:    190,
			StatPoints:     130,
			PitchingPoints: 50,
			HittingPoints:  80,
			MVPPoints:      60,
		}

		Convey("When encoding it", func() {
			raw, err := json.Marshal(entry)
			So(err, ShouldBeNil)

			var fields map[string]any
			So(json.Unmarshal(raw, &fields), ShouldBeNil)

			Convey("Then it uses the snake_case wire names", func() {
				So(fields["rank"], ShouldEqual, 1.0)
				So(fields["athlete"], ShouldEqual, "Doe, Jo")
				So(fields["total_points"], ShouldEqual, 190.0)
				So(fields["stat_points"], ShouldEqual, 130.0)
				So(fields["win_points"], ShouldEqual, 0.0)
			})
		})
	})
}
