package aggregate_test

import (
	"testing"

	"github.com/okian/diamond/internal/domain/aggregate"
	"github.com/okian/diamond/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func rec(kv ...any) model.Record {
	r := model.Record{}
	for i := 0; i+1 < len(kv); i += 2 {
		r[kv[i].(string)] = kv[i+1]
	}
	return r
}

func TestCombine(t *testing.T) {
	Convey("Given four scored sources", t, func() {
		Convey("When an athlete has pitching, hitting and MVP points but no win row", func() {
			out := aggregate.Combine(aggregate.Sources{
				Pitching: []model.Record{rec("Athlete", "A", "Points", 50)},
				Hitting:  []model.Record{rec("Athlete", "A", "Points", 80)},
				MVP:      []model.Record{rec("Athlete", "A", "Total MVP", 60)},
			})

			Convey("Then the missing category is zero and the total sums the rest", func() {
				So(out, ShouldHaveLength, 1)
				So(*out["A"], ShouldResemble, model.CombinedRecord{
					Athlete:        "A",
					PitchingPoints: 50,
					HittingPoints:  80,
					MVPPoints:      60,
					WINPoints:      0,
					TotalPoints:    190,
				})
			})
		})

		Convey("When an athlete appears only in the win source", func() {
			out := aggregate.Combine(aggregate.Sources{
				Win: []model.Record{rec("Athlete", "B", "Total Win", 70)},
			})

			Convey("Then a zero-defaulted row carries only the win points", func() {
				So(*out["B"], ShouldResemble, model.CombinedRecord{Athlete: "B", WINPoints: 70, TotalPoints: 70})
			})
		})

		Convey("When an athlete appears only in the hitting source", func() {
			out := aggregate.Combine(aggregate.Sources{
				Hitting: []model.Record{rec("Athlete", "C", "Points", 30)},
			})

			Convey("Then MVP and win points are present as zero", func() {
				row := out["C"]
				So(row.PitchingPoints, ShouldEqual, 0)
				So(row.MVPPoints, ShouldEqual, 0)
				So(row.WINPoints, ShouldEqual, 0)
				So(row.TotalPoints, ShouldEqual, 30)
			})
		})

		Convey("When documents have an empty or missing athlete", func() {
			out := aggregate.Combine(aggregate.Sources{
				Pitching: []model.Record{rec("Athlete", "", "Points", 10), rec("Points", 5)},
				Hitting:  []model.Record{rec("Athlete", nil, "Points", 10)},
				MVP:      []model.Record{rec("Total MVP", 20)},
				Win:      []model.Record{rec("Athlete", 12, "Total Win", 20), rec("Athlete", "D", "Total Win", 1)},
			})

			Convey("Then they contribute nothing", func() {
				So(out, ShouldHaveLength, 1)
				So(out, ShouldContainKey, "D")
			})
		})

		Convey("When point fields are not integers", func() {
			out := aggregate.Combine(aggregate.Sources{
				Pitching: []model.Record{rec("Athlete", "E", "Points", "oops")},
				Hitting:  []model.Record{rec("Athlete", "E", "Points", "12")},
				MVP:      []model.Record{rec("Athlete", "E", "Total MVP", nil)},
				Win:      []model.Record{rec("Athlete", "E", "Total Win", 20.0)},
			})

			Convey("Then unreadable values count as zero", func() {
				So(*out["E"], ShouldResemble, model.CombinedRecord{
					Athlete: "E", HittingPoints: 12, WINPoints: 20, TotalPoints: 32,
				})
			})
		})

		Convey("When the pitching source lists an athlete twice", func() {
			out := aggregate.Combine(aggregate.Sources{
				Pitching: []model.Record{rec("Athlete", "F", "Points", 10), rec("Athlete", "F", "Points", 40)},
				Hitting:  []model.Record{rec("Athlete", "F", "Points", 5)},
			})

			Convey("Then the last pitching row wins", func() {
				So(out["F"].PitchingPoints, ShouldEqual, 40)
				So(out["F"].TotalPoints, ShouldEqual, 45)
			})
		})

		Convey("When extra fields exist on the sources", func() {
			out := aggregate.Combine(aggregate.Sources{
				Pitching: []model.Record{rec("Athlete", "G", "Points", 8, "IP", 2.0, "Team", "Owls")},
			})

			Convey("Then the combined row only has the combined shape", func() {
				So(out["G"].Record(), ShouldNotContainKey, "Team")
				So(out["G"].Record(), ShouldContainKey, model.FieldTotalPoints)
			})
		})

		Convey("When all sources are empty", func() {
			Convey("Then the result is empty", func() {
				So(aggregate.Combine(aggregate.Sources{}), ShouldBeEmpty)
			})
		})
	})
}

func TestCombinedRecords(t *testing.T) {
	Convey("Given a merged set", t, func() {
		src := aggregate.Sources{
			Pitching: []model.Record{rec("Athlete", "Zed", "Points", 1)},
			Win:      []model.Record{rec("Athlete", "Amy", "Total Win", 2)},
			MVP:      []model.Record{rec("Athlete", "Moe", "Total MVP", 3)},
		}

		Convey("When flattening it twice", func() {
			first := aggregate.Combine(src).Records()
			second := aggregate.Combine(src).Records()

			Convey("Then both runs produce the same documents", func() {
				So(second, ShouldResemble, first)
				So(first, ShouldHaveLength, 3)
				So(first[0][model.FieldAthlete], ShouldEqual, "Amy")
			})
		})
	})
}

func TestRank(t *testing.T) {
	Convey("Given combined rows", t, func() {
		rows := []model.CombinedRecord{
			{Athlete: "B", PitchingPoints: 10, HittingPoints: 20, TotalPoints: 30},
			{Athlete: "A", WINPoints: 30, TotalPoints: 30},
			{Athlete: "C", MVPPoints: 90, TotalPoints: 90},
			{Athlete: "D", TotalPoints: -5},
		}

		Convey("When ranking them", func() {
			entries := aggregate.Rank(rows)

			Convey("Then they are ordered by total desc then athlete asc", func() {
				So(entries, ShouldHaveLength, 4)
				So(entries[0].Athlete, ShouldEqual, "C")
				So(entries[1].Athlete, ShouldEqual, "A")
				So(entries[2].Athlete, ShouldEqual, "B")
				So(entries[3].Athlete, ShouldEqual, "D")
				So(entries[0].Rank, ShouldEqual, 1)
				So(entries[3].Rank, ShouldEqual, 4)
			})

			Convey("And stat points add pitching and hitting", func() {
				So(entries[2].StatPoints, ShouldEqual, 30)
			})

			Convey("And the input is left untouched", func() {
				So(rows[0].Athlete, ShouldEqual, "B")
			})
		})
	})
}
