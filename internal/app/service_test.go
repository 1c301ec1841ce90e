package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/okian/diamond/internal/adapters/lock"
	"github.com/okian/diamond/internal/adapters/repository"
	service "github.com/okian/diamond/internal/app"
	"github.com/okian/diamond/internal/domain/coerce"
	"github.com/okian/diamond/internal/domain/model"
	"github.com/okian/diamond/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

// seedSeason writes a small season covering every merge path:
// A pitches, hits and has MVP points; B pitches and has Win points;
// D only hits; one pitching row has no athlete.
func seedSeason(ctx context.Context, store repository.Store) {
	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}
	must(store.ReplaceAll(ctx, repository.CollectionPitching, []model.Record{
		{"Athlete": "A", "IP": 6.2, "ER": 3},
		{"Athlete": "B", "IP": "7.0", "ER": "2"},
		{"IP": 1.0, "ER": 0},
	}))
	must(store.ReplaceAll(ctx, repository.CollectionHitting, []model.Record{
		{"Athlete": "A", "1B": 2, "HR": 1, "SF": 1, "SH": 1, "CS": 1},
		{"Athlete": "D", "BB": 3, "HP": 1},
	}))
	must(store.ReplaceAll(ctx, repository.CollectionMVP, []model.Record{
		{"Athlete": "A", "Total MVP": 60},
	}))
	must(store.ReplaceAll(ctx, repository.CollectionWin, []model.Record{
		{"Athlete": "B", "Total Win": "15"},
	}))
}

// flakyStore fails every FetchAll once broken is set.
type flakyStore struct {
	*repository.MemoryStore
	broken bool
}

func (f *flakyStore) FetchAll(ctx context.Context, collection string) ([]model.Record, error) {
	if f.broken {
		return nil, fmt.Errorf("%w: connection reset", repository.ErrStoreUnavailable)
	}
	return f.MemoryStore.FetchAll(ctx, collection)
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have an in-memory store", func() {
			So(svc, ShouldNotBeNil)
			So(svc.Store(), ShouldHaveSameTypeAs, &repository.MemoryStore{})
		})
	})

	Convey("Given a new service with custom options", t, func() {
		store := repository.NewMemoryStore()
		svc := service.New(
			service.WithStore(store),
			service.WithLocker(lock.NewLocal()),
			service.WithLogger(logger.Named("test")),
			service.WithRefreshSchedule("@every 1h"),
		)

		Convey("Then it should use them", func() {
			So(svc.Store(), ShouldPointTo, store)
			So(svc.GetStats(context.Background())["refreshSchedule"], ShouldEqual, "@every 1h")
		})
	})
}

func TestService_Pitching(t *testing.T) {
	Convey("Given a service with pitching records", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()
		svc := service.New(service.WithStore(store))
		seedSeason(ctx, store)

		Convey("When reading pitching stats", func() {
			stats, err := svc.PitchingStats(ctx)

			Convey("Then every record carries computed points and no id", func() {
				So(err, ShouldBeNil)
				So(stats, ShouldHaveLength, 3)
				So(stats[0]["Points"], ShouldEqual, 50)
				So(stats[1]["Points"], ShouldEqual, 64)
				So(stats[2]["Points"], ShouldEqual, 12)
				So(stats[0]["IP"], ShouldEqual, 6.2)
				for _, r := range stats {
					_, hasID := r[model.IDField]
					So(hasID, ShouldBeFalse)
				}
			})

			Convey("Then the store is left untouched", func() {
				docs, _ := store.FetchAll(ctx, repository.CollectionPitching)
				_, ok := docs[0]["Points"]
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When recomputing pitching points", func() {
			n, err := svc.RecomputePitching(ctx)

			Convey("Then every record is written", func() {
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 3)
				docs, _ := store.FetchAll(ctx, repository.CollectionPitching)
				So(docs[0]["Points"], ShouldEqual, 50)
				So(docs[1]["Points"], ShouldEqual, 64)
				So(docs[2]["Points"], ShouldEqual, 12)
			})

			Convey("Then running it again changes nothing", func() {
				again, err := svc.RecomputePitching(ctx)
				So(err, ShouldBeNil)
				So(again, ShouldEqual, 3)
				docs, _ := store.FetchAll(ctx, repository.CollectionPitching)
				So(docs[0]["Points"], ShouldEqual, 50)
			})
		})
	})
}

func TestService_Hitting(t *testing.T) {
	Convey("Given a service with hitting records", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()
		svc := service.New(service.WithStore(store))
		seedSeason(ctx, store)

		Convey("When reading hitting stats", func() {
			stats, err := svc.HittingStats(ctx)

			Convey("Then points follow the hitting weights", func() {
				So(err, ShouldBeNil)
				So(stats, ShouldHaveLength, 2)
				So(stats[0]["Points"], ShouldEqual, 70)
				So(stats[1]["Points"], ShouldEqual, 38)
			})
		})

		Convey("When recomputing hitting points", func() {
			n, err := svc.RecomputeHitting(ctx)

			Convey("Then the points are persisted", func() {
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 2)
				docs, _ := store.FetchAll(ctx, repository.CollectionHitting)
				So(docs[0]["Points"], ShouldEqual, 70)
				So(docs[1]["Points"], ShouldEqual, 38)
			})
		})

		Convey("When the collection is empty", func() {
			So(store.ReplaceAll(ctx, repository.CollectionHitting, nil), ShouldBeNil)
			n, err := svc.RecomputeHitting(ctx)

			Convey("Then nothing is written", func() {
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 0)
			})
		})
	})
}

func TestService_Combined(t *testing.T) {
	Convey("Given a season whose points are recomputed", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()
		svc := service.New(service.WithStore(store))
		seedSeason(ctx, store)
		So(store.ReplaceAll(ctx, repository.CollectionCombined, []model.Record{
			{"Athlete": "Ghost", "TotalPoints": 999},
		}), ShouldBeNil)
		_, err := svc.RecomputePitching(ctx)
		So(err, ShouldBeNil)
		_, err = svc.RecomputeHitting(ctx)
		So(err, ShouldBeNil)

		Convey("When rebuilding the combined table", func() {
			n, err := svc.RebuildCombined(ctx)
			So(err, ShouldBeNil)

			Convey("Then one row per named athlete replaces the old table", func() {
				So(n, ShouldEqual, 3)
				rows, err := svc.CombinedPoints(ctx)
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 3)

				byName := map[string]model.CombinedRecord{}
				for _, r := range rows {
					_, hasID := r[model.IDField]
					So(hasID, ShouldBeFalse)
					byName[r.Athlete()] = model.CombinedFrom(r)
				}
				So(byName, ShouldNotContainKey, "Ghost")
				So(byName["A"], ShouldResemble, model.CombinedRecord{
					Athlete: "A", PitchingPoints: 50, HittingPoints: 70, MVPPoints: 60, TotalPoints: 180,
				})
				So(byName["B"], ShouldResemble, model.CombinedRecord{
					Athlete: "B", PitchingPoints: 64, WINPoints: 15, TotalPoints: 79,
				})
				So(byName["D"], ShouldResemble, model.CombinedRecord{
					Athlete: "D", HittingPoints: 38, TotalPoints: 38,
				})
			})
		})

		Convey("When pitching points were never computed", func() {
			So(store.ReplaceAll(ctx, repository.CollectionPitching, []model.Record{
				{"Athlete": "E", "IP": 9.0},
			}), ShouldBeNil)
			_, err := svc.RebuildCombined(ctx)
			So(err, ShouldBeNil)

			Convey("Then the aggregator reads them as zero", func() {
				e, err := svc.Rank(ctx, "E")
				So(err, ShouldBeNil)
				So(e.PitchingPoints, ShouldEqual, 0)
				So(e.TotalPoints, ShouldEqual, 0)
			})
		})
	})
}

func TestService_Refresh(t *testing.T) {
	Convey("Given a raw season", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()
		svc := service.New(service.WithStore(store))
		seedSeason(ctx, store)

		Convey("When refreshing", func() {
			res, err := svc.Refresh(ctx)

			Convey("Then every step reports its count", func() {
				So(err, ShouldBeNil)
				So(res.Pitching, ShouldEqual, 3)
				So(res.Hitting, ShouldEqual, 2)
				So(res.Combined, ShouldEqual, 3)
			})

			Convey("Then the leaderboard is ranked by total", func() {
				top, err := svc.TopN(ctx, 0)
				So(err, ShouldBeNil)
				So(top, ShouldHaveLength, 3)
				So(top[0].Athlete, ShouldEqual, "A")
				So(top[0].Rank, ShouldEqual, 1)
				So(top[0].StatPoints, ShouldEqual, 120)
				So(top[1].Athlete, ShouldEqual, "B")
				So(top[2].Athlete, ShouldEqual, "D")
				So(top[2].Rank, ShouldEqual, 3)
			})

			Convey("Then TopN truncates", func() {
				top, err := svc.TopN(ctx, 2)
				So(err, ShouldBeNil)
				So(top, ShouldHaveLength, 2)
			})

			Convey("Then a single athlete can be ranked", func() {
				e, err := svc.Rank(ctx, "B")
				So(err, ShouldBeNil)
				So(e.Rank, ShouldEqual, 2)
				So(e.TotalPoints, ShouldEqual, 79)

				_, err = svc.Rank(ctx, "Nobody")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})

			Convey("Then stats record the run", func() {
				stats := svc.GetStats(ctx)
				So(stats["refreshes"], ShouldEqual, 1)
				So(stats["lastRefresh"], ShouldNotBeEmpty)
				counts := stats["collections"].(map[string]int)
				So(counts[repository.CollectionCombined], ShouldEqual, 3)
				So(counts[repository.CollectionPitching], ShouldEqual, 3)
			})
		})
	})
}

func TestService_Players(t *testing.T) {
	Convey("Given a service", t, func() {
		ctx := context.Background()
		svc := service.New()

		Convey("When replacing the roster without a list", func() {
			_, err := svc.ReplacePlayers(ctx, nil)

			Convey("Then it is rejected", func() {
				So(err, ShouldEqual, service.ErrMissingPlayers)
			})
		})

		Convey("When replacing the roster", func() {
			n, err := svc.ReplacePlayers(ctx, []model.Record{
				{"Athlete": "A", "Number": 7},
				{"Athlete": "B", "Number": 12},
			})
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 2)

			players, err := svc.Players(ctx)
			So(err, ShouldBeNil)

			Convey("Then every player has an id", func() {
				So(players, ShouldHaveLength, 2)
				So(players[0].ID(), ShouldNotBeEmpty)
			})

			Convey("Then a player can be deleted once", func() {
				So(svc.DeletePlayer(ctx, players[0].ID()), ShouldBeNil)
				err := svc.DeletePlayer(ctx, players[0].ID())
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)

				left, _ := svc.Players(ctx)
				So(left, ShouldHaveLength, 1)
				So(left[0].Athlete(), ShouldEqual, "B")
			})

			Convey("Then an empty list clears the roster", func() {
				n, err := svc.ReplacePlayers(ctx, []model.Record{})
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 0)
				left, _ := svc.Players(ctx)
				So(left, ShouldBeEmpty)
			})
		})
	})
}

func TestService_Failures(t *testing.T) {
	Convey("Given a service whose store goes away", t, func() {
		ctx := context.Background()
		store := &flakyStore{MemoryStore: repository.NewMemoryStore()}
		svc := service.New(service.WithStore(store))
		seedSeason(ctx, store)
		store.broken = true

		Convey("Then every operation reports the store error", func() {
			_, err := svc.RecomputePitching(ctx)
			So(errors.Is(err, repository.ErrStoreUnavailable), ShouldBeTrue)
			So(err.Error(), ShouldStartWith, "pitching: fetch")

			_, err = svc.HittingStats(ctx)
			So(errors.Is(err, repository.ErrStoreUnavailable), ShouldBeTrue)

			_, err = svc.RebuildCombined(ctx)
			So(errors.Is(err, repository.ErrStoreUnavailable), ShouldBeTrue)

			_, err = svc.TopN(ctx, 10)
			So(errors.Is(err, repository.ErrStoreUnavailable), ShouldBeTrue)
		})

		Convey("Then a failed refresh is reported in stats", func() {
			res, err := svc.Refresh(ctx)
			So(err, ShouldNotBeNil)
			So(res.Pitching, ShouldEqual, 0)
			stats := svc.GetStats(ctx)
			So(stats["lastRefreshError"], ShouldContainSubstring, "pitching")
		})
	})

	Convey("Given a lock held elsewhere", t, func() {
		ctx := context.Background()
		locker := lock.NewLocal()
		svc := service.New(service.WithLocker(locker))
		unlock, err := locker.Lock(ctx, service.OpCombined)
		So(err, ShouldBeNil)
		defer func() { _ = unlock(ctx) }()

		Convey("When the caller gives up waiting", func() {
			waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
			defer cancel()
			_, err := svc.RebuildCombined(waitCtx)

			Convey("Then the rebuild does not run", func() {
				So(errors.Is(err, context.DeadlineExceeded), ShouldBeTrue)
			})
		})

		Convey("When another operation runs", func() {
			_, err := svc.RecomputePitching(ctx)

			Convey("Then it is not blocked", func() {
				So(err, ShouldBeNil)
			})
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given a service with a refresh schedule", t, func() {
		svc := service.New(service.WithRefreshSchedule("@every 1h"))
		defer svc.Stop()

		Convey("When starting the service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := svc.Start(ctx)

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
				So(svc.GetStats(ctx)["started"], ShouldEqual, true)
			})

			Convey("Then starting again is a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})
	})

	Convey("Given a service with an invalid schedule", t, func() {
		svc := service.New(service.WithRefreshSchedule("every tuesday"))

		Convey("Then Start fails", func() {
			err := svc.Start(context.Background())
			So(errors.Is(err, service.ErrInvalidSchedule), ShouldBeTrue)
			So(svc.GetStats(context.Background())["started"], ShouldEqual, false)
		})
	})
}

func TestService_Stop(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New(service.WithRefreshSchedule("*/5 * * * *"))
		err := svc.Start(context.Background())
		So(err, ShouldBeNil)

		Convey("When stopping the service", func() {
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				So(svc.GetStats(context.Background())["started"], ShouldEqual, false)
			})

			Convey("Then stopping again is safe", func() {
				svc.Stop()
			})
		})
	})
}

func TestService_ParseFailuresAreNotErrors(t *testing.T) {
	Convey("Given garbage statistics", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()
		svc := service.New(service.WithStore(store))
		So(store.ReplaceAll(ctx, repository.CollectionPitching, []model.Record{
			{"Athlete": "X", "IP": "n/a", "ER": []any{1}},
		}), ShouldBeNil)
		So(store.ReplaceAll(ctx, repository.CollectionMVP, []model.Record{
			{"Athlete": "X", "Total MVP": "lots"},
		}), ShouldBeNil)

		Convey("Then the refresh succeeds with zero points", func() {
			_, err := svc.Refresh(ctx)
			So(err, ShouldBeNil)
			e, err := svc.Rank(ctx, "X")
			So(err, ShouldBeNil)
			So(e.TotalPoints, ShouldEqual, 0)
			docs, _ := store.FetchAll(ctx, repository.CollectionPitching)
			So(coerce.Int(docs[0]["Points"], -1), ShouldEqual, 0)
		})
	})
}
