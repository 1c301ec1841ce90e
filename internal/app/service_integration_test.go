package service_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/okian/diamond/internal/adapters/repository"
	service "github.com/okian/diamond/internal/app"
	"github.com/okian/diamond/internal/domain/coerce"
	. "github.com/smartystreets/goconvey/convey"
)

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service on a sqlite store", t, func() {
		ctx := context.Background()
		store, err := repository.Open(ctx, repository.DriverSQLite,
			"file:"+filepath.Join(t.TempDir(), "season.db"),
			repository.WithConnectRetry(1, 0),
		)
		So(err, ShouldBeNil)
		defer store.Close()

		svc := service.New(service.WithStore(store))
		seedSeason(ctx, store)

		Convey("When refreshing the season", func() {
			res, err := svc.Refresh(ctx)
			So(err, ShouldBeNil)

			Convey("Then the counts match the memory store", func() {
				So(res.Pitching, ShouldEqual, 3)
				So(res.Hitting, ShouldEqual, 2)
				So(res.Combined, ShouldEqual, 3)
			})

			Convey("Then persisted points decode from JSON numbers", func() {
				docs, err := store.FetchAll(ctx, repository.CollectionPitching)
				So(err, ShouldBeNil)
				So(coerce.Int(docs[0]["Points"], -1), ShouldEqual, 50)
				So(coerce.Int(docs[1]["Points"], -1), ShouldEqual, 64)
			})

			Convey("Then the leaderboard matches", func() {
				top, err := svc.TopN(ctx, 3)
				So(err, ShouldBeNil)
				So(top, ShouldHaveLength, 3)
				So(top[0].Athlete, ShouldEqual, "A")
				So(top[0].TotalPoints, ShouldEqual, 180)
				So(top[1].TotalPoints, ShouldEqual, 79)
				So(top[2].TotalPoints, ShouldEqual, 38)
			})

			Convey("Then a second refresh is idempotent", func() {
				_, err := svc.Refresh(ctx)
				So(err, ShouldBeNil)
				n, err := store.Count(ctx, repository.CollectionCombined)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 3)
				e, err := svc.Rank(ctx, "A")
				So(err, ShouldBeNil)
				So(e.TotalPoints, ShouldEqual, 180)
			})
		})
	})
}
