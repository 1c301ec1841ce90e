// Package repository defines the record store and its implementations.
package repository

import (
	"context"
	"fmt"

	"github.com/okian/diamond/internal/domain/model"
)

// Collection names. They match the collections existing deployments read.
const (
	CollectionPitching   = "pitching_players"
	CollectionHitting    = "players_hitting"
	CollectionCombined   = "players"
	CollectionMVP        = "MVP_points"
	CollectionWin        = "Win_points"
	CollectionPlayerInfo = "player_info"
)

// Collections lists every collection a store must serve.
var Collections = []string{
	CollectionPitching,
	CollectionHitting,
	CollectionCombined,
	CollectionMVP,
	CollectionWin,
	CollectionPlayerInfo,
}

// Store provides document access per named collection.
type Store interface {
	// FetchAll returns every document in collection, each carrying its id
	// under model.IDField.
	FetchAll(ctx context.Context, collection string) ([]model.Record, error)

	// UpsertPoints sets the Points field of one document, overwriting any
	// previous value. Returns ErrNotFound when id is unknown.
	UpsertPoints(ctx context.Context, collection, id string, points int) error

	// ReplaceAll deletes every document in collection and inserts records.
	// Ids present on the input are ignored; new ids are assigned.
	ReplaceAll(ctx context.Context, collection string, records []model.Record) error

	// Delete removes one document. Returns ErrNotFound when id is unknown.
	Delete(ctx context.Context, collection, id string) error

	// Count returns the number of documents in collection.
	Count(ctx context.Context, collection string) (int, error)

	Close() error
}

func checkCollection(collection string) error {
	for _, c := range Collections {
		if c == collection {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownCollection, collection)
}
