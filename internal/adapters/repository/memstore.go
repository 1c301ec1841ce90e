package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/okian/diamond/internal/domain/model"
)

// MemoryStore is an in-process Store. Documents are deep-copied on the way in
// and out so callers never share maps or slices with the store.
type MemoryStore struct {
	mu     sync.RWMutex
	docs   map[string][]model.Record
	closed bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	docs := make(map[string][]model.Record, len(Collections))
	for _, c := range Collections {
		docs[c] = nil
	}
	return &MemoryStore{docs: docs}
}

// FetchAll implements Store.
func (s *MemoryStore) FetchAll(_ context.Context, collection string) ([]model.Record, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreUnavailable
	}

	src := s.docs[collection]
	out := make([]model.Record, len(src))
	for i, r := range src {
		out[i] = r.DeepClone()
	}
	return out, nil
}

// UpsertPoints implements Store.
func (s *MemoryStore) UpsertPoints(_ context.Context, collection, id string, points int) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreUnavailable
	}

	for _, r := range s.docs[collection] {
		if r.ID() == id {
			r[model.FieldPoints] = points
			return nil
		}
	}
	return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
}

// ReplaceAll implements Store. The swap happens under the write lock, so
// readers see either the old or the new contents.
func (s *MemoryStore) ReplaceAll(_ context.Context, collection string, records []model.Record) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	fresh := make([]model.Record, len(records))
	for i, r := range records {
		doc := r.DeepClone()
		doc[model.IDField] = uuid.NewString()
		fresh[i] = doc
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreUnavailable
	}
	s.docs[collection] = fresh
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, collection, id string) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreUnavailable
	}

	docs := s.docs[collection]
	for i, r := range docs {
		if r.ID() == id {
			s.docs[collection] = append(docs[:i:i], docs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context, collection string) (int, error) {
	if err := checkCollection(collection); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrStoreUnavailable
	}
	return len(s.docs[collection]), nil
}

// Close marks the store unavailable. Later calls fail with ErrStoreUnavailable.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
