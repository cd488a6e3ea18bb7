package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/training-crm-api/pkg/errors"
)

// Identifiable is implemented by every persisted CRM record.
type Identifiable interface {
	GetID() string
}

type collectionRepository[T any] interface {
	Key() string
	Load(ctx context.Context) []T
	Save(ctx context.Context, items []T) error
}

// ChangeListener is notified with the collection key after every committed mutation.
type ChangeListener func(ctx context.Context, key string)

// EntityStore is the single in-process owner of one collection. Every read and
// mutation of that entity type goes through it, and each mutation persists the
// whole collection before it becomes visible.
type EntityStore[T Identifiable] struct {
	mu        sync.Mutex
	repo      collectionRepository[T]
	ids       IDGenerator
	logger    *zap.Logger
	items     []T
	loaded    bool
	listeners []ChangeListener
}

// NewEntityStore wraps repo. Items are loaded lazily on first use.
func NewEntityStore[T Identifiable](repo collectionRepository[T], ids IDGenerator, logger *zap.Logger) *EntityStore[T] {
	if ids == nil {
		ids = NewUUIDGenerator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EntityStore[T]{repo: repo, ids: ids, logger: logger}
}

// Key returns the storage key of the underlying collection.
func (s *EntityStore[T]) Key() string {
	return s.repo.Key()
}

// Subscribe registers fn to run after each successful mutation.
func (s *EntityStore[T]) Subscribe(fn ChangeListener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// List returns a copy of the collection in stored order.
func (s *EntityStore[T]) List(ctx context.Context) []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Get returns the record with id.
func (s *EntityStore[T]) Get(ctx context.Context, id string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	if idx := s.indexOf(id); idx >= 0 {
		return s.items[idx], nil
	}
	var zero T
	return zero, appErrors.Clone(appErrors.ErrNotFound, "record not found")
}

// Find returns the first record matching pred.
func (s *EntityStore[T]) Find(ctx context.Context, pred func(T) bool) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	for _, item := range s.items {
		if pred(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Insert builds a record around a fresh unused identifier and stores it at the
// front of the collection when prepend is set, at the back otherwise.
// check runs under the store lock against the current items before anything is written.
func (s *EntityStore[T]) Insert(ctx context.Context, prepend bool, check func(items []T) error, build func(id string) T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	var zero T
	if check != nil {
		if err := check(s.items); err != nil {
			return zero, err
		}
	}

	id, err := s.freshID()
	if err != nil {
		return zero, err
	}
	item := build(id)

	next := make([]T, 0, len(s.items)+1)
	if prepend {
		next = append(next, item)
		next = append(next, s.items...)
	} else {
		next = append(next, s.items...)
		next = append(next, item)
	}

	if err := s.commit(ctx, next); err != nil {
		return zero, err
	}
	return item, nil
}

// Update applies mutate to a copy of the record with id and replaces it in place.
// The identifier is restored if mutate changed it.
func (s *EntityStore[T]) Update(ctx context.Context, id string, mutate func(item *T, items []T) error) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	var zero T
	idx := s.indexOf(id)
	if idx < 0 {
		return zero, appErrors.Clone(appErrors.ErrNotFound, "record not found")
	}

	updated := s.items[idx]
	if err := mutate(&updated, s.items); err != nil {
		return zero, err
	}
	if updated.GetID() != id {
		return zero, appErrors.Clone(appErrors.ErrValidation, "identifier cannot change")
	}

	next := make([]T, len(s.items))
	copy(next, s.items)
	next[idx] = updated

	if err := s.commit(ctx, next); err != nil {
		return zero, err
	}
	return updated, nil
}

// Delete removes the record with id once confirmed. Without confirmation the
// collection is left untouched.
func (s *EntityStore[T]) Delete(ctx context.Context, id string, confirmed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	idx := s.indexOf(id)
	if idx < 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "record not found")
	}
	if !confirmed {
		return appErrors.Clone(appErrors.ErrConfirmationRequired, "")
	}

	next := make([]T, 0, len(s.items)-1)
	next = append(next, s.items[:idx]...)
	next = append(next, s.items[idx+1:]...)

	return s.commit(ctx, next)
}

// Reload drops the in-memory copy so the next access reads storage again.
func (s *EntityStore[T]) Reload() {
	s.mu.Lock()
	s.items = nil
	s.loaded = false
	s.mu.Unlock()
}

func (s *EntityStore[T]) ensureLoaded(ctx context.Context) {
	if s.loaded {
		return
	}
	s.items = s.repo.Load(ctx)
	s.loaded = true
}

func (s *EntityStore[T]) indexOf(id string) int {
	for i, item := range s.items {
		if item.GetID() == id {
			return i
		}
	}
	return -1
}

func (s *EntityStore[T]) freshID() (string, error) {
	taken := make(map[string]struct{}, len(s.items))
	for _, item := range s.items {
		taken[item.GetID()] = struct{}{}
	}
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := s.ids.NewID()
		if id == "" {
			continue
		}
		if _, exists := taken[id]; !exists {
			return id, nil
		}
	}
	return "", appErrors.Clone(appErrors.ErrInternal, "could not allocate identifier")
}

// commit persists next and only then swaps it in, so a failed write leaves memory untouched.
func (s *EntityStore[T]) commit(ctx context.Context, next []T) error {
	if err := s.repo.Save(ctx, next); err != nil {
		s.logger.Error("failed to persist collection", zap.String("key", s.repo.Key()), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist changes")
	}
	s.items = next
	for _, fn := range s.listeners {
		fn(ctx, s.repo.Key())
	}
	return nil
}
