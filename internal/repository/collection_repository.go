package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// CollectionRepository persists one JSON array of T under a fixed key.
type CollectionRepository[T any] struct {
	kv     KVStore
	key    string
	seed   func() []T
	logger *zap.Logger
}

// NewCollectionRepository binds a collection to key. seed supplies the contents used when the key is absent.
func NewCollectionRepository[T any](kv KVStore, key string, seed func() []T, logger *zap.Logger) *CollectionRepository[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	if seed == nil {
		seed = func() []T { return []T{} }
	}
	return &CollectionRepository[T]{kv: kv, key: key, seed: seed, logger: logger}
}

// Key returns the storage key of the collection.
func (r *CollectionRepository[T]) Key() string {
	return r.key
}

// Load never fails. An absent key yields the seed and unreadable content yields an empty collection.
func (r *CollectionRepository[T]) Load(ctx context.Context) []T {
	raw, err := r.kv.Get(ctx, r.key)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			r.logger.Warn("collection read failed, using seed", zap.String("key", r.key), zap.Error(err))
		}
		return r.seed()
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		r.logger.Warn("collection is not valid JSON, starting empty", zap.String("key", r.key), zap.Error(err))
		return []T{}
	}
	if items == nil {
		items = []T{}
	}
	return items
}

// Save replaces the stored collection with items. A nil slice is written as [].
func (r *CollectionRepository[T]) Save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", r.key, err)
	}
	if err := r.kv.Set(ctx, r.key, string(payload)); err != nil {
		return err
	}
	return nil
}
