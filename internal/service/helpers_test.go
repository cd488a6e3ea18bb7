package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/training-crm-api/internal/repository"
)

type sequenceIDs struct {
	ids  []string
	next int
}

func (s *sequenceIDs) NewID() string {
	if s.next >= len(s.ids) {
		s.next++
		return fmt.Sprintf("gen-%d", s.next)
	}
	id := s.ids[s.next]
	s.next++
	return id
}

type failingKV struct {
	*repository.MemoryKV
	failSet bool
}

func (f *failingKV) Set(ctx context.Context, key, value string) error {
	if f.failSet {
		return errors.New("disk full")
	}
	return f.MemoryKV.Set(ctx, key, value)
}

func newStore[T Identifiable](t *testing.T, kv repository.KVStore, key string, items []T, ids IDGenerator) *EntityStore[T] {
	t.Helper()
	if kv == nil {
		kv = repository.NewMemoryKV()
	}
	repo := repository.NewCollectionRepository[T](kv, key, nil, nil)
	if items != nil {
		require.NoError(t, repo.Save(context.Background(), items))
	}
	return NewEntityStore[T](repo, ids, nil)
}

func strPtr(v string) *string { return &v }
