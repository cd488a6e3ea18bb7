package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/training-crm-api/internal/models"
	"github.com/noah-isme/training-crm-api/internal/repository"
	appErrors "github.com/noah-isme/training-crm-api/pkg/errors"
)

func TestEntityStoreInsertPrependAndAppend(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, nil, repository.KeyLeads, []models.Lead{{ID: "l1"}}, &sequenceIDs{ids: []string{"l2", "l3"}})

	_, err := store.Insert(ctx, true, nil, func(id string) models.Lead { return models.Lead{ID: id} })
	require.NoError(t, err)
	_, err = store.Insert(ctx, false, nil, func(id string) models.Lead { return models.Lead{ID: id} })
	require.NoError(t, err)

	ids := []string{}
	for _, l := range store.List(ctx) {
		ids = append(ids, l.ID)
	}
	assert.Equal(t, []string{"l2", "l1", "l3"}, ids)
}

func TestEntityStoreInsertRetriesOnCollision(t *testing.T) {
	ctx := context.Background()
	ids := &sequenceIDs{ids: []string{"1", "1", "2"}}
	store := newStore(t, nil, repository.KeyStudents, []models.Student{{ID: "1"}}, ids)

	created, err := store.Insert(ctx, true, nil, func(id string) models.Student { return models.Student{ID: id} })
	require.NoError(t, err)
	assert.Equal(t, "2", created.ID)
	assert.Len(t, store.List(ctx), 2)
}

func TestEntityStoreInsertGivesUpAfterRepeatedCollisions(t *testing.T) {
	ids := &sequenceIDs{ids: []string{"1", "1", "1", "1", "1", "1", "1", "1"}}
	store := newStore(t, nil, repository.KeyStudents, []models.Student{{ID: "1"}}, ids)

	_, err := store.Insert(context.Background(), true, nil, func(id string) models.Student { return models.Student{ID: id} })
	require.Error(t, err)
	assert.Len(t, store.List(context.Background()), 1)
}

func TestEntityStoreCheckRejectsInsert(t *testing.T) {
	store := newStore[models.Lead](t, nil, repository.KeyLeads, nil, nil)
	_, err := store.Insert(context.Background(), false, func([]models.Lead) error {
		return appErrors.ErrConflict
	}, func(id string) models.Lead { return models.Lead{ID: id} })

	assert.ErrorIs(t, err, appErrors.ErrConflict)
	assert.Empty(t, store.List(context.Background()))
}

func TestEntityStoreDeleteRequiresConfirmation(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, nil, repository.KeyStudents, []models.Student{{ID: "1", Status: models.StudentActive}}, nil)

	err := store.Delete(ctx, "1", false)
	assert.ErrorIs(t, err, appErrors.ErrConfirmationRequired)
	assert.Equal(t, []models.Student{{ID: "1", Status: models.StudentActive}}, store.List(ctx))

	require.NoError(t, store.Delete(ctx, "1", true))
	assert.Empty(t, store.List(ctx))

	assert.ErrorIs(t, store.Delete(ctx, "1", true), appErrors.ErrNotFound)
}

func TestEntityStoreDeleteKeepsOrder(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, nil, repository.KeyCourses, []models.Course{{ID: "a"}, {ID: "b"}, {ID: "c"}}, nil)

	require.NoError(t, store.Delete(ctx, "b", true))
	assert.Equal(t, []models.Course{{ID: "a"}, {ID: "c"}}, store.List(ctx))
}

func TestEntityStoreUpdateKeepsIdentifier(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, nil, repository.KeyLeads, []models.Lead{{ID: "l1", Name: "Almaz", Status: models.LeadNew}}, nil)

	_, err := store.Update(ctx, "l1", func(l *models.Lead, _ []models.Lead) error {
		l.ID = "other"
		return nil
	})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Equal(t, "l1", store.List(ctx)[0].ID)

	_, err = store.Update(ctx, "missing", func(*models.Lead, []models.Lead) error { return nil })
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestEntityStoreFailedSaveLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	kv := &failingKV{MemoryKV: repository.NewMemoryKV()}
	store := newStore(t, kv, repository.KeySchedule, []models.ScheduleEntry{{ID: "s1"}}, nil)
	assert.Len(t, store.List(ctx), 1)

	kv.failSet = true
	_, err := store.Insert(ctx, false, nil, func(id string) models.ScheduleEntry { return models.ScheduleEntry{ID: id} })
	assert.ErrorIs(t, err, appErrors.ErrInternal)
	assert.Len(t, store.List(ctx), 1)

	assert.Error(t, store.Delete(ctx, "s1", true))
	assert.Len(t, store.List(ctx), 1)
}

func TestEntityStorePersistsAndNotifies(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryKV()
	store := newStore[models.Lead](t, kv, repository.KeyLeads, nil, &sequenceIDs{ids: []string{"l1"}})
	var notified []string
	store.Subscribe(func(_ context.Context, key string) { notified = append(notified, key) })

	_, err := store.Insert(ctx, true, nil, func(id string) models.Lead {
		return models.Lead{ID: id, Name: "Almaz", Status: models.LeadNew}
	})
	require.NoError(t, err)

	raw, err := kv.Get(ctx, repository.KeyLeads)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"l1","name":"Almaz","source":"","status":"New","email":""}]`, raw)
	assert.Equal(t, []string{repository.KeyLeads}, notified)

	store.Reload()
	assert.Len(t, store.List(ctx), 1)
}
