package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/training-crm-api/pkg/database"
	"github.com/noah-isme/training-crm-api/pkg/storage"
)

func exerciseKV(t *testing.T, kv KVStore) {
	t.Helper()
	ctx := context.Background()

	_, err := kv.Get(ctx, KeyStudents)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, kv.Set(ctx, KeyStudents, `[{"id":"1"}]`))
	value, err := kv.Get(ctx, KeyStudents)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, value)

	require.NoError(t, kv.Set(ctx, KeyStudents, `[]`))
	value, err = kv.Get(ctx, KeyStudents)
	require.NoError(t, err)
	assert.Equal(t, `[]`, value)

	require.NoError(t, kv.Delete(ctx, KeyStudents))
	_, err = kv.Get(ctx, KeyStudents)
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemoryKV(t *testing.T) {
	exerciseKV(t, NewMemoryKV())
}

func TestFileKV(t *testing.T) {
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	exerciseKV(t, NewFileKV(files))
}

func TestSQLiteKV(t *testing.T) {
	db, err := database.NewSQLite(":memory:")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, database.EnsureSchema(context.Background(), db))

	exerciseKV(t, NewSQLKV(db))
}

func newKVMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestSQLKVGet(t *testing.T) {
	db, mock, cleanup := newKVMock(t)
	defer cleanup()
	repo := NewSQLKV(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT item_value FROM crm_kv WHERE item_key = ?")).
		WithArgs(KeyLeads).
		WillReturnRows(sqlmock.NewRows([]string{"item_value"}).AddRow(`[]`))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT item_value FROM crm_kv WHERE item_key = ?")).
		WithArgs(KeyCourses).
		WillReturnRows(sqlmock.NewRows([]string{"item_value"}))

	value, err := repo.Get(context.Background(), KeyLeads)
	require.NoError(t, err)
	assert.Equal(t, "[]", value)

	_, err = repo.Get(context.Background(), KeyCourses)
	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLKVSetUpserts(t *testing.T) {
	db, mock, cleanup := newKVMock(t)
	defer cleanup()
	repo := NewSQLKV(db)
	fixed := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	mock.ExpectExec("INSERT INTO crm_kv .* ON CONFLICT \\(item_key\\) DO UPDATE").
		WithArgs(KeySchedule, `[]`, fixed).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Set(context.Background(), KeySchedule, `[]`))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLKVWrapsDriverErrors(t *testing.T) {
	db, mock, cleanup := newKVMock(t)
	defer cleanup()
	repo := NewSQLKV(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM crm_kv WHERE item_key = ?")).
		WithArgs(KeySession).
		WillReturnError(errors.New("connection reset"))

	err := repo.Delete(context.Background(), KeySession)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "crm_session")
	assert.NoError(t, mock.ExpectationsWereMet())
}

type recordingObserver struct {
	ops  []string
	errs []error
}

func (o *recordingObserver) ObserveStoreOperation(op, key string, _ time.Duration, err error) {
	o.ops = append(o.ops, op+":"+key)
	o.errs = append(o.errs, err)
}

func TestInstrumentReportsOperations(t *testing.T) {
	observer := &recordingObserver{}
	kv := Instrument(NewMemoryKV(), observer)
	ctx := context.Background()

	_, err := kv.Get(ctx, KeyLeads)
	assert.ErrorIs(t, err, ErrKeyNotFound)
	require.NoError(t, kv.Set(ctx, KeyLeads, "[]"))
	require.NoError(t, kv.Delete(ctx, KeyLeads))

	assert.Equal(t, []string{"get:crm_leads", "set:crm_leads", "delete:crm_leads"}, observer.ops)
	assert.Equal(t, []error{nil, nil, nil}, observer.errs)
}

func TestInstrumentWithoutObserverReturnsStore(t *testing.T) {
	kv := NewMemoryKV()
	assert.Same(t, kv, Instrument(kv, nil))
}
