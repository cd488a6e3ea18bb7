package repository

import (
	"context"
	"errors"
	"time"
)

// Fixed keys under which the CRM keeps its state.
const (
	KeySession  = "crm_session"
	KeyStudents = "crm_students"
	KeyCourses  = "crm_courses"
	KeyLeads    = "crm_leads"
	KeySchedule = "crm_schedule"
	KeyStaff    = "crm_users"
	KeyDarkMode = "crm_dark_mode"
	KeyLanguage = "crm_language"
)

// ErrKeyNotFound is returned by KVStore.Get when nothing is stored under the key.
var ErrKeyNotFound = errors.New("key not found")

// KVStore is the durable string key-value storage every collection is persisted to.
// Set overwrites unconditionally; concurrent writers race and the last one wins.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// StoreObserver receives timing for every store operation.
type StoreObserver interface {
	ObserveStoreOperation(op, key string, duration time.Duration, err error)
}

type instrumentedKV struct {
	next     KVStore
	observer StoreObserver
}

// Instrument reports the latency and outcome of each call on kv to observer.
// A miss on Get is not reported as an error.
func Instrument(kv KVStore, observer StoreObserver) KVStore {
	if observer == nil {
		return kv
	}
	return &instrumentedKV{next: kv, observer: observer}
}

func (k *instrumentedKV) Get(ctx context.Context, key string) (string, error) {
	start := time.Now()
	value, err := k.next.Get(ctx, key)
	reported := err
	if errors.Is(err, ErrKeyNotFound) {
		reported = nil
	}
	k.observer.ObserveStoreOperation("get", key, time.Since(start), reported)
	return value, err
}

func (k *instrumentedKV) Set(ctx context.Context, key, value string) error {
	start := time.Now()
	err := k.next.Set(ctx, key, value)
	k.observer.ObserveStoreOperation("set", key, time.Since(start), err)
	return err
}

func (k *instrumentedKV) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := k.next.Delete(ctx, key)
	k.observer.ObserveStoreOperation("delete", key, time.Since(start), err)
	return err
}
