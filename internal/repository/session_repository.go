package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/training-crm-api/internal/models"
)

// SessionRepository persists the signed-in account under crm_session.
type SessionRepository struct {
	kv     KVStore
	logger *zap.Logger
}

// NewSessionRepository constructs a session repository.
func NewSessionRepository(kv KVStore, logger *zap.Logger) *SessionRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionRepository{kv: kv, logger: logger}
}

// Get returns the persisted session or nil when nobody is signed in.
// An unreadable session counts as signed out.
func (r *SessionRepository) Get(ctx context.Context) *models.Session {
	raw, err := r.kv.Get(ctx, KeySession)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			r.logger.Warn("session read failed", zap.Error(err))
		}
		return nil
	}
	var session models.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil || session.Account.ID == "" {
		r.logger.Warn("discarding unreadable session", zap.Error(err))
		return nil
	}
	return &session
}

// Save overwrites the persisted session.
func (r *SessionRepository) Save(ctx context.Context, session models.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return r.kv.Set(ctx, KeySession, string(payload))
}

// Clear removes the persisted session.
func (r *SessionRepository) Clear(ctx context.Context) error {
	return r.kv.Delete(ctx, KeySession)
}
