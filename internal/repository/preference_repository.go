package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// PreferenceRepository stores display preferences as raw strings, matching the
// "true"/"false" layout of crm_dark_mode.
type PreferenceRepository struct {
	kv     KVStore
	logger *zap.Logger
}

// NewPreferenceRepository constructs a preference repository.
func NewPreferenceRepository(kv KVStore, logger *zap.Logger) *PreferenceRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PreferenceRepository{kv: kv, logger: logger}
}

// DarkMode reports the stored flag. Anything other than "true" reads as false.
func (r *PreferenceRepository) DarkMode(ctx context.Context) bool {
	raw, err := r.kv.Get(ctx, KeyDarkMode)
	if err != nil {
		r.logReadError(KeyDarkMode, err)
		return false
	}
	enabled, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && enabled
}

// SetDarkMode persists the flag as "true" or "false".
func (r *PreferenceRepository) SetDarkMode(ctx context.Context, enabled bool) error {
	return r.kv.Set(ctx, KeyDarkMode, strconv.FormatBool(enabled))
}

// Language returns the stored language tag or an empty string.
func (r *PreferenceRepository) Language(ctx context.Context) string {
	raw, err := r.kv.Get(ctx, KeyLanguage)
	if err != nil {
		r.logReadError(KeyLanguage, err)
		return ""
	}
	return strings.TrimSpace(raw)
}

// SetLanguage persists the language tag.
func (r *PreferenceRepository) SetLanguage(ctx context.Context, lang string) error {
	return r.kv.Set(ctx, KeyLanguage, lang)
}

func (r *PreferenceRepository) logReadError(key string, err error) {
	if errors.Is(err, ErrKeyNotFound) {
		return
	}
	r.logger.Warn("preference read failed", zap.String("key", key), zap.Error(err))
}
