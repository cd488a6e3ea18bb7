package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/training-crm-api/internal/dto"
	"github.com/noah-isme/training-crm-api/internal/repository"
	appErrors "github.com/noah-isme/training-crm-api/pkg/errors"
)

func TestSettingsDefaultsAndUpdate(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryKV()
	svc := NewSettingsService(repository.NewPreferenceRepository(kv, nil), "ky", nil, nil)

	prefs := svc.Get(ctx)
	assert.False(t, prefs.DarkMode)
	assert.Equal(t, "ky", prefs.Language)

	dark := true
	lang := "ru"
	prefs, err := svc.Update(ctx, dto.UpdateSettingsRequest{DarkMode: &dark, Language: &lang})
	require.NoError(t, err)
	assert.True(t, prefs.DarkMode)
	assert.Equal(t, "ru", prefs.Language)

	raw, err := kv.Get(ctx, repository.KeyDarkMode)
	require.NoError(t, err)
	assert.Equal(t, "true", raw)

	bad := "de"
	_, err = svc.Update(ctx, dto.UpdateSettingsRequest{Language: &bad})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}
