package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/training-crm-api/internal/dto"
	"github.com/noah-isme/training-crm-api/internal/locale"
	"github.com/noah-isme/training-crm-api/internal/models"
	appErrors "github.com/noah-isme/training-crm-api/pkg/errors"
)

type preferenceRepository interface {
	DarkMode(ctx context.Context) bool
	SetDarkMode(ctx context.Context, enabled bool) error
	Language(ctx context.Context) string
	SetLanguage(ctx context.Context, lang string) error
}

// SettingsService reads and writes installation-wide display preferences.
type SettingsService struct {
	repo            preferenceRepository
	defaultLanguage string
	validator       *validator.Validate
	logger          *zap.Logger
}

// NewSettingsService constructs a SettingsService.
func NewSettingsService(repo preferenceRepository, defaultLanguage string, validate *validator.Validate, logger *zap.Logger) *SettingsService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{repo: repo, defaultLanguage: defaultLanguage, validator: validate, logger: logger}
}

// Get returns the stored preferences, with the configured language when none is stored.
func (s *SettingsService) Get(ctx context.Context) models.Preferences {
	return models.Preferences{
		DarkMode: s.repo.DarkMode(ctx),
		Language: string(locale.Resolve("", "", s.repo.Language(ctx), s.defaultLanguage)),
	}
}

// StoredLanguage returns the raw stored language for request resolution.
func (s *SettingsService) StoredLanguage(ctx context.Context) string {
	return s.repo.Language(ctx)
}

// DefaultLanguage returns the configured fallback language.
func (s *SettingsService) DefaultLanguage() string {
	return s.defaultLanguage
}

// Update persists the supplied preferences.
func (s *SettingsService) Update(ctx context.Context, req dto.UpdateSettingsRequest) (models.Preferences, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Preferences{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid settings payload")
	}
	if req.DarkMode != nil {
		if err := s.repo.SetDarkMode(ctx, *req.DarkMode); err != nil {
			return models.Preferences{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save dark mode")
		}
	}
	if req.Language != nil {
		if err := s.repo.SetLanguage(ctx, *req.Language); err != nil {
			return models.Preferences{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save language")
		}
	}
	return s.Get(ctx), nil
}
