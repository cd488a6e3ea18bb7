package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/training-crm-api/internal/models"
	appErrors "github.com/noah-isme/training-crm-api/pkg/errors"
)

// CreateStaffRequest registers an operator with a four-digit access code.
type CreateStaffRequest struct {
	Name  string          `json:"name" validate:"required"`
	Email string          `json:"email" validate:"required,email"`
	Code  string          `json:"code" validate:"required,len=4,numeric"`
	Role  models.UserRole `json:"role" validate:"omitempty,oneof=Manager"`
}

// ResetStaffCodeRequest sets a new access code without revealing the old one.
type ResetStaffCodeRequest struct {
	Code string `json:"code" validate:"required,len=4,numeric"`
}

// StaffService manages secondary operator accounts. Codes are kept only as bcrypt hashes.
type StaffService struct {
	store     *EntityStore[models.StaffAccount]
	director  DirectorCredential
	validator *validator.Validate
	logger    *zap.Logger
	cost      int
}

// NewStaffService constructs a StaffService.
func NewStaffService(store *EntityStore[models.StaffAccount], director DirectorCredential, validate *validator.Validate, logger *zap.Logger) *StaffService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StaffService{store: store, director: director, validator: validate, logger: logger, cost: bcrypt.DefaultCost}
}

// List returns the accounts without their code hashes.
func (s *StaffService) List(ctx context.Context, search string) []models.AccountInfo {
	accounts := Filter(search, s.store.List(ctx), staffSearchText)
	out := make([]models.AccountInfo, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, a.Info())
	}
	return out
}

// Create appends an account. Emails are stored lowercased and must be unique,
// including against the Director credential.
func (s *StaffService) Create(ctx context.Context, req CreateStaffRequest) (*models.AccountInfo, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid staff payload")
	}
	email := normaliseEmail(req.Email)
	if email == normaliseEmail(s.director.Email) {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Code), s.cost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash access code")
	}

	account, err := s.store.Insert(ctx, false, func(items []models.StaffAccount) error {
		for _, existing := range items {
			if normaliseEmail(existing.Email) == email {
				return appErrors.Clone(appErrors.ErrConflict, "email is already registered")
			}
		}
		return nil
	}, func(id string) models.StaffAccount {
		return models.StaffAccount{
			ID:       id,
			Name:     strings.TrimSpace(req.Name),
			Email:    email,
			CodeHash: string(hash),
			Role:     models.RoleManager,
		}
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("staff account created", zap.String("account_id", account.ID))
	info := account.Info()
	return &info, nil
}

// ResetCode replaces the access code of an account.
func (s *StaffService) ResetCode(ctx context.Context, id string, req ResetStaffCodeRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid access code")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Code), s.cost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash access code")
	}
	if _, err := s.store.Update(ctx, id, func(a *models.StaffAccount, _ []models.StaffAccount) error {
		a.CodeHash = string(hash)
		return nil
	}); err != nil {
		return notFoundAs(err, "staff account not found")
	}
	s.logger.Info("staff access code reset", zap.String("account_id", id))
	return nil
}

// Delete removes an account once confirmed.
func (s *StaffService) Delete(ctx context.Context, id string, confirmed bool) error {
	if err := s.store.Delete(ctx, id, confirmed); err != nil {
		return notFoundAs(err, "staff account not found")
	}
	s.logger.Info("staff account deleted", zap.String("account_id", id))
	return nil
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
