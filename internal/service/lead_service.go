package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/training-crm-api/internal/models"
	appErrors "github.com/noah-isme/training-crm-api/pkg/errors"
)

// CreateLeadRequest registers a prospect. New leads always start in the New stage.
type CreateLeadRequest struct {
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"omitempty,email"`
	Source string `json:"source"`
}

// UpdateLeadRequest replaces only the supplied fields.
type UpdateLeadRequest struct {
	Name   *string            `json:"name" validate:"omitempty,min=1"`
	Email  *string            `json:"email" validate:"omitempty,email"`
	Source *string            `json:"source"`
	Status *models.LeadStatus `json:"status" validate:"omitempty,oneof=New Contacted Meeting Converted"`
}

// UpdateLeadStatusRequest moves a lead to any pipeline stage.
type UpdateLeadStatusRequest struct {
	Status models.LeadStatus `json:"status" validate:"required,oneof=New Contacted Meeting Converted"`
}

// LeadService manages the sales pipeline.
type LeadService struct {
	store     *EntityStore[models.Lead]
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLeadService constructs a LeadService.
func NewLeadService(store *EntityStore[models.Lead], validate *validator.Validate, logger *zap.Logger) *LeadService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeadService{store: store, validator: validate, logger: logger}
}

// List returns leads matching the filter.
func (s *LeadService) List(ctx context.Context, filter models.LeadFilter) []models.Lead {
	leads := Filter(filter.Search, s.store.List(ctx), leadSearchText)
	if filter.Status == "" {
		return leads
	}
	out := make([]models.Lead, 0, len(leads))
	for _, l := range leads {
		if l.Status == filter.Status {
			out = append(out, l)
		}
	}
	return out
}

// Pipeline partitions the matching leads into pipeline stages.
func (s *LeadService) Pipeline(ctx context.Context, search string) []models.LeadStage {
	return PartitionLeads(Filter(search, s.store.List(ctx), leadSearchText))
}

// Create adds a lead at the top of the list.
func (s *LeadService) Create(ctx context.Context, req CreateLeadRequest) (*models.Lead, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lead payload")
	}
	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = models.DefaultLeadSource
	}

	lead, err := s.store.Insert(ctx, true, nil, func(id string) models.Lead {
		return models.Lead{
			ID:     id,
			Name:   strings.TrimSpace(req.Name),
			Email:  strings.TrimSpace(req.Email),
			Source: source,
			Status: models.LeadNew,
		}
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("lead created", zap.String("lead_id", lead.ID), zap.String("source", source))
	return &lead, nil
}

// Update replaces the supplied fields of a lead.
func (s *LeadService) Update(ctx context.Context, id string, req UpdateLeadRequest) (*models.Lead, error) {
	req.Name = trimmedPtr(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lead payload")
	}

	lead, err := s.store.Update(ctx, id, func(l *models.Lead, _ []models.Lead) error {
		if req.Name != nil {
			l.Name = strings.TrimSpace(*req.Name)
		}
		if req.Email != nil {
			l.Email = strings.TrimSpace(*req.Email)
		}
		if req.Source != nil {
			l.Source = strings.TrimSpace(*req.Source)
		}
		if req.Status != nil {
			l.Status = *req.Status
		}
		return nil
	})
	if err != nil {
		return nil, notFoundAs(err, "lead not found")
	}
	return &lead, nil
}

// UpdateStatus reassigns the pipeline stage. Any stage may follow any other.
func (s *LeadService) UpdateStatus(ctx context.Context, id string, req UpdateLeadStatusRequest) (*models.Lead, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lead status")
	}
	lead, err := s.store.Update(ctx, id, func(l *models.Lead, _ []models.Lead) error {
		l.Status = req.Status
		return nil
	})
	if err != nil {
		return nil, notFoundAs(err, "lead not found")
	}
	s.logger.Info("lead status changed", zap.String("lead_id", id), zap.String("status", string(req.Status)))
	return &lead, nil
}

// Delete removes a lead once confirmed.
func (s *LeadService) Delete(ctx context.Context, id string, confirmed bool) error {
	if err := s.store.Delete(ctx, id, confirmed); err != nil {
		return notFoundAs(err, "lead not found")
	}
	return nil
}
