package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/training-crm-api/internal/models"
	appErrors "github.com/noah-isme/training-crm-api/pkg/errors"
)

// CreateCourseRequest is the payload for adding a course to the catalogue.
type CreateCourseRequest struct {
	Title         string             `json:"title" validate:"required"`
	Instructor    string             `json:"instructor" validate:"required"`
	Duration      string             `json:"duration"`
	Price         float64            `json:"price" validate:"gte=0"`
	StudentsCount int                `json:"studentsCount" validate:"gte=0"`
	Level         models.CourseLevel `json:"level" validate:"omitempty,oneof=Beginner Intermediate Advanced"`
}

// UpdateCourseRequest replaces only the supplied fields.
type UpdateCourseRequest struct {
	Title         *string             `json:"title" validate:"omitempty,min=1"`
	Instructor    *string             `json:"instructor" validate:"omitempty,min=1"`
	Duration      *string             `json:"duration"`
	Price         *float64            `json:"price" validate:"omitempty,gte=0"`
	StudentsCount *int                `json:"studentsCount" validate:"omitempty,gte=0"`
	Level         *models.CourseLevel `json:"level" validate:"omitempty,oneof=Beginner Intermediate Advanced"`
}

// CourseService manages the course catalogue. StudentsCount is stored as given
// and never derived from student enrolments.
type CourseService struct {
	store     *EntityStore[models.Course]
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs a CourseService.
func NewCourseService(store *EntityStore[models.Course], validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{store: store, validator: validate, logger: logger}
}

// List returns courses matching the filter.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) []models.Course {
	courses := Filter(filter.Search, s.store.List(ctx), courseSearchText)
	if filter.Level == "" {
		return courses
	}
	out := make([]models.Course, 0, len(courses))
	for _, c := range courses {
		if c.Level == filter.Level {
			out = append(out, c)
		}
	}
	return out
}

// Get returns a course by id.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	return &course, nil
}

// Create adds a course at the top of the catalogue. Level defaults to Beginner.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	level := req.Level
	if level == "" {
		level = models.LevelBeginner
	}

	course, err := s.store.Insert(ctx, true, nil, func(id string) models.Course {
		return models.Course{
			ID:            id,
			Title:         strings.TrimSpace(req.Title),
			Instructor:    strings.TrimSpace(req.Instructor),
			Duration:      strings.TrimSpace(req.Duration),
			Price:         req.Price,
			StudentsCount: req.StudentsCount,
			Level:         level,
		}
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("course created", zap.String("course_id", course.ID))
	return &course, nil
}

// Update replaces the supplied fields of a course.
func (s *CourseService) Update(ctx context.Context, id string, req UpdateCourseRequest) (*models.Course, error) {
	req.Title = trimmedPtr(req.Title)
	req.Instructor = trimmedPtr(req.Instructor)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	course, err := s.store.Update(ctx, id, func(c *models.Course, _ []models.Course) error {
		if req.Title != nil {
			c.Title = strings.TrimSpace(*req.Title)
		}
		if req.Instructor != nil {
			c.Instructor = strings.TrimSpace(*req.Instructor)
		}
		if req.Duration != nil {
			c.Duration = strings.TrimSpace(*req.Duration)
		}
		if req.Price != nil {
			c.Price = *req.Price
		}
		if req.StudentsCount != nil {
			c.StudentsCount = *req.StudentsCount
		}
		if req.Level != nil {
			c.Level = *req.Level
		}
		return nil
	})
	if err != nil {
		return nil, notFoundAs(err, "course not found")
	}
	return &course, nil
}

// Delete removes a course once confirmed. Schedule entries keep their copied title.
func (s *CourseService) Delete(ctx context.Context, id string, confirmed bool) error {
	if err := s.store.Delete(ctx, id, confirmed); err != nil {
		return notFoundAs(err, "course not found")
	}
	s.logger.Info("course deleted", zap.String("course_id", id))
	return nil
}
