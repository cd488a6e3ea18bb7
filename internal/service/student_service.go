package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/training-crm-api/internal/models"
	appErrors "github.com/noah-isme/training-crm-api/pkg/errors"
)

const enrollmentDateLayout = "2006-01-02"

// CreateStudentRequest is the payload for enrolling a student.
type CreateStudentRequest struct {
	FirstName      string   `json:"firstName" validate:"required"`
	LastName       string   `json:"lastName"`
	Email          string   `json:"email" validate:"omitempty,email"`
	Phone          string   `json:"phone"`
	Courses        []string `json:"courses"`
	EnrollmentDate string   `json:"enrollmentDate" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateStudentRequest replaces only the supplied fields.
type UpdateStudentRequest struct {
	FirstName      *string               `json:"firstName" validate:"omitempty,min=1"`
	LastName       *string               `json:"lastName"`
	Email          *string               `json:"email" validate:"omitempty,email"`
	Phone          *string               `json:"phone"`
	Courses        *[]string             `json:"courses"`
	Status         *models.StudentStatus `json:"status" validate:"omitempty,oneof=Active Graduated Dropped Pending"`
	PaymentStatus  *models.PaymentStatus `json:"paymentStatus" validate:"omitempty,oneof=Paid Partial Unpaid Overdue"`
	EnrollmentDate *string               `json:"enrollmentDate" validate:"omitempty,datetime=2006-01-02"`
}

// StudentService manages the student collection.
type StudentService struct {
	store     *EntityStore[models.Student]
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewStudentService constructs a StudentService.
func NewStudentService(store *EntityStore[models.Student], validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{store: store, validator: validate, logger: logger, now: time.Now}
}

// List returns students matching the filter in stored order.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) []models.Student {
	students := Filter(filter.Search, s.store.List(ctx), studentSearchText)
	if filter.Status == "" && filter.PaymentStatus == "" {
		return students
	}
	out := make([]models.Student, 0, len(students))
	for _, st := range students {
		if filter.Status != "" && st.Status != filter.Status {
			continue
		}
		if filter.PaymentStatus != "" && st.PaymentStatus != filter.PaymentStatus {
			continue
		}
		out = append(out, st)
	}
	return out
}

// Get returns a student by id.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return &student, nil
}

// Create enrolls a student as Active and Unpaid at the top of the list.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	enrolled := strings.TrimSpace(req.EnrollmentDate)
	if enrolled == "" {
		enrolled = s.now().Format(enrollmentDateLayout)
	}

	student, err := s.store.Insert(ctx, true, nil, func(id string) models.Student {
		return models.Student{
			ID:             id,
			FirstName:      strings.TrimSpace(req.FirstName),
			LastName:       strings.TrimSpace(req.LastName),
			Email:          strings.TrimSpace(req.Email),
			Phone:          strings.TrimSpace(req.Phone),
			Courses:        normaliseTitles(req.Courses),
			Status:         models.StudentActive,
			PaymentStatus:  models.PaymentUnpaid,
			EnrollmentDate: enrolled,
		}
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("student created", zap.String("student_id", student.ID))
	return &student, nil
}

// Update replaces the supplied fields of a student.
func (s *StudentService) Update(ctx context.Context, id string, req UpdateStudentRequest) (*models.Student, error) {
	req.FirstName = trimmedPtr(req.FirstName)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	student, err := s.store.Update(ctx, id, func(st *models.Student, _ []models.Student) error {
		if req.FirstName != nil {
			st.FirstName = strings.TrimSpace(*req.FirstName)
		}
		if req.LastName != nil {
			st.LastName = strings.TrimSpace(*req.LastName)
		}
		if req.Email != nil {
			st.Email = strings.TrimSpace(*req.Email)
		}
		if req.Phone != nil {
			st.Phone = strings.TrimSpace(*req.Phone)
		}
		if req.Courses != nil {
			st.Courses = normaliseTitles(*req.Courses)
		}
		if req.Status != nil {
			st.Status = *req.Status
		}
		if req.PaymentStatus != nil {
			st.PaymentStatus = *req.PaymentStatus
		}
		if req.EnrollmentDate != nil {
			st.EnrollmentDate = *req.EnrollmentDate
		}
		return nil
	})
	if err != nil {
		return nil, notFoundAs(err, "student not found")
	}
	return &student, nil
}

// Delete removes a student once confirmed.
func (s *StudentService) Delete(ctx context.Context, id string, confirmed bool) error {
	if err := s.store.Delete(ctx, id, confirmed); err != nil {
		return notFoundAs(err, "student not found")
	}
	s.logger.Info("student deleted", zap.String("student_id", id))
	return nil
}

func normaliseTitles(titles []string) []string {
	out := make([]string, 0, len(titles))
	for _, title := range titles {
		if trimmed := strings.TrimSpace(title); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// trimmedPtr returns a trimmed copy of an optional field so blank values fail validation.
func trimmedPtr(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}

// notFoundAs rewrites the generic not-found message for the entity at hand.
func notFoundAs(err error, message string) error {
	if errors.Is(err, appErrors.ErrNotFound) {
		return appErrors.Clone(appErrors.ErrNotFound, message)
	}
	return err
}
