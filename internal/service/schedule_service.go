package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/training-crm-api/internal/locale"
	"github.com/noah-isme/training-crm-api/internal/models"
	appErrors "github.com/noah-isme/training-crm-api/pkg/errors"
)

// AllDays is the day filter value that disables day filtering.
const AllDays = "All"

type courseLookup interface {
	Get(ctx context.Context, id string) (*models.Course, error)
}

// CreateScheduleRequest describes a timetable slot. When CourseID names a
// catalogue course, its title and instructor fill blank fields.
type CreateScheduleRequest struct {
	CourseID    string         `json:"courseId"`
	CourseTitle string         `json:"courseTitle" validate:"required_without=CourseID"`
	Instructor  string         `json:"instructor"`
	Day         models.Weekday `json:"day" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	Time        string         `json:"time" validate:"required"`
	Room        string         `json:"room"`
}

// UpdateScheduleRequest replaces only the supplied fields.
type UpdateScheduleRequest struct {
	CourseTitle *string         `json:"courseTitle" validate:"omitempty,min=1"`
	Instructor  *string         `json:"instructor"`
	Day         *models.Weekday `json:"day" validate:"omitempty,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	Time        *string         `json:"time" validate:"omitempty,min=1"`
	Room        *string         `json:"room"`
}

// ScheduleService manages the weekly timetable.
type ScheduleService struct {
	store     *EntityStore[models.ScheduleEntry]
	courses   courseLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService instantiates ScheduleService.
func NewScheduleService(store *EntityStore[models.ScheduleEntry], courses courseLookup, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{store: store, courses: courses, validator: validate, logger: logger}
}

// ParseDay validates a day filter value. Blank and "All" mean every day.
func ParseDay(raw string) (models.Weekday, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, AllDays) {
		return "", nil
	}
	for _, day := range models.Week {
		if strings.EqualFold(raw, string(day)) {
			return day, nil
		}
	}
	return "", appErrors.Clone(appErrors.ErrValidation, "unknown day "+raw)
}

// List returns matching entries sorted by weekday and time text.
func (s *ScheduleService) List(ctx context.Context, filter models.ScheduleFilter) []models.ScheduleEntry {
	entries := Filter(filter.Search, s.store.List(ctx), scheduleSearchText)
	if filter.Day != "" {
		byDay := make([]models.ScheduleEntry, 0, len(entries))
		for _, e := range entries {
			if e.Day == filter.Day {
				byDay = append(byDay, e)
			}
		}
		entries = byDay
	}
	return SortSchedule(entries)
}

// ByDay partitions matching entries into weekday groups with localized labels.
func (s *ScheduleService) ByDay(ctx context.Context, search string, lang locale.Language) []models.DaySchedule {
	messages := locale.For(lang)
	entries := Filter(search, s.store.List(ctx), scheduleSearchText)
	return PartitionSchedule(entries, messages.DayName)
}

// Create appends an entry to the timetable.
func (s *ScheduleService) Create(ctx context.Context, req CreateScheduleRequest) (*models.ScheduleEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}

	courseID := strings.TrimSpace(req.CourseID)
	title := strings.TrimSpace(req.CourseTitle)
	instructor := strings.TrimSpace(req.Instructor)
	if courseID == "" {
		courseID = models.CustomCourseID
	}
	if courseID != models.CustomCourseID && s.courses != nil {
		course, err := s.courses.Get(ctx, courseID)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "course does not exist")
		}
		if title == "" {
			title = course.Title
		}
		if instructor == "" {
			instructor = course.Instructor
		}
	}
	if title == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course title is required")
	}

	entry, err := s.store.Insert(ctx, false, nil, func(id string) models.ScheduleEntry {
		return models.ScheduleEntry{
			ID:          id,
			CourseID:    courseID,
			CourseTitle: title,
			Instructor:  instructor,
			Day:         req.Day,
			Time:        strings.TrimSpace(req.Time),
			Room:        strings.TrimSpace(req.Room),
		}
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("schedule entry created", zap.String("entry_id", entry.ID), zap.String("day", string(entry.Day)))
	return &entry, nil
}

// Update replaces the supplied fields of an entry.
func (s *ScheduleService) Update(ctx context.Context, id string, req UpdateScheduleRequest) (*models.ScheduleEntry, error) {
	req.CourseTitle = trimmedPtr(req.CourseTitle)
	req.Time = trimmedPtr(req.Time)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	entry, err := s.store.Update(ctx, id, func(e *models.ScheduleEntry, _ []models.ScheduleEntry) error {
		if req.CourseTitle != nil {
			e.CourseTitle = strings.TrimSpace(*req.CourseTitle)
		}
		if req.Instructor != nil {
			e.Instructor = strings.TrimSpace(*req.Instructor)
		}
		if req.Day != nil {
			e.Day = *req.Day
		}
		if req.Time != nil {
			e.Time = strings.TrimSpace(*req.Time)
		}
		if req.Room != nil {
			e.Room = strings.TrimSpace(*req.Room)
		}
		return nil
	})
	if err != nil {
		return nil, notFoundAs(err, "schedule entry not found")
	}
	return &entry, nil
}

// Delete removes an entry once confirmed.
func (s *ScheduleService) Delete(ctx context.Context, id string, confirmed bool) error {
	if err := s.store.Delete(ctx, id, confirmed); err != nil {
		return notFoundAs(err, "schedule entry not found")
	}
	return nil
}
