package service

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/training-crm-api/internal/dto"
	"github.com/noah-isme/training-crm-api/internal/locale"
	"github.com/noah-isme/training-crm-api/internal/models"
)

const (
	dashboardCachePrefix = "dashboard:"
	recentStudentsLimit  = 6
)

type studentLister interface {
	List(ctx context.Context, filter models.StudentFilter) []models.Student
}

type courseLister interface {
	List(ctx context.Context, filter models.CourseFilter) []models.Course
}

type leadLister interface {
	List(ctx context.Context, filter models.LeadFilter) []models.Lead
}

type scheduleLister interface {
	List(ctx context.Context, filter models.ScheduleFilter) []models.ScheduleEntry
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Students studentLister
	Courses  courseLister
	Leads    leadLister
	Schedule scheduleLister
	Cache    *CacheService
	CacheTTL time.Duration
	Logger   *zap.Logger
}

// DashboardService composes the landing-page summary from the entity collections.
type DashboardService struct {
	students studentLister
	courses  courseLister
	leads    leadLister
	schedule scheduleLister
	cache    *CacheService
	cacheTTL time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := params.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &DashboardService{
		students: params.Students,
		courses:  params.Courses,
		leads:    params.Leads,
		schedule: params.Schedule,
		cache:    params.Cache,
		cacheTTL: ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// Summary returns the dashboard for lang and reports whether it came from cache.
func (s *DashboardService) Summary(ctx context.Context, lang locale.Language) (*dto.DashboardResponse, bool, error) {
	today := weekdayOf(s.now())
	key := dashboardCachePrefix + string(today) + ":" + string(lang)

	var cached dto.DashboardResponse
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, true, nil
	}

	summary := s.build(ctx, today, lang)
	if err := s.cache.Set(ctx, key, summary, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache dashboard", zap.Error(err))
	}
	return summary, false, nil
}

// Invalidate drops cached dashboards. It is subscribed to every entity store.
func (s *DashboardService) Invalidate(ctx context.Context, key string) {
	if err := s.cache.Invalidate(ctx, dashboardCachePrefix+"*"); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", zap.String("collection", key), zap.Error(err))
	}
}

func (s *DashboardService) build(ctx context.Context, today models.Weekday, lang locale.Language) *dto.DashboardResponse {
	students := s.students.List(ctx, models.StudentFilter{})
	courses := s.courses.List(ctx, models.CourseFilter{})
	leads := s.leads.List(ctx, models.LeadFilter{})

	totals := dto.DashboardTotals{
		Students: len(students),
		Courses:  len(courses),
		Leads:    len(leads),
	}
	for _, st := range students {
		if st.Status == models.StudentActive {
			totals.ActiveStudents++
		}
	}
	for _, l := range leads {
		if l.Status == models.LeadConverted {
			totals.ConvertedLeads++
		}
	}
	if totals.Leads > 0 {
		rate := float64(totals.ConvertedLeads) / float64(totals.Leads) * 100
		totals.ConversionRate = math.Round(rate*10) / 10
	}

	recent := students
	if len(recent) > recentStudentsLimit {
		recent = recent[:recentStudentsLimit]
	}

	messages := locale.For(lang)
	return &dto.DashboardResponse{
		Totals:         totals,
		Today:          today,
		TodayLabel:     messages.DayName(today),
		TodayClasses:   s.schedule.List(ctx, models.ScheduleFilter{Day: today}),
		RecentStudents: recent,
		Language:       string(messages.Language),
	}
}

func weekdayOf(t time.Time) models.Weekday {
	return models.Weekday(t.Weekday().String())
}
