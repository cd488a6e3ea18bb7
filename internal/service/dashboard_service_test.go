package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/training-crm-api/internal/locale"
	"github.com/noah-isme/training-crm-api/internal/models"
	"github.com/noah-isme/training-crm-api/internal/repository"
	appErrors "github.com/noah-isme/training-crm-api/pkg/errors"
)

type memoryCacheRepo struct {
	entries     map[string][]byte
	invalidated []string
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: map[string][]byte{}}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.invalidated = append(m.invalidated, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
	return nil
}

type dashboardFixture struct {
	students *StudentService
	leads    *LeadService
	cache    *memoryCacheRepo
	svc      *DashboardService
}

func newDashboardFixture(t *testing.T) dashboardFixture {
	studentStore := newStore(t, nil, repository.KeyStudents, models.DemoStudents(), nil)
	courseStore := newStore(t, nil, repository.KeyCourses, models.DemoCourses(), nil)
	leadStore := newStore(t, nil, repository.KeyLeads, append(models.DemoLeads(), models.Lead{ID: "l4", Status: models.LeadConverted}), nil)
	scheduleStore := newStore(t, nil, repository.KeySchedule, models.DemoSchedule(), nil)

	students := NewStudentService(studentStore, nil, nil)
	courses := NewCourseService(courseStore, nil, nil)
	leads := NewLeadService(leadStore, nil, nil)
	cacheRepo := newMemoryCacheRepo()

	svc := NewDashboardService(DashboardServiceParams{
		Students: students,
		Courses:  courses,
		Leads:    leads,
		Schedule: NewScheduleService(scheduleStore, courses, nil, nil),
		Cache:    NewCacheService(cacheRepo, NewMetricsService(), time.Minute, nil, true),
	})
	// 2024-01-01 is a Monday.
	svc.now = func() time.Time { return time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC) }
	studentStore.Subscribe(svc.Invalidate)
	leadStore.Subscribe(svc.Invalidate)

	return dashboardFixture{students: students, leads: leads, cache: cacheRepo, svc: svc}
}

func TestDashboardSummary(t *testing.T) {
	f := newDashboardFixture(t)

	summary, cached, err := f.svc.Summary(context.Background(), locale.Kyrgyz)
	require.NoError(t, err)
	assert.False(t, cached)

	assert.Equal(t, 3, summary.Totals.Students)
	assert.Equal(t, 2, summary.Totals.ActiveStudents)
	assert.Equal(t, 3, summary.Totals.Courses)
	assert.Equal(t, 4, summary.Totals.Leads)
	assert.Equal(t, 1, summary.Totals.ConvertedLeads)
	assert.Equal(t, 25.0, summary.Totals.ConversionRate)

	assert.Equal(t, models.Monday, summary.Today)
	assert.Equal(t, "Дүйшөмбү", summary.TodayLabel)
	require.Len(t, summary.TodayClasses, 2)
	assert.Equal(t, "s3", summary.TodayClasses[0].ID)
	assert.Len(t, summary.RecentStudents, 3)
}

func TestDashboardIsCachedUntilDataChanges(t *testing.T) {
	ctx := context.Background()
	f := newDashboardFixture(t)

	_, cached, err := f.svc.Summary(ctx, locale.English)
	require.NoError(t, err)
	assert.False(t, cached)

	_, cached, err = f.svc.Summary(ctx, locale.English)
	require.NoError(t, err)
	assert.True(t, cached)

	_, err = f.students.Create(ctx, CreateStudentRequest{FirstName: "New"})
	require.NoError(t, err)
	assert.Equal(t, []string{"dashboard:*"}, f.cache.invalidated)

	summary, cached, err := f.svc.Summary(ctx, locale.English)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 4, summary.Totals.Students)
	assert.Equal(t, "New", summary.RecentStudents[0].FirstName)
}

func TestDashboardWithoutCache(t *testing.T) {
	svc := NewDashboardService(DashboardServiceParams{
		Students: NewStudentService(newStore[models.Student](t, nil, repository.KeyStudents, nil, nil), nil, nil),
		Courses:  NewCourseService(newStore[models.Course](t, nil, repository.KeyCourses, nil, nil), nil, nil),
		Leads:    NewLeadService(newStore[models.Lead](t, nil, repository.KeyLeads, nil, nil), nil, nil),
		Schedule: NewScheduleService(newStore[models.ScheduleEntry](t, nil, repository.KeySchedule, nil, nil), nil, nil, nil),
	})

	summary, cached, err := svc.Summary(context.Background(), locale.English)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Zero(t, summary.Totals.ConversionRate)
	assert.Empty(t, summary.RecentStudents)
}
