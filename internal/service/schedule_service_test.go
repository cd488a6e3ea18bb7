package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/training-crm-api/internal/locale"
	"github.com/noah-isme/training-crm-api/internal/models"
	"github.com/noah-isme/training-crm-api/internal/repository"
	appErrors "github.com/noah-isme/training-crm-api/pkg/errors"
)

func newScheduleService(t *testing.T) *ScheduleService {
	courses := NewCourseService(newStore(t, nil, repository.KeyCourses, models.DemoCourses(), nil), nil, nil)
	return NewScheduleService(newStore(t, nil, repository.KeySchedule, models.DemoSchedule(), nil), courses, nil, nil)
}

func TestScheduleServiceCreateFromCourse(t *testing.T) {
	ctx := context.Background()
	svc := newScheduleService(t)

	entry, err := svc.Create(ctx, CreateScheduleRequest{CourseID: "c3", Day: models.Friday, Time: "10:00 - 12:00", Room: "Lab 1"})
	require.NoError(t, err)
	assert.Equal(t, "UI/UX Design", entry.CourseTitle)
	assert.Equal(t, "Cholpon Bekova", entry.Instructor)

	all := svc.List(ctx, models.ScheduleFilter{})
	assert.Len(t, all, 6)
	assert.Equal(t, entry.ID, all[len(all)-1].ID)
}

func TestScheduleServiceCreateCustom(t *testing.T) {
	svc := newScheduleService(t)

	entry, err := svc.Create(context.Background(), CreateScheduleRequest{CourseTitle: "Open day", Day: models.Saturday, Time: "11:00"})
	require.NoError(t, err)
	assert.Equal(t, models.CustomCourseID, entry.CourseID)

	_, err = svc.Create(context.Background(), CreateScheduleRequest{Day: models.Saturday, Time: "11:00"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Create(context.Background(), CreateScheduleRequest{CourseID: "c9", Day: models.Saturday, Time: "11:00"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Create(context.Background(), CreateScheduleRequest{CourseTitle: "X", Day: "Funday", Time: "11:00"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestScheduleServiceListByDay(t *testing.T) {
	svc := newScheduleService(t)

	monday := svc.List(context.Background(), models.ScheduleFilter{Day: models.Monday})
	require.Len(t, monday, 2)
	assert.Equal(t, "s3", monday[0].ID)

	groups := svc.ByDay(context.Background(), "", locale.Russian)
	assert.Equal(t, "Понедельник", groups[0].Label)
	assert.Len(t, groups[0].Entries, 2)
}

func TestParseDay(t *testing.T) {
	day, err := ParseDay("All")
	require.NoError(t, err)
	assert.Equal(t, models.Weekday(""), day)

	day, err = ParseDay("tuesday")
	require.NoError(t, err)
	assert.Equal(t, models.Tuesday, day)

	_, err = ParseDay("someday")
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestScheduleServiceUpdateRejectsBlankFields(t *testing.T) {
	ctx := context.Background()
	svc := newScheduleService(t)

	_, err := svc.Update(ctx, "s1", UpdateScheduleRequest{CourseTitle: strPtr(" ")})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	_, err = svc.Update(ctx, "s1", UpdateScheduleRequest{Time: strPtr("   ")})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}
