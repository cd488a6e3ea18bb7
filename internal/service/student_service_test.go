package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/training-crm-api/internal/models"
	"github.com/noah-isme/training-crm-api/internal/repository"
	appErrors "github.com/noah-isme/training-crm-api/pkg/errors"
)

func newStudentService(t *testing.T, items []models.Student) *StudentService {
	svc := NewStudentService(newStore(t, nil, repository.KeyStudents, items, nil), nil, nil)
	svc.now = func() time.Time { return time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestStudentServiceCreateDefaults(t *testing.T) {
	svc := newStudentService(t, []models.Student{{ID: "1"}})

	student, err := svc.Create(context.Background(), CreateStudentRequest{
		FirstName: " Aibek ",
		LastName:  "Tokonov",
		Email:     "aibek@example.com",
		Courses:   []string{"Frontend React", " "},
	})
	require.NoError(t, err)
	assert.Equal(t, "Aibek", student.FirstName)
	assert.Equal(t, models.StudentActive, student.Status)
	assert.Equal(t, models.PaymentUnpaid, student.PaymentStatus)
	assert.Equal(t, "2024-03-08", student.EnrollmentDate)
	assert.Equal(t, []string{"Frontend React"}, student.Courses)
	assert.NotEqual(t, "1", student.ID)

	all := svc.List(context.Background(), models.StudentFilter{})
	assert.Len(t, all, 2)
	assert.Equal(t, student.ID, all[0].ID)
}

func TestStudentServiceCreateValidation(t *testing.T) {
	svc := newStudentService(t, nil)

	_, err := svc.Create(context.Background(), CreateStudentRequest{Email: "not-an-email"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Create(context.Background(), CreateStudentRequest{FirstName: "A", EnrollmentDate: "08/03/2024"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Empty(t, svc.List(context.Background(), models.StudentFilter{}))
}

func TestStudentServiceListFilters(t *testing.T) {
	svc := newStudentService(t, models.DemoStudents())

	active := svc.List(context.Background(), models.StudentFilter{Status: models.StudentActive})
	assert.Len(t, active, 2)

	partial := svc.List(context.Background(), models.StudentFilter{Search: "example", PaymentStatus: models.PaymentPartial})
	require.Len(t, partial, 1)
	assert.Equal(t, "Aigul", partial[0].FirstName)
}

func TestStudentServiceUpdateOnlySuppliedFields(t *testing.T) {
	svc := newStudentService(t, models.DemoStudents())
	paid := models.PaymentOverdue

	updated, err := svc.Update(context.Background(), "2", UpdateStudentRequest{PaymentStatus: &paid})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentOverdue, updated.PaymentStatus)
	assert.Equal(t, "Aigul", updated.FirstName)
	assert.Equal(t, []string{"Python Backend"}, updated.Courses)

	bad := models.StudentStatus("Sleeping")
	_, err = svc.Update(context.Background(), "2", UpdateStudentRequest{Status: &bad})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Update(context.Background(), "nope", UpdateStudentRequest{FirstName: strPtr("X")})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestStudentServiceDeleteScenario(t *testing.T) {
	ctx := context.Background()
	svc := newStudentService(t, []models.Student{{ID: "1", Status: models.StudentActive}})

	err := svc.Delete(ctx, "1", false)
	assert.ErrorIs(t, err, appErrors.ErrConfirmationRequired)
	assert.Equal(t, []models.Student{{ID: "1", Status: models.StudentActive}}, svc.List(ctx, models.StudentFilter{}))

	require.NoError(t, svc.Delete(ctx, "1", true))
	assert.Empty(t, svc.List(ctx, models.StudentFilter{}))

	_, err = svc.Get(ctx, "1")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestStudentServiceUpdateRejectsBlankFirstName(t *testing.T) {
	ctx := context.Background()
	svc := newStudentService(t, models.DemoStudents())

	_, err := svc.Update(ctx, "2", UpdateStudentRequest{FirstName: strPtr("   ")})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	updated, err := svc.Update(ctx, "2", UpdateStudentRequest{FirstName: strPtr("  Aigerim ")})
	require.NoError(t, err)
	assert.Equal(t, "Aigerim", updated.FirstName)
}
