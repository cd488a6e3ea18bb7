package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/training-crm-api/internal/models"
	"github.com/noah-isme/training-crm-api/internal/repository"
)

func TestFinancePendingPayments(t *testing.T) {
	students := append(models.DemoStudents(), models.Student{ID: "4", FirstName: "Timur", PaymentStatus: models.PaymentOverdue})
	svc := NewFinanceService(NewStudentService(newStore(t, nil, repository.KeyStudents, students, nil), nil, nil), 15000)

	pending := svc.Pending(context.Background())
	assert.Equal(t, 2, pending.PendingCount)
	assert.Equal(t, 30000.0, pending.ExpectedDebt)
	assert.Equal(t, 15000.0, pending.FeePerStudent)
	assert.Equal(t, "Aigul", pending.Students[0].FirstName)
	assert.Equal(t, map[string]int{"Partial": 1, "Unpaid": 0, "Overdue": 1}, pending.ByStatus)
}

func TestFinanceNegativeFeeIsClamped(t *testing.T) {
	svc := NewFinanceService(NewStudentService(newStore[models.Student](t, nil, repository.KeyStudents, nil, nil), nil, nil), -5)
	pending := svc.Pending(context.Background())
	assert.Zero(t, pending.ExpectedDebt)
	assert.NotNil(t, pending.Students)
}
