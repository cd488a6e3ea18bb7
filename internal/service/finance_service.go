package service

import (
	"context"

	"github.com/noah-isme/training-crm-api/internal/dto"
	"github.com/noah-isme/training-crm-api/internal/models"
)

// FinanceService derives payment analytics from the student collection.
type FinanceService struct {
	students   studentLister
	pendingFee float64
}

// NewFinanceService constructs a FinanceService. fee is the amount expected per unpaid student.
func NewFinanceService(students studentLister, fee float64) *FinanceService {
	if fee < 0 {
		fee = 0
	}
	return &FinanceService{students: students, pendingFee: fee}
}

// Pending lists every student whose payment status is not Paid.
func (s *FinanceService) Pending(ctx context.Context) dto.PendingPaymentsResponse {
	all := s.students.List(ctx, models.StudentFilter{})
	pending := make([]models.Student, 0, len(all))
	byStatus := map[string]int{
		string(models.PaymentPartial): 0,
		string(models.PaymentUnpaid):  0,
		string(models.PaymentOverdue): 0,
	}
	for _, st := range all {
		if st.PaymentStatus == models.PaymentPaid {
			continue
		}
		pending = append(pending, st)
		byStatus[string(st.PaymentStatus)]++
	}
	return dto.PendingPaymentsResponse{
		Students:      pending,
		PendingCount:  len(pending),
		FeePerStudent: s.pendingFee,
		ExpectedDebt:  float64(len(pending)) * s.pendingFee,
		ByStatus:      byStatus,
	}
}
