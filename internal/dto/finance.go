package dto

import "github.com/noah-isme/training-crm-api/internal/models"

// PendingPaymentsResponse lists students who have not fully paid.
// ExpectedDebt is PendingCount times FeePerStudent.
type PendingPaymentsResponse struct {
	Students      []models.Student `json:"students"`
	PendingCount  int              `json:"pendingCount"`
	FeePerStudent float64          `json:"feePerStudent"`
	ExpectedDebt  float64          `json:"expectedDebt"`
	ByStatus      map[string]int   `json:"byStatus"`
}
