package models

// StudentStatus captures where a learner is in their lifecycle.
type StudentStatus string

const (
	StudentActive    StudentStatus = "Active"
	StudentGraduated StudentStatus = "Graduated"
	StudentDropped   StudentStatus = "Dropped"
	StudentPending   StudentStatus = "Pending"
)

// PaymentStatus captures the tuition payment state of a learner.
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "Paid"
	PaymentPartial PaymentStatus = "Partial"
	PaymentUnpaid  PaymentStatus = "Unpaid"
	PaymentOverdue PaymentStatus = "Overdue"
)

// Student is a learner record persisted under crm_students.
// Courses holds course titles, not course identifiers.
type Student struct {
	ID             string        `json:"id"`
	FirstName      string        `json:"firstName"`
	LastName       string        `json:"lastName"`
	Email          string        `json:"email"`
	Phone          string        `json:"phone"`
	Courses        []string      `json:"courses"`
	Status         StudentStatus `json:"status"`
	PaymentStatus  PaymentStatus `json:"paymentStatus"`
	EnrollmentDate string        `json:"enrollmentDate"`
}

// GetID implements the identifier accessor used by entity stores.
func (s Student) GetID() string { return s.ID }

// FullName joins first and last name.
func (s Student) FullName() string {
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search        string
	Status        StudentStatus
	PaymentStatus PaymentStatus
}
