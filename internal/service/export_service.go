package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/training-crm-api/internal/models"
	appErrors "github.com/noah-isme/training-crm-api/pkg/errors"
	"github.com/noah-isme/training-crm-api/pkg/export"
)

// ExportFormat names a supported download format.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

type csvRenderer interface {
	Render(table export.Table) ([]byte, error)
}

type pdfRenderer interface {
	Render(table export.Table) ([]byte, error)
}

var studentExportHeaders = []string{"First name", "Last name", "Email", "Phone", "Courses", "Status", "Payment", "Enrolled"}

// ExportService renders student listings for download.
type ExportService struct {
	students studentLister
	csv      csvRenderer
	pdf      pdfRenderer
	logger   *zap.Logger
	now      func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers fall back to the defaults.
func NewExportService(students studentLister, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter(true)
	}
	if pdf == nil {
		pdf = export.NewPDFExporter("training-crm")
	}
	return &ExportService{students: students, csv: csv, pdf: pdf, logger: logger, now: time.Now}
}

// ParseExportFormat accepts csv or pdf, case-insensitively. Blank means csv.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ExportCSV:
		return ExportCSV, nil
	case ExportPDF:
		return ExportPDF, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

// Students renders the students matching filter.
func (s *ExportService) Students(ctx context.Context, filter models.StudentFilter, format ExportFormat) (*ExportFile, error) {
	students := s.students.List(ctx, filter)
	table := export.Table{
		Title:   "Students",
		Headers: studentExportHeaders,
		Rows:    make([][]string, 0, len(students)),
	}
	for _, st := range students {
		table.Rows = append(table.Rows, []string{
			st.FirstName,
			st.LastName,
			st.Email,
			st.Phone,
			strings.Join(st.Courses, "; "),
			string(st.Status),
			string(st.PaymentStatus),
			st.EnrollmentDate,
		})
	}

	stamp := s.now().Format("20060102-150405")
	var (
		body []byte
		err  error
		file = &ExportFile{}
	)
	switch format {
	case ExportPDF:
		body, err = s.pdf.Render(table)
		file.ContentType = "application/pdf"
	default:
		format = ExportCSV
		body, err = s.csv.Render(table)
		file.ContentType = "text/csv; charset=utf-8"
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	file.Body = body
	file.Filename = fmt.Sprintf("students-%s.%s", stamp, format)
	s.logger.Info("students exported", zap.String("format", string(format)), zap.Int("rows", len(students)))
	return file, nil
}
