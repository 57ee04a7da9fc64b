package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/schoolhub-ng/schoolhub-api/internal/models"
	appErrors "github.com/schoolhub-ng/schoolhub-api/pkg/errors"
	"github.com/schoolhub-ng/schoolhub-api/pkg/export"
)

// ExportFormat selects the rendered output type.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportResult carries the rendered bytes together with the metadata the
// handler needs to set response headers.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders a reviewer's lesson-plan history as a CSV or PDF
// download.
type ExportService struct {
	reviews *ReviewService
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	maxRows int
	enabled bool
	logger  *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(reviews *ReviewService, maxRows int, enabled bool, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		reviews: reviews,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		maxRows: maxRows,
		enabled: enabled,
		logger:  logger,
	}
}

var planExportHeaders = []string{"Title", "Teacher", "Status", "Submitted", "Decided", "Reason"}

// LessonPlans renders the reviewer's school plan history in the requested
// format, newest submission first, capped at the configured row limit.
func (s *ExportService) LessonPlans(ctx context.Context, claims *models.JWTClaims, format ExportFormat) (*ExportResult, error) {
	if !s.enabled {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "exports are disabled")
	}

	plans, err := s.reviews.ListAll(ctx, claims, s.maxRows)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{Headers: planExportHeaders}
	for _, plan := range plans {
		row := map[string]string{
			"Title":     plan.Title,
			"Teacher":   plan.TeacherName,
			"Status":    string(plan.Status),
			"Submitted": plan.SubmittedAt.Format(time.RFC3339),
		}
		if plan.DecidedAt != nil {
			row["Decided"] = plan.DecidedAt.Format(time.RFC3339)
		}
		if plan.RejectionReason != nil {
			row["Reason"] = *plan.RejectionReason
		}
		dataset.Rows = append(dataset.Rows, row)
	}

	stamp := time.Now().UTC().Format("20060102")
	switch format {
	case ExportFormatCSV:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("lesson-plans-%s.csv", stamp),
		}, nil
	case ExportFormatPDF:
		content, err := s.pdf.Render(dataset, "Lesson Plans")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("lesson-plans-%s.pdf", stamp),
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}
