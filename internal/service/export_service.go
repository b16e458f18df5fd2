package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/adopshq/mkt-report-api/internal/models"
	appErrors "github.com/adopshq/mkt-report-api/pkg/errors"
	"github.com/adopshq/mkt-report-api/pkg/export"
)

// ExportFormat selects the rendered file type.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type overviewProvider interface {
	Overview(ctx context.Context, claims *models.JWTClaims, query models.DashboardQuery) (*models.DashboardOverview, error)
}

// ExportResult is a rendered download.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders the person summary table for download. Exports see
// exactly what the requesting user sees; scope is applied upstream.
type ExportService struct {
	dashboard overviewProvider
	csv       csvRenderer
	pdf       pdfRenderer
	logger    *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(dashboard overviewProvider, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{dashboard: dashboard, csv: csv, pdf: pdf, logger: logger}
}

var summaryHeaders = []string{
	"Team", "Person", "Email", "Messages", "Ad Spend", "Orders", "Revenue",
	"Closing Rate", "Cost/Message", "Cost/Order", "Avg Order Value", "KPI Attainment",
}

// Summary renders the full (unpaginated) person summary under the actor's
// scope and criteria.
func (s *ExportService) Summary(ctx context.Context, claims *models.JWTClaims, criteria models.FilterCriteria, format ExportFormat) (*ExportResult, error) {
	// A page size large enough to hold every group; the person summary is
	// bounded by headcount.
	query := models.DashboardQuery{Criteria: criteria, Page: 1, PageSize: 10000}
	overview, err := s.dashboard.Overview(ctx, claims, query)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{Headers: summaryHeaders}
	for _, row := range overview.People {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Team":            row.Key.Team,
			"Person":          row.Key.Person,
			"Email":           row.Key.Email,
			"Messages":        strconv.Itoa(row.Messages),
			"Ad Spend":        formatAmount(row.AdSpend),
			"Orders":          strconv.Itoa(row.Orders),
			"Revenue":         formatAmount(row.Revenue),
			"Closing Rate":    formatRatio(row.ClosingRate),
			"Cost/Message":    formatAmount(row.CostPerMessage),
			"Cost/Order":      formatAmount(row.CostPerOrder),
			"Avg Order Value": formatAmount(row.AvgOrderValue),
			"KPI Attainment":  formatRatio(row.KPIAttainment),
		})
	}

	stamp := time.Now().Format("20060102")
	switch format {
	case ExportFormatCSV:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("performance-summary-%s.csv", stamp),
			ContentType: "text/csv",
			Payload:     payload,
		}, nil
	case ExportFormatPDF:
		payload, err := s.pdf.Render(dataset, "Performance Summary")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("performance-summary-%s.pdf", stamp),
			ContentType: "application/pdf",
			Payload:     payload,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatRatio(v float64) string {
	return strconv.FormatFloat(v*100, 'f', 1, 64) + "%"
}
