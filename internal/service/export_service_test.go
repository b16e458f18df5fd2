package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adopshq/mkt-report-api/internal/models"
	appErrors "github.com/adopshq/mkt-report-api/pkg/errors"
)

type mockOverviewProvider struct {
	overview *models.DashboardOverview
	query    models.DashboardQuery
}

func (m *mockOverviewProvider) Overview(ctx context.Context, claims *models.JWTClaims, query models.DashboardQuery) (*models.DashboardOverview, error) {
	m.query = query
	return m.overview, nil
}

func summaryFixture() *models.DashboardOverview {
	row := models.SummaryRow{Key: models.GroupKey{Team: "Alpha", Person: "An", Email: "an@corp.vn"}}
	row.Messages = 14
	row.AdSpend = 120.5
	row.Orders = 3
	row.Revenue = 1500
	row.Ratios = models.Ratios{ClosingRate: 3.0 / 14.0, AvgOrderValue: 500}
	return &models.DashboardOverview{People: []models.SummaryRow{row}, GeneratedAt: time.Now()}
}

func TestSummaryCSV(t *testing.T) {
	provider := &mockOverviewProvider{overview: summaryFixture()}
	svc := NewExportService(provider, nil, nil, nil)

	result, err := svc.Summary(context.Background(), adminClaims(), models.FilterCriteria{}, ExportFormatCSV)
	require.NoError(t, err)

	assert.Equal(t, "text/csv", result.ContentType)
	assert.True(t, strings.HasPrefix(result.Filename, "performance-summary-"))
	assert.True(t, strings.HasSuffix(result.Filename, ".csv"))

	body := string(result.Payload)
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Closing Rate")
	assert.Contains(t, lines[1], "an@corp.vn")
	assert.Contains(t, lines[1], "120.50")
	assert.Contains(t, lines[1], "21.4%")
}

func TestSummaryRequestsFullTable(t *testing.T) {
	provider := &mockOverviewProvider{overview: summaryFixture()}
	svc := NewExportService(provider, nil, nil, nil)

	_, err := svc.Summary(context.Background(), adminClaims(), models.FilterCriteria{}, ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, 1, provider.query.Page)
	assert.Equal(t, 10000, provider.query.PageSize)
}

func TestSummaryPDF(t *testing.T) {
	provider := &mockOverviewProvider{overview: summaryFixture()}
	svc := NewExportService(provider, nil, nil, nil)

	result, err := svc.Summary(context.Background(), adminClaims(), models.FilterCriteria{}, ExportFormatPDF)
	require.NoError(t, err)

	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, strings.HasSuffix(result.Filename, ".pdf"))
	assert.True(t, strings.HasPrefix(string(result.Payload), "%PDF"))
}

func TestSummaryRejectsUnknownFormat(t *testing.T) {
	provider := &mockOverviewProvider{overview: summaryFixture()}
	svc := NewExportService(provider, nil, nil, nil)

	_, err := svc.Summary(context.Background(), adminClaims(), models.FilterCriteria{}, ExportFormat("xlsx"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
