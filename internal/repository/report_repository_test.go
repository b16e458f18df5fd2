package repository

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adopshq/mkt-report-api/internal/models"
)

func reportRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "email", "team", "report_date", "shift", "product", "market", "ad_account", "ad_spend", "messages", "orders", "revenue", "status", "sync_error", "sheet_range", "synced_at", "created_by", "created_at", "updated_at"}).
		AddRow("r1", "An", "an@corp.vn", "Alpha", now, models.ShiftMid, "Serum", "VN", "acc-1", 120.5, 40, 8, 2000.0, string(models.SyncPending), nil, nil, nil, "u1", now, now)
}

func TestCreateReportDefaults(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	mock.ExpectExec("INSERT INTO submitted_reports").WillReturnResult(sqlmock.NewResult(1, 1))

	report := &models.SubmittedReport{Name: "An", Email: "an@corp.vn", Date: time.Now()}
	err := repo.Create(context.Background(), report)
	require.NoError(t, err)
	assert.NotEmpty(t, report.ID)
	assert.Equal(t, models.SyncPending, report.Status, "new reports start pending")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListReportsAdminScope(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM submitted_reports WHERE 1=1 ORDER BY report_date DESC, created_at DESC LIMIT 50 OFFSET 0")).
		WillReturnRows(reportRows(time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM submitted_reports WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	reports, total, err := repo.List(context.Background(), models.AccessScope{Role: models.RoleAdmin}, models.SubmittedReportFilter{})
	require.NoError(t, err)
	assert.Len(t, reports, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListReportsLeaderScope(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM submitted_reports WHERE 1=1 AND team = $1 ORDER BY report_date DESC, created_at DESC LIMIT 50 OFFSET 0")).
		WithArgs("Alpha").
		WillReturnRows(reportRows(time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM submitted_reports WHERE 1=1 AND team = $1")).
		WithArgs("Alpha").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	scope := models.AccessScope{Role: models.RoleLeader, Team: "Alpha", Email: "lead@corp.vn"}
	reports, total, err := repo.List(context.Background(), scope, models.SubmittedReportFilter{})
	require.NoError(t, err)
	assert.Len(t, reports, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListReportsLeaderWithoutTeam(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	// No query is issued at all.
	scope := models.AccessScope{Role: models.RoleLeader, Email: "lead@corp.vn"}
	reports, total, err := repo.List(context.Background(), scope, models.SubmittedReportFilter{})
	require.NoError(t, err)
	assert.Empty(t, reports)
	assert.Equal(t, 0, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListReportsUserScope(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM submitted_reports WHERE 1=1 AND email = $1 ORDER BY report_date DESC, created_at DESC LIMIT 50 OFFSET 0")).
		WithArgs("an@corp.vn").
		WillReturnRows(reportRows(time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM submitted_reports WHERE 1=1 AND email = $1")).
		WithArgs("an@corp.vn").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	scope := models.AccessScope{Role: models.RoleUser, Email: "an@corp.vn"}
	_, total, err := repo.List(context.Background(), scope, models.SubmittedReportFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkSynced(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	mock.ExpectExec("UPDATE submitted_reports SET status").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.MarkSynced(context.Background(), "r1", "Sheet1!A5:L5", time.Now())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Guards against ordering or selecting columns the DDL does not declare.
// sqlmock matches whatever SQL the repository emits, so a renamed column
// slips through every query test unless checked against the schema itself.
func TestReportColumnsMatchSchema(t *testing.T) {
	ddl, err := os.ReadFile(filepath.Join("..", "..", "scripts", "schema.sql"))
	require.NoError(t, err)

	start := strings.Index(string(ddl), "CREATE TABLE IF NOT EXISTS submitted_reports")
	require.GreaterOrEqual(t, start, 0)
	end := strings.Index(string(ddl)[start:], ");")
	require.Greater(t, end, 0)
	table := string(ddl)[start : start+end]

	declared := make(map[string]bool)
	for _, line := range strings.Split(table, "\n")[1:] {
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) > 0 {
			declared[strings.ToLower(fields[0])] = true
		}
	}

	for _, col := range strings.Split(reportColumns, ",") {
		assert.True(t, declared[strings.TrimSpace(col)], "column %q not in submitted_reports DDL", strings.TrimSpace(col))
	}
	for _, col := range []string{"report_date", "created_at"} {
		assert.True(t, declared[col], "ordering column %q not in submitted_reports DDL", col)
	}
}

func TestMarkSyncError(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	mock.ExpectExec("UPDATE submitted_reports SET status").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.MarkSyncError(context.Background(), "r1", "append failed")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
