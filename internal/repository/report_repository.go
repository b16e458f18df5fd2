package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/adopshq/mkt-report-api/internal/models"
	"github.com/adopshq/mkt-report-api/internal/reporting"
)

const reportColumns = `id, name, email, team, report_date, shift, product, market, ad_account, ad_spend, messages, orders, revenue, status, sync_error, sheet_range, synced_at, created_by, created_at, updated_at`

// ReportRepository provides database access for submitted daily reports.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository creates a new instance of ReportRepository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create inserts a new submitted report in pending sync state.
func (r *ReportRepository) Create(ctx context.Context, report *models.SubmittedReport) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if report.CreatedAt.IsZero() {
		report.CreatedAt = now
	}
	report.UpdatedAt = now
	if report.Status == "" {
		report.Status = models.SyncPending
	}

	const query = `INSERT INTO submitted_reports (id, name, email, team, report_date, shift, product, market, ad_account, ad_spend, messages, orders, revenue, status, created_by, created_at, updated_at) VALUES (:id, :name, :email, :team, :report_date, :shift, :product, :market, :ad_account, :ad_spend, :messages, :orders, :revenue, :status, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, report); err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	return nil
}

// FindByID returns a submitted report by identifier.
func (r *ReportRepository) FindByID(ctx context.Context, id string) (*models.SubmittedReport, error) {
	query := fmt.Sprintf(`SELECT %s FROM submitted_reports WHERE id = $1 LIMIT 1`, reportColumns)
	var report models.SubmittedReport
	if err := r.db.GetContext(ctx, &report, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find report by id: %w", err)
	}
	return &report, nil
}

// List returns submitted reports visible to the given scope, newest first,
// with total count. Filter semantics mirror the in-memory pipeline: values
// within a dimension are ORed, dimensions ANDed, the end date is inclusive
// through its whole day, and the search matches name, email, and ad account
// substrings case-insensitively.
func (r *ReportRepository) List(ctx context.Context, scope models.AccessScope, filter models.SubmittedReportFilter) ([]models.SubmittedReport, int, error) {
	baseQuery := `FROM submitted_reports WHERE 1=1`
	var conditions []string
	var args []interface{}

	switch scope.Role {
	case models.RoleAdmin:
	case models.RoleLeader:
		if scope.Team == "" {
			return []models.SubmittedReport{}, 0, nil
		}
		conditions = append(conditions, fmt.Sprintf("team = $%d", len(args)+1))
		args = append(args, scope.Team)
	default:
		conditions = append(conditions, fmt.Sprintf("email = $%d", len(args)+1))
		args = append(args, scope.Email)
	}

	criteria := filter.Criteria
	if criteria.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("report_date >= $%d", len(args)+1))
		args = append(args, *criteria.StartDate)
	}
	if criteria.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("report_date <= $%d", len(args)+1))
		args = append(args, reporting.EndOfDay(*criteria.EndDate))
	}
	for _, dim := range []struct {
		column string
		values []string
	}{
		{"product", criteria.Products},
		{"shift", criteria.Shifts},
		{"market", criteria.Markets},
		{"team", criteria.Teams},
	} {
		if len(dim.values) > 0 {
			conditions = append(conditions, fmt.Sprintf("%s = ANY($%d)", dim.column, len(args)+1))
			args = append(args, pq.Array(dim.values))
		}
	}
	if criteria.Search != "" {
		pattern := "%" + strings.ToLower(criteria.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(email) LIKE $%d OR LOWER(ad_account) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, pattern)
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 200 {
		pageSize = reporting.DefaultPageSize
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY report_date DESC, created_at DESC LIMIT %d OFFSET %d", reportColumns, baseQuery, pageSize, offset)

	var reports []models.SubmittedReport
	if err := r.db.SelectContext(ctx, &reports, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list reports: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count reports: %w", err)
	}

	return reports, total, nil
}

// ListAll returns every submitted report, used to merge the submission store
// into the dashboard aggregation pipeline.
func (r *ReportRepository) ListAll(ctx context.Context) ([]models.SubmittedReport, error) {
	query := fmt.Sprintf(`SELECT %s FROM submitted_reports ORDER BY created_at DESC`, reportColumns)
	var reports []models.SubmittedReport
	if err := r.db.SelectContext(ctx, &reports, query); err != nil {
		return nil, fmt.Errorf("list all reports: %w", err)
	}
	return reports, nil
}

// Update updates the editable fields of a submitted report.
func (r *ReportRepository) Update(ctx context.Context, report *models.SubmittedReport) error {
	report.UpdatedAt = time.Now().UTC()
	const query = `UPDATE submitted_reports SET name = :name, email = :email, team = :team, report_date = :report_date, shift = :shift, product = :product, market = :market, ad_account = :ad_account, ad_spend = :ad_spend, messages = :messages, orders = :orders, revenue = :revenue, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, report); err != nil {
		return fmt.Errorf("update report: %w", err)
	}
	return nil
}

// Delete removes a submitted report.
func (r *ReportRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM submitted_reports WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	return nil
}

// UpdateStatus overrides the sync status directly.
func (r *ReportRepository) UpdateStatus(ctx context.Context, id string, status models.SyncStatus) error {
	const query = `UPDATE submitted_reports SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update report status: %w", err)
	}
	return nil
}

// MarkSynced records a successful mirror write.
func (r *ReportRepository) MarkSynced(ctx context.Context, id, sheetRange string, syncedAt time.Time) error {
	const query = `UPDATE submitted_reports SET status = $2, sheet_range = $3, synced_at = $4, sync_error = NULL, updated_at = $5 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, models.SyncSynced, sheetRange, syncedAt, time.Now().UTC()); err != nil {
		return fmt.Errorf("mark report synced: %w", err)
	}
	return nil
}

// MarkSyncError records a failed mirror write. The primary row is kept.
func (r *ReportRepository) MarkSyncError(ctx context.Context, id, message string) error {
	const query = `UPDATE submitted_reports SET status = $2, sync_error = $3, updated_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, models.SyncError, message, time.Now().UTC()); err != nil {
		return fmt.Errorf("mark report sync error: %w", err)
	}
	return nil
}

// MarkPending resets a report for another sync attempt.
func (r *ReportRepository) MarkPending(ctx context.Context, id string) error {
	const query = `UPDATE submitted_reports SET status = $2, sync_error = NULL, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, models.SyncPending, time.Now().UTC()); err != nil {
		return fmt.Errorf("mark report pending: %w", err)
	}
	return nil
}

// CreateAuditLog stores an audit log entry.
func (r *ReportRepository) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO audit_logs (id, user_id, action, resource, resource_id, old_values, new_values, ip_address, user_agent, created_at) VALUES (:id, :user_id, :action, :resource, :resource_id, :old_values, :new_values, :ip_address, :user_agent, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}
