package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/adopshq/mkt-report-api/internal/models"
)

const rosterColumns = `id, employee_code, full_name, email, team, department, position, branch, shift, created_at, updated_at`

// RosterRepository provides database access to the HR roster.
type RosterRepository struct {
	db *sqlx.DB
}

// NewRosterRepository creates a new instance of RosterRepository.
func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

// FindByID returns a roster entry by identifier.
func (r *RosterRepository) FindByID(ctx context.Context, id string) (*models.RosterEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM roster_entries WHERE id = $1 LIMIT 1`, rosterColumns)
	var entry models.RosterEntry
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find roster entry by id: %w", err)
	}
	return &entry, nil
}

// FindByEmail returns a roster entry by email, matched case-insensitively.
// Roster entries and accounts are linked by email equality only.
func (r *RosterRepository) FindByEmail(ctx context.Context, email string) (*models.RosterEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM roster_entries WHERE LOWER(email) = LOWER($1) LIMIT 1`, rosterColumns)
	var entry models.RosterEntry
	if err := r.db.GetContext(ctx, &entry, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find roster entry by email: %w", err)
	}
	return &entry, nil
}

// List returns roster entries based on filters with total count.
func (r *RosterRepository) List(ctx context.Context, filter models.RosterFilter) ([]models.RosterEntry, int, error) {
	baseQuery := `FROM roster_entries WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Team != "" {
		conditions = append(conditions, fmt.Sprintf("team = $%d", len(args)+1))
		args = append(args, filter.Team)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(full_name) LIKE $%d OR LOWER(email) LIKE $%d OR LOWER(employee_code) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
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
		pageSize = 50
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY full_name ASC LIMIT %d OFFSET %d", rosterColumns, baseQuery, pageSize, offset)

	var entries []models.RosterEntry
	if err := r.db.SelectContext(ctx, &entries, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list roster entries: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count roster entries: %w", err)
	}

	return entries, total, nil
}

// ListAll returns the full roster, used for bulk provisioning.
func (r *RosterRepository) ListAll(ctx context.Context) ([]models.RosterEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM roster_entries ORDER BY full_name ASC`, rosterColumns)
	var entries []models.RosterEntry
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("list all roster entries: %w", err)
	}
	return entries, nil
}

// Options returns the distinct dropdown values derived from the roster.
func (r *RosterRepository) Options(ctx context.Context) (*models.RosterOptions, error) {
	options := &models.RosterOptions{}
	for _, col := range []struct {
		column string
		dest   *[]string
	}{
		{"team", &options.Teams},
		{"department", &options.Departments},
		{"position", &options.Positions},
		{"branch", &options.Branches},
	} {
		query := fmt.Sprintf(`SELECT DISTINCT %s FROM roster_entries WHERE %s <> '' ORDER BY %s ASC`, col.column, col.column, col.column)
		if err := r.db.SelectContext(ctx, col.dest, query); err != nil {
			return nil, fmt.Errorf("list distinct %s: %w", col.column, err)
		}
	}
	return options, nil
}

// Create inserts a new roster entry.
func (r *RosterRepository) Create(ctx context.Context, entry *models.RosterEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	const query = `INSERT INTO roster_entries (id, employee_code, full_name, email, team, department, position, branch, shift, created_at, updated_at) VALUES (:id, :employee_code, :full_name, :email, :team, :department, :position, :branch, :shift, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create roster entry: %w", err)
	}
	return nil
}

// Update updates a roster entry.
func (r *RosterRepository) Update(ctx context.Context, entry *models.RosterEntry) error {
	entry.UpdatedAt = time.Now().UTC()
	const query = `UPDATE roster_entries SET employee_code = :employee_code, full_name = :full_name, email = :email, team = :team, department = :department, position = :position, branch = :branch, shift = :shift, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("update roster entry: %w", err)
	}
	return nil
}

// Delete removes a roster entry. Accounts provisioned from it are kept.
func (r *RosterRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM roster_entries WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete roster entry: %w", err)
	}
	return nil
}
