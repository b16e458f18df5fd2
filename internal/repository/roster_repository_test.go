package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adopshq/mkt-report-api/internal/models"
)

func rosterRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "employee_code", "full_name", "email", "team", "department", "position", "branch", "shift", "created_at", "updated_at"}).
		AddRow("e1", "NV001", "Nguyen Van A", "a@corp.vn", "Alpha", "Marketing", "Staff", "HCM", "mid-shift", now, now)
}

func TestRosterFindByEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRosterRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM roster_entries WHERE LOWER(email) = LOWER($1) LIMIT 1")).
		WithArgs("A@corp.vn").
		WillReturnRows(rosterRows(time.Now()))

	entry, err := repo.FindByEmail(context.Background(), "A@corp.vn")
	require.NoError(t, err)
	assert.Equal(t, "Nguyen Van A", entry.FullName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRosterList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRosterRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM roster_entries WHERE 1=1 AND team = $1 ORDER BY full_name ASC LIMIT 50 OFFSET 0")).
		WithArgs("Alpha").
		WillReturnRows(rosterRows(time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM roster_entries WHERE 1=1 AND team = $1")).
		WithArgs("Alpha").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	entries, total, err := repo.List(context.Background(), models.RosterFilter{Team: "Alpha"})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRosterOptions(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRosterRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT team FROM roster_entries")).
		WillReturnRows(sqlmock.NewRows([]string{"team"}).AddRow("Alpha").AddRow("Beta"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT department FROM roster_entries")).
		WillReturnRows(sqlmock.NewRows([]string{"department"}).AddRow("Marketing"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT position FROM roster_entries")).
		WillReturnRows(sqlmock.NewRows([]string{"position"}).AddRow("Staff"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT branch FROM roster_entries")).
		WillReturnRows(sqlmock.NewRows([]string{"branch"}).AddRow("HCM"))

	options, err := repo.Options(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Beta"}, options.Teams)
	assert.Equal(t, []string{"Marketing"}, options.Departments)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRosterCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRosterRepository(db)

	mock.ExpectExec("INSERT INTO roster_entries").WillReturnResult(sqlmock.NewResult(1, 1))

	entry := &models.RosterEntry{FullName: "Nguyen Van A", Email: "a@corp.vn"}
	err := repo.Create(context.Background(), entry)
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
