package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adopshq/mkt-report-api/internal/models"
	appErrors "github.com/adopshq/mkt-report-api/pkg/errors"
)

type mockRosterRepo struct {
	entries map[string]*models.RosterEntry
	created []*models.RosterEntry
	deleted []string
	filter  models.RosterFilter
}

func newMockRosterRepo() *mockRosterRepo {
	return &mockRosterRepo{entries: make(map[string]*models.RosterEntry)}
}

func (m *mockRosterRepo) FindByID(_ context.Context, id string) (*models.RosterEntry, error) {
	entry, ok := m.entries[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *entry
	return &copied, nil
}

func (m *mockRosterRepo) List(_ context.Context, filter models.RosterFilter) ([]models.RosterEntry, int, error) {
	m.filter = filter
	var entries []models.RosterEntry
	for _, e := range m.entries {
		entries = append(entries, *e)
	}
	return entries, len(entries), nil
}

func (m *mockRosterRepo) Options(context.Context) (*models.RosterOptions, error) {
	return &models.RosterOptions{Teams: []string{"Alpha", "Beta"}}, nil
}

func (m *mockRosterRepo) Create(_ context.Context, entry *models.RosterEntry) error {
	entry.ID = "roster-1"
	m.entries[entry.ID] = entry
	m.created = append(m.created, entry)
	return nil
}

func (m *mockRosterRepo) Update(_ context.Context, entry *models.RosterEntry) error {
	m.entries[entry.ID] = entry
	return nil
}

func (m *mockRosterRepo) Delete(_ context.Context, id string) error {
	delete(m.entries, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type mockRosterAudit struct {
	logs []*models.AuditLog
}

func (m *mockRosterAudit) CreateAuditLog(_ context.Context, log *models.AuditLog) error {
	m.logs = append(m.logs, log)
	return nil
}

func validRosterRequest() RosterUpsertRequest {
	return RosterUpsertRequest{
		EmployeeCode: "EMP-001",
		FullName:     "Nguyen Van An",
		Email:        "an@corp.vn",
		Team:         "Alpha",
		Department:   "Marketing",
		Position:     "Specialist",
		Branch:       "HCM",
		Shift:        models.ShiftMid,
	}
}

func TestRosterCreateWritesAudit(t *testing.T) {
	repo := newMockRosterRepo()
	audit := &mockRosterAudit{}
	svc := NewRosterService(repo, audit, nil, nil)

	entry, err := svc.Create(context.Background(), "admin1", validRosterRequest())
	require.NoError(t, err)

	assert.Equal(t, "roster-1", entry.ID)
	assert.Equal(t, "Nguyen Van An", entry.FullName)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionRosterChange, audit.logs[0].Action)
	require.NotNil(t, audit.logs[0].UserID)
	assert.Equal(t, "admin1", *audit.logs[0].UserID)
}

func TestRosterCreateValidation(t *testing.T) {
	svc := NewRosterService(newMockRosterRepo(), nil, nil, nil)

	req := validRosterRequest()
	req.FullName = ""
	_, err := svc.Create(context.Background(), "admin1", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	req = validRosterRequest()
	req.Email = "not-an-email"
	_, err = svc.Create(context.Background(), "admin1", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRosterUpdateReplacesFields(t *testing.T) {
	repo := newMockRosterRepo()
	repo.entries["roster-9"] = &models.RosterEntry{ID: "roster-9", FullName: "Old Name", Team: "Alpha"}
	svc := NewRosterService(repo, nil, nil, nil)

	req := validRosterRequest()
	req.Team = "Beta"
	entry, err := svc.Update(context.Background(), "admin1", "roster-9", req)
	require.NoError(t, err)

	assert.Equal(t, "roster-9", entry.ID)
	assert.Equal(t, "Nguyen Van An", entry.FullName)
	assert.Equal(t, "Beta", entry.Team)
}

func TestRosterUpdateNotFound(t *testing.T) {
	svc := NewRosterService(newMockRosterRepo(), nil, nil, nil)

	_, err := svc.Update(context.Background(), "admin1", "missing", validRosterRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestRosterDelete(t *testing.T) {
	repo := newMockRosterRepo()
	repo.entries["roster-9"] = &models.RosterEntry{ID: "roster-9", FullName: "An"}
	audit := &mockRosterAudit{}
	svc := NewRosterService(repo, audit, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), "admin1", "roster-9"))
	assert.Equal(t, []string{"roster-9"}, repo.deleted)
	assert.Len(t, audit.logs, 1)

	err := svc.Delete(context.Background(), "admin1", "roster-9")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestRosterListPassesFilter(t *testing.T) {
	repo := newMockRosterRepo()
	repo.entries["roster-1"] = &models.RosterEntry{ID: "roster-1", FullName: "An", Team: "Alpha"}
	svc := NewRosterService(repo, nil, nil, nil)

	entries, total, err := svc.List(context.Background(), models.RosterFilter{Team: "Alpha", Search: "an", Page: 2, PageSize: 10})
	require.NoError(t, err)

	assert.Len(t, entries, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Alpha", repo.filter.Team)
	assert.Equal(t, "an", repo.filter.Search)
	assert.Equal(t, 2, repo.filter.Page)
}
