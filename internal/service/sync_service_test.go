package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adopshq/mkt-report-api/internal/models"
	appErrors "github.com/adopshq/mkt-report-api/pkg/errors"
	"github.com/adopshq/mkt-report-api/pkg/jobs"
)

type mockSyncRepo struct {
	mu         sync.Mutex
	reports    map[string]*models.SubmittedReport
	synced     map[string]string
	syncErrors map[string]string
	pending    []string
}

func newMockSyncRepo(reports ...*models.SubmittedReport) *mockSyncRepo {
	m := &mockSyncRepo{
		reports:    make(map[string]*models.SubmittedReport),
		synced:     make(map[string]string),
		syncErrors: make(map[string]string),
	}
	for _, r := range reports {
		m.reports[r.ID] = r
	}
	return m
}

func (m *mockSyncRepo) FindByID(ctx context.Context, id string) (*models.SubmittedReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.reports[id]; ok {
		return r, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSyncRepo) MarkSynced(ctx context.Context, id, sheetRange string, syncedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.synced[id] = sheetRange
	return nil
}

func (m *mockSyncRepo) MarkSyncError(ctx context.Context, id, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncErrors[id] = message
	return nil
}

func (m *mockSyncRepo) MarkPending(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, id)
	return nil
}

func (m *mockSyncRepo) syncedRange(id string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.synced[id]
}

type mockSheetWriter struct {
	mu          sync.Mutex
	headerCalls int
	headerErr   error
	appendErr   error
	appended    [][]interface{}
}

func (m *mockSheetWriter) Append(ctx context.Context, row []interface{}) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return "", m.appendErr
	}
	m.appended = append(m.appended, row)
	return "Sheet1!A5:L5", nil
}

func (m *mockSheetWriter) EnsureHeader(ctx context.Context, header []interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.headerCalls++
	return m.headerErr
}

func sampleReport() *models.SubmittedReport {
	return &models.SubmittedReport{
		ID:        "r1",
		Name:      "An",
		Email:     "an@corp.vn",
		Team:      "Alpha",
		Date:      time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Shift:     models.ShiftMid,
		Product:   "Serum",
		Market:    "VN",
		AdAccount: "acc-1",
		AdSpend:   120.5,
		Messages:  40,
		Orders:    8,
		Revenue:   2000,
		Status:    models.SyncPending,
		CreatedAt: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
	}
}

func TestBuildRow(t *testing.T) {
	row := BuildRow(sampleReport())
	require.Len(t, row, 12, "row layout must match the sheet header")
	assert.Equal(t, "An", row[0])
	assert.Equal(t, "an@corp.vn", row[1])
	assert.Equal(t, "01/05/2024", row[2], "sheet dates are DD/MM/YYYY")
	assert.Equal(t, models.ShiftMid, row[3])
	assert.Equal(t, "acc-1", row[6])
	assert.Equal(t, 120.5, row[7])
	assert.Equal(t, 40, row[8])
	assert.Equal(t, "2024-05-01T09:30:00Z", row[11])
	assert.Len(t, SheetHeader, 12)
}

func TestHandleJobMarksSynced(t *testing.T) {
	repo := newMockSyncRepo(sampleReport())
	sheets := &mockSheetWriter{}
	svc := NewSyncService(SyncServiceParams{Repo: repo, Sheets: sheets})

	err := svc.handleJob(context.Background(), jobs.Job{ID: "r1", Payload: "r1"})
	require.NoError(t, err)

	assert.Equal(t, "Sheet1!A5:L5", repo.synced["r1"])
	require.Len(t, sheets.appended, 1)
	assert.Equal(t, 1, sheets.headerCalls)
}

func TestHandleJobWritesHeaderOnce(t *testing.T) {
	r2 := sampleReport()
	r2.ID = "r2"
	repo := newMockSyncRepo(sampleReport(), r2)
	sheets := &mockSheetWriter{}
	svc := NewSyncService(SyncServiceParams{Repo: repo, Sheets: sheets})

	require.NoError(t, svc.handleJob(context.Background(), jobs.Job{ID: "r1", Payload: "r1"}))
	require.NoError(t, svc.handleJob(context.Background(), jobs.Job{ID: "r2", Payload: "r2"}))
	assert.Equal(t, 1, sheets.headerCalls)
}

func TestHandleJobHeaderFailureRetries(t *testing.T) {
	repo := newMockSyncRepo(sampleReport())
	sheets := &mockSheetWriter{headerErr: errors.New("quota exceeded")}
	svc := NewSyncService(SyncServiceParams{Repo: repo, Sheets: sheets})

	err := svc.handleJob(context.Background(), jobs.Job{ID: "r1", Payload: "r1"})
	require.Error(t, err)
	assert.Empty(t, repo.synced)

	// Next attempt tries the header again and succeeds.
	sheets.headerErr = nil
	require.NoError(t, svc.handleJob(context.Background(), jobs.Job{ID: "r1", Payload: "r1"}))
	assert.Equal(t, 2, sheets.headerCalls)
}

func TestHandleJobAppendFailureKeepsPrimary(t *testing.T) {
	repo := newMockSyncRepo(sampleReport())
	sheets := &mockSheetWriter{appendErr: errors.New("503")}
	svc := NewSyncService(SyncServiceParams{Repo: repo, Sheets: sheets})

	err := svc.handleJob(context.Background(), jobs.Job{ID: "r1", Payload: "r1"})
	require.Error(t, err)
	assert.Empty(t, repo.synced)
	assert.Empty(t, repo.syncErrors, "status flips to error only after retries are exhausted")
}

func TestHandleJobSkipsRemovedReport(t *testing.T) {
	repo := newMockSyncRepo()
	sheets := &mockSheetWriter{}
	svc := NewSyncService(SyncServiceParams{Repo: repo, Sheets: sheets})

	err := svc.handleJob(context.Background(), jobs.Job{ID: "ghost", Payload: "ghost"})
	require.NoError(t, err)
	assert.Empty(t, sheets.appended)
}

func TestHandleExhaustedRecordsError(t *testing.T) {
	repo := newMockSyncRepo(sampleReport())
	svc := NewSyncService(SyncServiceParams{Repo: repo, Sheets: &mockSheetWriter{}})

	svc.handleExhausted(context.Background(), jobs.Job{ID: "r1", Payload: "r1"}, errors.New("append failed"))
	assert.Equal(t, "append failed", repo.syncErrors["r1"])
}

func TestEnqueueDisabledLeavesPending(t *testing.T) {
	repo := newMockSyncRepo(sampleReport())
	svc := NewSyncService(SyncServiceParams{Repo: repo})

	require.NoError(t, svc.Enqueue("r1"))
	assert.False(t, svc.Enabled())
	assert.Empty(t, repo.synced)
}

func TestResyncDisabled(t *testing.T) {
	repo := newMockSyncRepo(sampleReport())
	svc := NewSyncService(SyncServiceParams{Repo: repo})

	err := svc.Resync(context.Background(), "r1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSyncDisabled.Code, appErrors.FromError(err).Code)
}

func TestResyncResetsAndSchedules(t *testing.T) {
	repo := newMockSyncRepo(sampleReport())
	sheets := &mockSheetWriter{}
	svc := NewSyncService(SyncServiceParams{Repo: repo, Sheets: sheets, Workers: 1})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)
	defer svc.Stop()

	require.NoError(t, svc.Resync(ctx, "r1"))

	require.Eventually(t, func() bool {
		return repo.syncedRange("r1") != ""
	}, time.Second, 10*time.Millisecond)
}
