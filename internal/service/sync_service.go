package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/adopshq/mkt-report-api/internal/models"
	appErrors "github.com/adopshq/mkt-report-api/pkg/errors"
	"github.com/adopshq/mkt-report-api/pkg/jobs"
)

// SheetWriter is the subset of the spreadsheet client the mirror needs.
type SheetWriter interface {
	Append(ctx context.Context, row []interface{}) (string, error)
	EnsureHeader(ctx context.Context, header []interface{}) error
}

type syncReportRepository interface {
	FindByID(ctx context.Context, id string) (*models.SubmittedReport, error)
	MarkSynced(ctx context.Context, id, sheetRange string, syncedAt time.Time) error
	MarkSyncError(ctx context.Context, id, message string) error
	MarkPending(ctx context.Context, id string) error
}

// SheetHeader is the fixed 12-column header of the mirror sheet. Columns and
// order must match BuildRow.
var SheetHeader = []interface{}{
	"Name", "Email", "Date", "Shift", "Product", "Market",
	"Ad Account", "Ad Spend", "Messages", "Orders", "Revenue", "Submitted At",
}

// SyncService mirrors submitted reports into the configured spreadsheet.
// The database row is authoritative; mirror failures only flip the report's
// sync status, never roll back the primary write.
type SyncService struct {
	repo    syncReportRepository
	sheets  SheetWriter
	metrics *MetricsService
	logger  *zap.Logger

	queue *jobs.Queue

	headerMu   sync.Mutex
	headerDone bool
}

// SyncServiceParams bundles constructor dependencies.
type SyncServiceParams struct {
	Repo       syncReportRepository
	Sheets     SheetWriter
	Metrics    *MetricsService
	Logger     *zap.Logger
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
}

// NewSyncService constructs a SyncService. Sheets may be nil, in which case
// enqueued reports stay pending until sync is enabled.
func NewSyncService(p SyncServiceParams) *SyncService {
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	s := &SyncService{
		repo:    p.Repo,
		sheets:  p.Sheets,
		metrics: p.Metrics,
		logger:  p.Logger,
	}
	s.queue = jobs.NewQueue("sheet-sync", s.handleJob, jobs.QueueConfig{
		Workers:    p.Workers,
		BufferSize: p.BufferSize,
		MaxRetries: p.MaxRetries,
		RetryDelay: p.RetryDelay,
		Exhausted:  s.handleExhausted,
		Logger:     p.Logger,
	})
	return s
}

// Start launches the background sync workers.
func (s *SyncService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the sync workers.
func (s *SyncService) Stop() {
	s.queue.Stop()
}

// Enabled reports whether a spreadsheet client is configured.
func (s *SyncService) Enabled() bool {
	return s != nil && s.sheets != nil
}

// Enqueue schedules a report for mirroring. With sync disabled the report
// keeps its pending status and nothing is scheduled.
func (s *SyncService) Enqueue(reportID string) error {
	if !s.Enabled() {
		s.logger.Debug("sheet sync disabled, report left pending", zap.String("report_id", reportID))
		return nil
	}
	err := s.queue.Enqueue(jobs.Job{ID: reportID, Type: "sheet-sync", Payload: reportID})
	if err == nil && s.metrics != nil {
		s.metrics.SetSyncQueueDepth(s.queue.Depth())
	}
	return err
}

// Resync resets a report to pending and schedules another mirror attempt.
// A re-run appends a fresh row; the sheet is an append-only journal and
// deduplication is not attempted.
func (s *SyncService) Resync(ctx context.Context, reportID string) error {
	if !s.Enabled() {
		return appErrors.Clone(appErrors.ErrSyncDisabled, "")
	}
	if _, err := s.repo.FindByID(ctx, reportID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "report not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report")
	}
	if err := s.repo.MarkPending(ctx, reportID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset report status")
	}
	return s.Enqueue(reportID)
}

// BuildRow flattens a submitted report into the mirror's 12-column layout.
// The report date is rendered as DD/MM/YYYY to match the sheet's locale.
func BuildRow(report *models.SubmittedReport) []interface{} {
	return []interface{}{
		report.Name,
		report.Email,
		report.Date.Format("02/01/2006"),
		report.Shift,
		report.Product,
		report.Market,
		report.AdAccount,
		report.AdSpend,
		report.Messages,
		report.Orders,
		report.Revenue,
		report.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (s *SyncService) handleJob(ctx context.Context, job jobs.Job) error {
	reportID, _ := job.Payload.(string)
	if reportID == "" {
		reportID = job.ID
	}

	report, err := s.repo.FindByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Deleted before the mirror caught up; nothing to do.
			s.logger.Info("skipping sync for removed report", zap.String("report_id", reportID))
			return nil
		}
		return fmt.Errorf("load report %s: %w", reportID, err)
	}

	if err := s.ensureHeader(ctx); err != nil {
		return fmt.Errorf("ensure sheet header: %w", err)
	}

	start := time.Now()
	sheetRange, err := s.sheets.Append(ctx, BuildRow(report))
	if s.metrics != nil {
		s.metrics.ObserveSync(err == nil, time.Since(start))
		s.metrics.SetSyncQueueDepth(s.queue.Depth())
	}
	if err != nil {
		return fmt.Errorf("append report %s: %w", reportID, err)
	}

	if err := s.repo.MarkSynced(ctx, reportID, sheetRange, time.Now().UTC()); err != nil {
		return fmt.Errorf("mark report %s synced: %w", reportID, err)
	}

	s.logger.Info("report mirrored",
		zap.String("report_id", reportID),
		zap.String("sheet_range", sheetRange))
	return nil
}

// ensureHeader writes the header row once per process. Failures are retried
// on the next job.
func (s *SyncService) ensureHeader(ctx context.Context) error {
	s.headerMu.Lock()
	defer s.headerMu.Unlock()
	if s.headerDone {
		return nil
	}
	if err := s.sheets.EnsureHeader(ctx, SheetHeader); err != nil {
		return err
	}
	s.headerDone = true
	return nil
}

func (s *SyncService) handleExhausted(ctx context.Context, job jobs.Job, cause error) {
	reportID, _ := job.Payload.(string)
	if reportID == "" {
		reportID = job.ID
	}
	if err := s.repo.MarkSyncError(ctx, reportID, cause.Error()); err != nil {
		s.logger.Error("failed to record terminal sync error",
			zap.String("report_id", reportID),
			zap.Error(err))
		return
	}
	s.logger.Warn("report sync gave up, primary row kept",
		zap.String("report_id", reportID),
		zap.Error(cause))
}
