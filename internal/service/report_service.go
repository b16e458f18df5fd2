package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/adopshq/mkt-report-api/internal/models"
	appErrors "github.com/adopshq/mkt-report-api/pkg/errors"
)

type reportRepository interface {
	Create(ctx context.Context, report *models.SubmittedReport) error
	FindByID(ctx context.Context, id string) (*models.SubmittedReport, error)
	List(ctx context.Context, scope models.AccessScope, filter models.SubmittedReportFilter) ([]models.SubmittedReport, int, error)
	Update(ctx context.Context, report *models.SubmittedReport) error
	Delete(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id string, status models.SyncStatus) error
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type reportSyncScheduler interface {
	Enqueue(reportID string) error
	Resync(ctx context.Context, reportID string) error
}

// ReportService provides submission and management of daily reports.
type ReportService struct {
	repo      reportRepository
	sync      reportSyncScheduler
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// ReportServiceParams bundles constructor dependencies.
type ReportServiceParams struct {
	Repo      reportRepository
	Sync      reportSyncScheduler
	Cache     *CacheService
	Validator *validator.Validate
	Logger    *zap.Logger
}

// NewReportService constructs a ReportService instance.
func NewReportService(p ReportServiceParams) *ReportService {
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	if p.Validator == nil {
		p.Validator = validator.New()
	}
	return &ReportService{
		repo:      p.Repo,
		sync:      p.Sync,
		cache:     p.Cache,
		validator: p.Validator,
		logger:    p.Logger,
	}
}

// Submit persists a new daily report and schedules its spreadsheet mirror.
// The primary write succeeds independently of the mirror; the report starts
// in pending sync state.
func (s *ReportService) Submit(ctx context.Context, claims *models.JWTClaims, req models.SubmitReportRequest) (*models.SubmittedReport, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report payload")
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}

	report := &models.SubmittedReport{
		Name:      claims.DisplayName,
		Email:     claims.Email,
		Team:      claims.Team,
		Date:      date,
		Shift:     req.Shift,
		Product:   req.Product,
		Market:    req.Market,
		AdAccount: req.AdAccount,
		AdSpend:   req.AdSpend,
		Messages:  req.Messages,
		Orders:    req.Orders,
		Revenue:   req.Revenue,
		Status:    models.SyncPending,
		CreatedBy: claims.UserID,
	}
	// Only admins submit on behalf of someone else.
	if claims.Role == models.RoleAdmin {
		if req.Name != "" {
			report.Name = req.Name
		}
		if req.Email != "" {
			report.Email = req.Email
		}
		if req.Team != "" {
			report.Team = req.Team
		}
	}

	if err := s.repo.Create(ctx, report); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store report")
	}

	if s.sync != nil {
		if err := s.sync.Enqueue(report.ID); err != nil {
			s.logger.Warn("failed to schedule report sync", zap.String("report_id", report.ID), zap.Error(err))
		}
	}

	s.invalidateDashboards(ctx)
	return report, nil
}

// List returns the submitted reports visible to the actor, newest first.
func (s *ReportService) List(ctx context.Context, claims *models.JWTClaims, filter models.SubmittedReportFilter) ([]models.SubmittedReport, models.Pagination, error) {
	// Team multi-select is an admin-only filter; everyone else is already
	// pinned by their scope.
	if claims.Role != models.RoleAdmin {
		filter.Criteria.Teams = nil
	}

	reports, total, err := s.repo.List(ctx, scopeFromClaims(claims), filter)
	if err != nil {
		return nil, models.Pagination{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reports")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 200 {
		pageSize = 50
	}
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}

	return reports, models.Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
		TotalPages: totalPages,
	}, nil
}

// Get returns one report if the actor is allowed to see it.
func (s *ReportService) Get(ctx context.Context, claims *models.JWTClaims, id string) (*models.SubmittedReport, error) {
	report, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canSee(claims, report) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "report outside your scope")
	}
	return report, nil
}

// Update edits a report's fields. Editing does not re-mirror the report;
// the sheet keeps the originally appended row.
func (s *ReportService) Update(ctx context.Context, claims *models.JWTClaims, id string, req models.SubmitReportRequest) (*models.SubmittedReport, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report payload")
	}

	report, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canMutate(claims, report) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "you may not edit this report")
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}

	report.Date = date
	report.Shift = req.Shift
	report.Product = req.Product
	report.Market = req.Market
	report.AdAccount = req.AdAccount
	report.AdSpend = req.AdSpend
	report.Messages = req.Messages
	report.Orders = req.Orders
	report.Revenue = req.Revenue
	if claims.Role == models.RoleAdmin {
		if req.Name != "" {
			report.Name = req.Name
		}
		if req.Email != "" {
			report.Email = req.Email
		}
		if req.Team != "" {
			report.Team = req.Team
		}
	}

	if err := s.repo.Update(ctx, report); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update report")
	}

	s.audit(ctx, claims, models.AuditActionReportEdit, report.ID)
	s.invalidateDashboards(ctx)
	return report, nil
}

// Delete removes a report. The mirrored sheet row, if any, is left in place.
func (s *ReportService) Delete(ctx context.Context, claims *models.JWTClaims, id string) error {
	report, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !canMutate(claims, report) {
		return appErrors.Clone(appErrors.ErrForbidden, "you may not delete this report")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete report")
	}

	s.audit(ctx, claims, models.AuditActionReportDelete, id)
	s.invalidateDashboards(ctx)
	return nil
}

// OverrideStatus force-sets the sync status. Admin only; used to reconcile
// rows fixed by hand in the sheet.
func (s *ReportService) OverrideStatus(ctx context.Context, claims *models.JWTClaims, id string, status models.SyncStatus) error {
	if claims.Role != models.RoleAdmin {
		return appErrors.Clone(appErrors.ErrForbidden, "only admins may override sync status")
	}
	switch status {
	case models.SyncPending, models.SyncSynced, models.SyncError:
	default:
		return appErrors.Clone(appErrors.ErrValidation, "unknown sync status")
	}

	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to override status")
	}

	s.audit(ctx, claims, models.AuditActionStatusOverride, id)
	return nil
}

// Resync schedules another mirror attempt for a report. Admin only.
func (s *ReportService) Resync(ctx context.Context, claims *models.JWTClaims, id string) error {
	if claims.Role != models.RoleAdmin {
		return appErrors.Clone(appErrors.ErrForbidden, "only admins may trigger a re-sync")
	}
	if s.sync == nil {
		return appErrors.Clone(appErrors.ErrSyncDisabled, "")
	}
	return s.sync.Resync(ctx, id)
}

func (s *ReportService) load(ctx context.Context, id string) (*models.SubmittedReport, error) {
	report, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report")
	}
	return report, nil
}

func (s *ReportService) audit(ctx context.Context, claims *models.JWTClaims, action models.AuditAction, resourceID string) {
	if err := s.repo.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &claims.UserID,
		Action:     action,
		Resource:   "report",
		ResourceID: &resourceID,
	}); err != nil {
		s.logger.Warn("failed to record report audit log", zap.Error(err))
	}
}

func (s *ReportService) invalidateDashboards(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "dashboard:*"); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}

func scopeFromClaims(claims *models.JWTClaims) models.AccessScope {
	return models.AccessScope{Role: claims.Role, Team: claims.Team, Email: claims.Email}
}

func canSee(claims *models.JWTClaims, report *models.SubmittedReport) bool {
	switch claims.Role {
	case models.RoleAdmin:
		return true
	case models.RoleLeader:
		return claims.Team != "" && report.Team == claims.Team
	default:
		return report.Email == claims.Email
	}
}

// canMutate: admins always, leaders within their team, owners only while the
// report is still pending sync.
func canMutate(claims *models.JWTClaims, report *models.SubmittedReport) bool {
	switch claims.Role {
	case models.RoleAdmin:
		return true
	case models.RoleLeader:
		return claims.Team != "" && report.Team == claims.Team
	default:
		if report.CreatedBy != claims.UserID && report.Email != claims.Email {
			return false
		}
		return report.Status == models.SyncPending
	}
}
