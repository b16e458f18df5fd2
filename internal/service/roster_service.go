package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/adopshq/mkt-report-api/internal/models"
	appErrors "github.com/adopshq/mkt-report-api/pkg/errors"
)

type rosterRepository interface {
	FindByID(ctx context.Context, id string) (*models.RosterEntry, error)
	List(ctx context.Context, filter models.RosterFilter) ([]models.RosterEntry, int, error)
	Options(ctx context.Context) (*models.RosterOptions, error)
	Create(ctx context.Context, entry *models.RosterEntry) error
	Update(ctx context.Context, entry *models.RosterEntry) error
	Delete(ctx context.Context, id string) error
}

type rosterAuditRepository interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// RosterUpsertRequest is the payload for creating or editing roster entries.
type RosterUpsertRequest struct {
	EmployeeCode string `json:"employee_code"`
	FullName     string `json:"full_name" validate:"required"`
	Email        string `json:"email" validate:"omitempty,email"`
	Team         string `json:"team"`
	Department   string `json:"department"`
	Position     string `json:"position"`
	Branch       string `json:"branch"`
	Shift        string `json:"shift"`
}

// RosterService manages the HR roster behind provisioning and dropdowns.
type RosterService struct {
	repo      rosterRepository
	audit     rosterAuditRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRosterService constructs a RosterService instance.
func NewRosterService(repo rosterRepository, audit rosterAuditRepository, validate *validator.Validate, logger *zap.Logger) *RosterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &RosterService{repo: repo, audit: audit, validator: validate, logger: logger}
}

// List returns roster entries matching the filter with total count.
func (s *RosterService) List(ctx context.Context, filter models.RosterFilter) ([]models.RosterEntry, int, error) {
	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list roster")
	}
	return entries, total, nil
}

// Options returns the dropdown values derived from the roster.
func (s *RosterService) Options(ctx context.Context) (*models.RosterOptions, error) {
	options, err := s.repo.Options(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster options")
	}
	return options, nil
}

// Create adds a roster entry.
func (s *RosterService) Create(ctx context.Context, actorID string, req RosterUpsertRequest) (*models.RosterEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid roster payload")
	}

	entry := &models.RosterEntry{
		EmployeeCode: req.EmployeeCode,
		FullName:     req.FullName,
		Email:        req.Email,
		Team:         req.Team,
		Department:   req.Department,
		Position:     req.Position,
		Branch:       req.Branch,
		Shift:        req.Shift,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create roster entry")
	}

	s.recordChange(ctx, actorID, entry.ID)
	return entry, nil
}

// Update edits a roster entry.
func (s *RosterService) Update(ctx context.Context, actorID, id string, req RosterUpsertRequest) (*models.RosterEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid roster payload")
	}

	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "roster entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster entry")
	}

	entry.EmployeeCode = req.EmployeeCode
	entry.FullName = req.FullName
	entry.Email = req.Email
	entry.Team = req.Team
	entry.Department = req.Department
	entry.Position = req.Position
	entry.Branch = req.Branch
	entry.Shift = req.Shift

	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update roster entry")
	}

	s.recordChange(ctx, actorID, entry.ID)
	return entry, nil
}

// Delete removes a roster entry. Accounts already provisioned from it stay.
func (s *RosterService) Delete(ctx context.Context, actorID, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "roster entry not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster entry")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete roster entry")
	}

	s.recordChange(ctx, actorID, id)
	return nil
}

func (s *RosterService) recordChange(ctx context.Context, actorID, entryID string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &actorID,
		Action:     models.AuditActionRosterChange,
		Resource:   "roster",
		ResourceID: &entryID,
	}); err != nil {
		s.logger.Warn("failed to record roster audit log", zap.Error(err))
	}
}
