package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/adopshq/mkt-report-api/internal/models"
	appErrors "github.com/adopshq/mkt-report-api/pkg/errors"
)

type userRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.UserAccount, error)
	FindByID(ctx context.Context, id string) (*models.UserAccount, error)
	FindByEmail(ctx context.Context, email string) (*models.UserAccount, error)
	ExistingEmails(ctx context.Context) (map[string]bool, error)
	List(ctx context.Context, filter models.UserFilter) ([]models.UserAccount, int, error)
	Create(ctx context.Context, user *models.UserAccount) error
	Update(ctx context.Context, user *models.UserAccount) error
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type userRosterRepository interface {
	ListAll(ctx context.Context) ([]models.RosterEntry, error)
	FindByEmail(ctx context.Context, email string) (*models.RosterEntry, error)
}

// UserService provides account management use cases.
type UserService struct {
	repo            userRepository
	roster          userRosterRepository
	validator       *validator.Validate
	logger          *zap.Logger
	defaultPassword string
}

// UserServiceParams bundles constructor dependencies.
type UserServiceParams struct {
	Repo            userRepository
	Roster          userRosterRepository
	Validator       *validator.Validate
	Logger          *zap.Logger
	DefaultPassword string
}

// NewUserService constructs a UserService instance.
func NewUserService(p UserServiceParams) *UserService {
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	if p.Validator == nil {
		p.Validator = validator.New()
	}
	if p.DefaultPassword == "" {
		p.DefaultPassword = "changeme123"
	}
	return &UserService{
		repo:            p.Repo,
		roster:          p.Roster,
		validator:       p.Validator,
		logger:          p.Logger,
		defaultPassword: p.DefaultPassword,
	}
}

// Register creates a self-service account. Registration always produces a
// role=user account regardless of request content.
func (s *UserService) Register(ctx context.Context, req models.RegisterRequest) (*models.UserAccount, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}

	if _, err := s.repo.FindByUsername(ctx, req.Username); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "username already taken")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check username")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	account := &models.UserAccount{
		Username:     req.Username,
		PasswordHash: string(hash),
		Email:        strings.TrimSpace(req.Email),
		DisplayName:  req.DisplayName,
		Team:         req.Team,
		Role:         models.RoleUser,
		CreatedBy:    "self-registration",
	}

	if err := s.repo.Create(ctx, account); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create account")
	}

	s.logger.Info("account registered", zap.String("username", account.Username))
	return account, nil
}

// List returns accounts matching the filter with total count.
func (s *UserService) List(ctx context.Context, filter models.UserFilter) ([]models.UserAccount, int, error) {
	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list accounts")
	}
	return users, total, nil
}

// Get returns one account by identifier.
func (s *UserService) Get(ctx context.Context, id string) (*models.UserAccount, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "account not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load account")
	}
	return account, nil
}

// Profile returns an account together with its roster entry. The link is
// email equality only; a missing roster entry is not an error.
func (s *UserService) Profile(ctx context.Context, id string) (*models.Profile, error) {
	account, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	profile := &models.Profile{Account: *account}
	if account.Email != "" && s.roster != nil {
		entry, err := s.roster.FindByEmail(ctx, account.Email)
		if err == nil {
			profile.Roster = entry
		} else if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("failed to enrich profile from roster", zap.String("email", account.Email), zap.Error(err))
		}
	}
	return profile, nil
}

// UpdateAccount edits profile fields and role. The username never changes
// and accounts are never deleted.
func (s *UserService) UpdateAccount(ctx context.Context, actorID string, account *models.UserAccount) (*models.UserAccount, error) {
	existing, err := s.Get(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	existing.Email = account.Email
	existing.DisplayName = account.DisplayName
	existing.Team = account.Team
	existing.Branch = account.Branch
	existing.Position = account.Position
	existing.Department = account.Department
	existing.Shift = account.Shift
	if account.Role != "" {
		existing.Role = account.Role
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update account")
	}

	if err := s.repo.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &actorID,
		Action:     models.AuditActionRosterChange,
		Resource:   "account",
		ResourceID: &existing.ID,
	}); err != nil {
		s.logger.Warn("failed to record account update audit log", zap.Error(err))
	}

	return existing, nil
}

// ProvisionFromRoster creates accounts for every roster entry that has an
// email and no existing account. The username is the email's local part, the
// password is the configured default, and the role is inferred from the
// position text.
func (s *UserService) ProvisionFromRoster(ctx context.Context, actorID string) (*models.ProvisionResult, error) {
	entries, err := s.roster.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}

	existing, err := s.repo.ExistingEmails(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load account emails")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash default password")
	}

	result := &models.ProvisionResult{ByRole: make(map[string]int)}
	for _, entry := range entries {
		email := strings.ToLower(strings.TrimSpace(entry.Email))
		if email == "" || existing[email] {
			result.Skipped++
			continue
		}

		role := RoleFromPosition(entry.Position)
		account := &models.UserAccount{
			Username:     usernameFromEmail(email),
			PasswordHash: string(hash),
			Email:        entry.Email,
			DisplayName:  entry.FullName,
			Team:         entry.Team,
			Branch:       entry.Branch,
			Position:     entry.Position,
			Department:   entry.Department,
			Shift:        entry.Shift,
			Role:         role,
			CreatedBy:    actorID,
		}

		if err := s.repo.Create(ctx, account); err != nil {
			s.logger.Warn("failed to provision account",
				zap.String("email", entry.Email),
				zap.Error(err))
			result.Errors++
			continue
		}

		existing[email] = true
		result.Created++
		result.ByRole[string(role)]++
	}

	s.logger.Info("roster provisioning finished",
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", result.Errors))

	return result, nil
}

// RoleFromPosition infers the account role from free-text position names.
// Matching is case-insensitive and recognises both English and Vietnamese
// titles.
func RoleFromPosition(position string) models.UserRole {
	p := strings.ToLower(position)
	switch {
	case strings.Contains(p, "leader") || strings.Contains(p, "trưởng nhóm"):
		return models.RoleLeader
	case strings.Contains(p, "admin") || strings.Contains(p, "quản trị"):
		return models.RoleAdmin
	case strings.Contains(p, "manager") || strings.Contains(p, "quản lý"):
		return models.RoleManager
	default:
		return models.RoleUser
	}
}

func usernameFromEmail(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}
