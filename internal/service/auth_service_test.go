package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/adopshq/mkt-report-api/internal/models"
	appErrors "github.com/adopshq/mkt-report-api/pkg/errors"
)

type mockAuthRepo struct {
	account           *models.UserAccount
	findErr           error
	refreshTokens     map[string]*models.RefreshToken
	auditLogs         []*models.AuditLog
	lastLoginUpdated  bool
	revokedTokens     int
	updatePasswordErr error
}

func (m *mockAuthRepo) FindByUsername(ctx context.Context, username string) (*models.UserAccount, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if m.account == nil || m.account.Username != username {
		return nil, sql.ErrNoRows
	}
	return m.account, nil
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.UserAccount, error) {
	if m.account == nil || m.account.ID != id {
		return nil, sql.ErrNoRows
	}
	return m.account, nil
}

func (m *mockAuthRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	m.lastLoginUpdated = true
	return nil
}

func (m *mockAuthRepo) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	if m.updatePasswordErr != nil {
		return m.updatePasswordErr
	}
	if m.account != nil && m.account.ID == id {
		m.account.PasswordHash = passwordHash
	}
	return nil
}

func (m *mockAuthRepo) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	m.revokedTokens++
	return nil
}

func (m *mockAuthRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if m.refreshTokens == nil {
		m.refreshTokens = make(map[string]*models.RefreshToken)
	}
	m.refreshTokens[token.Token] = token
	return nil
}

func (m *mockAuthRepo) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	rt, ok := m.refreshTokens[token]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return rt, nil
}

func (m *mockAuthRepo) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	for _, rt := range m.refreshTokens {
		if rt.ID == id {
			rt.Revoked = true
			rt.RevokedAt = &revokedAt
		}
	}
	return nil
}

func (m *mockAuthRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.auditLogs = append(m.auditLogs, log)
	return nil
}

func newAuthFixture(t *testing.T) (*AuthService, *mockAuthRepo) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &mockAuthRepo{account: &models.UserAccount{
		ID:           "u1",
		Username:     "ngan",
		PasswordHash: string(hash),
		Email:        "ngan@corp.vn",
		DisplayName:  "Ngan",
		Team:         "Alpha",
		Role:         models.RoleLeader,
	}}
	svc := NewAuthService(repo, nil, nil, AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "mkt-report-api",
	})
	return svc, repo
}

func TestLoginSuccess(t *testing.T) {
	svc, repo := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "ngan", Password: "secret123"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "ngan", resp.User.Username)
	assert.Equal(t, models.RoleLeader, resp.User.Role)
	assert.Equal(t, "Alpha", resp.User.Team)
	assert.True(t, repo.lastLoginUpdated)
	require.Len(t, repo.auditLogs, 1)
	assert.Equal(t, models.AuditActionLogin, repo.auditLogs[0].Action)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "ngan", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "ghost", Password: "secret123"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestTokenCarriesScopeClaims(t *testing.T) {
	svc, _ := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "ngan", Password: "secret123"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleLeader, claims.Role)
	assert.Equal(t, "Alpha", claims.Team)
	assert.Equal(t, "ngan@corp.vn", claims.Email)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, repo := newAuthFixture(t)

	login, err := svc.Login(context.Background(), models.LoginRequest{Username: "ngan", Password: "secret123"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// The used token is revoked and cannot be replayed.
	assert.True(t, repo.refreshTokens[login.RefreshToken].Revoked)
	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.Error(t, err)
}

func TestChangePasswordRevokesSessions(t *testing.T) {
	svc, repo := newAuthFixture(t)

	err := svc.ChangePassword(context.Background(), "u1", models.ChangePasswordRequest{
		OldPassword: "secret123",
		NewPassword: "newsecret",
	})
	require.NoError(t, err)

	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.account.PasswordHash), []byte("newsecret")))
	assert.Equal(t, 1, repo.revokedTokens)
}

func TestChangePasswordWrongOld(t *testing.T) {
	svc, _ := newAuthFixture(t)

	err := svc.ChangePassword(context.Background(), "u1", models.ChangePasswordRequest{
		OldPassword: "nope",
		NewPassword: "newsecret",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
}
