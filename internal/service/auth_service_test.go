package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusgate/campus-erp-api/internal/models"
	"github.com/campusgate/campus-erp-api/pkg/config"
	appErrors "github.com/campusgate/campus-erp-api/pkg/errors"
)

type authRepoStub struct {
	user    *models.User
	history []models.PasswordHistory
	tokens  map[string]*models.RefreshToken

	recordedFailures int
	passwordUpdated  string
	revokedAll       bool
	audits           []models.AuditLog
}

func newAuthRepoStub(user *models.User) *authRepoStub {
	return &authRepoStub{user: user, tokens: map[string]*models.RefreshToken{}}
}

func (s *authRepoStub) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if s.user == nil || s.user.Username != username {
		return nil, sql.ErrNoRows
	}
	copied := *s.user
	return &copied, nil
}

func (s *authRepoStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, sql.ErrNoRows
	}
	copied := *s.user
	return &copied, nil
}

func (s *authRepoStub) UpdateLastLogin(ctx context.Context, id, ip string, ts time.Time) error {
	s.user.LastLogin = &ts
	s.user.FailedLoginAttempts = 0
	return nil
}

func (s *authRepoStub) RecordFailedLogin(ctx context.Context, user *models.User) error {
	s.recordedFailures++
	copied := *user
	s.user = &copied
	return nil
}

func (s *authRepoStub) UpdatePassword(ctx context.Context, id, passwordHash string, changedAt time.Time) error {
	s.passwordUpdated = passwordHash
	s.user.PasswordHash = passwordHash
	return nil
}

func (s *authRepoStub) ListPasswordHistory(ctx context.Context, userID string, limit int) ([]models.PasswordHistory, error) {
	return s.history, nil
}

func (s *authRepoStub) AddPasswordHistory(ctx context.Context, userID, passwordHash string, depth int) error {
	s.history = append(s.history, models.PasswordHistory{UserID: userID, PasswordHash: passwordHash})
	return nil
}

func (s *authRepoStub) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	s.tokens[token.Token] = token
	return nil
}

func (s *authRepoStub) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if stored, ok := s.tokens[token]; ok {
		return stored, nil
	}
	return nil, sql.ErrNoRows
}

func (s *authRepoStub) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	for _, t := range s.tokens {
		if t.ID == id {
			t.Revoked = true
			t.RevokedAt = &revokedAt
		}
	}
	return nil
}

func (s *authRepoStub) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	s.revokedAll = true
	return nil
}

func (s *authRepoStub) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	s.audits = append(s.audits, *log)
	return nil
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		ShortLockThreshold:   3,
		ShortLockDuration:    time.Hour,
		LongLockThreshold:    5,
		LongLockDuration:     6 * time.Hour,
		PermanentThreshold:   8,
		PasswordHistoryDepth: 5,
	}
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Expiration:        15 * time.Minute,
		RefreshExpiration: 24 * time.Hour,
	}
}

func testUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{
		ID:              "u1",
		Username:        "jdoe",
		Email:           "jdoe@example.edu",
		PasswordHash:    string(hash),
		DesignationCode: "FACULTY",
		IsActive:        true,
	}
}

func TestLoginSuccess(t *testing.T) {
	repo := newAuthRepoStub(testUser(t, "correct-horse"))
	svc := NewAuthService(repo, testJWTConfig(), testAuthConfig(), nil, nil)

	res, err := svc.Login(context.Background(), &models.LoginRequest{Username: "jdoe", Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)
	assert.Equal(t, "FACULTY", res.User.DesignationCode)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "FACULTY", claims.DesignationCode)
}

func TestLoginLockoutLadder(t *testing.T) {
	repo := newAuthRepoStub(testUser(t, "correct-horse"))
	svc := NewAuthService(repo, testJWTConfig(), testAuthConfig(), nil, nil)
	ctx := context.Background()

	fail := func() error {
		_, err := svc.Login(ctx, &models.LoginRequest{Username: "jdoe", Password: "wrong"})
		return err
	}

	// Two failures: invalid credentials, no lock yet.
	require.Error(t, fail())
	require.Error(t, fail())
	assert.Nil(t, repo.user.LockedUntil)

	// Third failure trips the short lock.
	require.Error(t, fail())
	require.NotNil(t, repo.user.LockedUntil)
	shortUntil := *repo.user.LockedUntil
	assert.InDelta(t, time.Hour.Seconds(), time.Until(shortUntil).Seconds(), 60)

	// While locked, even the correct password is rejected as locked.
	_, err := svc.Login(ctx, &models.LoginRequest{Username: "jdoe", Password: "correct-horse"})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrAccountLocked.Code, appErr.Code)

	// Expire the lock and keep failing to reach the long lock.
	past := time.Now().Add(-time.Minute).UTC()
	repo.user.LockedUntil = &past
	require.Error(t, fail())
	repo.user.LockedUntil = &past
	require.Error(t, fail())
	require.NotNil(t, repo.user.LockedUntil)
	assert.InDelta(t, (6 * time.Hour).Seconds(), time.Until(*repo.user.LockedUntil).Seconds(), 60)

	// Three more failures hit the permanent threshold.
	repo.user.LockedUntil = &past
	require.Error(t, fail())
	repo.user.LockedUntil = &past
	require.Error(t, fail())
	repo.user.LockedUntil = &past
	require.Error(t, fail())
	assert.True(t, repo.user.PermanentLock)
	assert.Equal(t, 8, repo.user.FailedLoginAttempts)

	// Permanent lock holds regardless of credentials or time.
	repo.user.LockedUntil = nil
	_, err = svc.Login(ctx, &models.LoginRequest{Username: "jdoe", Password: "correct-horse"})
	require.Error(t, err)
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrAccountLocked.Code, appErr.Code)
}

func TestLoginUnknownUserDoesNotLeak(t *testing.T) {
	repo := newAuthRepoStub(testUser(t, "correct-horse"))
	svc := NewAuthService(repo, testJWTConfig(), testAuthConfig(), nil, nil)

	_, err := svc.Login(context.Background(), &models.LoginRequest{Username: "ghost", Password: "whatever"})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestChangePasswordRejectsRecentReuse(t *testing.T) {
	user := testUser(t, "current-pass")
	repo := newAuthRepoStub(user)

	oldHash, err := bcrypt.GenerateFromPassword([]byte("previous-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	repo.history = []models.PasswordHistory{{UserID: "u1", PasswordHash: string(oldHash)}}

	svc := NewAuthService(repo, testJWTConfig(), testAuthConfig(), nil, nil)
	ctx := context.Background()

	// Reusing the current password is rejected.
	err = svc.ChangePassword(ctx, "u1", &models.ChangePasswordRequest{OldPassword: "current-pass", NewPassword: "current-pass"})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrPasswordReused.Code, appErr.Code)

	// Reusing a historical password is rejected.
	err = svc.ChangePassword(ctx, "u1", &models.ChangePasswordRequest{OldPassword: "current-pass", NewPassword: "previous-pass"})
	require.Error(t, err)

	// A fresh password goes through and revokes sessions.
	err = svc.ChangePassword(ctx, "u1", &models.ChangePasswordRequest{OldPassword: "current-pass", NewPassword: "fresh-password"})
	require.NoError(t, err)
	assert.NotEmpty(t, repo.passwordUpdated)
	assert.True(t, repo.revokedAll)
}

func TestRefreshRotatesToken(t *testing.T) {
	repo := newAuthRepoStub(testUser(t, "correct-horse"))
	svc := NewAuthService(repo, testJWTConfig(), testAuthConfig(), nil, nil)
	ctx := context.Background()

	login, err := svc.Login(ctx, &models.LoginRequest{Username: "jdoe", Password: "correct-horse"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, &models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// The consumed token is revoked and cannot be replayed.
	_, err = svc.Refresh(ctx, &models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.Error(t, err)
}
