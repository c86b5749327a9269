package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusgate/campus-erp-api/internal/models"
	"github.com/campusgate/campus-erp-api/pkg/config"
	appErrors "github.com/campusgate/campus-erp-api/pkg/errors"
)

type authUserRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id, ip string, ts time.Time) error
	RecordFailedLogin(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string, changedAt time.Time) error
	ListPasswordHistory(ctx context.Context, userID string, limit int) ([]models.PasswordHistory, error)
	AddPasswordHistory(ctx context.Context, userID, passwordHash string, depth int) error
	CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error
	FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error
	RevokeUserRefreshTokens(ctx context.Context, userID string) error
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// AuthService handles authentication, the failed-login lockout ladder and
// password lifecycle.
type AuthService struct {
	repo     authUserRepository
	jwtCfg   config.JWTConfig
	authCfg  config.AuthConfig
	validate *validator.Validate
	logger   *zap.Logger
}

// NewAuthService creates an authentication service.
func NewAuthService(repo authUserRepository, jwtCfg config.JWTConfig, authCfg config.AuthConfig, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{repo: repo, jwtCfg: jwtCfg, authCfg: authCfg, validate: validate, logger: logger}
}

// Login authenticates a user and returns tokens. Repeated failures lock the
// account in escalating steps; the lock is checked before the password so a
// locked account leaks nothing about credential validity.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "username and password are required")
	}

	user, err := s.repo.FindByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		s.logger.Debug("login attempt for unknown username", zap.String("username", req.Username))
		return nil, appErrors.ErrInvalidCredentials
	}

	if err := s.checkLock(user); err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "account is disabled")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, s.registerFailure(ctx, user)
	}

	if s.authCfg.SingleSession {
		if err := s.repo.RevokeUserRefreshTokens(ctx, user.ID); err != nil {
			s.logger.Warn("failed to revoke prior sessions", zap.String("user_id", user.ID), zap.Error(err))
		}
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, user.ID, req.IP, now); err != nil {
		s.logger.Warn("failed to update last login", zap.String("user_id", user.ID), zap.Error(err))
	}

	access, expiresAt, err := s.signAccessToken(user, now)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to issue access token")
	}
	refresh, err := s.issueRefreshToken(ctx, user.ID, req.IP, req.UserAgent, now)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, user.ID, models.AuditActionLogin, req.IP, req.UserAgent)

	return &models.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh.Token,
		ExpiresIn:    int64(expiresAt.Sub(now).Seconds()),
		IssuedAt:     now,
		User:         userInfo(user),
	}, nil
}

// Refresh rotates a refresh token and issues a new access token. The old
// refresh token is revoked whether or not rotation succeeds afterwards.
func (s *AuthService) Refresh(ctx context.Context, req *models.RefreshTokenRequest) (*models.RefreshTokenResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "refresh token is required")
	}

	stored, err := s.repo.FindRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, appErrors.ErrUnauthorized
	}
	now := time.Now().UTC()
	if stored.Revoked || now.After(stored.ExpiresAt) {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "refresh token expired or revoked")
	}

	user, err := s.repo.FindByID(ctx, stored.UserID)
	if err != nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !user.IsActive || user.PermanentLock {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "account is no longer active")
	}

	if err := s.repo.RevokeRefreshToken(ctx, stored.ID, now); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to rotate refresh token")
	}

	access, expiresAt, err := s.signAccessToken(user, now)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to issue access token")
	}
	rotated, err := s.issueRefreshToken(ctx, user.ID, req.IP, req.UserAgent, now)
	if err != nil {
		return nil, err
	}

	return &models.RefreshTokenResponse{
		AccessToken:  access,
		RefreshToken: rotated.Token,
		ExpiresIn:    int64(expiresAt.Sub(now).Seconds()),
		IssuedAt:     now,
	}, nil
}

// Logout revokes the presented refresh token. Unknown tokens succeed silently
// so logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	stored, err := s.repo.FindRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil
	}
	if err := s.repo.RevokeRefreshToken(ctx, stored.ID, time.Now().UTC()); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to revoke session")
	}
	return nil
}

// ChangePassword verifies the old password, rejects reuse of recent
// passwords, stores the new hash and revokes all sessions.
func (s *AuthService) ChangePassword(ctx context.Context, userID string, req *models.ChangePasswordRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "new password must be at least 8 characters")
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return appErrors.ErrNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return appErrors.Clone(appErrors.ErrInvalidCredentials, "current password is incorrect")
	}

	if err := s.checkPasswordReuse(ctx, user, req.NewPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	now := time.Now().UTC()
	if err := s.repo.AddPasswordHistory(ctx, user.ID, user.PasswordHash, s.authCfg.PasswordHistoryDepth); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record password history")
	}
	if err := s.repo.UpdatePassword(ctx, user.ID, string(hash), now); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update password")
	}

	if err := s.repo.RevokeUserRefreshTokens(ctx, user.ID); err != nil {
		s.logger.Warn("failed to revoke sessions after password change", zap.String("user_id", user.ID), zap.Error(err))
	}
	return nil
}

// ValidateToken parses and verifies an access token.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.jwtCfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	return claims, nil
}

func (s *AuthService) checkLock(user *models.User) error {
	if user.PermanentLock {
		return appErrors.Clone(appErrors.ErrAccountLocked, "account is permanently locked, contact an administrator")
	}
	if user.LockedUntil != nil && time.Now().UTC().Before(*user.LockedUntil) {
		remaining := time.Until(*user.LockedUntil).Round(time.Minute)
		return appErrors.Clone(appErrors.ErrAccountLocked, fmt.Sprintf("account locked, try again in %s", remaining))
	}
	return nil
}

// registerFailure increments the attempt counter and applies the lockout
// ladder. It always returns a credential error so callers cannot distinguish
// the step taken.
func (s *AuthService) registerFailure(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.FailedLoginAttempts++
	user.LastFailedLogin = &now

	switch {
	case user.FailedLoginAttempts >= s.authCfg.PermanentThreshold:
		user.PermanentLock = true
		user.LockedUntil = nil
		user.LockReason = fmt.Sprintf("permanently locked after %d failed attempts", user.FailedLoginAttempts)
	case user.FailedLoginAttempts >= s.authCfg.LongLockThreshold:
		until := now.Add(s.authCfg.LongLockDuration)
		user.LockedUntil = &until
		user.LockReason = fmt.Sprintf("locked for %s after %d failed attempts", s.authCfg.LongLockDuration, user.FailedLoginAttempts)
	case user.FailedLoginAttempts >= s.authCfg.ShortLockThreshold:
		until := now.Add(s.authCfg.ShortLockDuration)
		user.LockedUntil = &until
		user.LockReason = fmt.Sprintf("locked for %s after %d failed attempts", s.authCfg.ShortLockDuration, user.FailedLoginAttempts)
	}

	if err := s.repo.RecordFailedLogin(ctx, user); err != nil {
		s.logger.Error("failed to record login failure", zap.String("user_id", user.ID), zap.Error(err))
	}
	return appErrors.ErrInvalidCredentials
}

func (s *AuthService) checkPasswordReuse(ctx context.Context, user *models.User, newPassword string) error {
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(newPassword)) == nil {
		return appErrors.ErrPasswordReused
	}
	history, err := s.repo.ListPasswordHistory(ctx, user.ID, s.authCfg.PasswordHistoryDepth)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load password history")
	}
	for _, entry := range history {
		if bcrypt.CompareHashAndPassword([]byte(entry.PasswordHash), []byte(newPassword)) == nil {
			return appErrors.ErrPasswordReused
		}
	}
	return nil
}

func (s *AuthService) signAccessToken(user *models.User, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(s.jwtCfg.Expiration)
	claims := &models.JWTClaims{
		UserID:          user.ID,
		Username:        user.Username,
		DesignationCode: strings.ToUpper(user.DesignationCode),
		IsSuperuser:     user.IsSuperuser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.New().String(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtCfg.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (s *AuthService) issueRefreshToken(ctx context.Context, userID, ip, userAgent string, now time.Time) (*models.RefreshToken, error) {
	token := &models.RefreshToken{
		ID:        uuid.New().String(),
		UserID:    userID,
		Token:     uuid.New().String() + uuid.New().String(),
		ExpiresAt: now.Add(s.jwtCfg.RefreshExpiration),
		CreatedAt: now,
		IPAddress: ip,
		UserAgent: userAgent,
	}
	if err := s.repo.CreateRefreshToken(ctx, token); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session")
	}
	return token, nil
}

func (s *AuthService) audit(ctx context.Context, userID, action, ip, userAgent string) {
	log := &models.AuditLog{
		UserID:    &userID,
		Action:    action,
		Resource:  "auth",
		IPAddress: ip,
		UserAgent: userAgent,
	}
	if err := s.repo.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to write audit log", zap.String("user_id", userID), zap.Error(err))
	}
}

func userInfo(user *models.User) models.UserInfo {
	return models.UserInfo{
		ID:              user.ID,
		Username:        user.Username,
		Email:           user.Email,
		FullName:        strings.TrimSpace(user.FirstName + " " + user.LastName),
		DesignationCode: strings.ToUpper(user.DesignationCode),
		IsSuperuser:     user.IsSuperuser,
	}
}
