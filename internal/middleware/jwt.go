package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campusgate/campus-erp-api/internal/models"
	"github.com/campusgate/campus-erp-api/internal/service"
	appErrors "github.com/campusgate/campus-erp-api/pkg/errors"
	"github.com/campusgate/campus-erp-api/pkg/response"
)

// ContextUserKey is the gin context key storing JWT claims.
const ContextUserKey = "currentUser"

// ContextAccountKey is the gin context key storing the loaded account.
const ContextAccountKey = "currentAccount"

type accountLoader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// JWT protects routes by requiring a valid access token. The account is
// re-loaded on every request so disabling or locking a user takes effect
// immediately, not at token expiry.
func JWT(authService *service.AuthService, accounts accountLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		user, err := accounts.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if !user.IsActive || user.PermanentLock {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "account is no longer active"))
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Set(ContextAccountKey, user)
		c.Next()
	}
}

// CurrentUser returns the account loaded by the JWT middleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(ContextAccountKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

// CurrentClaims returns the JWT claims attached by the JWT middleware.
func CurrentClaims(c *gin.Context) (*models.JWTClaims, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*models.JWTClaims)
	return claims, ok
}

// SessionKey identifies the per-session cache slots for notifications and
// cascade state. Anonymous requests fall back to the client address.
func SessionKey(c *gin.Context) string {
	if claims, ok := CurrentClaims(c); ok {
		return claims.UserID
	}
	return c.ClientIP()
}
