package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/campusgate/campus-erp-api/internal/middleware"
	"github.com/campusgate/campus-erp-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return nil
	}
	return claims
}

func userFromContext(c *gin.Context) *models.User {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil
	}
	return user
}
