package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campusgate/campus-erp-api/internal/models"
	"github.com/campusgate/campus-erp-api/internal/service"
	appErrors "github.com/campusgate/campus-erp-api/pkg/errors"
	"github.com/campusgate/campus-erp-api/pkg/response"
)

// RequireRoles allows only the named designation codes. Superusers always
// pass.
func RequireRoles(codes ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		allowed[strings.ToUpper(code)] = struct{}{}
	}
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if user.IsSuperuser {
			c.Next()
			return
		}
		if _, ok := allowed[strings.ToUpper(user.DesignationCode)]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// PathResolver maps a request to the menu path whose permissions govern it.
// Returning false denies the request as an unknown page.
type PathResolver func(*gin.Context) (string, bool)

// StaticPage resolves every request to one fixed menu path.
func StaticPage(path string) PathResolver {
	return func(*gin.Context) (string, bool) {
		return path, true
	}
}

// MasterEntityPage resolves the menu path from the :entity route parameter.
func MasterEntityPage() PathResolver {
	return func(c *gin.Context) (string, bool) {
		entity, ok := models.LookupEntity(c.Param("entity"))
		if !ok {
			return "", false
		}
		return entity.MenuPath, true
	}
}

// PagePermission enforces the per-page permission matching the request
// method: reads need view, creates need add, edits need edit, deletes need
// delete. Unknown pages and missing grants both deny.
func PagePermission(perms *service.PermissionService, resolve PathResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		path, ok := resolve(c)
		if !ok {
			response.Error(c, appErrors.ErrUnknownEntity)
			c.Abort()
			return
		}

		page := perms.Resolve(c.Request.Context(), user, path)
		if !allowedByMethod(page, c.Request.Method) {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "insufficient permissions for this page"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func allowedByMethod(page models.PagePermissions, method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead:
		return page.CanView
	case http.MethodPost:
		return page.CanAdd
	case http.MethodPut, http.MethodPatch:
		return page.CanEdit
	case http.MethodDelete:
		return page.CanDelete
	default:
		return false
	}
}
