package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusgate/campus-erp-api/internal/service"
	appErrors "github.com/campusgate/campus-erp-api/pkg/errors"
	"github.com/campusgate/campus-erp-api/pkg/response"
)

// PermissionHandler exposes permission resolution and administration.
type PermissionHandler struct {
	service *service.PermissionService
}

// NewPermissionHandler creates a new handler.
func NewPermissionHandler(svc *service.PermissionService) *PermissionHandler {
	return &PermissionHandler{service: svc}
}

// Resolve godoc
// @Summary Resolve page permissions
// @Description Returns the caller's capability set for one menu path plus form-disabled flags
// @Tags Permissions
// @Produce json
// @Param path query string true "Menu path"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /permissions/resolve [get]
func (h *PermissionHandler) Resolve(c *gin.Context) {
	user := userFromContext(c)
	if user == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	path := c.Query("path")
	if path == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "path query parameter is required"))
		return
	}

	perms := h.service.Resolve(c.Request.Context(), user, path)
	response.JSON(c, http.StatusOK, gin.H{
		"permissions":        perms,
		"form_disabled_add":  service.FormDisabled(perms, false),
		"form_disabled_edit": service.FormDisabled(perms, true),
	}, nil)
}

// Mine godoc
// @Summary List my permissions
// @Description Returns the caller's viewable form permissions
// @Tags Permissions
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /permissions/me [get]
func (h *PermissionHandler) Mine(c *gin.Context) {
	user := userFromContext(c)
	if user == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	perms, err := h.service.MyPermissions(c.Request.Context(), user)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, perms, nil)
}

// ForUser godoc
// @Summary List a user's permissions
// @Description Returns all form permissions of one user for the admin screen
// @Tags Permissions
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /permissions/users/{id} [get]
func (h *PermissionHandler) ForUser(c *gin.Context) {
	perms, err := h.service.UserPermissions(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, perms, nil)
}

// BatchUpdate godoc
// @Summary Batch update permissions
// @Description Assigns permission entries to multiple users at once
// @Tags Permissions
// @Accept json
// @Produce json
// @Param payload body service.BatchUpdateRequest true "Batch update payload"
// @Success 204 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /permissions/batch [put]
func (h *PermissionHandler) BatchUpdate(c *gin.Context) {
	user := userFromContext(c)
	if user == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.BatchUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid batch update payload"))
		return
	}

	if err := h.service.BatchUpdate(c.Request.Context(), user, req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// MenuTree godoc
// @Summary Menu tree
// @Description Returns the full menu hierarchy for the permission admin screen
// @Tags Permissions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /permissions/menus [get]
func (h *PermissionHandler) MenuTree(c *gin.Context) {
	tree, err := h.service.MenuTree(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tree, nil)
}
