package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusgate/campus-erp-api/internal/service"
	appErrors "github.com/campusgate/campus-erp-api/pkg/errors"
	"github.com/campusgate/campus-erp-api/pkg/response"
)

// NavigationHandler serves the landing route and sidebar for the caller.
type NavigationHandler struct {
	service *service.NavigationService
}

// NewNavigationHandler creates a new handler.
func NewNavigationHandler(svc *service.NavigationService) *NavigationHandler {
	return &NavigationHandler{service: svc}
}

// Landing godoc
// @Summary Landing route
// @Description Returns the dashboard route for the caller's designation
// @Tags Navigation
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /navigation/landing [get]
func (h *NavigationHandler) Landing(c *gin.Context) {
	user := userFromContext(c)
	if user == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"route": h.service.Landing(user)}, nil)
}

// Sidebar godoc
// @Summary Sidebar menu
// @Description Returns the menu tree pruned to what the caller may view
// @Tags Navigation
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /navigation/sidebar [get]
func (h *NavigationHandler) Sidebar(c *gin.Context) {
	user := userFromContext(c)
	if user == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	sidebar, err := h.service.Sidebar(c.Request.Context(), user)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sidebar, nil)
}
