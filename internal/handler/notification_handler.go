package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusgate/campus-erp-api/internal/middleware"
	"github.com/campusgate/campus-erp-api/internal/models"
	"github.com/campusgate/campus-erp-api/internal/service"
	appErrors "github.com/campusgate/campus-erp-api/pkg/errors"
	"github.com/campusgate/campus-erp-api/pkg/response"
)

// NotificationHandler serves the per-session notification slot.
type NotificationHandler struct {
	service *service.NotificationService
}

// NewNotificationHandler creates a new handler.
func NewNotificationHandler(svc *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: svc}
}

type publishNotificationRequest struct {
	Message  string `json:"message" binding:"required"`
	Severity string `json:"severity"`
}

// Current godoc
// @Summary Pending notification
// @Description Returns the session's pending notification, if any
// @Tags Notifications
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /notifications/current [get]
func (h *NotificationHandler) Current(c *gin.Context) {
	notification, err := h.service.Current(c.Request.Context(), middleware.SessionKey(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notification, nil)
}

// Publish godoc
// @Summary Publish notification
// @Description Stores a notification for the session, replacing any current one
// @Tags Notifications
// @Accept json
// @Produce json
// @Param payload body publishNotificationRequest true "Notification"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /notifications [post]
func (h *NotificationHandler) Publish(c *gin.Context) {
	var req publishNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid notification payload"))
		return
	}
	notification, err := h.service.Publish(c.Request.Context(), middleware.SessionKey(c), req.Message, models.Severity(req.Severity))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, notification)
}

// Dismiss godoc
// @Summary Dismiss notification
// @Description Clears the session's notification slot
// @Tags Notifications
// @Produce json
// @Success 204 {object} response.Envelope
// @Router /notifications [delete]
func (h *NotificationHandler) Dismiss(c *gin.Context) {
	if err := h.service.Dismiss(c.Request.Context(), middleware.SessionKey(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
