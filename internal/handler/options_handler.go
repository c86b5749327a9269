package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campusgate/campus-erp-api/internal/middleware"
	"github.com/campusgate/campus-erp-api/internal/models"
	"github.com/campusgate/campus-erp-api/internal/service"
	appErrors "github.com/campusgate/campus-erp-api/pkg/errors"
	"github.com/campusgate/campus-erp-api/pkg/response"
)

// OptionsHandler serves dependent-dropdown options and cascade state.
type OptionsHandler struct {
	service *service.OptionsService
}

// NewOptionsHandler creates a new handler.
func NewOptionsHandler(svc *service.OptionsService) *OptionsHandler {
	return &OptionsHandler{service: svc}
}

type cascadeSelectRequest struct {
	Level string `json:"level" binding:"required"`
	ID    int64  `json:"id" binding:"required"`
}

type cascadeClearRequest struct {
	Level string `json:"level" binding:"required"`
}

// Options godoc
// @Summary Dropdown options
// @Description Returns the options of one hierarchy level, scoped to a parent selection
// @Tags Options
// @Produce json
// @Param level path string true "Hierarchy level"
// @Param parent_id query int false "Parent record ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /options/{level} [get]
func (h *OptionsHandler) Options(c *gin.Context) {
	level, ok := models.ParseCascadeLevel(c.Param("level"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown hierarchy level"))
		return
	}

	var parentID *int64
	if raw := c.Query("parent_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "parent_id must be numeric"))
			return
		}
		parentID = &id
	}

	options, err := h.service.Options(c.Request.Context(), level, parentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, options, nil)
}

// State godoc
// @Summary Cascade state
// @Description Returns the caller's current hierarchy selection state
// @Tags Options
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /options/state [get]
func (h *OptionsHandler) State(c *gin.Context) {
	state, err := h.service.State(c.Request.Context(), middleware.SessionKey(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state, nil)
}

// Select godoc
// @Summary Select at a level
// @Description Records a selection, clears dependent levels and loads child options
// @Tags Options
// @Accept json
// @Produce json
// @Param payload body cascadeSelectRequest true "Selection"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /options/state/select [post]
func (h *OptionsHandler) Select(c *gin.Context) {
	var req cascadeSelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid selection payload"))
		return
	}
	level, ok := models.ParseCascadeLevel(req.Level)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown hierarchy level"))
		return
	}

	state, err := h.service.Select(c.Request.Context(), middleware.SessionKey(c), level, req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state, nil)
}

// Clear godoc
// @Summary Clear from a level
// @Description Clears one level and everything below it
// @Tags Options
// @Accept json
// @Produce json
// @Param payload body cascadeClearRequest true "Level to clear"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /options/state/clear [post]
func (h *OptionsHandler) Clear(c *gin.Context) {
	var req cascadeClearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid clear payload"))
		return
	}
	level, ok := models.ParseCascadeLevel(req.Level)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown hierarchy level"))
		return
	}

	state, err := h.service.ClearFrom(c.Request.Context(), middleware.SessionKey(c), level)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state, nil)
}

// Reset godoc
// @Summary Reset cascade state
// @Description Discards the caller's hierarchy selection state
// @Tags Options
// @Produce json
// @Success 204 {object} response.Envelope
// @Router /options/state [delete]
func (h *OptionsHandler) Reset(c *gin.Context) {
	if err := h.service.Reset(c.Request.Context(), middleware.SessionKey(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
