package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campusgate/campus-erp-api/internal/service"
	appErrors "github.com/campusgate/campus-erp-api/pkg/errors"
	"github.com/campusgate/campus-erp-api/pkg/response"
)

// maxImportBytes bounds legacy import payloads.
const maxImportBytes = 4 << 20

// MasterHandler exposes the generic master-data CRUD endpoints.
type MasterHandler struct {
	service *service.MasterService
}

// NewMasterHandler creates a new handler.
func NewMasterHandler(svc *service.MasterService) *MasterHandler {
	return &MasterHandler{service: svc}
}

// Catalog godoc
// @Summary List master tables
// @Description Returns every registered master table and its endpoint
// @Tags Master Data
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /master [get]
func (h *MasterHandler) Catalog(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Catalog(), nil)
}

// Schema godoc
// @Summary Entity schema
// @Description Returns the field schema driving the entity's forms
// @Tags Master Data
// @Produce json
// @Param entity path string true "Entity name"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /master/{entity}/schema [get]
func (h *MasterHandler) Schema(c *gin.Context) {
	entity, err := h.service.Schema(c.Param("entity"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entity, nil)
}

// List godoc
// @Summary List records
// @Description Returns the live records of one master table
// @Tags Master Data
// @Produce json
// @Param entity path string true "Entity name"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /master/{entity} [get]
func (h *MasterHandler) List(c *gin.Context) {
	records, err := h.service.List(c.Request.Context(), c.Param("entity"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// Get godoc
// @Summary Get record
// @Description Returns one record of a master table
// @Tags Master Data
// @Produce json
// @Param entity path string true "Entity name"
// @Param id path int true "Record ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /master/{entity}/{id} [get]
func (h *MasterHandler) Get(c *gin.Context) {
	id, err := recordID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	record, err := h.service.Get(c.Request.Context(), c.Param("entity"), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Create godoc
// @Summary Create record
// @Description Creates a record after required-field validation
// @Tags Master Data
// @Accept json
// @Produce json
// @Param entity path string true "Entity name"
// @Param payload body map[string]interface{} true "Record payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /master/{entity} [post]
func (h *MasterHandler) Create(c *gin.Context) {
	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid record payload"))
		return
	}
	record, err := h.service.Create(c.Request.Context(), c.Param("entity"), payload, userFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// Update godoc
// @Summary Update record
// @Description Applies a partial edit to a record
// @Tags Master Data
// @Accept json
// @Produce json
// @Param entity path string true "Entity name"
// @Param id path int true "Record ID"
// @Param payload body map[string]interface{} true "Partial payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /master/{entity}/{id} [put]
func (h *MasterHandler) Update(c *gin.Context) {
	id, err := recordID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid record payload"))
		return
	}
	record, err := h.service.Update(c.Request.Context(), c.Param("entity"), id, payload, userFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Delete godoc
// @Summary Delete record
// @Description Soft-deletes a record; requires confirm=true
// @Tags Master Data
// @Produce json
// @Param entity path string true "Entity name"
// @Param id path int true "Record ID"
// @Param confirm query bool true "Explicit confirmation"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 428 {object} response.Envelope
// @Router /master/{entity}/{id} [delete]
func (h *MasterHandler) Delete(c *gin.Context) {
	id, err := recordID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	confirmed := c.Query("confirm") == "true"
	if err := h.service.Delete(c.Request.Context(), c.Param("entity"), id, confirmed, userFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Import godoc
// @Summary Import legacy export
// @Description Ingests a legacy export, tolerating its envelope variants
// @Tags Master Data
// @Accept json
// @Produce json
// @Param entity path string true "Entity name"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /master/{entity}/import [post]
func (h *MasterHandler) Import(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to read import payload"))
		return
	}
	result, err := h.service.Import(c.Request.Context(), c.Param("entity"), raw, userFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

func recordID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, "record id must be numeric")
	}
	return id, nil
}
