package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusgate/campus-erp-api/internal/service"
	"github.com/campusgate/campus-erp-api/pkg/response"
)

// ExportHandler streams rendered CSV and PDF downloads.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler creates a new handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Entity godoc
// @Summary Export master table
// @Description Renders one master table as CSV or PDF
// @Tags Exports
// @Produce octet-stream
// @Param entity path string true "Entity name"
// @Param format query string true "csv or pdf"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /export/master/{entity} [get]
func (h *ExportHandler) Entity(c *gin.Context) {
	file, err := h.service.ExportEntity(c.Request.Context(), c.Param("entity"), c.DefaultQuery("format", service.ExportFormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveFile(c, file)
}

// Employees godoc
// @Summary Export employees
// @Description Renders the staff roster as CSV or PDF
// @Tags Exports
// @Produce octet-stream
// @Param format query string true "csv or pdf"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /export/employees [get]
func (h *ExportHandler) Employees(c *gin.Context) {
	file, err := h.service.ExportEmployees(c.Request.Context(), c.DefaultQuery("format", service.ExportFormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveFile(c, file)
}

func serveFile(c *gin.Context, file *service.ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Payload)
}
