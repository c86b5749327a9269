package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/campusgate/campus-erp-api/internal/models"
	"github.com/campusgate/campus-erp-api/pkg/config"
	appErrors "github.com/campusgate/campus-erp-api/pkg/errors"
	"github.com/campusgate/campus-erp-api/pkg/export"
)

// Export formats accepted by the download endpoints.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders master tables and the employee roster to CSV or PDF.
type ExportService struct {
	masters   *MasterService
	employees *EmployeeService
	csv       csvRenderer
	pdf       pdfRenderer
	cfg       config.ExportConfig
	logger    *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(masters *MasterService, employees *EmployeeService, cfg config.ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		masters:   masters,
		employees: employees,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		cfg:       cfg,
		logger:    logger,
	}
}

// ExportEntity renders one master table in the requested format.
func (s *ExportService) ExportEntity(ctx context.Context, tag, format string) (*ExportFile, error) {
	if !s.cfg.Enabled {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "exports are disabled")
	}

	entity, err := s.masters.Schema(tag)
	if err != nil {
		return nil, err
	}
	records, err := s.masters.List(ctx, tag)
	if err != nil {
		return nil, err
	}
	if s.cfg.MaxRows > 0 && len(records) > s.cfg.MaxRows {
		records = records[:s.cfg.MaxRows]
	}

	dataset := entityDataset(entity, records)
	return s.render(dataset, entity.DisplayName, tag, format)
}

// ExportEmployees renders the active staff roster.
func (s *ExportService) ExportEmployees(ctx context.Context, format string) (*ExportFile, error) {
	if !s.cfg.Enabled {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "exports are disabled")
	}

	pageSize := 100
	if s.cfg.MaxRows > 0 && s.cfg.MaxRows < pageSize {
		pageSize = s.cfg.MaxRows
	}
	employees, _, err := s.employees.List(ctx, models.EmployeeFilter{Page: 1, PageSize: pageSize})
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]string, 0, len(employees))
	for _, e := range employees {
		rows = append(rows, map[string]string{
			"ID":     e.ID,
			"Name":   strings.TrimSpace(e.FirstName + " " + e.LastName),
			"Email":  e.Email,
			"Phone":  e.Phone,
			"Joined": formatDate(e.JoiningDate),
			"Active": strconv.FormatBool(e.IsActive),
		})
	}
	dataset := export.Dataset{
		Headers: []string{"ID", "Name", "Email", "Phone", "Joined", "Active"},
		Rows:    rows,
	}
	return s.render(dataset, "Employees", "employees", format)
}

func (s *ExportService) render(dataset export.Dataset, title, prefix, format string) (*ExportFile, error) {
	timestamp := time.Now().UTC().Format("20060102_150405")
	switch format {
	case ExportFormatCSV:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportFile{
			Filename:    fmt.Sprintf("%s_%s.csv", prefix, timestamp),
			ContentType: "text/csv",
			Payload:     payload,
		}, nil
	case ExportFormatPDF:
		payload, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportFile{
			Filename:    fmt.Sprintf("%s_%s.pdf", prefix, timestamp),
			ContentType: "application/pdf",
			Payload:     payload,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

// entityDataset flattens normalized records into the tabular shape exporters
// consume, columns ordered id, name, then schema order.
func entityDataset(entity models.Entity, records []map[string]interface{}) export.Dataset {
	headers := []string{"ID", "Name"}
	keys := []string{"id", "name"}
	for _, f := range entity.Fields {
		if f.Key == entity.NameColumns[0] {
			continue
		}
		headers = append(headers, f.Label)
		keys = append(keys, f.Key)
	}

	rows := make([]map[string]string, 0, len(records))
	for _, record := range records {
		row := make(map[string]string, len(keys))
		for i, key := range keys {
			row[headers[i]] = stringify(record[key])
		}
		rows = append(rows, row)
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}
