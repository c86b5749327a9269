package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/campusgate/campus-erp-api/internal/models"
	appErrors "github.com/campusgate/campus-erp-api/pkg/errors"
)

type masterRepository interface {
	List(ctx context.Context, entity models.Entity) ([]map[string]interface{}, error)
	Get(ctx context.Context, entity models.Entity, id int64) (map[string]interface{}, error)
	Insert(ctx context.Context, entity models.Entity, fields map[string]interface{}, actor string) (int64, error)
	Update(ctx context.Context, entity models.Entity, id int64, fields map[string]interface{}, actor string) error
	SoftDelete(ctx context.Context, entity models.Entity, id int64, actor string) error
}

type auditRepository interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// EntityInfo describes one master table for the catalog endpoint.
type EntityInfo struct {
	Tag         string `json:"name"`
	DisplayName string `json:"display_name"`
	Endpoint    string `json:"endpoint"`
	MenuPath    string `json:"menu_path"`
}

// ImportResult summarizes a legacy bulk import.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  []string `json:"skipped,omitempty"`
}

// MasterService implements the shared list/create/edit/delete workflow every
// master-data screen uses.
type MasterService struct {
	repo   masterRepository
	audits auditRepository
	logger *zap.Logger
}

// NewMasterService creates a master-data service.
func NewMasterService(repo masterRepository, audits auditRepository, logger *zap.Logger) *MasterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MasterService{repo: repo, audits: audits, logger: logger}
}

// Catalog lists every registered master table with its endpoint.
func (s *MasterService) Catalog() []EntityInfo {
	entities := models.Entities()
	out := make([]EntityInfo, 0, len(entities))
	for _, e := range entities {
		out = append(out, EntityInfo{
			Tag:         e.Tag,
			DisplayName: e.DisplayName,
			Endpoint:    "/api/master/" + e.Tag,
			MenuPath:    e.MenuPath,
		})
	}
	return out
}

// Schema returns the entity descriptor driving the generic edit dialog.
func (s *MasterService) Schema(tag string) (models.Entity, error) {
	entity, ok := models.LookupEntity(tag)
	if !ok {
		return models.Entity{}, appErrors.Clone(appErrors.ErrUnknownEntity, fmt.Sprintf("unknown master entity %q", tag))
	}
	return entity, nil
}

// List returns the normalized records of an entity. An empty table yields an
// empty slice, never an error.
func (s *MasterService) List(ctx context.Context, tag string) ([]map[string]interface{}, error) {
	entity, err := s.Schema(tag)
	if err != nil {
		return nil, err
	}
	records, err := s.repo.List(ctx, entity)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to list %s", entity.DisplayName))
	}
	normalized := make([]map[string]interface{}, 0, len(records))
	for _, record := range records {
		normalized = append(normalized, normalizeRecord(entity, record))
	}
	return normalized, nil
}

// Get loads one normalized record.
func (s *MasterService) Get(ctx context.Context, tag string, id int64) (map[string]interface{}, error) {
	entity, err := s.Schema(tag)
	if err != nil {
		return nil, err
	}
	record, err := s.repo.Get(ctx, entity, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s not found", entity.DisplayName))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to load %s", entity.DisplayName))
	}
	return normalizeRecord(entity, record), nil
}

// Create validates required fields and inserts a new record.
func (s *MasterService) Create(ctx context.Context, tag string, payload map[string]interface{}, actor *models.User) (map[string]interface{}, error) {
	entity, err := s.Schema(tag)
	if err != nil {
		return nil, err
	}

	fields := entity.NormalizePayload(payload)
	if missing := entity.MissingRequired(fields); len(missing) > 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "missing required fields: "+strings.Join(missing, ", "))
	}

	id, err := s.repo.Insert(ctx, entity, fields, actorName(actor))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to create %s", entity.DisplayName))
	}

	s.recordAudit(ctx, actor, models.AuditActionCreate, entity.Tag, id, fields)
	return s.Get(ctx, tag, id)
}

// Update applies a partial edit to schema fields only; identifiers and audit
// columns in the payload are ignored.
func (s *MasterService) Update(ctx context.Context, tag string, id int64, payload map[string]interface{}, actor *models.User) (map[string]interface{}, error) {
	entity, err := s.Schema(tag)
	if err != nil {
		return nil, err
	}

	fields := entity.NormalizePayload(payload)
	if len(fields) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no editable fields in payload")
	}

	if err := s.repo.Update(ctx, entity, id, fields, actorName(actor)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s not found", entity.DisplayName))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to update %s", entity.DisplayName))
	}

	s.recordAudit(ctx, actor, models.AuditActionUpdate, entity.Tag, id, fields)
	return s.Get(ctx, tag, id)
}

// Delete soft-deletes a record. The caller must pass explicit confirmation;
// without it no delete is issued at all.
func (s *MasterService) Delete(ctx context.Context, tag string, id int64, confirmed bool, actor *models.User) error {
	entity, err := s.Schema(tag)
	if err != nil {
		return err
	}
	if !confirmed {
		return appErrors.Clone(appErrors.ErrConfirmRequired, fmt.Sprintf("deleting a %s requires confirmation", entity.DisplayName))
	}

	if err := s.repo.SoftDelete(ctx, entity, id, actorName(actor)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s not found", entity.DisplayName))
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to delete %s", entity.DisplayName))
	}

	s.recordAudit(ctx, actor, models.AuditActionDelete, entity.Tag, id, nil)
	return nil
}

// Import ingests a legacy export, tolerating the old backend's envelope
// variants. Records failing required-field validation are skipped and
// reported, not fatal.
func (s *MasterService) Import(ctx context.Context, tag string, raw []byte, actor *models.User) (*ImportResult, error) {
	entity, err := s.Schema(tag)
	if err != nil {
		return nil, err
	}

	records, err := models.DecodeCollection(raw)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unrecognized import payload")
	}

	result := &ImportResult{}
	for i, record := range records {
		fields := entity.NormalizePayload(record)
		if missing := entity.MissingRequired(fields); len(missing) > 0 {
			result.Skipped = append(result.Skipped, fmt.Sprintf("record %d: missing %s", i+1, strings.Join(missing, ", ")))
			continue
		}
		id, err := s.repo.Insert(ctx, entity, fields, actorName(actor))
		if err != nil {
			result.Skipped = append(result.Skipped, fmt.Sprintf("record %d: %v", i+1, err))
			continue
		}
		s.recordAudit(ctx, actor, models.AuditActionCreate, entity.Tag, id, fields)
		result.Imported++
	}
	return result, nil
}

func (s *MasterService) recordAudit(ctx context.Context, actor *models.User, action, resource string, id int64, fields map[string]interface{}) {
	if s.audits == nil {
		return
	}
	var userID *string
	if actor != nil {
		userID = &actor.ID
	}
	resourceID := strconv.FormatInt(id, 10)
	var values []byte
	if fields != nil {
		values, _ = json.Marshal(fields)
	}
	if err := s.audits.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     userID,
		Action:     action,
		Resource:   resource,
		ResourceID: &resourceID,
		NewValues:  values,
	}); err != nil {
		s.logger.Warn("failed to record audit log", zap.String("resource", resource), zap.Error(err))
	}
}

// normalizeRecord projects a raw row into the uniform {id, name, ...fields}
// shape list screens render, resolving legacy identifier naming through the
// entity's candidate chains.
func normalizeRecord(entity models.Entity, record map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(entity.Fields)+2)
	if id, ok := entity.RecordID(record); ok {
		out["id"] = id
	}
	if name, ok := entity.RecordName(record); ok {
		out["name"] = name
	}
	for _, f := range entity.Fields {
		if value, ok := record[f.Key]; ok {
			out[f.Key] = value
		}
	}
	return out
}

func actorName(actor *models.User) string {
	if actor == nil || actor.Username == "" {
		return "SYSTEM"
	}
	return actor.Username
}
