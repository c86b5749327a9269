package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/campusgate/campus-erp-api/internal/models"
)

// MasterRepository is the schema-driven persistence layer shared by every
// master-data entity. Table and column names come from the static entity
// registry, never from request input.
type MasterRepository struct {
	db *sqlx.DB
}

// NewMasterRepository instantiates a master repository.
func NewMasterRepository(db *sqlx.DB) *MasterRepository {
	return &MasterRepository{db: db}
}

// List returns all live rows of an entity as raw records.
func (r *MasterRepository) List(ctx context.Context, entity models.Entity) ([]map[string]interface{}, error) {
	query := fmt.Sprintf(`SELECT * FROM %s WHERE is_deleted = FALSE ORDER BY %s`, entity.Table, entity.IDColumn())
	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", entity.Tag, err)
	}
	defer rows.Close()

	records := make([]map[string]interface{}, 0)
	for rows.Next() {
		record := map[string]interface{}{}
		if err := rows.MapScan(record); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", entity.Tag, err)
		}
		records = append(records, decodeRow(record))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", entity.Tag, err)
	}
	return records, nil
}

// Get loads one live row by identifier.
func (r *MasterRepository) Get(ctx context.Context, entity models.Entity, id int64) (map[string]interface{}, error) {
	query := fmt.Sprintf(`SELECT * FROM %s WHERE %s = $1 AND is_deleted = FALSE LIMIT 1`, entity.Table, entity.IDColumn())
	rows, err := r.db.QueryxContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", entity.Tag, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("get %s: %w", entity.Tag, err)
		}
		return nil, sql.ErrNoRows
	}
	record := map[string]interface{}{}
	if err := rows.MapScan(record); err != nil {
		return nil, fmt.Errorf("scan %s row: %w", entity.Tag, err)
	}
	return decodeRow(record), nil
}

// Insert creates a row from normalized schema fields and stamps the actor.
// Returns the generated identifier.
func (r *MasterRepository) Insert(ctx context.Context, entity models.Entity, fields map[string]interface{}, actor string) (int64, error) {
	columns := []string{"created_by", "updated_by", "created_at", "updated_at"}
	now := time.Now().UTC()
	args := []interface{}{actor, actor, now, now}

	for _, f := range entity.Fields {
		value, ok := fields[f.Key]
		if !ok {
			continue
		}
		columns = append(columns, f.Key)
		args = append(args, value)
	}

	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING %s`,
		entity.Table, strings.Join(columns, ", "), strings.Join(placeholders, ", "), entity.IDColumn())

	var id int64
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		return 0, fmt.Errorf("insert %s: %w", entity.Tag, err)
	}
	return id, nil
}

// Update applies a partial update of schema fields to one row.
func (r *MasterRepository) Update(ctx context.Context, entity models.Entity, id int64, fields map[string]interface{}, actor string) error {
	sets := []string{"updated_by = $1", "updated_at = $2"}
	args := []interface{}{actor, time.Now().UTC()}

	for _, f := range entity.Fields {
		value, ok := fields[f.Key]
		if !ok {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", f.Key, len(args)+1))
		args = append(args, value)
	}
	if len(sets) == 2 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE %s = $%d AND is_deleted = FALSE`,
		entity.Table, strings.Join(sets, ", "), entity.IDColumn(), len(args))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", entity.Tag, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SoftDelete flags a row deleted and inactive, stamping who removed it.
func (r *MasterRepository) SoftDelete(ctx context.Context, entity models.Entity, id int64, actor string) error {
	query := fmt.Sprintf(`UPDATE %s SET is_deleted = TRUE, is_active = FALSE, deleted_by = $1, deleted_at = $2, updated_at = $2 WHERE %s = $3 AND is_deleted = FALSE`,
		entity.Table, entity.IDColumn())
	result, err := r.db.ExecContext(ctx, query, actor, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", entity.Tag, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListOptions returns the id/name pairs of live, active rows, optionally
// constrained to one parent through the given foreign-key column.
func (r *MasterRepository) ListOptions(ctx context.Context, entity models.Entity, fkColumn string, parentID *int64) ([]models.Option, error) {
	query := fmt.Sprintf(`SELECT %s AS id, %s AS name FROM %s WHERE is_deleted = FALSE AND is_active = TRUE`,
		entity.IDColumn(), entity.NameColumns[0], entity.Table)
	var args []interface{}
	if fkColumn != "" && parentID != nil {
		query += fmt.Sprintf(" AND %s = $1", fkColumn)
		args = append(args, *parentID)
	}
	query += " ORDER BY name"

	var options []models.Option
	if err := r.db.SelectContext(ctx, &options, query, args...); err != nil {
		return nil, fmt.Errorf("list %s options: %w", entity.Tag, err)
	}
	return options, nil
}

// decodeRow converts driver byte slices into strings so records marshal as
// JSON text rather than base64.
func decodeRow(record map[string]interface{}) map[string]interface{} {
	for key, value := range record {
		if raw, ok := value.([]byte); ok {
			record[key] = string(raw)
		}
	}
	return record
}
