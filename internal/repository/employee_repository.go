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

const employeeColumns = `id, first_name, last_name, email, phone, designation_id, type_id, status_id, shift_id,
	joining_date, is_active, is_deleted, created_by, updated_by, created_at, updated_at`

// EmployeeRepository handles persistence for the employee master and its
// nested qualification records.
type EmployeeRepository struct {
	db *sqlx.DB
}

// NewEmployeeRepository instantiates an employee repository.
func NewEmployeeRepository(db *sqlx.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// List returns employees matching the filter with a total count.
func (r *EmployeeRepository) List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, int, error) {
	base := `FROM employees WHERE is_deleted = FALSE`
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(first_name) LIKE $%d OR LOWER(last_name) LIKE $%d OR LOWER(email) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.DesignationID != nil {
		conditions = append(conditions, fmt.Sprintf("designation_id = $%d", len(args)+1))
		args = append(args, *filter.DesignationID)
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY id LIMIT %d OFFSET %d", employeeColumns, base, size, offset)

	var employees []models.Employee
	if err := r.db.SelectContext(ctx, &employees, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list employees: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s", base), args...); err != nil {
		return nil, 0, fmt.Errorf("count employees: %w", err)
	}
	return employees, total, nil
}

// FindByID loads one live employee.
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	query := fmt.Sprintf(`SELECT %s FROM employees WHERE id = $1 AND is_deleted = FALSE LIMIT 1`, employeeColumns)
	var employee models.Employee
	if err := r.db.GetContext(ctx, &employee, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find employee: %w", err)
	}
	return &employee, nil
}

// NextSequence returns the next per-year employee number.
func (r *EmployeeRepository) NextSequence(ctx context.Context, year int) (int, error) {
	const query = `SELECT COUNT(*) + 1 FROM employees WHERE id LIKE $1`
	var next int
	if err := r.db.GetContext(ctx, &next, query, fmt.Sprintf("EMP%d%%", year)); err != nil {
		return 0, fmt.Errorf("next employee sequence: %w", err)
	}
	return next, nil
}

// Create inserts an employee record.
func (r *EmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	now := time.Now().UTC()
	employee.CreatedAt = now
	employee.UpdatedAt = now
	const query = `INSERT INTO employees (id, first_name, last_name, email, phone, designation_id, type_id, status_id, shift_id, joining_date, is_active, is_deleted, created_by, updated_by, created_at, updated_at)
		VALUES (:id, :first_name, :last_name, :email, :phone, :designation_id, :type_id, :status_id, :shift_id, :joining_date, :is_active, FALSE, :created_by, :updated_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, employee); err != nil {
		return fmt.Errorf("create employee: %w", err)
	}
	return nil
}

// Update modifies an existing employee.
func (r *EmployeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	employee.UpdatedAt = time.Now().UTC()
	const query = `UPDATE employees SET first_name = :first_name, last_name = :last_name, email = :email, phone = :phone, designation_id = :designation_id, type_id = :type_id, status_id = :status_id, shift_id = :shift_id, joining_date = :joining_date, is_active = :is_active, updated_by = :updated_by, updated_at = :updated_at WHERE id = :id AND is_deleted = FALSE`
	if _, err := r.db.NamedExecContext(ctx, query, employee); err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	return nil
}

// SoftDelete marks an employee removed.
func (r *EmployeeRepository) SoftDelete(ctx context.Context, id, actor string) error {
	const query = `UPDATE employees SET is_deleted = TRUE, is_active = FALSE, updated_by = $2, updated_at = $3 WHERE id = $1 AND is_deleted = FALSE`
	result, err := r.db.ExecContext(ctx, query, id, actor, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListQualifications returns the qualifications nested under one employee.
func (r *EmployeeRepository) ListQualifications(ctx context.Context, employeeID string) ([]models.EmployeeQualification, error) {
	const query = `SELECT id, employee_id, degree, institution, passing_year, specialization, created_at, updated_at FROM employee_qualifications WHERE employee_id = $1 ORDER BY passing_year DESC, id`
	var quals []models.EmployeeQualification
	if err := r.db.SelectContext(ctx, &quals, query, employeeID); err != nil {
		return nil, fmt.Errorf("list qualifications: %w", err)
	}
	return quals, nil
}

// AddQualification appends a qualification row for an employee.
func (r *EmployeeRepository) AddQualification(ctx context.Context, qual *models.EmployeeQualification) error {
	now := time.Now().UTC()
	qual.CreatedAt = now
	qual.UpdatedAt = now
	const query = `INSERT INTO employee_qualifications (employee_id, degree, institution, passing_year, specialization, created_at, updated_at)
		VALUES (:employee_id, :degree, :institution, :passing_year, :specialization, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, qual); err != nil {
		return fmt.Errorf("add qualification: %w", err)
	}
	return nil
}
