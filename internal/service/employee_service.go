package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campusgate/campus-erp-api/internal/models"
	appErrors "github.com/campusgate/campus-erp-api/pkg/errors"
)

type employeeRepository interface {
	List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, int, error)
	FindByID(ctx context.Context, id string) (*models.Employee, error)
	NextSequence(ctx context.Context, year int) (int, error)
	Create(ctx context.Context, employee *models.Employee) error
	Update(ctx context.Context, employee *models.Employee) error
	SoftDelete(ctx context.Context, id, actor string) error
	ListQualifications(ctx context.Context, employeeID string) ([]models.EmployeeQualification, error)
	AddQualification(ctx context.Context, qual *models.EmployeeQualification) error
}

// CreateEmployeeRequest is the payload for registering a staff member.
type CreateEmployeeRequest struct {
	FirstName     string     `json:"first_name" validate:"required"`
	LastName      string     `json:"last_name" validate:"required"`
	Email         string     `json:"email" validate:"required,email"`
	Phone         string     `json:"phone"`
	DesignationID *int64     `json:"designation_id"`
	TypeID        *int64     `json:"type_id"`
	StatusID      *int64     `json:"status_id"`
	ShiftID       *int64     `json:"shift_id"`
	JoiningDate   *time.Time `json:"joining_date"`
}

// UpdateEmployeeRequest carries a partial edit; nil fields are left alone.
type UpdateEmployeeRequest struct {
	FirstName     *string    `json:"first_name"`
	LastName      *string    `json:"last_name"`
	Email         *string    `json:"email" validate:"omitempty,email"`
	Phone         *string    `json:"phone"`
	DesignationID *int64     `json:"designation_id"`
	TypeID        *int64     `json:"type_id"`
	StatusID      *int64     `json:"status_id"`
	ShiftID       *int64     `json:"shift_id"`
	JoiningDate   *time.Time `json:"joining_date"`
	IsActive      *bool      `json:"is_active"`
}

// AddQualificationRequest adds one qualification row to an employee.
type AddQualificationRequest struct {
	Degree         string `json:"degree" validate:"required"`
	Institution    string `json:"institution" validate:"required"`
	PassingYear    int    `json:"passing_year" validate:"required,min=1950"`
	Specialization string `json:"specialization"`
}

// EmployeeService manages staff records and their qualifications.
type EmployeeService struct {
	repo     employeeRepository
	validate *validator.Validate
	logger   *zap.Logger
}

// NewEmployeeService creates an employee service.
func NewEmployeeService(repo employeeRepository, validate *validator.Validate, logger *zap.Logger) *EmployeeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{repo: repo, validate: validate, logger: logger}
}

// List returns employees with pagination metadata.
func (s *EmployeeService) List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	employees, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list employees")
	}
	return employees, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Get loads one employee together with qualifications.
func (s *EmployeeService) Get(ctx context.Context, id string) (*models.Employee, []models.EmployeeQualification, error) {
	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}
	qualifications, err := s.repo.ListQualifications(ctx, id)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load qualifications")
	}
	return employee, qualifications, nil
}

// Create registers an employee under a generated identifier of the form
// EMP<year><sequence>, e.g. EMP20260042.
func (s *EmployeeService) Create(ctx context.Context, req *CreateEmployeeRequest, actor *models.User) (*models.Employee, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	year := time.Now().UTC().Year()
	seq, err := s.repo.NextSequence(ctx, year)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to allocate employee id")
	}

	employee := &models.Employee{
		ID:            fmt.Sprintf("EMP%d%04d", year, seq),
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Phone:         req.Phone,
		DesignationID: req.DesignationID,
		TypeID:        req.TypeID,
		StatusID:      req.StatusID,
		ShiftID:       req.ShiftID,
		JoiningDate:   req.JoiningDate,
		IsActive:      true,
		CreatedBy:     actorName(actor),
		UpdatedBy:     actorName(actor),
	}
	if err := s.repo.Create(ctx, employee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create employee")
	}
	return employee, nil
}

// Update applies a partial edit to an employee.
func (s *EmployeeService) Update(ctx context.Context, id string, req *UpdateEmployeeRequest, actor *models.User) (*models.Employee, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}

	if req.FirstName != nil {
		employee.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		employee.LastName = *req.LastName
	}
	if req.Email != nil {
		employee.Email = *req.Email
	}
	if req.Phone != nil {
		employee.Phone = *req.Phone
	}
	if req.DesignationID != nil {
		employee.DesignationID = req.DesignationID
	}
	if req.TypeID != nil {
		employee.TypeID = req.TypeID
	}
	if req.StatusID != nil {
		employee.StatusID = req.StatusID
	}
	if req.ShiftID != nil {
		employee.ShiftID = req.ShiftID
	}
	if req.JoiningDate != nil {
		employee.JoiningDate = req.JoiningDate
	}
	if req.IsActive != nil {
		employee.IsActive = *req.IsActive
	}
	employee.UpdatedBy = actorName(actor)

	if err := s.repo.Update(ctx, employee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update employee")
	}
	return employee, nil
}

// Delete soft-deletes an employee behind the same confirmation gate master
// records use.
func (s *EmployeeService) Delete(ctx context.Context, id string, confirmed bool, actor *models.User) error {
	if !confirmed {
		return appErrors.Clone(appErrors.ErrConfirmRequired, "deleting an employee requires confirmation")
	}
	if err := s.repo.SoftDelete(ctx, id, actorName(actor)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete employee")
	}
	return nil
}

// AddQualification appends a qualification row to an employee.
func (s *EmployeeService) AddQualification(ctx context.Context, employeeID string, req *AddQualificationRequest) (*models.EmployeeQualification, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	if _, err := s.repo.FindByID(ctx, employeeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}

	qual := &models.EmployeeQualification{
		EmployeeID:     employeeID,
		Degree:         req.Degree,
		Institution:    req.Institution,
		PassingYear:    req.PassingYear,
		Specialization: req.Specialization,
	}
	if err := s.repo.AddQualification(ctx, qual); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add qualification")
	}
	return qual, nil
}
