package models

import "time"

// Employee is the staff master record.
type Employee struct {
	ID            string     `db:"id" json:"id"`
	FirstName     string     `db:"first_name" json:"first_name"`
	LastName      string     `db:"last_name" json:"last_name"`
	Email         string     `db:"email" json:"email"`
	Phone         string     `db:"phone" json:"phone,omitempty"`
	DesignationID *int64     `db:"designation_id" json:"designation_id,omitempty"`
	TypeID        *int64     `db:"type_id" json:"type_id,omitempty"`
	StatusID      *int64     `db:"status_id" json:"status_id,omitempty"`
	ShiftID       *int64     `db:"shift_id" json:"shift_id,omitempty"`
	JoiningDate   *time.Time `db:"joining_date" json:"joining_date,omitempty"`
	IsActive      bool       `db:"is_active" json:"is_active"`
	IsDeleted     bool       `db:"is_deleted" json:"-"`
	CreatedBy     string     `db:"created_by" json:"created_by"`
	UpdatedBy     string     `db:"updated_by" json:"updated_by"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// EmployeeQualification is one academic qualification row nested under an
// employee.
type EmployeeQualification struct {
	ID             int64     `db:"id" json:"id"`
	EmployeeID     string    `db:"employee_id" json:"employee_id"`
	Degree         string    `db:"degree" json:"degree"`
	Institution    string    `db:"institution" json:"institution"`
	PassingYear    int       `db:"passing_year" json:"passing_year"`
	Specialization string    `db:"specialization" json:"specialization,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// EmployeeFilter constrains employee listings.
type EmployeeFilter struct {
	Search        string
	DesignationID *int64
	Active        *bool
	Page          int
	PageSize      int
}
