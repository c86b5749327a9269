package models

import "time"

// User represents an application account stored in the users table.
// Master-data mutations are stamped with the username for auditing.
type User struct {
	ID                  string     `db:"id" json:"id"`
	Username            string     `db:"username" json:"username"`
	Email               string     `db:"email" json:"email"`
	PasswordHash        string     `db:"password_hash" json:"-"`
	FirstName           string     `db:"first_name" json:"first_name"`
	LastName            string     `db:"last_name" json:"last_name"`
	DesignationID       *int64     `db:"designation_id" json:"designation_id,omitempty"`
	DesignationCode     string     `db:"designation_code" json:"designation_code"`
	Phone               string     `db:"phone" json:"phone,omitempty"`
	IsActive            bool       `db:"is_active" json:"is_active"`
	IsStaff             bool       `db:"is_staff" json:"is_staff"`
	IsSuperuser         bool       `db:"is_superuser" json:"is_superuser"`
	FailedLoginAttempts int        `db:"failed_login_attempts" json:"-"`
	LastFailedLogin     *time.Time `db:"last_failed_login" json:"-"`
	LockedUntil         *time.Time `db:"locked_until" json:"-"`
	PermanentLock       bool       `db:"permanent_lock" json:"-"`
	LockReason          string     `db:"lock_reason" json:"-"`
	LastLogin           *time.Time `db:"last_login" json:"last_login,omitempty"`
	LastLoginIP         string     `db:"last_login_ip" json:"-"`
	PasswordChangedAt   *time.Time `db:"password_changed_at" json:"-"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
}

// Designation is the role master keyed by a short code (ADMIN, FACULTY, ...).
// Codes are case-normalized before any comparison.
type Designation struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Code        string    `db:"code" json:"code"`
	Description string    `db:"description" json:"description,omitempty"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	DesignationCode string
	Active          *bool
	Search          string
	Page            int
	PageSize        int
	SortBy          string
	SortOrder       string
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
