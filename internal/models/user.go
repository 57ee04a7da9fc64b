package models

import "time"

// Role represents the closed set of principal roles. A user holds exactly
// one role, assigned at registration and never changed afterwards.
type Role string

const (
	RoleProprietor    Role = "PROPRIETOR"
	RoleHeadTeacher   Role = "HEAD_TEACHER"
	RoleViceAdmin     Role = "VICE_ADMIN"
	RoleViceAcademics Role = "VICE_ACADEMICS"
	RoleTeacher       Role = "TEACHER"
	RoleParent        Role = "PARENT"
)

// AllRoles lists every role the registration endpoint accepts.
var AllRoles = []Role{
	RoleProprietor,
	RoleHeadTeacher,
	RoleViceAdmin,
	RoleViceAcademics,
	RoleTeacher,
	RoleParent,
}

// ParseRole maps a raw role string onto the enum.
func ParseRole(raw string) (Role, bool) {
	role := Role(raw)
	for _, r := range AllRoles {
		if r == role {
			return role, true
		}
	}
	return "", false
}

// NeedsProfile reports whether a role carries a profile binding row.
// Only teachers and parents do; the remaining staff roles have no
// binding record of their own.
func (r Role) NeedsProfile() bool {
	return r == RoleTeacher || r == RoleParent
}

// SchoolBound reports whether a role carries a school affiliation on the
// principal. Teachers and parents belong to one school and head teachers
// review within one; proprietor and the vice roles operate tenant-wide.
func (r Role) SchoolBound() bool {
	return r == RoleHeadTeacher || r == RoleTeacher || r == RoleParent
}

// User represents an authenticated principal stored in the users table.
// SchoolID is the principal's school scope; staff registered without a
// school operate in legacy/global mode and only see unscoped rows.
type User struct {
	ID           string     `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	Email        *string    `db:"email" json:"email,omitempty"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"full_name"`
	Role         Role       `db:"role" json:"role"`
	SchoolID     *string    `db:"school_id" json:"school_id,omitempty"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role      *Role
	SchoolID  *string
	Active    *bool
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
