package models

import "time"

// School represents a tenant. Every other school-scoped row hangs off it
// with ON DELETE CASCADE, so removing a school removes its students,
// courses, clubs, assignments, lesson plans and profile bindings in one go.
type School struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Proprietor string    `db:"proprietor" json:"proprietor"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// CreateSchoolRequest is the payload for registering a new school.
type CreateSchoolRequest struct {
	Name       string `json:"name" validate:"required,max=200"`
	Proprietor string `json:"proprietor" validate:"required,max=200"`
}
