package models

import "time"

// Assignment belongs to exactly one course and cascades away with it.
type Assignment struct {
	ID          string    `db:"id" json:"id"`
	CourseID    string    `db:"course_id" json:"course_id"`
	SchoolID    *string   `db:"school_id" json:"school_id,omitempty"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	DueDate     time.Time `db:"due_date" json:"due_date"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// AssignmentDetail joins in the course name for listings.
type AssignmentDetail struct {
	Assignment
	CourseName string `db:"course_name" json:"course_name"`
}

// CreateAssignmentRequest is the payload for creating an assignment.
type CreateAssignmentRequest struct {
	CourseID    string    `json:"course_id" validate:"required,uuid4"`
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date" validate:"required"`
}
