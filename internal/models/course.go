package models

import "time"

// Course is taught by exactly one principal. The schema does not require
// the teacher to hold the TEACHER role; that matches the loose reference
// behaviour and keeps historic rows valid.
type Course struct {
	ID          string    `db:"id" json:"id"`
	SchoolID    *string   `db:"school_id" json:"school_id,omitempty"`
	TeacherID   string    `db:"teacher_id" json:"teacher_id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Club groups students outside the curriculum. Membership is the inverse
// of a student's club set.
type Club struct {
	ID          string    `db:"id" json:"id"`
	SchoolID    *string   `db:"school_id" json:"school_id,omitempty"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CreateCourseRequest is the payload for creating a course.
type CreateCourseRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description"`
	TeacherID   string `json:"teacher_id" validate:"required,uuid4"`
}

// CreateClubRequest is the payload for creating a club.
type CreateClubRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description"`
}
