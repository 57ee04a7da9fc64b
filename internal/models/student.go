package models

import "time"

// Student represents a pupil record. Grades and behavior notes are free
// text, the attendance field is a plain counter of days attended.
type Student struct {
	ID            string    `db:"id" json:"id"`
	SchoolID      *string   `db:"school_id" json:"school_id,omitempty"`
	Name          string    `db:"name" json:"name"`
	GradeLabel    string    `db:"grade_label" json:"grade_label"`
	Attendance    int       `db:"attendance" json:"attendance"`
	Grades        string    `db:"grades" json:"grades"`
	BehaviorNotes string    `db:"behavior_notes" json:"behavior_notes"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// CreateStudentRequest is the payload for creating a student.
type CreateStudentRequest struct {
	Name          string `json:"name" validate:"required,max=100"`
	GradeLabel    string `json:"grade_label" validate:"required,max=50"`
	Attendance    int    `json:"attendance" validate:"gte=0"`
	Grades        string `json:"grades"`
	BehaviorNotes string `json:"behavior_notes"`
}

// UpdateStudentRequest mirrors the create payload for full updates.
type UpdateStudentRequest struct {
	Name          string `json:"name" validate:"required,max=100"`
	GradeLabel    string `json:"grade_label" validate:"required,max=50"`
	Attendance    int    `json:"attendance" validate:"gte=0"`
	Grades        string `json:"grades"`
	BehaviorNotes string `json:"behavior_notes"`
}
