package models

import "time"

// TeacherProfile is the one-to-one binding row for teacher principals.
// CoursesTaught is intentionally free text ("Math, Science"), matching how
// teachers actually describe their load.
type TeacherProfile struct {
	ID            string    `db:"id" json:"id"`
	UserID        string    `db:"user_id" json:"user_id"`
	SchoolID      *string   `db:"school_id" json:"school_id,omitempty"`
	CoursesTaught string    `db:"courses_taught" json:"courses_taught"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// ParentProfile is the one-to-one binding row for parent principals. The
// set of children lives in the parent_students join table.
type ParentProfile struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	SchoolID  *string   `db:"school_id" json:"school_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// UpdateCoursesTaughtRequest overwrites the teacher's course list.
type UpdateCoursesTaughtRequest struct {
	CoursesTaught string `json:"courses_taught" validate:"max=2000"`
}
