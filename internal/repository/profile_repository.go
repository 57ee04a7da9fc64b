package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/schoolhub-ng/schoolhub-api/internal/models"
)

// ProfileRepository manages teacher and parent profile bindings.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository constructs a ProfileRepository.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// TeacherProfileByUserID fetches the teacher binding for a principal.
func (r *ProfileRepository) TeacherProfileByUserID(ctx context.Context, userID string) (*models.TeacherProfile, error) {
	const query = `SELECT id, user_id, school_id, courses_taught, created_at, updated_at
        FROM teacher_profiles WHERE user_id = $1 LIMIT 1`
	var profile models.TeacherProfile
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find teacher profile: %w", err)
	}
	return &profile, nil
}

// UpdateCoursesTaught overwrites the free-text course list. The write is
// idempotent: repeating it with the same list leaves the row unchanged.
func (r *ProfileRepository) UpdateCoursesTaught(ctx context.Context, userID, coursesTaught string) error {
	const query = `UPDATE teacher_profiles SET courses_taught = $2, updated_at = $3 WHERE user_id = $1`
	res, err := r.db.ExecContext(ctx, query, userID, coursesTaught, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update courses taught: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ParentProfileByUserID fetches the parent binding for a principal.
func (r *ProfileRepository) ParentProfileByUserID(ctx context.Context, userID string) (*models.ParentProfile, error) {
	const query = `SELECT id, user_id, school_id, created_at, updated_at
        FROM parent_profiles WHERE user_id = $1 LIMIT 1`
	var profile models.ParentProfile
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find parent profile: %w", err)
	}
	return &profile, nil
}

// AttachStudent binds a student to a parent profile. Duplicate pairs are
// ignored so re-binding is harmless.
func (r *ProfileRepository) AttachStudent(ctx context.Context, parentProfileID, studentID string) error {
	const query = `INSERT INTO parent_students (parent_profile_id, student_id)
        VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, parentProfileID, studentID); err != nil {
		return fmt.Errorf("attach student to parent: %w", err)
	}
	return nil
}

// DetachStudent removes a student binding from a parent profile.
func (r *ProfileRepository) DetachStudent(ctx context.Context, parentProfileID, studentID string) error {
	const query = `DELETE FROM parent_students WHERE parent_profile_id = $1 AND student_id = $2`
	if _, err := r.db.ExecContext(ctx, query, parentProfileID, studentID); err != nil {
		return fmt.Errorf("detach student from parent: %w", err)
	}
	return nil
}

// Children returns the students bound to a parent profile, filtered to the
// parent's school when one is set; with no school only unscoped students
// are visible.
func (r *ProfileRepository) Children(ctx context.Context, parentProfileID string, schoolID *string) ([]models.Student, error) {
	query := `SELECT s.id, s.school_id, s.name, s.grade_label, s.attendance, s.grades, s.behavior_notes, s.created_at, s.updated_at
        FROM students s
        JOIN parent_students ps ON ps.student_id = s.id
        WHERE ps.parent_profile_id = $1`
	args := []interface{}{parentProfileID}
	if schoolID != nil {
		query += " AND s.school_id = $2"
		args = append(args, *schoolID)
	} else {
		query += " AND s.school_id IS NULL"
	}
	query += " ORDER BY s.name ASC"

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	return students, nil
}
