package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/schoolhub-ng/schoolhub-api/internal/models"
)

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = `id, school_id, name, grade_label, attendance, grades, behavior_notes, created_at, updated_at`

// List returns students visible to the caller's school scope, optionally
// filtered by a case-insensitive name search.
func (r *StudentRepository) List(ctx context.Context, schoolID *string, search string) ([]models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE 1=1`, studentColumns)
	var args []interface{}
	var cond string
	cond, args = schoolScope("school_id", schoolID, args)
	query += cond
	if search != "" {
		query += fmt.Sprintf(" AND LOWER(name) LIKE $%d", len(args)+1)
		args = append(args, "%"+strings.ToLower(search)+"%")
	}
	query += " ORDER BY name ASC"

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// FindByID fetches a student inside the caller's school scope.
func (r *StudentRepository) FindByID(ctx context.Context, id string, schoolID *string) (*models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE id = $1`, studentColumns)
	args := []interface{}{id}
	var cond string
	cond, args = schoolScope("school_id", schoolID, args)
	query += cond

	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student: %w", err)
	}
	return &student, nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, school_id, name, grade_label, attendance, grades, behavior_notes, created_at, updated_at)
        VALUES (:id, :school_id, :name, :grade_label, :attendance, :grades, :behavior_notes, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update modifies an existing student within the caller's school scope.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student, schoolID *string) error {
	student.UpdatedAt = time.Now().UTC()
	query := `UPDATE students SET name = $2, grade_label = $3, attendance = $4, grades = $5, behavior_notes = $6, updated_at = $7 WHERE id = $1`
	args := []interface{}{student.ID, student.Name, student.GradeLabel, student.Attendance, student.Grades, student.BehaviorNotes, student.UpdatedAt}
	var cond string
	cond, args = schoolScope("school_id", schoolID, args)
	query += cond

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a student within the caller's school scope.
func (r *StudentRepository) Delete(ctx context.Context, id string, schoolID *string) error {
	query := `DELETE FROM students WHERE id = $1`
	args := []interface{}{id}
	var cond string
	cond, args = schoolScope("school_id", schoolID, args)
	query += cond

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// EnrollCourse links a student to a course. Duplicates are ignored.
func (r *StudentRepository) EnrollCourse(ctx context.Context, studentID, courseID string) error {
	const query = `INSERT INTO student_courses (student_id, course_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, studentID, courseID); err != nil {
		return fmt.Errorf("enroll course: %w", err)
	}
	return nil
}

// JoinClub links a student to a club. Duplicates are ignored.
func (r *StudentRepository) JoinClub(ctx context.Context, studentID, clubID string) error {
	const query = `INSERT INTO student_clubs (student_id, club_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, studentID, clubID); err != nil {
		return fmt.Errorf("join club: %w", err)
	}
	return nil
}

// Count returns the total number of students.
func (r *StudentRepository) Count(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM students`
	var total int
	if err := r.db.GetContext(ctx, &total, query); err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return total, nil
}
