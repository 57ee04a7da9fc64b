package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/schoolhub-ng/schoolhub-api/internal/models"
)

// CourseRepository manages persistence for courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

const courseColumns = `id, school_id, teacher_id, name, description, created_at, updated_at`

// List returns courses visible to the caller's school scope.
func (r *CourseRepository) List(ctx context.Context, schoolID *string) ([]models.Course, error) {
	query := fmt.Sprintf(`SELECT %s FROM courses WHERE 1=1`, courseColumns)
	var args []interface{}
	var cond string
	cond, args = schoolScope("school_id", schoolID, args)
	query += cond + " ORDER BY name ASC"

	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// FindByID fetches a course inside the caller's school scope.
func (r *CourseRepository) FindByID(ctx context.Context, id string, schoolID *string) (*models.Course, error) {
	query := fmt.Sprintf(`SELECT %s FROM courses WHERE id = $1`, courseColumns)
	args := []interface{}{id}
	var cond string
	cond, args = schoolScope("school_id", schoolID, args)
	query += cond

	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find course: %w", err)
	}
	return &course, nil
}

// Create inserts a new course.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now
	const query = `INSERT INTO courses (id, school_id, teacher_id, name, description, created_at, updated_at)
        VALUES (:id, :school_id, :teacher_id, :name, :description, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// Delete removes a course within the caller's school scope. Assignments
// cascade away with it.
func (r *CourseRepository) Delete(ctx context.Context, id string, schoolID *string) error {
	query := `DELETE FROM courses WHERE id = $1`
	args := []interface{}{id}
	var cond string
	cond, args = schoolScope("school_id", schoolID, args)
	query += cond

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
