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

// AssignmentRepository manages persistence for assignments.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs an AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Create inserts a new assignment.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = now
	}
	assignment.UpdatedAt = now
	const query = `INSERT INTO assignments (id, course_id, school_id, title, description, due_date, created_at, updated_at)
        VALUES (:id, :course_id, :school_id, :title, :description, :due_date, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// List returns assignments visible to the caller's school scope, most
// recent due date first.
func (r *AssignmentRepository) List(ctx context.Context, schoolID *string) ([]models.AssignmentDetail, error) {
	query := `SELECT a.id, a.course_id, a.school_id, a.title, a.description, a.due_date, a.created_at, a.updated_at,
        c.name AS course_name
        FROM assignments a
        JOIN courses c ON c.id = a.course_id
        WHERE 1=1`
	var args []interface{}
	var cond string
	cond, args = schoolScope("a.school_id", schoolID, args)
	query += cond + " ORDER BY a.due_date DESC"

	var assignments []models.AssignmentDetail
	if err := r.db.SelectContext(ctx, &assignments, query, args...); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// ListForStudents returns assignments whose course has at least one of
// the given students enrolled, inside the caller's school scope, ordered
// by due date descending. Each assignment appears at most once even when
// several of the students share a course.
func (r *AssignmentRepository) ListForStudents(ctx context.Context, studentIDs []string, schoolID *string) ([]models.AssignmentDetail, error) {
	if len(studentIDs) == 0 {
		return nil, nil
	}

	query := `SELECT DISTINCT a.id, a.course_id, a.school_id, a.title, a.description, a.due_date, a.created_at, a.updated_at,
        c.name AS course_name
        FROM assignments a
        JOIN courses c ON c.id = a.course_id
        JOIN student_courses sc ON sc.course_id = c.id
        WHERE sc.student_id IN (?)`
	query, inArgs, err := sqlx.In(query, studentIDs)
	if err != nil {
		return nil, fmt.Errorf("expand student ids: %w", err)
	}
	query = r.db.Rebind(query)

	var cond string
	cond, inArgs = schoolScope("a.school_id", schoolID, inArgs)
	query += cond + " ORDER BY a.due_date DESC"

	var assignments []models.AssignmentDetail
	if err := r.db.SelectContext(ctx, &assignments, query, inArgs...); err != nil {
		return nil, fmt.Errorf("list assignments for students: %w", err)
	}
	return assignments, nil
}

// Delete removes an assignment within the caller's school scope.
func (r *AssignmentRepository) Delete(ctx context.Context, id string, schoolID *string) error {
	query := `DELETE FROM assignments WHERE id = $1`
	args := []interface{}{id}
	var cond string
	cond, args = schoolScope("school_id", schoolID, args)
	query += cond

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
