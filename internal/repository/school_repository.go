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

// SchoolRepository manages tenant records.
type SchoolRepository struct {
	db *sqlx.DB
}

// NewSchoolRepository constructs a SchoolRepository.
func NewSchoolRepository(db *sqlx.DB) *SchoolRepository {
	return &SchoolRepository{db: db}
}

// Create inserts a new school.
func (r *SchoolRepository) Create(ctx context.Context, school *models.School) error {
	if school.ID == "" {
		school.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if school.CreatedAt.IsZero() {
		school.CreatedAt = now
	}
	school.UpdatedAt = now
	const query = `INSERT INTO schools (id, name, proprietor, created_at, updated_at)
        VALUES (:id, :name, :proprietor, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, school); err != nil {
		return fmt.Errorf("create school: %w", err)
	}
	return nil
}

// List returns all schools ordered by name.
func (r *SchoolRepository) List(ctx context.Context) ([]models.School, error) {
	const query = `SELECT id, name, proprietor, created_at, updated_at FROM schools ORDER BY name ASC`
	var schools []models.School
	if err := r.db.SelectContext(ctx, &schools, query); err != nil {
		return nil, fmt.Errorf("list schools: %w", err)
	}
	return schools, nil
}

// FindByID fetches a school by identifier.
func (r *SchoolRepository) FindByID(ctx context.Context, id string) (*models.School, error) {
	const query = `SELECT id, name, proprietor, created_at, updated_at FROM schools WHERE id = $1 LIMIT 1`
	var school models.School
	if err := r.db.GetContext(ctx, &school, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find school: %w", err)
	}
	return &school, nil
}

// Delete removes a school. Every school-scoped row (students, courses,
// clubs, assignments, lesson plans, profile bindings) goes with it via
// ON DELETE CASCADE; nothing is re-homed to another school.
func (r *SchoolRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM schools WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete school: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Count returns the number of schools.
func (r *SchoolRepository) Count(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM schools`
	var total int
	if err := r.db.GetContext(ctx, &total, query); err != nil {
		return 0, fmt.Errorf("count schools: %w", err)
	}
	return total, nil
}
