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

// ClubRepository manages persistence for clubs.
type ClubRepository struct {
	db *sqlx.DB
}

// NewClubRepository constructs a ClubRepository.
func NewClubRepository(db *sqlx.DB) *ClubRepository {
	return &ClubRepository{db: db}
}

const clubColumns = `id, school_id, name, description, created_at, updated_at`

// List returns clubs visible to the caller's school scope.
func (r *ClubRepository) List(ctx context.Context, schoolID *string) ([]models.Club, error) {
	query := fmt.Sprintf(`SELECT %s FROM clubs WHERE 1=1`, clubColumns)
	var args []interface{}
	var cond string
	cond, args = schoolScope("school_id", schoolID, args)
	query += cond + " ORDER BY name ASC"

	var clubs []models.Club
	if err := r.db.SelectContext(ctx, &clubs, query, args...); err != nil {
		return nil, fmt.Errorf("list clubs: %w", err)
	}
	return clubs, nil
}

// FindByID returns a club within the caller's school scope.
func (r *ClubRepository) FindByID(ctx context.Context, id string, schoolID *string) (*models.Club, error) {
	query := fmt.Sprintf(`SELECT %s FROM clubs WHERE id = $1`, clubColumns)
	args := []interface{}{id}
	var cond string
	cond, args = schoolScope("school_id", schoolID, args)
	query += cond + " LIMIT 1"

	var club models.Club
	if err := r.db.GetContext(ctx, &club, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find club by id: %w", err)
	}
	return &club, nil
}

// Create inserts a new club.
func (r *ClubRepository) Create(ctx context.Context, club *models.Club) error {
	if club.ID == "" {
		club.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if club.CreatedAt.IsZero() {
		club.CreatedAt = now
	}
	club.UpdatedAt = now
	const query = `INSERT INTO clubs (id, school_id, name, description, created_at, updated_at)
        VALUES (:id, :school_id, :name, :description, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, club); err != nil {
		return fmt.Errorf("create club: %w", err)
	}
	return nil
}

// Members returns the students belonging to a club inside the caller's
// school scope.
func (r *ClubRepository) Members(ctx context.Context, clubID string, schoolID *string) ([]models.Student, error) {
	query := `SELECT s.id, s.school_id, s.name, s.grade_label, s.attendance, s.grades, s.behavior_notes, s.created_at, s.updated_at
        FROM students s
        JOIN student_clubs sc ON sc.student_id = s.id
        WHERE sc.club_id = $1`
	args := []interface{}{clubID}
	var cond string
	cond, args = schoolScope("s.school_id", schoolID, args)
	query += cond + " ORDER BY s.name ASC"

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("list club members: %w", err)
	}
	return students, nil
}

// Delete removes a club within the caller's school scope.
func (r *ClubRepository) Delete(ctx context.Context, id string, schoolID *string) error {
	query := `DELETE FROM clubs WHERE id = $1`
	args := []interface{}{id}
	var cond string
	cond, args = schoolScope("school_id", schoolID, args)
	query += cond

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete club: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
