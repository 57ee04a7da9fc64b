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

// LessonPlanRepository manages persistence for lesson plans and their
// review lifecycle.
type LessonPlanRepository struct {
	db *sqlx.DB
}

// NewLessonPlanRepository constructs a LessonPlanRepository.
func NewLessonPlanRepository(db *sqlx.DB) *LessonPlanRepository {
	return &LessonPlanRepository{db: db}
}

const planColumns = `id, teacher_id, school_id, title, objective, materials, activities, status, rejection_reason, decided_by, decided_at, submitted_at`

// Create inserts a new lesson plan in pending state.
func (r *LessonPlanRepository) Create(ctx context.Context, plan *models.LessonPlan) error {
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	if plan.Status == "" {
		plan.Status = models.PlanStatusPending
	}
	if plan.SubmittedAt.IsZero() {
		plan.SubmittedAt = time.Now().UTC()
	}
	const query = `INSERT INTO lesson_plans (id, teacher_id, school_id, title, objective, materials, activities, status, submitted_at)
        VALUES (:id, :teacher_id, :school_id, :title, :objective, :materials, :activities, :status, :submitted_at)`
	if _, err := r.db.NamedExecContext(ctx, query, plan); err != nil {
		return fmt.Errorf("create lesson plan: %w", err)
	}
	return nil
}

// ListPendingBySchool returns pending plans for the reviewer's school,
// newest submission first. A nil school scopes to legacy rows with no
// school reference.
func (r *LessonPlanRepository) ListPendingBySchool(ctx context.Context, schoolID *string) ([]models.LessonPlanDetail, error) {
	query := `SELECT p.id, p.teacher_id, p.school_id, p.title, p.objective, p.materials, p.activities, p.status,
        p.rejection_reason, p.decided_by, p.decided_at, p.submitted_at, u.full_name AS teacher_name
        FROM lesson_plans p
        JOIN users u ON u.id = p.teacher_id
        WHERE p.status = $1`
	args := []interface{}{models.PlanStatusPending}
	if schoolID != nil {
		query += " AND p.school_id = $2"
		args = append(args, *schoolID)
	} else {
		query += " AND p.school_id IS NULL"
	}
	query += " ORDER BY p.submitted_at DESC"

	var plans []models.LessonPlanDetail
	if err := r.db.SelectContext(ctx, &plans, query, args...); err != nil {
		return nil, fmt.Errorf("list pending lesson plans: %w", err)
	}
	return plans, nil
}

// ListByTeacher returns all plans authored by a teacher, newest first.
func (r *LessonPlanRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.LessonPlan, error) {
	query := fmt.Sprintf(`SELECT %s FROM lesson_plans WHERE teacher_id = $1 ORDER BY submitted_at DESC`, planColumns)
	var plans []models.LessonPlan
	if err := r.db.SelectContext(ctx, &plans, query, teacherID); err != nil {
		return nil, fmt.Errorf("list lesson plans by teacher: %w", err)
	}
	return plans, nil
}

// ListBySchool returns every plan in the reviewer's school regardless of
// status, newest first, capped at limit rows when limit is positive.
func (r *LessonPlanRepository) ListBySchool(ctx context.Context, schoolID *string, limit int) ([]models.LessonPlanDetail, error) {
	query := `SELECT p.id, p.teacher_id, p.school_id, p.title, p.objective, p.materials, p.activities, p.status,
        p.rejection_reason, p.decided_by, p.decided_at, p.submitted_at, u.full_name AS teacher_name
        FROM lesson_plans p
        JOIN users u ON u.id = p.teacher_id
        WHERE 1=1`
	var args []interface{}
	if schoolID != nil {
		query += fmt.Sprintf(" AND p.school_id = $%d", len(args)+1)
		args = append(args, *schoolID)
	} else {
		query += " AND p.school_id IS NULL"
	}
	query += " ORDER BY p.submitted_at DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	var plans []models.LessonPlanDetail
	if err := r.db.SelectContext(ctx, &plans, query, args...); err != nil {
		return nil, fmt.Errorf("list lesson plans by school: %w", err)
	}
	return plans, nil
}

// Decide applies a reviewer's verdict with a school-scoped update: the
// plan must live in the reviewer's school or the update touches zero rows
// and sql.ErrNoRows comes back. Re-deciding a terminal plan is allowed;
// the rejection reason is cleared on approval. Concurrent reviewers are
// deliberately last-write-wins.
func (r *LessonPlanRepository) Decide(ctx context.Context, planID string, schoolID *string, status models.PlanStatus, reason *string, reviewerID string, decidedAt time.Time) (*models.LessonPlan, error) {
	query := `UPDATE lesson_plans
        SET status = $2, rejection_reason = $3, decided_by = $4, decided_at = $5
        WHERE id = $1`
	args := []interface{}{planID, status, reason, reviewerID, decidedAt}
	if schoolID != nil {
		query += fmt.Sprintf(" AND school_id = $%d", len(args)+1)
		args = append(args, *schoolID)
	} else {
		query += " AND school_id IS NULL"
	}
	query += fmt.Sprintf(" RETURNING %s", planColumns)

	var plan models.LessonPlan
	if err := r.db.GetContext(ctx, &plan, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("decide lesson plan: %w", err)
	}
	return &plan, nil
}

// CountByStatus returns the number of plans in a given status, optionally
// limited to a school scope.
func (r *LessonPlanRepository) CountByStatus(ctx context.Context, schoolID *string, status models.PlanStatus) (int, error) {
	query := `SELECT COUNT(*) FROM lesson_plans WHERE status = $1`
	args := []interface{}{status}
	if schoolID != nil {
		query += " AND school_id = $2"
		args = append(args, *schoolID)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("count lesson plans: %w", err)
	}
	return total, nil
}

// CountAll returns the total number of lesson plans.
func (r *LessonPlanRepository) CountAll(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM lesson_plans`
	var total int
	if err := r.db.GetContext(ctx, &total, query); err != nil {
		return 0, fmt.Errorf("count all lesson plans: %w", err)
	}
	return total, nil
}
