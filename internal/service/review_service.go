package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schoolhub-ng/schoolhub-api/internal/models"
	appErrors "github.com/schoolhub-ng/schoolhub-api/pkg/errors"
)

type reviewPlanRepository interface {
	ListPendingBySchool(ctx context.Context, schoolID *string) ([]models.LessonPlanDetail, error)
	ListBySchool(ctx context.Context, schoolID *string, limit int) ([]models.LessonPlanDetail, error)
	Decide(ctx context.Context, planID string, schoolID *string, status models.PlanStatus, reason *string, reviewerID string, decidedAt time.Time) (*models.LessonPlan, error)
}

// ReviewService covers the head teacher's approval workflow: the pending
// queue and the approve/reject decision.
type ReviewService struct {
	plans     reviewPlanRepository
	audit     auditWriter
	dashboard *DashboardService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewReviewService constructs a ReviewService.
func NewReviewService(plans reviewPlanRepository, audit auditWriter, dashboard *DashboardService, validate *validator.Validate, logger *zap.Logger) *ReviewService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewService{plans: plans, audit: audit, dashboard: dashboard, validator: validate, logger: logger}
}

// ListPending returns the pending plans awaiting the reviewer, scoped to
// the reviewer's school.
func (s *ReviewService) ListPending(ctx context.Context, claims *models.JWTClaims) ([]models.LessonPlanDetail, error) {
	if claims.Role != models.RoleHeadTeacher {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "reviewing lesson plans requires the head teacher role")
	}
	pending, err := s.plans.ListPendingBySchool(ctx, claims.SchoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pending plans")
	}
	return pending, nil
}

// ListAll returns every plan in the reviewer's school regardless of
// status. Used by the export endpoints.
func (s *ReviewService) ListAll(ctx context.Context, claims *models.JWTClaims, limit int) ([]models.LessonPlanDetail, error) {
	if claims.Role != models.RoleHeadTeacher {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "reviewing lesson plans requires the head teacher role")
	}
	plans, err := s.plans.ListBySchool(ctx, claims.SchoolID, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list plans")
	}
	return plans, nil
}

// Decide applies an approve or reject verdict to a plan in the
// reviewer's school. A plan outside the reviewer's school is
// indistinguishable from a missing one and reports NOT_FOUND. The
// rejection reason is stored only when rejecting.
func (s *ReviewService) Decide(ctx context.Context, claims *models.JWTClaims, planID string, req models.DecideLessonPlanRequest) (*models.DecisionResult, error) {
	if claims.Role != models.RoleHeadTeacher {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "deciding lesson plans requires the head teacher role")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid decision payload")
	}

	decision := models.Decision(req.Decision)
	status := decision.Status()

	var reason *string
	if decision == models.DecisionReject && req.Reason != "" {
		reason = &req.Reason
	}

	decidedAt := time.Now().UTC()
	plan, err := s.plans.Decide(ctx, planID, claims.SchoolID, status, reason, claims.UserID, decidedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson plan not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decide lesson plan")
	}

	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &claims.UserID,
		Action:     models.AuditActionPlanDecision,
		Resource:   "lesson_plan",
		ResourceID: &plan.ID,
		NewValues:  []byte(fmt.Sprintf(`{"status":%q}`, plan.Status)),
	}); err != nil {
		s.logger.Warn("failed to record decision audit log", zap.Error(err))
	}

	// The author's and reviewer's dashboards both show stale counts now.
	s.dashboard.InvalidateSchool(ctx, plan.SchoolID)

	verb := "approved"
	if status == models.PlanStatusRejected {
		verb = "rejected"
	}
	return &models.DecisionResult{
		PlanID:   plan.ID,
		Title:    plan.Title,
		Status:   plan.Status,
		Message:  fmt.Sprintf("Lesson plan %q %s", plan.Title, verb),
		Decided:  decidedAt,
		Reviewer: claims.FullName,
	}, nil
}
