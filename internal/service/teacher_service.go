package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schoolhub-ng/schoolhub-api/internal/models"
	appErrors "github.com/schoolhub-ng/schoolhub-api/pkg/errors"
)

type teacherProfileRepository interface {
	TeacherProfileByUserID(ctx context.Context, userID string) (*models.TeacherProfile, error)
	UpdateCoursesTaught(ctx context.Context, userID, coursesTaught string) error
}

type lessonPlanWriter interface {
	Create(ctx context.Context, plan *models.LessonPlan) error
	ListByTeacher(ctx context.Context, teacherID string) ([]models.LessonPlan, error)
}

type auditWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// TeacherService covers the teacher-facing profile and lesson-plan
// authoring operations.
type TeacherService struct {
	profiles  teacherProfileRepository
	plans     lessonPlanWriter
	audit     auditWriter
	dashboard *DashboardService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(profiles teacherProfileRepository, plans lessonPlanWriter, audit auditWriter, dashboard *DashboardService, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{profiles: profiles, plans: plans, audit: audit, dashboard: dashboard, validator: validate, logger: logger}
}

// Profile returns the caller's teacher binding.
func (s *TeacherService) Profile(ctx context.Context, claims *models.JWTClaims) (*models.TeacherProfile, error) {
	if claims.Role != models.RoleTeacher {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "teacher profile requires the teacher role")
	}
	profile, err := s.profiles.TeacherProfileByUserID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrProfileNotFound, "teacher profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher profile")
	}
	return profile, nil
}

// UpdateCoursesTaught overwrites the caller's free-text course list.
// Calling it twice with the same list is a no-op the second time.
func (s *TeacherService) UpdateCoursesTaught(ctx context.Context, claims *models.JWTClaims, req models.UpdateCoursesTaughtRequest) (*models.TeacherProfile, error) {
	if claims.Role != models.RoleTeacher {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "updating courses requires the teacher role")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid courses payload")
	}

	if err := s.profiles.UpdateCoursesTaught(ctx, claims.UserID, req.CoursesTaught); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrProfileNotFound, "teacher profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update courses")
	}

	return s.Profile(ctx, claims)
}

// SubmitLessonPlan creates a pending plan bound to the teacher's school.
// Once submitted the teacher has no mutation path; only a reviewer's
// decision changes the plan.
func (s *TeacherService) SubmitLessonPlan(ctx context.Context, claims *models.JWTClaims, req models.SubmitLessonPlanRequest) (*models.LessonPlan, error) {
	if claims.Role != models.RoleTeacher {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "submitting lesson plans requires the teacher role")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lesson plan payload")
	}

	profile, err := s.profiles.TeacherProfileByUserID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrProfileNotFound, "teacher profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher profile")
	}

	plan := &models.LessonPlan{
		TeacherID:  claims.UserID,
		SchoolID:   profile.SchoolID,
		Title:      req.Title,
		Objective:  req.Objective,
		Materials:  req.Materials,
		Activities: req.Activities,
		Status:     models.PlanStatusPending,
	}
	if err := s.plans.Create(ctx, plan); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create lesson plan")
	}

	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &claims.UserID,
		Action:     models.AuditActionPlanSubmit,
		Resource:   "lesson_plan",
		ResourceID: &plan.ID,
		NewValues:  []byte(`{"status":"PENDING"}`),
	}); err != nil {
		s.logger.Warn("failed to record submission audit log", zap.Error(err))
	}

	// Reviewers in the same school should see the new plan right away.
	s.dashboard.InvalidateSchool(ctx, plan.SchoolID)

	return plan, nil
}

// MyLessonPlans lists the caller's submitted plans with their review
// state, newest first.
func (s *TeacherService) MyLessonPlans(ctx context.Context, claims *models.JWTClaims) ([]models.LessonPlan, error) {
	if claims.Role != models.RoleTeacher {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "listing lesson plans requires the teacher role")
	}
	plans, err := s.plans.ListByTeacher(ctx, claims.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lesson plans")
	}
	return plans, nil
}
