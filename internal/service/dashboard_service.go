package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/schoolhub-ng/schoolhub-api/internal/models"
	appErrors "github.com/schoolhub-ng/schoolhub-api/pkg/errors"
)

type planDashboardRepository interface {
	ListPendingBySchool(ctx context.Context, schoolID *string) ([]models.LessonPlanDetail, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.LessonPlan, error)
	CountByStatus(ctx context.Context, schoolID *string, status models.PlanStatus) (int, error)
	CountAll(ctx context.Context) (int, error)
}

type profileDashboardRepository interface {
	TeacherProfileByUserID(ctx context.Context, userID string) (*models.TeacherProfile, error)
	ParentProfileByUserID(ctx context.Context, userID string) (*models.ParentProfile, error)
	Children(ctx context.Context, parentProfileID string, schoolID *string) ([]models.Student, error)
}

type assignmentDashboardRepository interface {
	ListForStudents(ctx context.Context, studentIDs []string, schoolID *string) ([]models.AssignmentDetail, error)
}

type roleCounter interface {
	CountByRole(ctx context.Context, role models.Role) (int, error)
}

type schoolCounter interface {
	Count(ctx context.Context) (int, error)
}

type studentCounter interface {
	Count(ctx context.Context) (int, error)
}

// DashboardService resolves the landing route for a role and composes the
// role-specific dashboard payloads.
type DashboardService struct {
	plans       planDashboardRepository
	profiles    profileDashboardRepository
	assignments assignmentDashboardRepository
	users       roleCounter
	schools     schoolCounter
	students    studentCounter
	cache       *CacheService
	logger      *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(plans planDashboardRepository, profiles profileDashboardRepository, assignments assignmentDashboardRepository, users roleCounter, schools schoolCounter, students studentCounter, cache *CacheService, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{plans: plans, profiles: profiles, assignments: assignments, users: users, schools: schools, students: students, cache: cache, logger: logger}
}

// RouteFor maps a role onto its dashboard route. The order of the cases
// is the resolution priority and must stay exactly as written: proprietor
// wins over head teacher, the vice roles share one dashboard, and anything
// unrecognised falls back to the home view.
func (s *DashboardService) RouteFor(role models.Role) string {
	switch role {
	case models.RoleProprietor:
		return models.DashboardProprietor
	case models.RoleHeadTeacher:
		return models.DashboardHeadTeacher
	case models.RoleViceAdmin, models.RoleViceAcademics:
		return models.DashboardVice
	case models.RoleTeacher:
		return models.DashboardTeacher
	case models.RoleParent:
		return models.DashboardParent
	default:
		return models.DashboardHome
	}
}

// Resolve returns the dashboard route for the authenticated principal.
func (s *DashboardService) Resolve(claims *models.JWTClaims) models.DashboardRoute {
	return models.DashboardRoute{
		Route: s.RouteFor(claims.Role),
		User: models.UserInfo{
			ID:       claims.UserID,
			Username: claims.Username,
			FullName: claims.FullName,
			Role:     claims.Role,
			SchoolID: claims.SchoolID,
		},
	}
}

// TeacherDashboard summarises the caller's own lesson plans. Every role
// dashboard re-verifies membership even though the route is already
// guarded, so a direct request by a non-member fails with FORBIDDEN.
func (s *DashboardService) TeacherDashboard(ctx context.Context, claims *models.JWTClaims) (*models.TeacherDashboard, error) {
	if claims.Role != models.RoleTeacher {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "teacher dashboard requires the teacher role")
	}

	key := dashboardKey(claims)
	var cached models.TeacherDashboard
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	profile, err := s.profiles.TeacherProfileByUserID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrProfileNotFound, "teacher profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher profile")
	}

	plans, err := s.plans.ListByTeacher(ctx, claims.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson plans")
	}

	dashboard := &models.TeacherDashboard{
		CoursesTaught: profile.CoursesTaught,
		Plans:         plans,
	}
	for _, plan := range plans {
		switch plan.Status {
		case models.PlanStatusPending:
			dashboard.PendingCount++
		case models.PlanStatusApproved:
			dashboard.ApprovedCount++
		case models.PlanStatusRejected:
			dashboard.RejectedCount++
		}
	}

	s.cache.Set(ctx, key, dashboard)
	return dashboard, nil
}

// HeadTeacherDashboard surfaces the pending review queue for the
// reviewer's school.
func (s *DashboardService) HeadTeacherDashboard(ctx context.Context, claims *models.JWTClaims) (*models.HeadTeacherDashboard, error) {
	if claims.Role != models.RoleHeadTeacher {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "head teacher dashboard requires the head teacher role")
	}

	key := dashboardKey(claims)
	var cached models.HeadTeacherDashboard
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	pending, err := s.plans.ListPendingBySchool(ctx, claims.SchoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load pending lesson plans")
	}

	dashboard := &models.HeadTeacherDashboard{
		PendingPlans: pending,
		PendingCount: len(pending),
	}
	s.cache.Set(ctx, key, dashboard)
	return dashboard, nil
}

// ParentDashboard surfaces the parent's children and their assignments.
func (s *DashboardService) ParentDashboard(ctx context.Context, claims *models.JWTClaims) (*models.ParentDashboard, error) {
	if claims.Role != models.RoleParent {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "parent dashboard requires the parent role")
	}

	key := dashboardKey(claims)
	var cached models.ParentDashboard
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	profile, err := s.profiles.ParentProfileByUserID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrProfileNotFound, "parent profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load parent profile")
	}

	students, err := s.profiles.Children(ctx, profile.ID, profile.SchoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load children")
	}

	studentIDs := make([]string, len(students))
	for i, student := range students {
		studentIDs[i] = student.ID
	}

	assignments, err := s.assignments.ListForStudents(ctx, studentIDs, profile.SchoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}

	dashboard := &models.ParentDashboard{Students: students, Assignments: assignments}
	s.cache.Set(ctx, key, dashboard)
	return dashboard, nil
}

// Overview returns tenant-level headcounts for the proprietor and vice
// dashboards. The vice roles have no modeled school scope, so the counts
// are global. The payload is cached under the caller's global key, which
// school-scoped invalidation does not touch, so the counts may lag a
// plan submission or decision by up to the cache TTL.
func (s *DashboardService) Overview(ctx context.Context, claims *models.JWTClaims) (*models.ProprietorDashboard, error) {
	switch claims.Role {
	case models.RoleProprietor, models.RoleViceAdmin, models.RoleViceAcademics:
	default:
		return nil, appErrors.Clone(appErrors.ErrForbidden, "overview requires a proprietor or vice role")
	}

	key := dashboardKey(claims)
	var cached models.ProprietorDashboard
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	schools, err := s.schools.Count(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count schools")
	}
	students, err := s.students.Count(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count students")
	}
	teachers, err := s.users.CountByRole(ctx, models.RoleTeacher)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count teachers")
	}
	plans, err := s.plans.CountAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count lesson plans")
	}
	pending, err := s.plans.CountByStatus(ctx, nil, models.PlanStatusPending)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count pending plans")
	}

	dashboard := &models.ProprietorDashboard{
		Schools:      schools,
		Students:     students,
		Teachers:     teachers,
		LessonPlans:  plans,
		PendingPlans: pending,
	}
	s.cache.Set(ctx, key, dashboard)
	return dashboard, nil
}

// InvalidateSchool drops every cached dashboard scoped to a school. Used
// after submissions and decisions so reviewers and teachers see fresh
// queues.
func (s *DashboardService) InvalidateSchool(ctx context.Context, schoolID *string) {
	s.cache.Invalidate(ctx, fmt.Sprintf("dashboard:*:%s:*", schoolPart(schoolID)))
}

func dashboardKey(claims *models.JWTClaims) string {
	return fmt.Sprintf("dashboard:%s:%s:%s", claims.Role, schoolPart(claims.SchoolID), claims.UserID)
}

func schoolPart(schoolID *string) string {
	if schoolID == nil {
		return "global"
	}
	return *schoolID
}
