package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schoolhub-ng/schoolhub-api/internal/models"
	appErrors "github.com/schoolhub-ng/schoolhub-api/pkg/errors"
)

type mockPlanRepo struct {
	pending      []models.LessonPlanDetail
	byTeacher    []models.LessonPlan
	bySchool     []models.LessonPlanDetail
	decided      *models.LessonPlan
	decideErr    error
	createdPlans []*models.LessonPlan
	createErr    error
	countPending int
	countTotal   int
	lastSchoolID *string
}

func (m *mockPlanRepo) ListPendingBySchool(ctx context.Context, schoolID *string) ([]models.LessonPlanDetail, error) {
	m.lastSchoolID = schoolID
	return m.pending, nil
}

func (m *mockPlanRepo) ListByTeacher(ctx context.Context, teacherID string) ([]models.LessonPlan, error) {
	return m.byTeacher, nil
}

func (m *mockPlanRepo) ListBySchool(ctx context.Context, schoolID *string, limit int) ([]models.LessonPlanDetail, error) {
	m.lastSchoolID = schoolID
	if limit > 0 && limit < len(m.bySchool) {
		return m.bySchool[:limit], nil
	}
	return m.bySchool, nil
}

func (m *mockPlanRepo) Create(ctx context.Context, plan *models.LessonPlan) error {
	if m.createErr != nil {
		return m.createErr
	}
	if plan.ID == "" {
		plan.ID = "p-new"
	}
	m.createdPlans = append(m.createdPlans, plan)
	return nil
}

func (m *mockPlanRepo) Decide(ctx context.Context, planID string, schoolID *string, status models.PlanStatus, reason *string, reviewerID string, decidedAt time.Time) (*models.LessonPlan, error) {
	if m.decideErr != nil {
		return nil, m.decideErr
	}
	plan := *m.decided
	plan.Status = status
	plan.RejectionReason = reason
	plan.DecidedBy = &reviewerID
	plan.DecidedAt = &decidedAt
	return &plan, nil
}

func (m *mockPlanRepo) CountByStatus(ctx context.Context, schoolID *string, status models.PlanStatus) (int, error) {
	return m.countPending, nil
}

func (m *mockPlanRepo) CountAll(ctx context.Context) (int, error) {
	return m.countTotal, nil
}

type mockProfileRepo struct {
	teacherProfile *models.TeacherProfile
	teacherErr     error
	parentProfile  *models.ParentProfile
	parentErr      error
	children       []models.Student
	attached       [][2]string
	detached       [][2]string
	coursesTaught  string
	updateErr      error
}

func (m *mockProfileRepo) TeacherProfileByUserID(ctx context.Context, userID string) (*models.TeacherProfile, error) {
	if m.teacherErr != nil {
		return nil, m.teacherErr
	}
	return m.teacherProfile, nil
}

func (m *mockProfileRepo) UpdateCoursesTaught(ctx context.Context, userID, coursesTaught string) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.coursesTaught = coursesTaught
	if m.teacherProfile != nil {
		m.teacherProfile.CoursesTaught = coursesTaught
	}
	return nil
}

func (m *mockProfileRepo) ParentProfileByUserID(ctx context.Context, userID string) (*models.ParentProfile, error) {
	if m.parentErr != nil {
		return nil, m.parentErr
	}
	return m.parentProfile, nil
}

func (m *mockProfileRepo) Children(ctx context.Context, parentProfileID string, schoolID *string) ([]models.Student, error) {
	return m.children, nil
}

func (m *mockProfileRepo) AttachStudent(ctx context.Context, parentProfileID, studentID string) error {
	m.attached = append(m.attached, [2]string{parentProfileID, studentID})
	return nil
}

func (m *mockProfileRepo) DetachStudent(ctx context.Context, parentProfileID, studentID string) error {
	m.detached = append(m.detached, [2]string{parentProfileID, studentID})
	return nil
}

type mockAssignmentRepo struct {
	forStudents []models.AssignmentDetail
	lastIDs     []string
}

func (m *mockAssignmentRepo) ListForStudents(ctx context.Context, studentIDs []string, schoolID *string) ([]models.AssignmentDetail, error) {
	m.lastIDs = studentIDs
	if len(studentIDs) == 0 {
		return nil, nil
	}
	return m.forStudents, nil
}

type mockRoleCounter struct{ teachers int }

func (m *mockRoleCounter) CountByRole(ctx context.Context, role models.Role) (int, error) {
	return m.teachers, nil
}

type mockCounter struct{ total int }

func (m *mockCounter) Count(ctx context.Context) (int, error) {
	return m.total, nil
}

func disabledCache() *CacheService {
	return NewCacheService(nil, nil, time.Minute, zap.NewNop(), false)
}

type memoryCacheRepo struct {
	entries  map[string][]byte
	patterns []string
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: map[string][]byte{}}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.patterns = append(m.patterns, pattern)
	for key := range m.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(m.entries, key)
		}
	}
	return nil
}

func newDashboardService(plans *mockPlanRepo, profiles *mockProfileRepo, assignments *mockAssignmentRepo) *DashboardService {
	return NewDashboardService(plans, profiles, assignments, &mockRoleCounter{teachers: 5}, &mockCounter{total: 2}, &mockCounter{total: 40}, disabledCache(), zap.NewNop())
}

func teacherClaims(schoolID *string) *models.JWTClaims {
	return &models.JWTClaims{UserID: "t1", Username: "amaka", Role: models.RoleTeacher, SchoolID: schoolID, FullName: "Amaka Obi"}
}

func TestRouteForPriorityOrder(t *testing.T) {
	svc := newDashboardService(&mockPlanRepo{}, &mockProfileRepo{}, &mockAssignmentRepo{})

	cases := []struct {
		role  models.Role
		route string
	}{
		{models.RoleProprietor, models.DashboardProprietor},
		{models.RoleHeadTeacher, models.DashboardHeadTeacher},
		{models.RoleViceAdmin, models.DashboardVice},
		{models.RoleViceAcademics, models.DashboardVice},
		{models.RoleTeacher, models.DashboardTeacher},
		{models.RoleParent, models.DashboardParent},
		{models.Role("GHOST"), models.DashboardHome},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.route, svc.RouteFor(tc.role), "role %s", tc.role)
	}
}

func TestResolveCarriesUserInfo(t *testing.T) {
	svc := newDashboardService(&mockPlanRepo{}, &mockProfileRepo{}, &mockAssignmentRepo{})
	schoolID := "s1"

	route := svc.Resolve(teacherClaims(&schoolID))
	assert.Equal(t, models.DashboardTeacher, route.Route)
	assert.Equal(t, "t1", route.User.ID)
	assert.Equal(t, &schoolID, route.User.SchoolID)
}

func TestTeacherDashboardCountsByStatus(t *testing.T) {
	schoolID := "s1"
	profiles := &mockProfileRepo{teacherProfile: &models.TeacherProfile{ID: "tp1", UserID: "t1", SchoolID: &schoolID, CoursesTaught: "Math, Science"}}
	plans := &mockPlanRepo{byTeacher: []models.LessonPlan{
		{ID: "p1", Status: models.PlanStatusPending},
		{ID: "p2", Status: models.PlanStatusApproved},
		{ID: "p3", Status: models.PlanStatusApproved},
		{ID: "p4", Status: models.PlanStatusRejected},
	}}
	svc := newDashboardService(plans, profiles, &mockAssignmentRepo{})

	dashboard, err := svc.TeacherDashboard(context.Background(), teacherClaims(&schoolID))
	require.NoError(t, err)
	assert.Equal(t, "Math, Science", dashboard.CoursesTaught)
	assert.Equal(t, 1, dashboard.PendingCount)
	assert.Equal(t, 2, dashboard.ApprovedCount)
	assert.Equal(t, 1, dashboard.RejectedCount)
}

func TestTeacherDashboardForbiddenForOtherRoles(t *testing.T) {
	svc := newDashboardService(&mockPlanRepo{}, &mockProfileRepo{}, &mockAssignmentRepo{})

	_, err := svc.TeacherDashboard(context.Background(), &models.JWTClaims{UserID: "u1", Role: models.RoleParent})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestTeacherDashboardMissingProfile(t *testing.T) {
	profiles := &mockProfileRepo{teacherErr: sql.ErrNoRows}
	svc := newDashboardService(&mockPlanRepo{}, profiles, &mockAssignmentRepo{})

	_, err := svc.TeacherDashboard(context.Background(), teacherClaims(nil))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrProfileNotFound.Code, appErrors.FromError(err).Code)
}

func TestHeadTeacherDashboardUsesReviewerSchool(t *testing.T) {
	schoolID := "s1"
	plans := &mockPlanRepo{pending: []models.LessonPlanDetail{{LessonPlan: models.LessonPlan{ID: "p1"}, TeacherName: "Amaka Obi"}}}
	svc := newDashboardService(plans, &mockProfileRepo{}, &mockAssignmentRepo{})

	dashboard, err := svc.HeadTeacherDashboard(context.Background(), &models.JWTClaims{UserID: "h1", Role: models.RoleHeadTeacher, SchoolID: &schoolID})
	require.NoError(t, err)
	assert.Equal(t, 1, dashboard.PendingCount)
	require.NotNil(t, plans.lastSchoolID)
	assert.Equal(t, schoolID, *plans.lastSchoolID)
}

func TestParentDashboardEmptyChildren(t *testing.T) {
	profiles := &mockProfileRepo{parentProfile: &models.ParentProfile{ID: "pp1", UserID: "par1"}}
	assignments := &mockAssignmentRepo{}
	svc := newDashboardService(&mockPlanRepo{}, profiles, assignments)

	dashboard, err := svc.ParentDashboard(context.Background(), &models.JWTClaims{UserID: "par1", Role: models.RoleParent})
	require.NoError(t, err)
	assert.Empty(t, dashboard.Students)
	assert.Empty(t, dashboard.Assignments)
}

func TestOverviewAllowsViceRoles(t *testing.T) {
	plans := &mockPlanRepo{countPending: 3, countTotal: 10}
	svc := newDashboardService(plans, &mockProfileRepo{}, &mockAssignmentRepo{})

	dashboard, err := svc.Overview(context.Background(), &models.JWTClaims{UserID: "v1", Role: models.RoleViceAcademics})
	require.NoError(t, err)
	assert.Equal(t, 2, dashboard.Schools)
	assert.Equal(t, 40, dashboard.Students)
	assert.Equal(t, 5, dashboard.Teachers)
	assert.Equal(t, 10, dashboard.LessonPlans)
	assert.Equal(t, 3, dashboard.PendingPlans)
}

func TestOverviewCacheSurvivesSchoolScopedInvalidation(t *testing.T) {
	repo := newMemoryCacheRepo()
	cache := NewCacheService(repo, nil, time.Minute, zap.NewNop(), true)
	schools := &mockCounter{total: 2}
	svc := NewDashboardService(&mockPlanRepo{countPending: 3, countTotal: 10}, &mockProfileRepo{}, &mockAssignmentRepo{}, &mockRoleCounter{teachers: 5}, schools, &mockCounter{total: 40}, cache, zap.NewNop())

	claims := &models.JWTClaims{UserID: "pr1", Role: models.RoleProprietor}
	first, err := svc.Overview(context.Background(), claims)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Schools)

	// A change inside school s1 only clears school-scoped entries; the
	// global overview stays until its TTL runs out.
	schoolID := "s1"
	svc.InvalidateSchool(context.Background(), &schoolID)
	schools.total = 3

	stale, err := svc.Overview(context.Background(), claims)
	require.NoError(t, err)
	assert.Equal(t, 2, stale.Schools)
	assert.Contains(t, repo.patterns, "dashboard:*:s1:*")

	// An unscoped change clears the global cohort and the next read is
	// fresh.
	svc.InvalidateSchool(context.Background(), nil)
	fresh, err := svc.Overview(context.Background(), claims)
	require.NoError(t, err)
	assert.Equal(t, 3, fresh.Schools)
}

func TestOverviewForbiddenForTeacher(t *testing.T) {
	svc := newDashboardService(&mockPlanRepo{}, &mockProfileRepo{}, &mockAssignmentRepo{})

	_, err := svc.Overview(context.Background(), teacherClaims(nil))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
