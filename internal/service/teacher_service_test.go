package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schoolhub-ng/schoolhub-api/internal/models"
	appErrors "github.com/schoolhub-ng/schoolhub-api/pkg/errors"
)

type mockAuditWriter struct {
	logs []*models.AuditLog
}

func (m *mockAuditWriter) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.logs = append(m.logs, log)
	return nil
}

func newTeacherService(profiles *mockProfileRepo, plans *mockPlanRepo, audit *mockAuditWriter) *TeacherService {
	dashboard := newDashboardService(plans, profiles, &mockAssignmentRepo{})
	return NewTeacherService(profiles, plans, audit, dashboard, nil, zap.NewNop())
}

func TestSubmitLessonPlanBindsTeacherSchool(t *testing.T) {
	schoolID := "s1"
	profiles := &mockProfileRepo{teacherProfile: &models.TeacherProfile{ID: "tp1", UserID: "t1", SchoolID: &schoolID}}
	plans := &mockPlanRepo{}
	audit := &mockAuditWriter{}
	svc := newTeacherService(profiles, plans, audit)

	plan, err := svc.SubmitLessonPlan(context.Background(), teacherClaims(&schoolID), models.SubmitLessonPlanRequest{
		Title:     "Fractions",
		Objective: "Understand halves and quarters",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PlanStatusPending, plan.Status)
	require.NotNil(t, plan.SchoolID)
	assert.Equal(t, schoolID, *plan.SchoolID)
	assert.Equal(t, "t1", plan.TeacherID)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionPlanSubmit, audit.logs[0].Action)
}

func TestSubmitLessonPlanWithoutProfile(t *testing.T) {
	profiles := &mockProfileRepo{teacherErr: sql.ErrNoRows}
	svc := newTeacherService(profiles, &mockPlanRepo{}, &mockAuditWriter{})

	_, err := svc.SubmitLessonPlan(context.Background(), teacherClaims(nil), models.SubmitLessonPlanRequest{
		Title:     "Fractions",
		Objective: "Understand halves",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrProfileNotFound.Code, appErrors.FromError(err).Code)
}

func TestSubmitLessonPlanRequiresTeacherRole(t *testing.T) {
	svc := newTeacherService(&mockProfileRepo{}, &mockPlanRepo{}, &mockAuditWriter{})

	_, err := svc.SubmitLessonPlan(context.Background(), &models.JWTClaims{UserID: "h1", Role: models.RoleHeadTeacher}, models.SubmitLessonPlanRequest{
		Title:     "Fractions",
		Objective: "Understand halves",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestSubmitLessonPlanValidatesPayload(t *testing.T) {
	schoolID := "s1"
	profiles := &mockProfileRepo{teacherProfile: &models.TeacherProfile{ID: "tp1", UserID: "t1", SchoolID: &schoolID}}
	svc := newTeacherService(profiles, &mockPlanRepo{}, &mockAuditWriter{})

	_, err := svc.SubmitLessonPlan(context.Background(), teacherClaims(&schoolID), models.SubmitLessonPlanRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUpdateCoursesTaughtIsIdempotent(t *testing.T) {
	schoolID := "s1"
	profiles := &mockProfileRepo{teacherProfile: &models.TeacherProfile{ID: "tp1", UserID: "t1", SchoolID: &schoolID}}
	svc := newTeacherService(profiles, &mockPlanRepo{}, &mockAuditWriter{})

	req := models.UpdateCoursesTaughtRequest{CoursesTaught: "Math, Science"}
	first, err := svc.UpdateCoursesTaught(context.Background(), teacherClaims(&schoolID), req)
	require.NoError(t, err)
	second, err := svc.UpdateCoursesTaught(context.Background(), teacherClaims(&schoolID), req)
	require.NoError(t, err)
	assert.Equal(t, first.CoursesTaught, second.CoursesTaught)
	assert.Equal(t, "Math, Science", profiles.coursesTaught)
}

func TestUpdateCoursesTaughtWithoutProfile(t *testing.T) {
	profiles := &mockProfileRepo{updateErr: sql.ErrNoRows}
	svc := newTeacherService(profiles, &mockPlanRepo{}, &mockAuditWriter{})

	_, err := svc.UpdateCoursesTaught(context.Background(), teacherClaims(nil), models.UpdateCoursesTaughtRequest{CoursesTaught: "Math"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrProfileNotFound.Code, appErrors.FromError(err).Code)
}

func TestMyLessonPlansRequiresTeacherRole(t *testing.T) {
	svc := newTeacherService(&mockProfileRepo{}, &mockPlanRepo{}, &mockAuditWriter{})

	_, err := svc.MyLessonPlans(context.Background(), &models.JWTClaims{UserID: "par1", Role: models.RoleParent})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
