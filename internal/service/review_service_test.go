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

func newReviewService(plans *mockPlanRepo, audit *mockAuditWriter) *ReviewService {
	dashboard := newDashboardService(plans, &mockProfileRepo{}, &mockAssignmentRepo{})
	return NewReviewService(plans, audit, dashboard, nil, zap.NewNop())
}

func reviewerClaims(schoolID *string) *models.JWTClaims {
	return &models.JWTClaims{UserID: "h1", Username: "ngozi", Role: models.RoleHeadTeacher, SchoolID: schoolID, FullName: "Ngozi Eze"}
}

func TestListPendingScopedToReviewerSchool(t *testing.T) {
	schoolID := "s1"
	plans := &mockPlanRepo{pending: []models.LessonPlanDetail{
		{LessonPlan: models.LessonPlan{ID: "p1", Title: "Fractions"}, TeacherName: "Amaka Obi"},
	}}
	svc := newReviewService(plans, &mockAuditWriter{})

	pending, err := svc.ListPending(context.Background(), reviewerClaims(&schoolID))
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.NotNil(t, plans.lastSchoolID)
	assert.Equal(t, schoolID, *plans.lastSchoolID)
}

func TestListPendingForbiddenForTeacher(t *testing.T) {
	svc := newReviewService(&mockPlanRepo{}, &mockAuditWriter{})

	_, err := svc.ListPending(context.Background(), teacherClaims(nil))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestDecideApprove(t *testing.T) {
	schoolID := "s1"
	plans := &mockPlanRepo{decided: &models.LessonPlan{ID: "p1", TeacherID: "t1", SchoolID: &schoolID, Title: "Fractions"}}
	audit := &mockAuditWriter{}
	svc := newReviewService(plans, audit)

	result, err := svc.Decide(context.Background(), reviewerClaims(&schoolID), "p1", models.DecideLessonPlanRequest{Decision: "approve"})
	require.NoError(t, err)
	assert.Equal(t, models.PlanStatusApproved, result.Status)
	assert.Equal(t, `Lesson plan "Fractions" approved`, result.Message)
	assert.Equal(t, "Ngozi Eze", result.Reviewer)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionPlanDecision, audit.logs[0].Action)
}

func TestDecideRejectStoresReason(t *testing.T) {
	schoolID := "s1"
	plans := &mockPlanRepo{decided: &models.LessonPlan{ID: "p1", TeacherID: "t1", SchoolID: &schoolID, Title: "Fractions"}}
	svc := newReviewService(plans, &mockAuditWriter{})

	result, err := svc.Decide(context.Background(), reviewerClaims(&schoolID), "p1", models.DecideLessonPlanRequest{
		Decision: "reject",
		Reason:   "needs measurable objectives",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PlanStatusRejected, result.Status)
	assert.Equal(t, `Lesson plan "Fractions" rejected`, result.Message)
}

func TestDecideApproveIgnoresReason(t *testing.T) {
	schoolID := "s1"
	plans := &mockPlanRepo{decided: &models.LessonPlan{ID: "p1", SchoolID: &schoolID, Title: "Fractions"}}
	svc := newReviewService(plans, &mockAuditWriter{})

	result, err := svc.Decide(context.Background(), reviewerClaims(&schoolID), "p1", models.DecideLessonPlanRequest{
		Decision: "approve",
		Reason:   "great plan",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PlanStatusApproved, result.Status)
}

func TestDecideCrossSchoolLooksLikeMissing(t *testing.T) {
	schoolID := "other"
	plans := &mockPlanRepo{decideErr: sql.ErrNoRows}
	svc := newReviewService(plans, &mockAuditWriter{})

	_, err := svc.Decide(context.Background(), reviewerClaims(&schoolID), "p1", models.DecideLessonPlanRequest{Decision: "approve"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestDecideInvalidVerdict(t *testing.T) {
	svc := newReviewService(&mockPlanRepo{}, &mockAuditWriter{})

	_, err := svc.Decide(context.Background(), reviewerClaims(nil), "p1", models.DecideLessonPlanRequest{Decision: "maybe"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestDecideForbiddenForTeacher(t *testing.T) {
	svc := newReviewService(&mockPlanRepo{}, &mockAuditWriter{})

	_, err := svc.Decide(context.Background(), teacherClaims(nil), "p1", models.DecideLessonPlanRequest{Decision: "approve"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestRedecidingTerminalPlanOverwrites(t *testing.T) {
	schoolID := "s1"
	reason := "too vague"
	plans := &mockPlanRepo{decided: &models.LessonPlan{ID: "p1", SchoolID: &schoolID, Title: "Fractions", Status: models.PlanStatusRejected, RejectionReason: &reason}}
	svc := newReviewService(plans, &mockAuditWriter{})

	result, err := svc.Decide(context.Background(), reviewerClaims(&schoolID), "p1", models.DecideLessonPlanRequest{Decision: "approve"})
	require.NoError(t, err)
	assert.Equal(t, models.PlanStatusApproved, result.Status)
}
