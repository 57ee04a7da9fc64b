package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolhub-ng/schoolhub-api/internal/middleware"
	"github.com/schoolhub-ng/schoolhub-api/internal/models"
)

func dashboardContext(rec *httptest.ResponseRecorder, claims *models.JWTClaims) *gin.Context {
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	if claims != nil {
		c.Set(middleware.ContextUserKey, claims)
	}
	return c
}

func TestDashboardHandlerResolve(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(testDashboardService(&fakePlanRepo{}))

	rec := httptest.NewRecorder()
	c := dashboardContext(rec, &models.JWTClaims{UserID: "pr1", Username: "owner", Role: models.RoleProprietor, FullName: "Olu Banks"})

	handler.Resolve(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data models.DashboardRoute `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, models.DashboardProprietor, envelope.Data.Route)
	assert.Equal(t, "pr1", envelope.Data.User.ID)
}

func TestDashboardHandlerResolveWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(testDashboardService(&fakePlanRepo{}))

	rec := httptest.NewRecorder()
	c := dashboardContext(rec, nil)

	handler.Resolve(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDashboardHandlerTeacherForbiddenForParent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(testDashboardService(&fakePlanRepo{}))

	rec := httptest.NewRecorder()
	c := dashboardContext(rec, &models.JWTClaims{UserID: "par1", Role: models.RoleParent})

	handler.Teacher(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDashboardHandlerHeadTeacher(t *testing.T) {
	gin.SetMode(gin.TestMode)
	plans := &fakePlanRepo{pending: []models.LessonPlanDetail{
		{LessonPlan: models.LessonPlan{ID: "p1", Title: "Fractions"}, TeacherName: "Amaka Obi"},
	}}
	handler := NewDashboardHandler(testDashboardService(plans))

	rec := httptest.NewRecorder()
	schoolID := "s1"
	c := dashboardContext(rec, &models.JWTClaims{UserID: "h1", Role: models.RoleHeadTeacher, SchoolID: &schoolID})

	handler.HeadTeacher(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data models.HeadTeacherDashboard `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, 1, envelope.Data.PendingCount)
}

func TestDashboardHandlerOverview(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(testDashboardService(&fakePlanRepo{}))

	rec := httptest.NewRecorder()
	c := dashboardContext(rec, &models.JWTClaims{UserID: "v1", Role: models.RoleViceAdmin})

	handler.Overview(c)

	assert.Equal(t, http.StatusOK, rec.Code)
}
