package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schoolhub-ng/schoolhub-api/internal/models"
	"github.com/schoolhub-ng/schoolhub-api/internal/service"
	appErrors "github.com/schoolhub-ng/schoolhub-api/pkg/errors"
	"github.com/schoolhub-ng/schoolhub-api/pkg/response"
)

// TeacherHandler serves the teacher profile and lesson-plan authoring
// endpoints.
type TeacherHandler struct {
	service *service.TeacherService
}

// NewTeacherHandler creates a new handler.
func NewTeacherHandler(svc *service.TeacherService) *TeacherHandler {
	return &TeacherHandler{service: svc}
}

// Profile godoc
// @Summary Get teacher profile
// @Description Returns the calling teacher's profile binding
// @Tags Teacher
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teacher/profile [get]
func (h *TeacherHandler) Profile(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	profile, err := h.service.Profile(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// UpdateCourses godoc
// @Summary Update courses taught
// @Description Overwrites the teacher's free-text course list
// @Tags Teacher
// @Accept json
// @Produce json
// @Param payload body models.UpdateCoursesTaughtRequest true "Courses payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teacher/courses [put]
func (h *TeacherHandler) UpdateCourses(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req models.UpdateCoursesTaughtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid courses payload"))
		return
	}
	profile, err := h.service.UpdateCoursesTaught(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// SubmitPlan godoc
// @Summary Submit a lesson plan
// @Description Creates a pending lesson plan for review
// @Tags Teacher
// @Accept json
// @Produce json
// @Param payload body models.SubmitLessonPlanRequest true "Lesson plan payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teacher/lesson-plans [post]
func (h *TeacherHandler) SubmitPlan(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req models.SubmitLessonPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid lesson plan payload"))
		return
	}
	plan, err := h.service.SubmitLessonPlan(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, plan)
}

// MyPlans godoc
// @Summary List own lesson plans
// @Description Returns the calling teacher's submitted plans with review state
// @Tags Teacher
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /teacher/lesson-plans [get]
func (h *TeacherHandler) MyPlans(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	plans, err := h.service.MyLessonPlans(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plans, nil)
}
