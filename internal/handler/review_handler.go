package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schoolhub-ng/schoolhub-api/internal/models"
	"github.com/schoolhub-ng/schoolhub-api/internal/service"
	appErrors "github.com/schoolhub-ng/schoolhub-api/pkg/errors"
	"github.com/schoolhub-ng/schoolhub-api/pkg/response"
)

// ReviewHandler serves the head teacher's review queue, decisions and
// lesson-plan exports.
type ReviewHandler struct {
	service *service.ReviewService
	exports *service.ExportService
}

// NewReviewHandler creates a new handler.
func NewReviewHandler(svc *service.ReviewService, exports *service.ExportService) *ReviewHandler {
	return &ReviewHandler{service: svc, exports: exports}
}

// Pending godoc
// @Summary List pending lesson plans
// @Description Pending plans in the reviewer's school, newest submission first
// @Tags Review
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /review/lesson-plans [get]
func (h *ReviewHandler) Pending(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	pending, err := h.service.ListPending(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pending, nil)
}

// Decide godoc
// @Summary Decide a lesson plan
// @Description Approve or reject a plan in the reviewer's school
// @Tags Review
// @Accept json
// @Produce json
// @Param id path string true "Lesson plan ID"
// @Param payload body models.DecideLessonPlanRequest true "Decision payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /review/lesson-plans/{id} [post]
func (h *ReviewHandler) Decide(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req models.DecideLessonPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid decision payload"))
		return
	}
	result, err := h.service.Decide(c.Request.Context(), claims, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Export godoc
// @Summary Export lesson plan history
// @Description Download the school's lesson plans as CSV or PDF
// @Tags Review
// @Produce octet-stream
// @Param format query string false "Export format (csv or pdf)" default(csv)
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /review/lesson-plans/export [get]
func (h *ReviewHandler) Export(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	format := service.ExportFormat(c.DefaultQuery("format", "csv"))
	result, err := h.exports.LessonPlans(c.Request.Context(), claims, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
