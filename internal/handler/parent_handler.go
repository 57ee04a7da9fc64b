package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schoolhub-ng/schoolhub-api/internal/service"
	appErrors "github.com/schoolhub-ng/schoolhub-api/pkg/errors"
	"github.com/schoolhub-ng/schoolhub-api/pkg/response"
)

// ParentHandler serves the read-only parent views.
type ParentHandler struct {
	service *service.ParentService
}

// NewParentHandler creates a new handler.
func NewParentHandler(svc *service.ParentService) *ParentHandler {
	return &ParentHandler{service: svc}
}

// Children godoc
// @Summary List own children
// @Description Students linked to the calling parent
// @Tags Parent
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /parent/children [get]
func (h *ParentHandler) Children(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	children, err := h.service.Children(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, children, nil)
}

// AttachChild godoc
// @Summary Link a student to a parent
// @Description Staff operation binding a student to a parent account
// @Tags Parent
// @Produce json
// @Param userId path string true "Parent user ID"
// @Param studentId path string true "Student ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /parents/{userId}/children/{studentId} [post]
func (h *ParentHandler) AttachChild(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.service.AttachChild(c.Request.Context(), claims, c.Param("userId"), c.Param("studentId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// DetachChild godoc
// @Summary Unlink a student from a parent
// @Tags Parent
// @Produce json
// @Param userId path string true "Parent user ID"
// @Param studentId path string true "Student ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /parents/{userId}/children/{studentId} [delete]
func (h *ParentHandler) DetachChild(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.service.DetachChild(c.Request.Context(), claims, c.Param("userId"), c.Param("studentId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Assignments godoc
// @Summary List children's assignments
// @Description Assignments for the courses the parent's children are enrolled in
// @Tags Parent
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /parent/assignments [get]
func (h *ParentHandler) Assignments(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	assignments, err := h.service.Assignments(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, nil)
}
