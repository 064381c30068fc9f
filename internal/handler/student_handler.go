package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coursehub-dev/coursehub-api/internal/service"
	"github.com/coursehub-dev/coursehub-api/pkg/response"
)

// StudentHandler exposes the student-facing progress, certificate and
// follow endpoints.
type StudentHandler struct {
	learning *service.LearningService
	follows  *service.FollowService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(learning *service.LearningService, follows *service.FollowService) *StudentHandler {
	return &StudentHandler{learning: learning, follows: follows}
}

// Progress godoc
// @Summary Get the caller's progress in a course
// @Tags Students
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /student/progress/{id} [get]
func (h *StudentHandler) Progress(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := objectID(c)
	if !ok {
		return
	}

	detail, err := h.learning.GetProgress(c.Request.Context(), p, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Course progress fetched"
	if detail.Progress == nil {
		message = "No progress yet for this course"
	}
	response.JSON(c, http.StatusOK, message, detail)
}

// Certificate godoc
// @Summary Download a completion certificate
// @Tags Students
// @Produce application/pdf
// @Param id path string true "Course ID"
// @Success 200 {file} binary
// @Router /student/certificate/{id} [get]
func (h *StudentHandler) Certificate(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := objectID(c)
	if !ok {
		return
	}

	pdf, err := h.learning.Certificate(c.Request.Context(), p, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=certificate-%s.pdf", id))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// Following godoc
// @Summary List teachers the caller follows
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/following [get]
func (h *StudentHandler) Following(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	teachers, err := h.follows.Following(c.Request.Context(), p)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "Followed teachers fetched", gin.H{"teachers": teachers})
}

// Follow godoc
// @Summary Follow a teacher
// @Tags Students
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /student/follow/{id} [put]
func (h *StudentHandler) Follow(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := objectID(c)
	if !ok {
		return
	}

	if err := h.follows.Follow(c.Request.Context(), p, id); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "Teacher followed", nil)
}

// Unfollow godoc
// @Summary Unfollow a teacher
// @Tags Students
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /student/follow/{id} [delete]
func (h *StudentHandler) Unfollow(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := objectID(c)
	if !ok {
		return
	}

	if err := h.follows.Unfollow(c.Request.Context(), p, id); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "Teacher unfollowed", nil)
}
