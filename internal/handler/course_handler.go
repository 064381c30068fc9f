package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/coursehub-dev/coursehub-api/internal/models"
	"github.com/coursehub-dev/coursehub-api/internal/service"
	appErrors "github.com/coursehub-dev/coursehub-api/pkg/errors"
	"github.com/coursehub-dev/coursehub-api/pkg/response"
)

// CourseHandler exposes course authoring and learning endpoints.
type CourseHandler struct {
	courses  *service.CourseService
	learning *service.LearningService
}

// NewCourseHandler constructs CourseHandler.
func NewCourseHandler(courses *service.CourseService, learning *service.LearningService) *CourseHandler {
	return &CourseHandler{courses: courses, learning: learning}
}

// Create godoc
// @Summary Create a course
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body service.CreateCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Router /course [post]
func (h *CourseHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req service.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	course, err := h.courses.Create(c.Request.Context(), p, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, "Course created successfully", gin.H{"course": course})
}

// Update godoc
// @Summary Update course details
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body models.CoursePatch true "Partial course update"
// @Success 200 {object} response.Envelope
// @Router /course/{id} [put]
func (h *CourseHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := objectID(c)
	if !ok {
		return
	}

	var patch models.CoursePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	course, err := h.courses.Update(c.Request.Context(), p, id, patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "Course updated successfully", gin.H{"course": course})
}

// Delete godoc
// @Summary Delete a course
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /course/{id} [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := objectID(c)
	if !ok {
		return
	}

	if err := h.courses.Delete(c.Request.Context(), p, id); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "Course deleted successfully", nil)
}

// AddLesson godoc
// @Summary Add a lesson with its quizzes to a course
// @Tags Lessons
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body models.LessonInput true "Lesson payload"
// @Success 201 {object} response.Envelope
// @Router /course/lesson/{id} [post]
func (h *CourseHandler) AddLesson(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := objectID(c)
	if !ok {
		return
	}

	var input models.LessonInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	lesson, err := h.courses.AddLesson(c.Request.Context(), p, id, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, "Lesson added successfully", gin.H{"lesson": lesson})
}

// UpdateLesson godoc
// @Summary Update a lesson
// @Tags Lessons
// @Accept json
// @Produce json
// @Param id path string true "Lesson ID"
// @Param payload body models.LessonPatch true "Partial lesson update"
// @Success 200 {object} response.Envelope
// @Router /course/lesson/{id} [put]
func (h *CourseHandler) UpdateLesson(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := objectID(c)
	if !ok {
		return
	}

	var patch models.LessonPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	if err := h.courses.UpdateLesson(c.Request.Context(), p, id, patch); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "Lesson updated successfully", nil)
}

// DeleteLesson godoc
// @Summary Delete a lesson and its quizzes
// @Tags Lessons
// @Produce json
// @Param id path string true "Lesson ID"
// @Success 200 {object} response.Envelope
// @Router /course/lesson/{id} [delete]
func (h *CourseHandler) DeleteLesson(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := objectID(c)
	if !ok {
		return
	}

	if err := h.courses.DeleteLesson(c.Request.Context(), p, id); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "Lesson and associated quizzes deleted successfully", nil)
}

// ListMine godoc
// @Summary List the authenticated teacher's courses
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /course/teacher [get]
func (h *CourseHandler) ListMine(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	courses, err := h.courses.ListForTeacher(c.Request.Context(), p)
	if err != nil {
		response.Error(c, err)
		return
	}

	teacher := models.TeacherCard{Name: p.User.FullName()}
	if p.Teacher != nil {
		teacher.Profile = p.Teacher.Profile
	}
	response.JSON(c, http.StatusOK, "Courses fetched", gin.H{"courses": courses, "teacher": teacher})
}

// ListAll godoc
// @Summary List the public course catalogue
// @Tags Courses
// @Produce json
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size"
// @Param search query string false "Title substring filter"
// @Success 200 {object} response.Envelope
// @Router /course [get]
func (h *CourseHandler) ListAll(c *gin.Context) {
	var filter models.CourseFilter
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "10")); err == nil {
		filter.PageSize = size
	}
	filter.Search = c.Query("search")

	page, err := h.courses.ListAll(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "Courses fetched", page)
}

// Get godoc
// @Summary Get a course with lessons, quizzes and feedback
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /course/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := objectID(c)
	if !ok {
		return
	}

	course, err := h.courses.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "Course fetched", gin.H{
		"studentCount": course.TotalEnrollment,
		"course":       course,
	})
}

// Enroll godoc
// @Summary Enroll in a course
// @Tags Learning
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /course/enroll/{id} [put]
func (h *CourseHandler) Enroll(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := objectID(c)
	if !ok {
		return
	}

	course, err := h.learning.Enroll(c.Request.Context(), p, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "Successfully enrolled in the course", gin.H{"courseId": course.ID})
}

// Rate godoc
// @Summary Rate a course
// @Tags Learning
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body models.RateRequest true "Rating payload"
// @Success 200 {object} response.Envelope
// @Router /course/rate/{id} [put]
func (h *CourseHandler) Rate(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := objectID(c)
	if !ok {
		return
	}

	var req models.RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	feedback, created, err := h.learning.Rate(c.Request.Context(), p, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	if created {
		response.JSON(c, http.StatusCreated, "Course rated successfully", feedback)
		return
	}
	response.JSON(c, http.StatusOK, "Feedback updated successfully", feedback)
}

// JoinQuiz godoc
// @Summary Record a quiz completion
// @Tags Learning
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} response.Envelope
// @Router /course/quiz/{id}/join [post]
func (h *CourseHandler) JoinQuiz(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := objectID(c)
	if !ok {
		return
	}

	progress, err := h.learning.CompleteQuiz(c.Request.Context(), p, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "Quiz joined and progress updated", gin.H{"progress": progress})
}

type checkAnswerRequest struct {
	UserAnswer string `json:"userAnswer"`
}

// CheckQuiz godoc
// @Summary Check a quiz answer
// @Tags Learning
// @Accept json
// @Produce json
// @Param id path string true "Quiz ID"
// @Param payload body checkAnswerRequest true "Submitted answer"
// @Success 200 {object} response.Envelope
// @Router /course/quiz/{id}/check [post]
func (h *CourseHandler) CheckQuiz(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := objectID(c)
	if !ok {
		return
	}

	var req checkAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	result, err := h.learning.CheckAnswer(c.Request.Context(), p, id, req.UserAnswer)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Incorrect answer."
	if result.IsCorrect {
		message = "Correct answer!"
	}
	response.JSON(c, http.StatusOK, message, result)
}
