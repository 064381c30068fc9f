package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/coursehub-dev/coursehub-api/internal/models"
	appErrors "github.com/coursehub-dev/coursehub-api/pkg/errors"
)

type courseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	FindByID(ctx context.Context, id string) (*models.Course, error)
	ApplyPatch(ctx context.Context, id string, patch models.CoursePatch) error
	Delete(ctx context.Context, id string) error
	ListByTeacher(ctx context.Context, teacherID string) ([]models.TeacherCourse, error)
	ListAll(ctx context.Context, filter models.CourseFilter) ([]models.CourseListItem, error)
	TeacherInfo(ctx context.Context, teacherID string) (*models.TeacherCard, error)
	StudentCount(ctx context.Context, courseID string) (int, error)
	ListFeedback(ctx context.Context, courseID string) ([]models.Feedback, error)
}

type lessonRepository interface {
	CreateWithQuizzes(ctx context.Context, lesson *models.Lesson, quizzes []models.Quiz) error
	FindByID(ctx context.Context, id string) (*models.Lesson, error)
	ApplyPatch(ctx context.Context, id string, patch models.LessonPatch) error
	Delete(ctx context.Context, id string) error
	ListByCourse(ctx context.Context, courseID string) ([]models.LessonDetail, error)
}

// CreateCourseRequest is the course creation payload.
type CreateCourseRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
}

// CourseService covers the authoring surface: courses, lessons and quizzes.
type CourseService struct {
	courses   courseRepository
	lessons   lessonRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs CourseService.
func NewCourseService(courses courseRepository, lessons lessonRepository, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{courses: courses, lessons: lessons, validator: validate, logger: logger}
}

// Create makes a new course owned by the principal's teacher profile.
func (s *CourseService) Create(ctx context.Context, principal *models.Principal, req CreateCourseRequest) (*models.Course, error) {
	if !principal.IsTeacher() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only teachers can create courses")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, appErrors.ErrInvalidInput.Status, "invalid course payload")
	}

	course := &models.Course{
		TeacherID:   principal.Teacher.ID,
		Title:       req.Title,
		Description: req.Description,
		Thumbnail:   req.Thumbnail,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}

	s.logger.Info("course created", zap.String("course_id", course.ID), zap.String("teacher_id", course.TeacherID))
	return course, nil
}

// Update applies a partial update to an owned course. Fields absent from the
// patch keep their prior value.
func (s *CourseService) Update(ctx context.Context, principal *models.Principal, courseID string, patch models.CoursePatch) (*models.Course, error) {
	course, err := s.ownedCourse(ctx, principal, courseID)
	if err != nil {
		return nil, err
	}

	if err := s.courses.ApplyPatch(ctx, course.ID, patch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}

	updated, err := s.courses.FindByID(ctx, course.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload course")
	}
	return updated, nil
}

// Delete removes an owned course together with everything hanging off it.
func (s *CourseService) Delete(ctx context.Context, principal *models.Principal, courseID string) error {
	course, err := s.ownedCourse(ctx, principal, courseID)
	if err != nil {
		return err
	}

	if err := s.courses.Delete(ctx, course.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}

	s.logger.Info("course deleted", zap.String("course_id", course.ID))
	return nil
}

// AddLesson creates a lesson and its quizzes on an owned course.
func (s *CourseService) AddLesson(ctx context.Context, principal *models.Principal, courseID string, input models.LessonInput) (*models.Lesson, error) {
	course, err := s.ownedCourse(ctx, principal, courseID)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, appErrors.ErrInvalidInput.Status, "title and video URL are required")
	}

	lesson := &models.Lesson{
		CourseID:       course.ID,
		Title:          input.Title,
		Content:        input.Content,
		VideoURL:       input.VideoURL,
		VideoThumbnail: input.VideoThumbnail,
	}
	quizzes := make([]models.Quiz, 0, len(input.Quizzes))
	for _, q := range input.Quizzes {
		quizzes = append(quizzes, models.Quiz{
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
		})
	}

	if err := s.lessons.CreateWithQuizzes(ctx, lesson, quizzes); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create lesson")
	}

	s.logger.Info("lesson added",
		zap.String("course_id", course.ID),
		zap.String("lesson_id", lesson.ID),
		zap.Int("quizzes", len(quizzes)),
	)
	return lesson, nil
}

// UpdateLesson applies a partial update to a lesson on an owned course. The
// video URL is immutable after creation.
func (s *CourseService) UpdateLesson(ctx context.Context, principal *models.Principal, lessonID string, patch models.LessonPatch) error {
	lesson, err := s.ownedLesson(ctx, principal, lessonID)
	if err != nil {
		return err
	}

	if err := s.lessons.ApplyPatch(ctx, lesson.ID, patch); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update lesson")
	}
	return nil
}

// DeleteLesson removes a lesson and its quizzes from an owned course.
func (s *CourseService) DeleteLesson(ctx context.Context, principal *models.Principal, lessonID string) error {
	lesson, err := s.ownedLesson(ctx, principal, lessonID)
	if err != nil {
		return err
	}

	if err := s.lessons.Delete(ctx, lesson.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete lesson")
	}

	s.logger.Info("lesson deleted", zap.String("lesson_id", lesson.ID), zap.String("course_id", lesson.CourseID))
	return nil
}

// ListForTeacher returns the principal's own courses, newest first.
func (s *CourseService) ListForTeacher(ctx context.Context, principal *models.Principal) ([]models.TeacherCourse, error) {
	if !principal.IsTeacher() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only teachers can access this route")
	}

	courses, err := s.courses.ListByTeacher(ctx, principal.Teacher.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}

// ListAll returns one page of the public catalogue.
func (s *CourseService) ListAll(ctx context.Context, filter models.CourseFilter) (*models.CoursePage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 10
	}

	courses, err := s.courses.ListAll(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}

	return &models.CoursePage{
		Page:    filter.Page,
		Limit:   filter.PageSize,
		Count:   len(courses),
		Courses: courses,
	}, nil
}

// Get returns the full course view: teacher card, lessons with quizzes,
// feedback and the enrollment count.
func (s *CourseService) Get(ctx context.Context, courseID string) (*models.CourseDetail, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	teacher, err := s.courses.TeacherInfo(ctx, course.TeacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}

	lessons, err := s.lessons.ListByCourse(ctx, course.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lessons")
	}

	feedback, err := s.courses.ListFeedback(ctx, course.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load feedback")
	}
	if feedback == nil {
		feedback = []models.Feedback{}
	}

	count, err := s.courses.StudentCount(ctx, course.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count students")
	}

	return &models.CourseDetail{
		ID:              course.ID,
		Title:           course.Title,
		Description:     course.Description,
		Thumbnail:       course.Thumbnail,
		CreatedAt:       course.CreatedAt,
		UpdatedAt:       course.UpdatedAt,
		TotalEnrollment: count,
		Teacher:         *teacher,
		Lessons:         lessons,
		Feedbacks:       feedback,
	}, nil
}

// ownedCourse loads the course and checks the principal's teacher profile
// against its owner.
func (s *CourseService) ownedCourse(ctx context.Context, principal *models.Principal, courseID string) (*models.Course, error) {
	if !principal.IsTeacher() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only teachers can manage courses")
	}

	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	if course.TeacherID != principal.Teacher.ID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "you do not own this course")
	}
	return course, nil
}

// ownedLesson resolves a lesson through its parent course and checks
// ownership transitively.
func (s *CourseService) ownedLesson(ctx context.Context, principal *models.Principal, lessonID string) (*models.Lesson, error) {
	if !principal.IsTeacher() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only teachers can manage lessons")
	}

	lesson, err := s.lessons.FindByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson")
	}

	if _, err := s.ownedCourse(ctx, principal, lesson.CourseID); err != nil {
		return nil, err
	}
	return lesson, nil
}
