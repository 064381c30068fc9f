package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/coursehub-dev/coursehub-api/internal/models"
	appErrors "github.com/coursehub-dev/coursehub-api/pkg/errors"
	"github.com/coursehub-dev/coursehub-api/pkg/export"
)

type enrollmentStore interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
	TeacherInfo(ctx context.Context, teacherID string) (*models.TeacherCard, error)
	Enroll(ctx context.Context, courseID, userID string) (bool, error)
	IsEnrolled(ctx context.Context, courseID, userID string) (bool, error)
}

type quizReader interface {
	FindByID(ctx context.Context, id string) (*models.Quiz, error)
	Context(ctx context.Context, quizID string) (*models.QuizContext, error)
	CountByCourse(ctx context.Context, courseID string) (int, error)
}

type progressStore interface {
	Find(ctx context.Context, userID, courseID string) (*models.Progress, error)
	RecordCompletion(ctx context.Context, userID, courseID, quizID string, totalQuizzes int) (*models.Progress, error)
	CompletedQuizzes(ctx context.Context, userID, courseID string) ([]models.CompletedQuiz, error)
}

type feedbackStore interface {
	Upsert(ctx context.Context, feedback *models.Feedback) (bool, error)
}

type certificateRenderer interface {
	Render(cert export.Certificate) ([]byte, error)
}

// LearningService covers the student-facing surface: enrollment, quiz
// completion, answer checks, ratings and progress.
type LearningService struct {
	courses      enrollmentStore
	quizzes      quizReader
	progress     progressStore
	feedback     feedbackStore
	certificates certificateRenderer
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewLearningService constructs LearningService.
func NewLearningService(courses enrollmentStore, quizzes quizReader, progress progressStore, feedback feedbackStore, certificates certificateRenderer, validate *validator.Validate, logger *zap.Logger) *LearningService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LearningService{
		courses:      courses,
		quizzes:      quizzes,
		progress:     progress,
		feedback:     feedback,
		certificates: certificates,
		validator:    validate,
		logger:       logger,
	}
}

// Enroll adds the principal's user to the course's student set. Enrolling
// twice is a conflict, never a duplicate entry.
func (s *LearningService) Enroll(ctx context.Context, principal *models.Principal, courseID string) (*models.Course, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	enrolled, err := s.courses.Enroll(ctx, course.ID, principal.User.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enroll")
	}
	if !enrolled {
		return nil, appErrors.Clone(appErrors.ErrConflict, "you are already enrolled in this course")
	}

	s.logger.Info("student enrolled", zap.String("course_id", course.ID), zap.String("user_id", principal.User.ID))
	return course, nil
}

// CompleteQuiz records a quiz completion for the principal. Enrollment is
// checked through the quiz's lesson up to its course; repeated completions
// of the same quiz change nothing.
func (s *LearningService) CompleteQuiz(ctx context.Context, principal *models.Principal, quizID string) (*models.Progress, error) {
	qc, err := s.quizContext(ctx, quizID)
	if err != nil {
		return nil, err
	}

	if err := s.requireEnrollment(ctx, principal, qc.CourseID); err != nil {
		return nil, err
	}

	total, err := s.quizzes.CountByCourse(ctx, qc.CourseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count quizzes")
	}

	progress, err := s.progress.RecordCompletion(ctx, principal.User.ID, qc.CourseID, qc.QuizID, total)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record progress")
	}
	return progress, nil
}

// CheckAnswer compares the submitted answer against the quiz's stored
// correct answer, ignoring case and surrounding whitespace. The canonical
// answer is returned alongside the verdict.
func (s *LearningService) CheckAnswer(ctx context.Context, principal *models.Principal, quizID, answer string) (*models.AnswerCheck, error) {
	if strings.TrimSpace(answer) == "" {
		return nil, appErrors.Clone(appErrors.ErrInvalidInput, "an answer is required")
	}

	qc, err := s.quizContext(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if err := s.requireEnrollment(ctx, principal, qc.CourseID); err != nil {
		return nil, err
	}

	quiz, err := s.quizzes.FindByID(ctx, quizID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load quiz")
	}

	correct := strings.EqualFold(strings.TrimSpace(quiz.CorrectAnswer), strings.TrimSpace(answer))
	return &models.AnswerCheck{IsCorrect: correct, CorrectAnswer: quiz.CorrectAnswer}, nil
}

// Rate stores the principal's rating of a course. A second rating by the
// same user updates the first in place.
func (s *LearningService) Rate(ctx context.Context, principal *models.Principal, courseID string, req models.RateRequest) (*models.Feedback, bool, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, appErrors.ErrInvalidInput.Status, "rating must be between 1 and 5 and a comment is required")
	}
	comment := strings.TrimSpace(req.Comment)
	if comment == "" {
		return nil, false, appErrors.Clone(appErrors.ErrInvalidInput, "comment is required")
	}

	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	if err := s.requireEnrollment(ctx, principal, courseID); err != nil {
		return nil, false, err
	}

	feedback := &models.Feedback{
		UserID:   principal.User.ID,
		CourseID: courseID,
		Rating:   req.Rating,
		Comment:  comment,
	}
	created, err := s.feedback.Upsert(ctx, feedback)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save feedback")
	}
	return feedback, created, nil
}

// GetProgress returns the principal's progress in a course. A missing record
// yields an empty completed list rather than an error.
func (s *LearningService) GetProgress(ctx context.Context, principal *models.Principal, courseID string) (*models.ProgressDetail, error) {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	progress, err := s.progress.Find(ctx, principal.User.ID, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.ProgressDetail{CompletedQuizzes: []models.CompletedQuiz{}}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load progress")
	}

	completed, err := s.progress.CompletedQuizzes(ctx, principal.User.ID, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load completed quizzes")
	}
	if completed == nil {
		completed = []models.CompletedQuiz{}
	}

	return &models.ProgressDetail{Progress: progress, CompletedQuizzes: completed}, nil
}

// Certificate renders a PDF completion certificate once the principal has
// completed every quiz in the course.
func (s *LearningService) Certificate(ctx context.Context, principal *models.Principal, courseID string) ([]byte, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	progress, err := s.progress.Find(ctx, principal.User.ID, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrPrecondition, "course not yet completed")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load progress")
	}
	if progress.Percentage < 100 {
		return nil, appErrors.Clone(appErrors.ErrPrecondition, "course not yet completed")
	}

	teacher, err := s.courses.TeacherInfo(ctx, course.TeacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}

	pdf, err := s.certificates.Render(export.Certificate{
		StudentName: principal.User.FullName(),
		CourseTitle: course.Title,
		TeacherName: teacher.Name,
		IssuedAt:    time.Now().UTC(),
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render certificate")
	}
	return pdf, nil
}

func (s *LearningService) quizContext(ctx context.Context, quizID string) (*models.QuizContext, error) {
	qc, err := s.quizzes.Context(ctx, quizID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "quiz or related course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load quiz")
	}
	return qc, nil
}

func (s *LearningService) requireEnrollment(ctx context.Context, principal *models.Principal, courseID string) error {
	enrolled, err := s.courses.IsEnrolled(ctx, courseID, principal.User.ID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if !enrolled {
		return appErrors.Clone(appErrors.ErrForbidden, "you are not enrolled in this course")
	}
	return nil
}
