package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/coursehub-dev/coursehub-api/internal/models"
)

// LessonRepository manages persistence for lessons and their quizzes.
type LessonRepository struct {
	db *sqlx.DB
}

// NewLessonRepository constructs a LessonRepository.
func NewLessonRepository(db *sqlx.DB) *LessonRepository {
	return &LessonRepository{db: db}
}

// CreateWithQuizzes inserts the lesson and all of its quizzes in a single
// transaction, appending the lesson at the end of the course's ordering.
func (r *LessonRepository) CreateWithQuizzes(ctx context.Context, lesson *models.Lesson, quizzes []models.Quiz) error {
	now := time.Now().UTC()
	if lesson.ID == "" {
		lesson.ID = models.NewID()
	}
	lesson.CreatedAt = now
	lesson.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin lesson tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const positionQuery = `SELECT COALESCE(MAX(position), 0) + 1 FROM lessons WHERE course_id = $1`
	if err := tx.GetContext(ctx, &lesson.Position, positionQuery, lesson.CourseID); err != nil {
		return fmt.Errorf("next lesson position: %w", err)
	}

	const lessonQuery = `INSERT INTO lessons (id, course_id, title, content, video_url, video_thumbnail, position, created_at, updated_at)
		VALUES (:id, :course_id, :title, :content, :video_url, :video_thumbnail, :position, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, lessonQuery, lesson); err != nil {
		return fmt.Errorf("create lesson: %w", err)
	}

	const quizQuery = `INSERT INTO quizzes (id, lesson_id, question, options, correct_answer, created_at, updated_at)
		VALUES (:id, :lesson_id, :question, :options, :correct_answer, :created_at, :updated_at)`
	for i := range quizzes {
		quizzes[i].ID = models.NewID()
		quizzes[i].LessonID = lesson.ID
		quizzes[i].CreatedAt = now
		quizzes[i].UpdatedAt = now
		if _, err := tx.NamedExecContext(ctx, quizQuery, &quizzes[i]); err != nil {
			return fmt.Errorf("create quiz: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit lesson tx: %w", err)
	}
	return nil
}

// FindByID fetches a lesson by ID.
func (r *LessonRepository) FindByID(ctx context.Context, id string) (*models.Lesson, error) {
	const query = `SELECT id, course_id, title, content, video_url, video_thumbnail, position, created_at, updated_at FROM lessons WHERE id = $1`
	var lesson models.Lesson
	if err := r.db.GetContext(ctx, &lesson, query, id); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// ApplyPatch updates only the fields present in the patch. The video URL is
// not part of the patch shape and therefore never changes here.
func (r *LessonRepository) ApplyPatch(ctx context.Context, id string, patch models.LessonPatch) error {
	sets := []string{}
	args := []interface{}{}

	if patch.Title != nil {
		sets = append(sets, fmt.Sprintf("title = $%d", len(args)+1))
		args = append(args, *patch.Title)
	}
	if patch.Content != nil {
		sets = append(sets, fmt.Sprintf("content = $%d", len(args)+1))
		args = append(args, *patch.Content)
	}
	if patch.VideoThumbnail != nil {
		sets = append(sets, fmt.Sprintf("video_thumbnail = $%d", len(args)+1))
		args = append(args, *patch.VideoThumbnail)
	}
	if len(sets) == 0 {
		return nil
	}

	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)+1))
	args = append(args, time.Now().UTC())
	args = append(args, id)

	query := fmt.Sprintf("UPDATE lessons SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("patch lesson: %w", err)
	}
	return nil
}

// Delete removes the lesson's quizzes and then the lesson itself in one
// transaction, so no quiz can be left dangling.
func (r *LessonRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM quizzes WHERE lesson_id = $1`, id); err != nil {
		return fmt.Errorf("delete lesson quizzes: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM lessons WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete lesson: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete tx: %w", err)
	}
	return nil
}

// ListByCourse returns the course's lessons in order, each with its quizzes.
func (r *LessonRepository) ListByCourse(ctx context.Context, courseID string) ([]models.LessonDetail, error) {
	const lessonQuery = `SELECT id, course_id, title, content, video_url, video_thumbnail, position, created_at, updated_at
		FROM lessons WHERE course_id = $1 ORDER BY position`
	var lessons []models.Lesson
	if err := r.db.SelectContext(ctx, &lessons, lessonQuery, courseID); err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}

	const quizQuery = `SELECT q.id, q.lesson_id, q.question, q.options, q.correct_answer, q.created_at, q.updated_at
		FROM quizzes q
		JOIN lessons l ON l.id = q.lesson_id
		WHERE l.course_id = $1
		ORDER BY q.created_at`
	var quizzes []models.Quiz
	if err := r.db.SelectContext(ctx, &quizzes, quizQuery, courseID); err != nil {
		return nil, fmt.Errorf("list course quizzes: %w", err)
	}

	byLesson := make(map[string][]models.Quiz, len(lessons))
	for _, quiz := range quizzes {
		byLesson[quiz.LessonID] = append(byLesson[quiz.LessonID], quiz)
	}

	details := make([]models.LessonDetail, 0, len(lessons))
	for _, lesson := range lessons {
		quizzes := byLesson[lesson.ID]
		if quizzes == nil {
			quizzes = []models.Quiz{}
		}
		details = append(details, models.LessonDetail{Lesson: lesson, Quizzes: quizzes})
	}
	return details, nil
}
