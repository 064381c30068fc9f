package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/coursehub-dev/coursehub-api/internal/models"
)

// QuizRepository provides read access to quizzes and their course chain.
type QuizRepository struct {
	db *sqlx.DB
}

// NewQuizRepository constructs a QuizRepository.
func NewQuizRepository(db *sqlx.DB) *QuizRepository {
	return &QuizRepository{db: db}
}

// FindByID fetches a quiz by ID.
func (r *QuizRepository) FindByID(ctx context.Context, id string) (*models.Quiz, error) {
	const query = `SELECT id, lesson_id, question, options, correct_answer, created_at, updated_at FROM quizzes WHERE id = $1`
	var quiz models.Quiz
	if err := r.db.GetContext(ctx, &quiz, query, id); err != nil {
		return nil, err
	}
	return &quiz, nil
}

// Context resolves a quiz through its lesson to the owning course.
func (r *QuizRepository) Context(ctx context.Context, quizID string) (*models.QuizContext, error) {
	const query = `SELECT q.id AS quiz_id, q.lesson_id, l.course_id
		FROM quizzes q
		JOIN lessons l ON l.id = q.lesson_id
		WHERE q.id = $1`
	var qc models.QuizContext
	if err := r.db.GetContext(ctx, &qc, query, quizID); err != nil {
		return nil, err
	}
	return &qc, nil
}

// CountByCourse counts all quizzes across a course's lessons.
func (r *QuizRepository) CountByCourse(ctx context.Context, courseID string) (int, error) {
	const query = `SELECT COUNT(*) FROM quizzes q JOIN lessons l ON l.id = q.lesson_id WHERE l.course_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, courseID); err != nil {
		return 0, fmt.Errorf("count course quizzes: %w", err)
	}
	return count, nil
}
