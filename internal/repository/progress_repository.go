package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/coursehub-dev/coursehub-api/internal/models"
)

// ProgressRepository manages per-(user, course) progress records and their
// completed-quiz set.
type ProgressRepository struct {
	db *sqlx.DB
}

// NewProgressRepository constructs a ProgressRepository.
func NewProgressRepository(db *sqlx.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Find fetches the progress record for a (user, course) pair.
func (r *ProgressRepository) Find(ctx context.Context, userID, courseID string) (*models.Progress, error) {
	const query = `SELECT id, user_id, course_id, percentage, created_at, updated_at FROM progress WHERE user_id = $1 AND course_id = $2`
	var progress models.Progress
	if err := r.db.GetContext(ctx, &progress, query, userID, courseID); err != nil {
		return nil, err
	}
	return &progress, nil
}

// RecordCompletion marks a quiz completed for the user in one transaction:
// the progress record is created on first completion, the completed set is
// grown idempotently, and the percentage is recomputed against totalQuizzes.
func (r *ProgressRepository) RecordCompletion(ctx context.Context, userID, courseID, quizID string, totalQuizzes int) (*models.Progress, error) {
	now := time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin progress tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const upsertQuery = `INSERT INTO progress (id, user_id, course_id, percentage, created_at, updated_at)
		VALUES ($1, $2, $3, 0, $4, $4)
		ON CONFLICT (user_id, course_id) DO NOTHING`
	if _, err := tx.ExecContext(ctx, upsertQuery, models.NewID(), userID, courseID, now); err != nil {
		return nil, fmt.Errorf("upsert progress: %w", err)
	}

	const completeQuery = `INSERT INTO completed_quizzes (user_id, course_id, quiz_id, completed_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, course_id, quiz_id) DO NOTHING`
	if _, err := tx.ExecContext(ctx, completeQuery, userID, courseID, quizID, now); err != nil {
		return nil, fmt.Errorf("record completion: %w", err)
	}

	var completed int
	const countQuery = `SELECT COUNT(*) FROM completed_quizzes WHERE user_id = $1 AND course_id = $2`
	if err := tx.GetContext(ctx, &completed, countQuery, userID, courseID); err != nil {
		return nil, fmt.Errorf("count completions: %w", err)
	}

	percentage := 0.0
	if totalQuizzes > 0 {
		percentage = 100 * float64(completed) / float64(totalQuizzes)
	}

	var progress models.Progress
	const updateQuery = `UPDATE progress SET percentage = $1, updated_at = $2
		WHERE user_id = $3 AND course_id = $4
		RETURNING id, user_id, course_id, percentage, created_at, updated_at`
	if err := tx.GetContext(ctx, &progress, updateQuery, percentage, now, userID, courseID); err != nil {
		return nil, fmt.Errorf("update progress: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit progress tx: %w", err)
	}
	return &progress, nil
}

// CompletedQuizzes lists the user's completed quizzes for a course, expanded
// with each quiz's question text.
func (r *ProgressRepository) CompletedQuizzes(ctx context.Context, userID, courseID string) ([]models.CompletedQuiz, error) {
	const query = `SELECT cq.quiz_id, q.question
		FROM completed_quizzes cq
		JOIN quizzes q ON q.id = cq.quiz_id
		WHERE cq.user_id = $1 AND cq.course_id = $2
		ORDER BY cq.completed_at`
	var completed []models.CompletedQuiz
	if err := r.db.SelectContext(ctx, &completed, query, userID, courseID); err != nil {
		return nil, fmt.Errorf("list completed quizzes: %w", err)
	}
	return completed, nil
}
