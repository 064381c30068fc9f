package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/coursehub-dev/coursehub-api/internal/models"
)

// FeedbackRepository manages per-(user, course) feedback records.
type FeedbackRepository struct {
	db *sqlx.DB
}

// NewFeedbackRepository constructs a FeedbackRepository.
func NewFeedbackRepository(db *sqlx.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// FindByUserAndCourse fetches the feedback for a (user, course) pair.
func (r *FeedbackRepository) FindByUserAndCourse(ctx context.Context, userID, courseID string) (*models.Feedback, error) {
	const query = `SELECT id, user_id, course_id, rating, comment, created_at, updated_at FROM feedback WHERE user_id = $1 AND course_id = $2`
	var feedback models.Feedback
	if err := r.db.GetContext(ctx, &feedback, query, userID, courseID); err != nil {
		return nil, err
	}
	return &feedback, nil
}

// Upsert stores the feedback, updating the existing (user, course) record in
// place when one exists. The returned flag is true when a new record was
// created.
func (r *FeedbackRepository) Upsert(ctx context.Context, feedback *models.Feedback) (bool, error) {
	now := time.Now().UTC()
	if feedback.ID == "" {
		feedback.ID = models.NewID()
	}
	feedback.CreatedAt = now
	feedback.UpdatedAt = now

	const query = `INSERT INTO feedback (id, user_id, course_id, rating, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (user_id, course_id)
		DO UPDATE SET rating = EXCLUDED.rating, comment = EXCLUDED.comment, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, (created_at = updated_at) AS inserted`
	var result struct {
		ID        string    `db:"id"`
		CreatedAt time.Time `db:"created_at"`
		Inserted  bool      `db:"inserted"`
	}
	if err := r.db.GetContext(ctx, &result, query, feedback.ID, feedback.UserID, feedback.CourseID, feedback.Rating, feedback.Comment, now); err != nil {
		return false, fmt.Errorf("upsert feedback: %w", err)
	}

	feedback.ID = result.ID
	feedback.CreatedAt = result.CreatedAt
	return result.Inserted, nil
}
