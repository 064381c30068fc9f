package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/coursehub-dev/coursehub-api/internal/models"
)

// FollowRepository manages the student-follows-teacher relation.
type FollowRepository struct {
	db *sqlx.DB
}

// NewFollowRepository constructs a FollowRepository.
func NewFollowRepository(db *sqlx.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

// Create records a follow. The insert is idempotent; the returned flag is
// false when the student already follows the teacher.
func (r *FollowRepository) Create(ctx context.Context, userID, teacherID string) (bool, error) {
	const query = `INSERT INTO follows (user_id, teacher_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, teacher_id) DO NOTHING`
	res, err := r.db.ExecContext(ctx, query, userID, teacherID, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("create follow: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("follow result: %w", err)
	}
	return affected > 0, nil
}

// Delete removes a follow; the returned flag is false when none existed.
func (r *FollowRepository) Delete(ctx context.Context, userID, teacherID string) (bool, error) {
	const query = `DELETE FROM follows WHERE user_id = $1 AND teacher_id = $2`
	res, err := r.db.ExecContext(ctx, query, userID, teacherID)
	if err != nil {
		return false, fmt.Errorf("delete follow: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("unfollow result: %w", err)
	}
	return affected > 0, nil
}

// ListTeachers returns the teachers a student follows, most recent first.
func (r *FollowRepository) ListTeachers(ctx context.Context, userID string) ([]models.FollowedTeacher, error) {
	const query = `SELECT f.teacher_id,
			TRIM(u.first_name || ' ' || u.last_name) AS name,
			t.headline, t.profile
		FROM follows f
		JOIN teachers t ON t.id = f.teacher_id
		JOIN users u ON u.account_id = t.account_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC`
	var teachers []models.FollowedTeacher
	if err := r.db.SelectContext(ctx, &teachers, query, userID); err != nil {
		return nil, fmt.Errorf("list followed teachers: %w", err)
	}
	return teachers, nil
}
