package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/coursehub-dev/coursehub-api/internal/models"
	appErrors "github.com/coursehub-dev/coursehub-api/pkg/errors"
)

type followStore interface {
	Create(ctx context.Context, userID, teacherID string) (bool, error)
	Delete(ctx context.Context, userID, teacherID string) (bool, error)
	ListTeachers(ctx context.Context, userID string) ([]models.FollowedTeacher, error)
}

type teacherDirectory interface {
	TeacherExists(ctx context.Context, teacherID string) (bool, error)
}

// FollowService lets students follow teachers.
type FollowService struct {
	follows  followStore
	teachers teacherDirectory
	logger   *zap.Logger
}

// NewFollowService constructs FollowService.
func NewFollowService(follows followStore, teachers teacherDirectory, logger *zap.Logger) *FollowService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FollowService{follows: follows, teachers: teachers, logger: logger}
}

// Follow records that the principal follows the teacher.
func (s *FollowService) Follow(ctx context.Context, principal *models.Principal, teacherID string) error {
	exists, err := s.teachers.TeacherExists(ctx, teacherID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check teacher")
	}
	if !exists {
		return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}

	created, err := s.follows.Create(ctx, principal.User.ID, teacherID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to follow teacher")
	}
	if !created {
		return appErrors.Clone(appErrors.ErrConflict, "you already follow this teacher")
	}
	return nil
}

// Unfollow removes an existing follow.
func (s *FollowService) Unfollow(ctx context.Context, principal *models.Principal, teacherID string) error {
	removed, err := s.follows.Delete(ctx, principal.User.ID, teacherID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to unfollow teacher")
	}
	if !removed {
		return appErrors.Clone(appErrors.ErrNotFound, "you are not following this teacher")
	}
	return nil
}

// Following lists the teachers the principal follows.
func (s *FollowService) Following(ctx context.Context, principal *models.Principal) ([]models.FollowedTeacher, error) {
	teachers, err := s.follows.ListTeachers(ctx, principal.User.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list followed teachers")
	}
	if teachers == nil {
		teachers = []models.FollowedTeacher{}
	}
	return teachers, nil
}
