package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/coursehub-dev/coursehub-api/internal/models"
	appErrors "github.com/coursehub-dev/coursehub-api/pkg/errors"
)

type mockFollowStore struct {
	follows map[string]map[string]bool
}

func (m *mockFollowStore) Create(ctx context.Context, userID, teacherID string) (bool, error) {
	if m.follows == nil {
		m.follows = make(map[string]map[string]bool)
	}
	if m.follows[userID] == nil {
		m.follows[userID] = make(map[string]bool)
	}
	if m.follows[userID][teacherID] {
		return false, nil
	}
	m.follows[userID][teacherID] = true
	return true, nil
}

func (m *mockFollowStore) Delete(ctx context.Context, userID, teacherID string) (bool, error) {
	if !m.follows[userID][teacherID] {
		return false, nil
	}
	delete(m.follows[userID], teacherID)
	return true, nil
}

func (m *mockFollowStore) ListTeachers(ctx context.Context, userID string) ([]models.FollowedTeacher, error) {
	var list []models.FollowedTeacher
	for id := range m.follows[userID] {
		list = append(list, models.FollowedTeacher{TeacherID: id, Name: "Grace Hopper"})
	}
	return list, nil
}

type mockTeacherDirectory struct {
	known map[string]bool
}

func (m *mockTeacherDirectory) TeacherExists(ctx context.Context, teacherID string) (bool, error) {
	return m.known[teacherID], nil
}

func TestFollowServiceFollow(t *testing.T) {
	store := &mockFollowStore{}
	svc := NewFollowService(store, &mockTeacherDirectory{known: map[string]bool{"t1": true}}, zap.NewNop())
	p := studentPrincipal()

	require.NoError(t, svc.Follow(context.Background(), p, "t1"))
	assert.True(t, store.follows[p.User.ID]["t1"])

	err := svc.Follow(context.Background(), p, "t1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Status, appErrors.FromError(err).Status)
}

func TestFollowServiceFollowUnknownTeacher(t *testing.T) {
	svc := NewFollowService(&mockFollowStore{}, &mockTeacherDirectory{}, zap.NewNop())

	err := svc.Follow(context.Background(), studentPrincipal(), models.NewID())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Status, appErrors.FromError(err).Status)
}

func TestFollowServiceUnfollow(t *testing.T) {
	store := &mockFollowStore{}
	svc := NewFollowService(store, &mockTeacherDirectory{known: map[string]bool{"t1": true}}, zap.NewNop())
	p := studentPrincipal()

	require.NoError(t, svc.Follow(context.Background(), p, "t1"))
	require.NoError(t, svc.Unfollow(context.Background(), p, "t1"))

	err := svc.Unfollow(context.Background(), p, "t1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Status, appErrors.FromError(err).Status)
}

func TestFollowServiceFollowingEmpty(t *testing.T) {
	svc := NewFollowService(&mockFollowStore{}, &mockTeacherDirectory{}, zap.NewNop())

	teachers, err := svc.Following(context.Background(), studentPrincipal())
	require.NoError(t, err)
	assert.NotNil(t, teachers)
	assert.Empty(t, teachers)
}
