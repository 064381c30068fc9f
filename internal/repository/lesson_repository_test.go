package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursehub-dev/coursehub-api/internal/models"
)

func TestLessonRepositoryCreateWithQuizzes(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(position), 0) + 1 FROM lessons WHERE course_id = $1")).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"position"}).AddRow(3))
	mock.ExpectExec("INSERT INTO lessons").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO quizzes").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO quizzes").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	lesson := &models.Lesson{CourseID: "c1", Title: "Variables", VideoURL: "https://cdn.example.com/v1.mp4"}
	quizzes := []models.Quiz{
		{Question: "Q1?", Options: pq.StringArray{"a", "b"}, CorrectAnswer: "a"},
		{Question: "Q2?", Options: pq.StringArray{"c", "d"}, CorrectAnswer: "d"},
	}
	require.NoError(t, repo.CreateWithQuizzes(context.Background(), lesson, quizzes))
	assert.Equal(t, 3, lesson.Position)
	for _, q := range quizzes {
		assert.Equal(t, lesson.ID, q.LessonID)
		assert.True(t, models.ValidID(q.ID))
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonRepositoryApplyPatchSkipsVideoURL(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE lessons SET title = $1, content = $2, updated_at = $3 WHERE id = $4")).
		WithArgs("New title", "New content", sqlmock.AnyArg(), "l1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	title := "New title"
	content := "New content"
	require.NoError(t, repo.ApplyPatch(context.Background(), "l1", models.LessonPatch{Title: &title, Content: &content}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonRepositoryDeleteRemovesQuizzesFirst(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM quizzes WHERE lesson_id").
		WithArgs("l1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM lessons WHERE id").
		WithArgs("l1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), "l1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonRepositoryListByCourse(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	lessonRows := sqlmock.NewRows([]string{"id", "course_id", "title", "content", "video_url", "video_thumbnail", "position", "created_at", "updated_at"}).
		AddRow("l1", "c1", "Variables", "", "https://cdn.example.com/v1.mp4", "", 1, time.Now(), time.Now()).
		AddRow("l2", "c1", "Loops", "", "https://cdn.example.com/v2.mp4", "", 2, time.Now(), time.Now())
	mock.ExpectQuery("FROM lessons WHERE course_id = \\$1 ORDER BY position").
		WithArgs("c1").
		WillReturnRows(lessonRows)

	quizRows := sqlmock.NewRows([]string{"id", "lesson_id", "question", "options", "correct_answer", "created_at", "updated_at"}).
		AddRow("q1", "l1", "Q1?", pq.StringArray{"a", "b"}, "a", time.Now(), time.Now())
	mock.ExpectQuery("SELECT q.id, q.lesson_id, q.question, q.options, q.correct_answer").
		WithArgs("c1").
		WillReturnRows(quizRows)

	details, err := repo.ListByCourse(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, details, 2)
	assert.Len(t, details[0].Quizzes, 1)
	assert.NotNil(t, details[1].Quizzes)
	assert.Empty(t, details[1].Quizzes)
	assert.NoError(t, mock.ExpectationsWereMet())
}
