package models

import (
	"time"

	"github.com/lib/pq"
)

// Quiz is a single question attached to a lesson. The correct answer is
// exposed in answer-check responses on purpose; see DESIGN.md.
type Quiz struct {
	ID            string         `db:"id" json:"id"`
	LessonID      string         `db:"lesson_id" json:"lesson_id"`
	Question      string         `db:"question" json:"question"`
	Options       pq.StringArray `db:"options" json:"options"`
	CorrectAnswer string         `db:"correct_answer" json:"correctAnswer"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// QuizInput is the creation payload for a quiz, supplied with its lesson.
type QuizInput struct {
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"required,min=1"`
	CorrectAnswer string   `json:"correctAnswer" validate:"required"`
}

// QuizContext resolves a quiz up its lesson to the owning course.
type QuizContext struct {
	QuizID   string `db:"quiz_id"`
	LessonID string `db:"lesson_id"`
	CourseID string `db:"course_id"`
}

// AnswerCheck is the result of comparing a submitted answer.
type AnswerCheck struct {
	IsCorrect     bool   `json:"isCorrect"`
	CorrectAnswer string `json:"correctAnswer"`
}
