package models

import "time"

// Progress tracks quiz completion for one (user, course) pair. At most one
// record exists per pair; the completed set never holds duplicates.
type Progress struct {
	ID         string    `db:"id" json:"id"`
	UserID     string    `db:"user_id" json:"user_id"`
	CourseID   string    `db:"course_id" json:"course_id"`
	Percentage float64   `db:"percentage" json:"progressPercentage"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// CompletedQuiz is a completed-quiz reference expanded with its question.
type CompletedQuiz struct {
	QuizID   string `db:"quiz_id" json:"id"`
	Question string `db:"question" json:"question"`
}

// ProgressDetail is the progress view returned to students. When no record
// exists yet the completed list is empty rather than the lookup failing.
type ProgressDetail struct {
	Progress         *Progress       `json:"progress,omitempty"`
	CompletedQuizzes []CompletedQuiz `json:"completedQuizzes"`
}
