package models

import "time"

// Lesson belongs to one course. The video URL is fixed at creation time;
// later edits may only touch title, content and thumbnail.
type Lesson struct {
	ID             string    `db:"id" json:"id"`
	CourseID       string    `db:"course_id" json:"course_id"`
	Title          string    `db:"title" json:"title"`
	Content        string    `db:"content" json:"content"`
	VideoURL       string    `db:"video_url" json:"videoUrl"`
	VideoThumbnail string    `db:"video_thumbnail" json:"videoThumbnail"`
	Position       int       `db:"position" json:"position"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// LessonPatch carries a partial lesson update; nil fields are left untouched.
type LessonPatch struct {
	Title          *string `json:"title"`
	Content        *string `json:"content"`
	VideoThumbnail *string `json:"videoThumbnail"`
}

// IsEmpty reports whether the patch changes nothing.
func (p LessonPatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.VideoThumbnail == nil
}

// LessonInput is the payload for creating a lesson together with its quizzes.
type LessonInput struct {
	Title          string      `json:"title" validate:"required"`
	Content        string      `json:"content"`
	VideoURL       string      `json:"videoUrl" validate:"required"`
	VideoThumbnail string      `json:"videoThumbnail"`
	Quizzes        []QuizInput `json:"quizzes" validate:"dive"`
}

// LessonDetail is a lesson expanded with its quizzes.
type LessonDetail struct {
	Lesson
	Quizzes []Quiz `json:"quizzes"`
}
