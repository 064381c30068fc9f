package models

import "time"

// Follow links a student to a teacher they follow.
type Follow struct {
	UserID    string    `db:"user_id" json:"user_id"`
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// FollowedTeacher is a teacher entry in a student's following list.
type FollowedTeacher struct {
	TeacherID string `db:"teacher_id" json:"teacher_id"`
	Name      string `db:"name" json:"name"`
	Headline  string `db:"headline" json:"headline"`
	Profile   string `db:"profile" json:"profile"`
}
