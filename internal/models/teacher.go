package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Teacher is the authoring profile attached to TEACHER accounts. The
// social/education/experience blobs are free-form JSON.
type Teacher struct {
	ID         string         `db:"id" json:"id"`
	AccountID  string         `db:"account_id" json:"account_id"`
	Bio        string         `db:"bio" json:"bio"`
	Headline   string         `db:"headline" json:"headline"`
	Social     types.JSONText `db:"social" json:"social"`
	Education  types.JSONText `db:"education" json:"education"`
	Experience types.JSONText `db:"experience" json:"experience"`
	Profile    string         `db:"profile" json:"profile"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}

// TeacherCard is the public, compact teacher view embedded in course listings.
type TeacherCard struct {
	Name    string `db:"name" json:"name"`
	Profile string `db:"profile" json:"profile"`
}
