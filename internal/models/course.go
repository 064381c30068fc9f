package models

import "time"

// Course is an authored course owned by exactly one teacher. The owning
// teacher never changes after creation.
type Course struct {
	ID          string    `db:"id" json:"id"`
	TeacherID   string    `db:"teacher_id" json:"teacher_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Thumbnail   string    `db:"thumbnail" json:"thumbnail"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CoursePatch carries a partial course update; nil fields are left untouched.
type CoursePatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Thumbnail   *string `json:"thumbnail"`
}

// IsEmpty reports whether the patch changes nothing.
func (p CoursePatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Thumbnail == nil
}

// CourseFilter captures the public listing query.
type CourseFilter struct {
	Page     int
	PageSize int
	Search   string
}

// TeacherCourse is the course summary shown on a teacher's own dashboard.
type TeacherCourse struct {
	ID               string    `db:"id" json:"id"`
	Title            string    `db:"title" json:"title"`
	Thumbnail        string    `db:"thumbnail" json:"thumbnail"`
	Description      string    `db:"description" json:"description"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	TotalEnrollments int       `db:"total_enrollments" json:"totalEnrollments"`
}

// CourseListItem is the public catalogue entry.
type CourseListItem struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Thumbnail string      `json:"thumbnail"`
	Teacher   TeacherCard `json:"teacher"`
}

// CoursePage wraps one page of the public catalogue.
type CoursePage struct {
	Page    int              `json:"page"`
	Limit   int              `json:"limit"`
	Count   int              `json:"count"`
	Courses []CourseListItem `json:"courses"`
}

// CourseDetail is the full course view with lessons, quizzes and feedback.
type CourseDetail struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	Thumbnail       string         `json:"thumbnail"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	TotalEnrollment int            `json:"totalEnrollment"`
	Teacher         TeacherCard    `json:"teacher"`
	Lessons         []LessonDetail `json:"lessons"`
	Feedbacks       []Feedback     `json:"feedbacks"`
}
