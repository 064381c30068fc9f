package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/coursehub-dev/coursehub-api/internal/models"
)

// CourseRepository manages persistence for courses and their student set.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// Create inserts a new course record.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = models.NewID()
	}
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now

	const query = `INSERT INTO courses (id, teacher_id, title, description, thumbnail, created_at, updated_at)
		VALUES (:id, :teacher_id, :title, :description, :thumbnail, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// FindByID fetches a course by ID.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	const query = `SELECT id, teacher_id, title, description, thumbnail, created_at, updated_at FROM courses WHERE id = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// ApplyPatch updates only the fields present in the patch.
func (r *CourseRepository) ApplyPatch(ctx context.Context, id string, patch models.CoursePatch) error {
	sets := []string{}
	args := []interface{}{}

	if patch.Title != nil {
		sets = append(sets, fmt.Sprintf("title = $%d", len(args)+1))
		args = append(args, *patch.Title)
	}
	if patch.Description != nil {
		sets = append(sets, fmt.Sprintf("description = $%d", len(args)+1))
		args = append(args, *patch.Description)
	}
	if patch.Thumbnail != nil {
		sets = append(sets, fmt.Sprintf("thumbnail = $%d", len(args)+1))
		args = append(args, *patch.Thumbnail)
	}
	if len(sets) == 0 {
		return nil
	}

	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)+1))
	args = append(args, time.Now().UTC())
	args = append(args, id)

	query := fmt.Sprintf("UPDATE courses SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("patch course: %w", err)
	}
	return nil
}

// Delete removes a course. Lessons, quizzes, enrollments, feedback and
// progress go with it through the schema's cascade rules.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM courses WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return nil
}

// ListByTeacher returns a teacher's courses, newest first, with enrollment counts.
func (r *CourseRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.TeacherCourse, error) {
	const query = `SELECT c.id, c.title, c.thumbnail, c.description, c.created_at,
			(SELECT COUNT(*) FROM enrollments e WHERE e.course_id = c.id) AS total_enrollments
		FROM courses c
		WHERE c.teacher_id = $1
		ORDER BY c.created_at DESC`
	var courses []models.TeacherCourse
	if err := r.db.SelectContext(ctx, &courses, query, teacherID); err != nil {
		return nil, fmt.Errorf("list teacher courses: %w", err)
	}
	return courses, nil
}

type courseListRow struct {
	ID             string `db:"id"`
	Title          string `db:"title"`
	Thumbnail      string `db:"thumbnail"`
	TeacherName    string `db:"teacher_name"`
	TeacherProfile string `db:"teacher_profile"`
}

// ListAll returns one page of the public catalogue, optionally filtered by a
// case-insensitive substring match on the title. Pages are 1-based, newest
// courses first.
func (r *CourseRepository) ListAll(ctx context.Context, filter models.CourseFilter) ([]models.CourseListItem, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 10
	}
	offset := (page - 1) * size

	query := `SELECT c.id, c.title, c.thumbnail,
			TRIM(u.first_name || ' ' || u.last_name) AS teacher_name,
			t.profile AS teacher_profile
		FROM courses c
		JOIN teachers t ON t.id = c.teacher_id
		JOIN users u ON u.account_id = t.account_id`
	args := []interface{}{}
	if filter.Search != "" {
		query += " WHERE c.title ILIKE $1"
		args = append(args, "%"+filter.Search+"%")
	}
	query += fmt.Sprintf(" ORDER BY c.created_at DESC LIMIT %d OFFSET %d", size, offset)

	var rows []courseListRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	items := make([]models.CourseListItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, models.CourseListItem{
			ID:        row.ID,
			Title:     row.Title,
			Thumbnail: row.Thumbnail,
			Teacher:   models.TeacherCard{Name: row.TeacherName, Profile: row.TeacherProfile},
		})
	}
	return items, nil
}

// TeacherInfo resolves the public card for a teacher.
func (r *CourseRepository) TeacherInfo(ctx context.Context, teacherID string) (*models.TeacherCard, error) {
	const query = `SELECT TRIM(u.first_name || ' ' || u.last_name) AS name, t.profile
		FROM teachers t
		JOIN users u ON u.account_id = t.account_id
		WHERE t.id = $1`
	var card models.TeacherCard
	if err := r.db.GetContext(ctx, &card, query, teacherID); err != nil {
		return nil, err
	}
	return &card, nil
}

// Enroll adds the user to the course's student set. The insert is an atomic
// add-if-absent; the returned flag is false when the user was already enrolled.
func (r *CourseRepository) Enroll(ctx context.Context, courseID, userID string) (bool, error) {
	const query = `INSERT INTO enrollments (course_id, user_id, enrolled_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (course_id, user_id) DO NOTHING`
	res, err := r.db.ExecContext(ctx, query, courseID, userID, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("enroll: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("enroll result: %w", err)
	}
	return affected > 0, nil
}

// IsEnrolled reports membership of the user in the course's student set.
func (r *CourseRepository) IsEnrolled(ctx context.Context, courseID, userID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM enrollments WHERE course_id = $1 AND user_id = $2)`
	var enrolled bool
	if err := r.db.GetContext(ctx, &enrolled, query, courseID, userID); err != nil {
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return enrolled, nil
}

// StudentCount returns the size of the course's student set.
func (r *CourseRepository) StudentCount(ctx context.Context, courseID string) (int, error) {
	const query = `SELECT COUNT(*) FROM enrollments WHERE course_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, courseID); err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return count, nil
}

// ListFeedback returns all feedback left on a course, newest first.
func (r *CourseRepository) ListFeedback(ctx context.Context, courseID string) ([]models.Feedback, error) {
	const query = `SELECT id, user_id, course_id, rating, comment, created_at, updated_at
		FROM feedback WHERE course_id = $1 ORDER BY created_at DESC`
	var feedback []models.Feedback
	if err := r.db.SelectContext(ctx, &feedback, query, courseID); err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return feedback, nil
}
