package course

import (
	"context"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
)

const courseColumns = `c.id, c.category_id, c.slug, c.title_ru, c.title_en, c.description,
	c.level, c.featured, c.published, c.created_at`

const enrollmentColumns = `id, user_id, course_id, progress, enrolled_at, completed_at, last_accessed_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListPublished(ctx context.Context, filter ListFilter) ([]Course, error) {
	query := `
		SELECT ` + courseColumns + `, COUNT(l.id) AS lesson_count
		FROM courses c
		LEFT JOIN lessons l ON l.course_id = c.id
		WHERE c.published = TRUE`
	args := []interface{}{}

	if filter.Level != "" {
		args = append(args, filter.Level)
		query += ` AND c.level = $` + strconv.Itoa(len(args))
	}
	if filter.CategoryID != 0 {
		args = append(args, filter.CategoryID)
		query += ` AND c.category_id = $` + strconv.Itoa(len(args))
	}
	if filter.Featured {
		query += ` AND c.featured = TRUE`
	}

	query += `
		GROUP BY c.id
		ORDER BY c.featured DESC, c.created_at DESC`

	courses := []Course{}
	err := r.db.SelectContext(ctx, &courses, query, args...)
	return courses, err
}

func (r *repository) FindBySlug(ctx context.Context, slug string) (*Course, error) {
	course := &Course{}
	err := r.db.GetContext(ctx, course, `
		SELECT `+courseColumns+`, COUNT(l.id) AS lesson_count
		FROM courses c
		LEFT JOIN lessons l ON l.course_id = c.id
		WHERE c.slug = $1
		GROUP BY c.id
	`, slug)
	if err != nil {
		return nil, err
	}
	return course, nil
}

func (r *repository) ListLessons(ctx context.Context, courseID int) ([]Lesson, error) {
	lessons := []Lesson{}
	err := r.db.SelectContext(ctx, &lessons, `
		SELECT id, course_id, video_id, slug, title_ru, title_en,
		       sort_order, duration_seconds, xp_reward
		FROM lessons
		WHERE course_id = $1
		ORDER BY sort_order
	`, courseID)
	return lessons, err
}

func (r *repository) FindLessonByID(ctx context.Context, lessonID int) (*Lesson, error) {
	lesson := &Lesson{}
	err := r.db.GetContext(ctx, lesson, `
		SELECT id, course_id, video_id, slug, title_ru, title_en,
		       sort_order, duration_seconds, xp_reward
		FROM lessons
		WHERE id = $1
	`, lessonID)
	if err != nil {
		return nil, err
	}
	return lesson, nil
}

func (r *repository) CountLessons(ctx context.Context, courseID int) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM lessons WHERE course_id = $1
	`, courseID)
	return count, err
}

func (r *repository) GetEnrollment(ctx context.Context, userID, courseID int) (*Enrollment, error) {
	enrollment := &Enrollment{}
	err := r.db.GetContext(ctx, enrollment, `
		SELECT `+enrollmentColumns+`
		FROM enrollments
		WHERE user_id = $1 AND course_id = $2
	`, userID, courseID)
	if err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (r *repository) CreateEnrollment(ctx context.Context, userID, courseID int) (*Enrollment, error) {
	enrollment := &Enrollment{}
	err := r.db.GetContext(ctx, enrollment, `
		INSERT INTO enrollments (user_id, course_id, progress)
		VALUES ($1, $2, 0)
		RETURNING `+enrollmentColumns+`
	`, userID, courseID)
	if err != nil {
		return nil, err
	}
	return enrollment, nil
}

// UpsertEnrollmentProgress writes the recomputed percentage wholesale; the
// unique (user_id, course_id) key makes the write atomic per enrollment.
func (r *repository) UpsertEnrollmentProgress(ctx context.Context, userID, courseID, progress int, completedAt *time.Time) (*Enrollment, error) {
	enrollment := &Enrollment{}
	err := r.db.GetContext(ctx, enrollment, `
		INSERT INTO enrollments (user_id, course_id, progress, completed_at, last_accessed_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id, course_id) DO UPDATE
		SET progress = EXCLUDED.progress,
		    completed_at = EXCLUDED.completed_at,
		    last_accessed_at = NOW()
		RETURNING `+enrollmentColumns+`
	`, userID, courseID, progress, completedAt)
	if err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (r *repository) TouchLastAccessed(ctx context.Context, userID, courseID int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE enrollments
		SET last_accessed_at = NOW()
		WHERE user_id = $1 AND course_id = $2
	`, userID, courseID)
	return err
}
