package progress

import (
	"context"

	"github.com/Serg2206/ssvnauka-platform/internal/course"

	"github.com/jmoiron/sqlx"
)

const progressColumns = `id, user_id, lesson_id, completed, watched_seconds, last_watched_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetForUserAndLesson(ctx context.Context, userID, lessonID int) (*LessonProgress, error) {
	progress := &LessonProgress{}
	err := r.db.GetContext(ctx, progress, `
		SELECT `+progressColumns+`
		FROM lesson_progress
		WHERE user_id = $1 AND lesson_id = $2
	`, userID, lessonID)
	if err != nil {
		return nil, err
	}
	return progress, nil
}

// Upsert replaces the stored state wholesale; the unique (user_id, lesson_id)
// key keeps repeated submissions from drifting.
func (r *repository) Upsert(ctx context.Context, userID, lessonID int, completed bool, watchedSeconds int) (*LessonProgress, error) {
	progress := &LessonProgress{}
	err := r.db.GetContext(ctx, progress, `
		INSERT INTO lesson_progress (user_id, lesson_id, completed, watched_seconds, last_watched_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id, lesson_id) DO UPDATE
		SET completed = EXCLUDED.completed,
		    watched_seconds = EXCLUDED.watched_seconds,
		    last_watched_at = NOW()
		RETURNING `+progressColumns+`
	`, userID, lessonID, completed, watchedSeconds)
	if err != nil {
		return nil, err
	}
	return progress, nil
}

func (r *repository) CountCompletedByCourse(ctx context.Context, userID, courseID int) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*)
		FROM lesson_progress lp
		JOIN lessons l ON l.id = lp.lesson_id
		WHERE lp.user_id = $1 AND l.course_id = $2 AND lp.completed = TRUE
	`, userID, courseID)
	return count, err
}

func (r *repository) ListByCourse(ctx context.Context, userID, courseID int) ([]course.LessonProgressView, error) {
	views := []course.LessonProgressView{}
	err := r.db.SelectContext(ctx, &views, `
		SELECT lp.lesson_id, lp.completed, lp.watched_seconds
		FROM lesson_progress lp
		JOIN lessons l ON l.id = lp.lesson_id
		WHERE lp.user_id = $1 AND l.course_id = $2
		ORDER BY l.sort_order
	`, userID, courseID)
	return views, err
}
