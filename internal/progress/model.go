package progress

import "time"

type LessonProgress struct {
	ID             int       `db:"id" json:"id"`
	UserID         int       `db:"user_id" json:"user_id"`
	LessonID       int       `db:"lesson_id" json:"lesson_id"`
	Completed      bool      `db:"completed" json:"completed"`
	WatchedSeconds int       `db:"watched_seconds" json:"watched_seconds"`
	LastWatchedAt  time.Time `db:"last_watched_at" json:"last_watched_at"`
}

type UpdateRequest struct {
	Completed      bool `json:"completed"`
	WatchedSeconds int  `json:"watched_seconds" binding:"min=0"`
}

// UpdateResult carries the stored lesson row plus the recomputed course
// aggregate so clients can refresh both in one round trip.
type UpdateResult struct {
	Progress       LessonProgress `json:"progress"`
	CourseProgress int            `json:"course_progress"`
	CourseComplete bool           `json:"course_complete"`
	XPAwarded      int            `json:"xp_awarded"`
}
