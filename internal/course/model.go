package course

import "time"

type Course struct {
	ID          int       `db:"id" json:"id"`
	CategoryID  int       `db:"category_id" json:"category_id"`
	Slug        string    `db:"slug" json:"slug"`
	TitleRu     string    `db:"title_ru" json:"title_ru"`
	TitleEn     string    `db:"title_en" json:"title_en"`
	Description string    `db:"description" json:"description"`
	Level       string    `db:"level" json:"level"`
	Featured    bool      `db:"featured" json:"featured"`
	Published   bool      `db:"published" json:"published"`
	LessonCount int       `db:"lesson_count" json:"lesson_count"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type Lesson struct {
	ID              int    `db:"id" json:"id"`
	CourseID        int    `db:"course_id" json:"course_id"`
	VideoID         *int   `db:"video_id" json:"video_id,omitempty"`
	Slug            string `db:"slug" json:"slug"`
	TitleRu         string `db:"title_ru" json:"title_ru"`
	TitleEn         string `db:"title_en" json:"title_en"`
	SortOrder       int    `db:"sort_order" json:"sort_order"`
	DurationSeconds int    `db:"duration_seconds" json:"duration_seconds"`
	XPReward        int    `db:"xp_reward" json:"xp_reward"`
}

// Enrollment ties a user to a course. Progress is a cached percentage
// recomputed by the progress aggregator on every lesson update; CompletedAt
// is set when progress reaches 100 and cleared if it regresses below.
type Enrollment struct {
	ID             int        `db:"id" json:"id"`
	UserID         int        `db:"user_id" json:"user_id"`
	CourseID       int        `db:"course_id" json:"course_id"`
	Progress       int        `db:"progress" json:"progress"`
	EnrolledAt     time.Time  `db:"enrolled_at" json:"enrolled_at"`
	CompletedAt    *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	LastAccessedAt time.Time  `db:"last_accessed_at" json:"last_accessed_at"`
}

// LessonProgressView is the per-lesson progress slice attached to a course
// detail response for a signed-in user.
type LessonProgressView struct {
	LessonID       int  `db:"lesson_id" json:"lesson_id"`
	Completed      bool `db:"completed" json:"completed"`
	WatchedSeconds int  `db:"watched_seconds" json:"watched_seconds"`
}

type ListFilter struct {
	Level      string
	CategoryID int
	Featured   bool
}

type Detail struct {
	Course          Course               `json:"course"`
	Lessons         []Lesson             `json:"lessons"`
	Enrollment      *Enrollment          `json:"enrollment,omitempty"`
	LessonsProgress []LessonProgressView `json:"lessons_progress,omitempty"`
}
