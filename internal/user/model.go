package user

import "time"

// XP thresholds: every 100 points is a level.
const xpPerLevel = 100

type User struct {
	ID           int       `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Name         string    `db:"name" json:"name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	XP           int       `db:"xp" json:"xp"`
	Level        int       `db:"level" json:"level"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// LevelForXP derives the stored level from a cumulative XP total.
func LevelForXP(xp int) int {
	if xp < 0 {
		return 1
	}
	return xp/xpPerLevel + 1
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

type UpdateProfileRequest struct {
	Name *string `json:"name,omitempty"`
}

// DashboardStats summarizes a user's learning activity.
type DashboardStats struct {
	EnrolledCourses  int `json:"enrolled_courses"`
	CompletedLessons int `json:"completed_lessons"`
	WatchTimeMinutes int `json:"watch_time_minutes"`
}

type RecentActivity struct {
	LessonID      int       `db:"lesson_id" json:"lesson_id"`
	LessonTitle   string    `db:"title_ru" json:"lesson_title"`
	CourseSlug    string    `db:"course_slug" json:"course_slug"`
	Completed     bool      `db:"completed" json:"completed"`
	LastWatchedAt time.Time `db:"last_watched_at" json:"last_watched_at"`
}
