package user

import "context"

type Repository interface {
	Create(ctx context.Context, name, email, passwordHash, role string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, id int, name string) (*User, error)
	UpdateRole(ctx context.Context, id int, role string) error
	AddXP(ctx context.Context, id, points int) (*User, error)
	EnrolledCourseCount(ctx context.Context, userID int) (int, error)
	CompletedLessonCount(ctx context.Context, userID int) (int, error)
	TotalWatchedSeconds(ctx context.Context, userID int) (int, error)
	RecentActivity(ctx context.Context, userID, limit int) ([]RecentActivity, error)
}
