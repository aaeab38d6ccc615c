package progress

import (
	"context"

	"github.com/Serg2206/ssvnauka-platform/internal/course"
)

type Repository interface {
	GetForUserAndLesson(ctx context.Context, userID, lessonID int) (*LessonProgress, error)
	Upsert(ctx context.Context, userID, lessonID int, completed bool, watchedSeconds int) (*LessonProgress, error)
	CountCompletedByCourse(ctx context.Context, userID, courseID int) (int, error)
	ListByCourse(ctx context.Context, userID, courseID int) ([]course.LessonProgressView, error)
}
