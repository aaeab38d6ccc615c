package course

import (
	"context"
	"time"
)

type Repository interface {
	ListPublished(ctx context.Context, filter ListFilter) ([]Course, error)
	FindBySlug(ctx context.Context, slug string) (*Course, error)
	ListLessons(ctx context.Context, courseID int) ([]Lesson, error)
	FindLessonByID(ctx context.Context, lessonID int) (*Lesson, error)
	CountLessons(ctx context.Context, courseID int) (int, error)
	GetEnrollment(ctx context.Context, userID, courseID int) (*Enrollment, error)
	CreateEnrollment(ctx context.Context, userID, courseID int) (*Enrollment, error)
	UpsertEnrollmentProgress(ctx context.Context, userID, courseID, progress int, completedAt *time.Time) (*Enrollment, error)
	TouchLastAccessed(ctx context.Context, userID, courseID int) error
}

// ProgressReader supplies per-lesson progress for course detail pages.
// Implemented by the progress repository.
type ProgressReader interface {
	ListByCourse(ctx context.Context, userID, courseID int) ([]LessonProgressView, error)
}
