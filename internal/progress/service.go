package progress

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/Serg2206/ssvnauka-platform/internal/course"
	"github.com/Serg2206/ssvnauka-platform/internal/logger"
	"github.com/Serg2206/ssvnauka-platform/internal/metrics"
	"github.com/Serg2206/ssvnauka-platform/internal/user"
)

var ErrLessonNotFound = errors.New("lesson not found")

type Service interface {
	UpdateLessonProgress(ctx context.Context, userID, lessonID int, req UpdateRequest) (*UpdateResult, error)
	GetForLesson(ctx context.Context, userID, lessonID int) (*LessonProgress, error)
}

type service struct {
	repo       Repository
	courseRepo course.Repository
	userRepo   user.Repository
}

func NewService(repo Repository, courseRepo course.Repository, userRepo user.Repository) Service {
	return &service{repo: repo, courseRepo: courseRepo, userRepo: userRepo}
}

// UpdateLessonProgress stores the submitted state wholesale, then recomputes
// the course percentage from completed lesson counts. XP is credited only on
// the first transition to completed, so replayed submissions award nothing.
func (s *service) UpdateLessonProgress(ctx context.Context, userID, lessonID int, req UpdateRequest) (*UpdateResult, error) {
	lesson, err := s.courseRepo.FindLessonByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}

	wasCompleted := false
	prev, err := s.repo.GetForUserAndLesson(ctx, userID, lessonID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if prev != nil {
		wasCompleted = prev.Completed
	}

	stored, err := s.repo.Upsert(ctx, userID, lessonID, req.Completed, req.WatchedSeconds)
	if err != nil {
		return nil, err
	}

	xpAwarded := 0
	if req.Completed && !wasCompleted {
		if _, err := s.userRepo.AddXP(ctx, userID, lesson.XPReward); err != nil {
			return nil, err
		}
		xpAwarded = lesson.XPReward
		metrics.RecordLessonCompletion()
		metrics.RecordXPAwarded(xpAwarded)
	}

	percent, err := s.courseProgress(ctx, userID, lesson.CourseID)
	if err != nil {
		return nil, err
	}

	wasCourseComplete := false
	existing, err := s.courseRepo.GetEnrollment(ctx, userID, lesson.CourseID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if existing != nil && err == nil {
		wasCourseComplete = existing.CompletedAt != nil
	}

	var completedAt *time.Time
	if percent == 100 {
		now := time.Now()
		completedAt = &now
		if existing != nil && existing.CompletedAt != nil {
			completedAt = existing.CompletedAt
		}
	}

	if _, err := s.courseRepo.UpsertEnrollmentProgress(ctx, userID, lesson.CourseID, percent, completedAt); err != nil {
		return nil, err
	}

	if percent == 100 && !wasCourseComplete {
		metrics.RecordCourseCompletion()
		logger.WithFields(map[string]interface{}{
			"user_id":   userID,
			"course_id": lesson.CourseID,
		}).Info("course completed")
	}

	return &UpdateResult{
		Progress:       *stored,
		CourseProgress: percent,
		CourseComplete: percent == 100,
		XPAwarded:      xpAwarded,
	}, nil
}

func (s *service) GetForLesson(ctx context.Context, userID, lessonID int) (*LessonProgress, error) {
	progress, err := s.repo.GetForUserAndLesson(ctx, userID, lessonID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &LessonProgress{UserID: userID, LessonID: lessonID}, nil
		}
		return nil, err
	}
	return progress, nil
}

// courseProgress is round(100 * completed / total); a course without lessons
// reports 0 and never completes.
func (s *service) courseProgress(ctx context.Context, userID, courseID int) (int, error) {
	total, err := s.courseRepo.CountLessons(ctx, courseID)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}

	completed, err := s.repo.CountCompletedByCourse(ctx, userID, courseID)
	if err != nil {
		return 0, err
	}

	return int(math.Round(float64(completed) / float64(total) * 100)), nil
}
