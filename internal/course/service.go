package course

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Serg2206/ssvnauka-platform/internal/metrics"
)

var ErrCourseNotFound = errors.New("course not found")

type Service interface {
	List(ctx context.Context, filter ListFilter) ([]Course, error)
	GetBySlug(ctx context.Context, slug string, userID int) (*Detail, error)
	Enroll(ctx context.Context, userID int, slug string) (*Enrollment, error)
}

type service struct {
	repo         Repository
	progressRepo ProgressReader
}

func NewService(repo Repository, progressRepo ProgressReader) Service {
	return &service{repo: repo, progressRepo: progressRepo}
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]Course, error) {
	return s.repo.ListPublished(ctx, filter)
}

// GetBySlug returns the course with its lessons; for a signed-in caller
// (userID > 0) the enrollment and per-lesson progress are attached.
func (s *service) GetBySlug(ctx context.Context, slug string, userID int) (*Detail, error) {
	course, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	lessons, err := s.repo.ListLessons(ctx, course.ID)
	if err != nil {
		return nil, err
	}

	detail := &Detail{Course: *course, Lessons: lessons}

	if userID > 0 {
		enrollment, err := s.repo.GetEnrollment(ctx, userID, course.ID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		if enrollment != nil && err == nil {
			detail.Enrollment = enrollment

			progress, err := s.progressRepo.ListByCourse(ctx, userID, course.ID)
			if err != nil {
				return nil, err
			}
			detail.LessonsProgress = progress

			if err := s.repo.TouchLastAccessed(ctx, userID, course.ID); err != nil {
				return nil, err
			}
		}
	}

	return detail, nil
}

// Enroll is idempotent: re-enrolling returns the existing row unchanged.
func (s *service) Enroll(ctx context.Context, userID int, slug string) (*Enrollment, error) {
	course, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	existing, err := s.repo.GetEnrollment(ctx, userID, course.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	enrollment, err := s.repo.CreateEnrollment(ctx, userID, course.ID)
	if err != nil {
		return nil, err
	}

	metrics.RecordEnrollment()

	return enrollment, nil
}
