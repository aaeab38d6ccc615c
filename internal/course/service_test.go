package course

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/Serg2206/ssvnauka-platform/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	m.Run()
}

// Mock repositories
type MockCourseRepo struct{ mock.Mock }
type MockProgressReader struct{ mock.Mock }

func (m *MockCourseRepo) ListPublished(ctx context.Context, filter ListFilter) ([]Course, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Course), args.Error(1)
}

func (m *MockCourseRepo) FindBySlug(ctx context.Context, slug string) (*Course, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Course), args.Error(1)
}

func (m *MockCourseRepo) ListLessons(ctx context.Context, courseID int) ([]Lesson, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Lesson), args.Error(1)
}

func (m *MockCourseRepo) FindLessonByID(ctx context.Context, lessonID int) (*Lesson, error) {
	args := m.Called(ctx, lessonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Lesson), args.Error(1)
}

func (m *MockCourseRepo) CountLessons(ctx context.Context, courseID int) (int, error) {
	args := m.Called(ctx, courseID)
	return args.Int(0), args.Error(1)
}

func (m *MockCourseRepo) GetEnrollment(ctx context.Context, userID, courseID int) (*Enrollment, error) {
	args := m.Called(ctx, userID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Enrollment), args.Error(1)
}

func (m *MockCourseRepo) CreateEnrollment(ctx context.Context, userID, courseID int) (*Enrollment, error) {
	args := m.Called(ctx, userID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Enrollment), args.Error(1)
}

func (m *MockCourseRepo) UpsertEnrollmentProgress(ctx context.Context, userID, courseID, progress int, completedAt *time.Time) (*Enrollment, error) {
	args := m.Called(ctx, userID, courseID, progress, completedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Enrollment), args.Error(1)
}

func (m *MockCourseRepo) TouchLastAccessed(ctx context.Context, userID, courseID int) error {
	return m.Called(ctx, userID, courseID).Error(0)
}

func (m *MockProgressReader) ListByCourse(ctx context.Context, userID, courseID int) ([]LessonProgressView, error) {
	args := m.Called(ctx, userID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]LessonProgressView), args.Error(1)
}

func TestGetBySlug_Anonymous(t *testing.T) {
	repo := new(MockCourseRepo)
	reader := new(MockProgressReader)
	svc := NewService(repo, reader)
	ctx := context.Background()

	repo.On("FindBySlug", ctx, "intro-physics").Return(&Course{ID: 3, Slug: "intro-physics"}, nil)
	repo.On("ListLessons", ctx, 3).Return([]Lesson{{ID: 7, CourseID: 3}}, nil)

	detail, err := svc.GetBySlug(ctx, "intro-physics", 0)
	require.NoError(t, err)
	assert.Equal(t, 3, detail.Course.ID)
	assert.Len(t, detail.Lessons, 1)
	assert.Nil(t, detail.Enrollment)
	repo.AssertNotCalled(t, "GetEnrollment", mock.Anything, mock.Anything, mock.Anything)
	reader.AssertNotCalled(t, "ListByCourse", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetBySlug_EnrolledUser(t *testing.T) {
	repo := new(MockCourseRepo)
	reader := new(MockProgressReader)
	svc := NewService(repo, reader)
	ctx := context.Background()

	repo.On("FindBySlug", ctx, "intro-physics").Return(&Course{ID: 3, Slug: "intro-physics"}, nil)
	repo.On("ListLessons", ctx, 3).Return([]Lesson{{ID: 7}, {ID: 8}}, nil)
	repo.On("GetEnrollment", ctx, 1, 3).Return(&Enrollment{UserID: 1, CourseID: 3, Progress: 50}, nil)
	reader.On("ListByCourse", ctx, 1, 3).Return([]LessonProgressView{
		{LessonID: 7, Completed: true, WatchedSeconds: 300},
	}, nil)
	repo.On("TouchLastAccessed", ctx, 1, 3).Return(nil)

	detail, err := svc.GetBySlug(ctx, "intro-physics", 1)
	require.NoError(t, err)
	require.NotNil(t, detail.Enrollment)
	assert.Equal(t, 50, detail.Enrollment.Progress)
	assert.Len(t, detail.LessonsProgress, 1)
	repo.AssertExpectations(t)
}

func TestGetBySlug_NotEnrolledUser(t *testing.T) {
	repo := new(MockCourseRepo)
	reader := new(MockProgressReader)
	svc := NewService(repo, reader)
	ctx := context.Background()

	repo.On("FindBySlug", ctx, "intro-physics").Return(&Course{ID: 3}, nil)
	repo.On("ListLessons", ctx, 3).Return([]Lesson{}, nil)
	repo.On("GetEnrollment", ctx, 1, 3).Return(nil, sql.ErrNoRows)

	detail, err := svc.GetBySlug(ctx, "intro-physics", 1)
	require.NoError(t, err)
	assert.Nil(t, detail.Enrollment)
	assert.Nil(t, detail.LessonsProgress)
	reader.AssertNotCalled(t, "ListByCourse", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetBySlug_UnknownSlug(t *testing.T) {
	repo := new(MockCourseRepo)
	svc := NewService(repo, new(MockProgressReader))
	ctx := context.Background()

	repo.On("FindBySlug", ctx, "missing").Return(nil, sql.ErrNoRows)

	_, err := svc.GetBySlug(ctx, "missing", 0)
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestEnroll(t *testing.T) {
	repo := new(MockCourseRepo)
	svc := NewService(repo, new(MockProgressReader))
	ctx := context.Background()

	repo.On("FindBySlug", ctx, "intro-physics").Return(&Course{ID: 3}, nil)
	repo.On("GetEnrollment", ctx, 1, 3).Return(nil, sql.ErrNoRows)
	repo.On("CreateEnrollment", ctx, 1, 3).Return(&Enrollment{ID: 10, UserID: 1, CourseID: 3}, nil)

	enrollment, err := svc.Enroll(ctx, 1, "intro-physics")
	require.NoError(t, err)
	assert.Equal(t, 10, enrollment.ID)
	repo.AssertExpectations(t)
}

func TestEnroll_AlreadyEnrolled(t *testing.T) {
	repo := new(MockCourseRepo)
	svc := NewService(repo, new(MockProgressReader))
	ctx := context.Background()

	existing := &Enrollment{ID: 10, UserID: 1, CourseID: 3, Progress: 40}
	repo.On("FindBySlug", ctx, "intro-physics").Return(&Course{ID: 3}, nil)
	repo.On("GetEnrollment", ctx, 1, 3).Return(existing, nil)

	enrollment, err := svc.Enroll(ctx, 1, "intro-physics")
	require.NoError(t, err)
	assert.Equal(t, existing, enrollment)
	repo.AssertNotCalled(t, "CreateEnrollment", mock.Anything, mock.Anything, mock.Anything)
}

func TestEnroll_UnknownSlug(t *testing.T) {
	repo := new(MockCourseRepo)
	svc := NewService(repo, new(MockProgressReader))
	ctx := context.Background()

	repo.On("FindBySlug", ctx, "missing").Return(nil, sql.ErrNoRows)

	_, err := svc.Enroll(ctx, 1, "missing")
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestList_RepoError(t *testing.T) {
	repo := new(MockCourseRepo)
	svc := NewService(repo, new(MockProgressReader))
	ctx := context.Background()

	repo.On("ListPublished", ctx, ListFilter{}).Return(nil, errors.New("db down"))

	_, err := svc.List(ctx, ListFilter{})
	assert.Error(t, err)
}
