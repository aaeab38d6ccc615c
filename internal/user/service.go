package user

import (
	"context"
	"errors"

	"github.com/Serg2206/ssvnauka-platform/internal/auth"
	"github.com/Serg2206/ssvnauka-platform/internal/email"
	"github.com/Serg2206/ssvnauka-platform/internal/logger"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// SubscriptionSeeder creates the initial free subscription row for a new
// user. Implemented by the billing repository; injected as an interface to
// keep this package independent of billing.
type SubscriptionSeeder interface {
	SeedFree(ctx context.Context, userID int) error
}

type Dashboard struct {
	User           *User            `json:"user"`
	Stats          DashboardStats   `json:"stats"`
	RecentActivity []RecentActivity `json:"recent_activity"`
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, string, string, error)
	Login(ctx context.Context, req LoginRequest) (*User, string, string, error)
	GetByID(ctx context.Context, userID int) (*User, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, *User, error)
	UpdateProfile(ctx context.Context, userID int, req UpdateProfileRequest) (*User, error)
	GetDashboard(ctx context.Context, userID int) (*Dashboard, error)
}

type service struct {
	repo      Repository
	seeder    SubscriptionSeeder
	emails    *email.Service
	jwtSecret string
}

func NewService(repo Repository, seeder SubscriptionSeeder, emails *email.Service, jwtSecret string) Service {
	return &service{
		repo:      repo,
		seeder:    seeder,
		emails:    emails,
		jwtSecret: jwtSecret,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, string, string, error) {
	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, "", "", err
	}
	if exists {
		return nil, "", "", ErrEmailExists
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", "", err
	}

	user, err := s.repo.Create(ctx, req.Name, req.Email, passwordHash, auth.RoleUser)
	if err != nil {
		return nil, "", "", err
	}

	if err := s.seeder.SeedFree(ctx, user.ID); err != nil {
		logger.Errorf("Failed to seed free subscription for user %d: %v", user.ID, err)
	}

	if s.emails != nil {
		if err := s.emails.SendWelcome(ctx, user.Email, user.Name); err != nil {
			logger.Errorf("Failed to queue welcome email for %s: %v", user.Email, err)
		}
	}

	accessToken, refreshToken, err := auth.GenerateTokens(
		user.ID,
		user.Email,
		user.Role,
		s.jwtSecret,
		s.jwtSecret,
	)
	if err != nil {
		return nil, "", "", err
	}

	return user, accessToken, refreshToken, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*User, string, string, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, "", "", ErrInvalidCredentials
	}

	accessToken, refreshToken, err := auth.GenerateTokens(
		user.ID,
		user.Email,
		user.Role,
		s.jwtSecret,
		s.jwtSecret,
	)
	if err != nil {
		return nil, "", "", err
	}

	return user, accessToken, refreshToken, nil
}

func (s *service) GetByID(ctx context.Context, userID int) (*User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, *User, error) {
	_, claims, err := auth.RefreshAccessToken(refreshToken, s.jwtSecret, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", nil, ErrUserNotFound
	}

	newAccessToken, err := auth.GenerateAccessToken(user.ID, user.Email, user.Role, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	return newAccessToken, user, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID int, req UpdateProfileRequest) (*User, error) {
	current, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	name := current.Name
	if req.Name != nil {
		name = *req.Name
	}

	return s.repo.UpdateProfile(ctx, userID, name)
}

func (s *service) GetDashboard(ctx context.Context, userID int) (*Dashboard, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	enrolled, err := s.repo.EnrolledCourseCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	completed, err := s.repo.CompletedLessonCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	watchedSeconds, err := s.repo.TotalWatchedSeconds(ctx, userID)
	if err != nil {
		return nil, err
	}

	recent, err := s.repo.RecentActivity(ctx, userID, 10)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		User: user,
		Stats: DashboardStats{
			EnrolledCourses:  enrolled,
			CompletedLessons: completed,
			WatchTimeMinutes: watchedSeconds / 60,
		},
		RecentActivity: recent,
	}, nil
}
