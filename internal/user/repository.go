package user

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrUserNotFound = errors.New("user not found")

const userColumns = `id, email, name, password_hash, role, xp, level, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, name, email, passwordHash, role string) (*User, error) {
	query := `
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	var user User
	err := r.db.GetContext(ctx, &user, query, name, email, passwordHash, role)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, email)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (r *repository) UpdateProfile(ctx context.Context, id int, name string) (*User, error) {
	query := `
		UPDATE users
		SET name = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	var user User
	err := r.db.GetContext(ctx, &user, query, id, name)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *repository) UpdateRole(ctx context.Context, id int, role string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET role = $2, updated_at = NOW()
		WHERE id = $1
	`, id, role)
	return err
}

// AddXP increments the XP counter and stores the level LevelForXP derives
// from the new total, so the formula lives in one place.
func (r *repository) AddXP(ctx context.Context, id, points int) (*User, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var user User
	err = tx.GetContext(ctx, &user, `
		UPDATE users
		SET xp = xp + $2,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING `+userColumns, id, points)
	if err != nil {
		return nil, err
	}

	user.Level = LevelForXP(user.XP)
	_, err = tx.ExecContext(ctx, `UPDATE users SET level = $2 WHERE id = $1`, id, user.Level)
	if err != nil {
		return nil, err
	}

	return &user, tx.Commit()
}

func (r *repository) EnrolledCourseCount(ctx context.Context, userID int) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM enrollments WHERE user_id = $1
	`, userID)
	return count, err
}

func (r *repository) CompletedLessonCount(ctx context.Context, userID int) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM lesson_progress
		WHERE user_id = $1 AND completed = TRUE
	`, userID)
	return count, err
}

func (r *repository) TotalWatchedSeconds(ctx context.Context, userID int) (int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, `
		SELECT COALESCE(SUM(watched_seconds), 0) FROM lesson_progress
		WHERE user_id = $1
	`, userID)
	return total, err
}

func (r *repository) RecentActivity(ctx context.Context, userID, limit int) ([]RecentActivity, error) {
	items := []RecentActivity{}
	err := r.db.SelectContext(ctx, &items, `
		SELECT lp.lesson_id, l.title_ru, c.slug AS course_slug, lp.completed, lp.last_watched_at
		FROM lesson_progress lp
		JOIN lessons l ON l.id = lp.lesson_id
		JOIN courses c ON c.id = l.course_id
		WHERE lp.user_id = $1
		ORDER BY lp.last_watched_at DESC
		LIMIT $2
	`, userID, limit)
	return items, err
}
