package admin

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Stats struct {
	UsersByRole           map[string]int `json:"users_by_role"`
	SubscriptionsByStatus map[string]int `json:"subscriptions_by_status"`
	RevenueCents          int64          `json:"revenue_cents"`
	MRRCents              int64          `json:"mrr_cents"`
	Courses               int            `json:"courses"`
	Enrollments           int            `json:"enrollments"`
	LessonCompletions     int            `json:"lesson_completions"`
}

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

type labelCount struct {
	Label string `db:"label"`
	Count int    `db:"count"`
}

func (r *Repository) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		UsersByRole:           map[string]int{},
		SubscriptionsByStatus: map[string]int{},
	}

	rows := []labelCount{}
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT role AS label, COUNT(*) AS count FROM users GROUP BY role
	`); err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.UsersByRole[row.Label] = row.Count
	}

	rows = rows[:0]
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT status AS label, COUNT(*) AS count FROM subscriptions GROUP BY status
	`); err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.SubscriptionsByStatus[row.Label] = row.Count
	}

	if err := r.db.GetContext(ctx, &stats.RevenueCents, `
		SELECT COALESCE(SUM(amount_cents), 0) FROM purchases WHERE status = 'SUCCEEDED'
	`); err != nil {
		return nil, err
	}

	// Monthly plans count at full price, yearly at a twelfth.
	if err := r.db.GetContext(ctx, &stats.MRRCents, `
		SELECT COALESCE(SUM(
			CASE
				WHEN plan LIKE '%monthly' THEN monthly.price
				WHEN plan LIKE '%yearly' THEN yearly.price / 12
				ELSE 0
			END), 0)
		FROM subscriptions s,
			LATERAL (SELECT CASE
				WHEN s.plan LIKE 'premium%' THEN 3900
				WHEN s.plan LIKE 'pro%' THEN 9900
				ELSE 0 END AS price) monthly,
			LATERAL (SELECT CASE
				WHEN s.plan LIKE 'premium%' THEN 39000
				WHEN s.plan LIKE 'pro%' THEN 99000
				ELSE 0 END AS price) yearly
		WHERE s.status IN ('ACTIVE', 'TRIALING')
	`); err != nil {
		return nil, err
	}

	if err := r.db.GetContext(ctx, &stats.Courses, `
		SELECT COUNT(*) FROM courses
	`); err != nil {
		return nil, err
	}

	if err := r.db.GetContext(ctx, &stats.Enrollments, `
		SELECT COUNT(*) FROM enrollments
	`); err != nil {
		return nil, err
	}

	if err := r.db.GetContext(ctx, &stats.LessonCompletions, `
		SELECT COUNT(*) FROM lesson_progress WHERE completed = TRUE
	`); err != nil {
		return nil, err
	}

	return stats, nil
}
