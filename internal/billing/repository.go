package billing

import (
	"context"

	"github.com/Serg2206/ssvnauka-platform/internal/entitlement"

	"github.com/jmoiron/sqlx"
)

const subscriptionColumns = `id, user_id, customer_ref, subscription_ref, plan, status,
	current_period_start, current_period_end, trial_ends_at, cancel_at_period_end,
	created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// UpsertByUser writes the subscription state wholesale, keyed on the unique
// user_id. The incoming state always wins; replaying an event lands on the
// same row.
func (r *repository) UpsertByUser(ctx context.Context, sub *Subscription) (*Subscription, error) {
	saved := &Subscription{}
	err := r.db.GetContext(ctx, saved, `
		INSERT INTO subscriptions (user_id, customer_ref, subscription_ref, plan, status,
			current_period_start, current_period_end, trial_ends_at, cancel_at_period_end, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET customer_ref = COALESCE(EXCLUDED.customer_ref, subscriptions.customer_ref),
		    subscription_ref = COALESCE(EXCLUDED.subscription_ref, subscriptions.subscription_ref),
		    plan = EXCLUDED.plan,
		    status = EXCLUDED.status,
		    current_period_start = EXCLUDED.current_period_start,
		    current_period_end = EXCLUDED.current_period_end,
		    trial_ends_at = EXCLUDED.trial_ends_at,
		    cancel_at_period_end = EXCLUDED.cancel_at_period_end,
		    updated_at = NOW()
		RETURNING `+subscriptionColumns+`
	`, sub.UserID, sub.CustomerRef, sub.SubscriptionRef, sub.Plan, sub.Status,
		sub.CurrentPeriodStart, sub.CurrentPeriodEnd, sub.TrialEndsAt, sub.CancelAtPeriodEnd)
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (r *repository) FindByUserID(ctx context.Context, userID int) (*Subscription, error) {
	sub := &Subscription{}
	err := r.db.GetContext(ctx, sub, `
		SELECT `+subscriptionColumns+` FROM subscriptions WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *repository) FindByCustomerRef(ctx context.Context, ref string) (*Subscription, error) {
	sub := &Subscription{}
	err := r.db.GetContext(ctx, sub, `
		SELECT `+subscriptionColumns+` FROM subscriptions WHERE customer_ref = $1
	`, ref)
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *repository) FindBySubscriptionRef(ctx context.Context, ref string) (*Subscription, error) {
	sub := &Subscription{}
	err := r.db.GetContext(ctx, sub, `
		SELECT `+subscriptionColumns+` FROM subscriptions WHERE subscription_ref = $1
	`, ref)
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int, status entitlement.Status) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE subscriptions SET status = $2, updated_at = NOW() WHERE id = $1
	`, id, status)
	return err
}

func (r *repository) SetCustomerRef(ctx context.Context, userID int, ref string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE subscriptions SET customer_ref = $2, updated_at = NOW() WHERE user_id = $1
	`, userID, ref)
	return err
}

// CreatePurchase appends a payment record; the unique payment_ref index makes
// a replayed invoice a no-op. Returns false when the record already existed.
func (r *repository) CreatePurchase(ctx context.Context, userID int, amountCents int64, currency, paymentRef, status string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO purchases (user_id, amount_cents, currency, payment_ref, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (payment_ref) DO NOTHING
	`, userID, amountCents, currency, paymentRef, status)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// SeedFree gives a fresh account its free-tier subscription row. The row
// starts INCOMPLETE so it never grants access. Safe to call twice thanks to
// the unique user_id.
func (r *repository) SeedFree(ctx context.Context, userID int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subscriptions (user_id, plan, status)
		VALUES ($1, 'free', $2)
		ON CONFLICT (user_id) DO NOTHING
	`, userID, entitlement.StatusIncomplete)
	return err
}
