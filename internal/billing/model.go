package billing

import (
	"time"

	"github.com/Serg2206/ssvnauka-platform/internal/entitlement"
)

// Subscription is the local mirror of the processor's subscription state,
// one row per user. CustomerRef and SubscriptionRef come from the processor
// and stay NULL until the user first reaches checkout.
type Subscription struct {
	ID                 int                `db:"id" json:"id"`
	UserID             int                `db:"user_id" json:"user_id"`
	CustomerRef        *string            `db:"customer_ref" json:"-"`
	SubscriptionRef    *string            `db:"subscription_ref" json:"-"`
	Plan               string             `db:"plan" json:"plan"`
	Status             entitlement.Status `db:"status" json:"status"`
	CurrentPeriodStart *time.Time         `db:"current_period_start" json:"current_period_start,omitempty"`
	CurrentPeriodEnd   *time.Time         `db:"current_period_end" json:"current_period_end,omitempty"`
	TrialEndsAt        *time.Time         `db:"trial_ends_at" json:"trial_ends_at,omitempty"`
	CancelAtPeriodEnd  bool               `db:"cancel_at_period_end" json:"cancel_at_period_end"`
	CreatedAt          time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `db:"updated_at" json:"updated_at"`
}

// Purchase is an append-only payment record.
type Purchase struct {
	ID          int       `db:"id" json:"id"`
	UserID      int       `db:"user_id" json:"user_id"`
	AmountCents int64     `db:"amount_cents" json:"amount_cents"`
	Currency    string    `db:"currency" json:"currency"`
	PaymentRef  string    `db:"payment_ref" json:"payment_ref"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

const (
	PurchaseSucceeded = "SUCCEEDED"
)

// Processor event payloads, one struct per webhook type.

type CheckoutCompletedEvent struct {
	UserID         int    `json:"user_id"`
	CustomerID     string `json:"customer_id"`
	SubscriptionID string `json:"subscription_id"`
	Plan           string `json:"plan"`
}

type SubscriptionEvent struct {
	SubscriptionID     string     `json:"subscription_id"`
	CustomerID         string     `json:"customer_id"`
	Status             string     `json:"status"`
	Plan               string     `json:"plan"`
	CurrentPeriodStart *time.Time `json:"current_period_start"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end"`
	TrialEnd           *time.Time `json:"trial_end"`
	CancelAtPeriodEnd  bool       `json:"cancel_at_period_end"`
	// OwnerUserID is set when the processor echoes our metadata back;
	// zero means resolve through CustomerID.
	OwnerUserID int `json:"owner_user_id"`
}

type SubscriptionDeletedEvent struct {
	CustomerID string `json:"customer_id"`
}

type InvoicePaidEvent struct {
	SubscriptionID string `json:"subscription_id"`
	AmountCents    int64  `json:"amount_cents"`
	Currency       string `json:"currency"`
	PaymentRef     string `json:"payment_ref"`
}

type InvoiceFailedEvent struct {
	SubscriptionID string `json:"subscription_id"`
}

type CheckoutRequest struct {
	Plan string `json:"plan" binding:"required"`
}

// SubscriptionSnapshot is what GET /me/subscription exposes to clients.
type SubscriptionSnapshot struct {
	Plan              string             `json:"plan"`
	Status            entitlement.Status `json:"status"`
	CurrentPeriodEnd  *time.Time         `json:"current_period_end,omitempty"`
	TrialEndsAt       *time.Time         `json:"trial_ends_at,omitempty"`
	CancelAtPeriodEnd bool               `json:"cancel_at_period_end"`
}
