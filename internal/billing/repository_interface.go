package billing

import (
	"context"

	"github.com/Serg2206/ssvnauka-platform/internal/entitlement"
)

type Repository interface {
	UpsertByUser(ctx context.Context, sub *Subscription) (*Subscription, error)
	FindByUserID(ctx context.Context, userID int) (*Subscription, error)
	FindByCustomerRef(ctx context.Context, ref string) (*Subscription, error)
	FindBySubscriptionRef(ctx context.Context, ref string) (*Subscription, error)
	UpdateStatus(ctx context.Context, id int, status entitlement.Status) error
	SetCustomerRef(ctx context.Context, userID int, ref string) error
	CreatePurchase(ctx context.Context, userID int, amountCents int64, currency, paymentRef, status string) (bool, error)
	SeedFree(ctx context.Context, userID int) error
}
