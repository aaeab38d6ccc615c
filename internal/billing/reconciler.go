package billing

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Serg2206/ssvnauka-platform/internal/auth"
	"github.com/Serg2206/ssvnauka-platform/internal/email"
	"github.com/Serg2206/ssvnauka-platform/internal/entitlement"
	"github.com/Serg2206/ssvnauka-platform/internal/logger"
	"github.com/Serg2206/ssvnauka-platform/internal/metrics"
	"github.com/Serg2206/ssvnauka-platform/internal/user"
)

// Every paid checkout starts with the same grace window, whatever the
// processor's own trial math says.
const trialDays = 14

// Reconciler folds billing processor events into local state. Each method
// handles one event type and is idempotent: replaying an event lands on the
// state it already produced. Events whose owner cannot be resolved are logged
// and dropped without error, so the sender never retries them.
type Reconciler interface {
	CheckoutCompleted(ctx context.Context, ev CheckoutCompletedEvent) error
	SubscriptionUpserted(ctx context.Context, ev SubscriptionEvent) error
	SubscriptionDeleted(ctx context.Context, ev SubscriptionDeletedEvent) error
	InvoicePaid(ctx context.Context, ev InvoicePaidEvent) error
	InvoiceFailed(ctx context.Context, ev InvoiceFailedEvent) error
}

type reconciler struct {
	repo     Repository
	userRepo user.Repository
	emails   *email.Service
}

func NewReconciler(repo Repository, userRepo user.Repository, emails *email.Service) Reconciler {
	return &reconciler{repo: repo, userRepo: userRepo, emails: emails}
}

func (r *reconciler) CheckoutCompleted(ctx context.Context, ev CheckoutCompletedEvent) error {
	now := time.Now()
	trialEnd := now.Add(trialDays * 24 * time.Hour)

	sub := &Subscription{
		UserID:             ev.UserID,
		CustomerRef:        &ev.CustomerID,
		SubscriptionRef:    &ev.SubscriptionID,
		Plan:               ev.Plan,
		Status:             entitlement.StatusTrialing,
		CurrentPeriodStart: &now,
		CurrentPeriodEnd:   &trialEnd,
		TrialEndsAt:        &trialEnd,
	}
	if _, err := r.repo.UpsertByUser(ctx, sub); err != nil {
		return err
	}

	if err := r.userRepo.UpdateRole(ctx, ev.UserID, entitlement.RoleForPlan(ev.Plan)); err != nil {
		return err
	}

	metrics.RecordSubscription(ev.Plan)

	owner, err := r.userRepo.FindByID(ctx, ev.UserID)
	if err == nil {
		if err := r.emails.SendTrialStarted(ctx, owner.Email, owner.Name, ev.Plan, trialEnd); err != nil {
			logger.WithError(err).Error("failed to queue trial email")
		}
	}

	return nil
}

func (r *reconciler) SubscriptionUpserted(ctx context.Context, ev SubscriptionEvent) error {
	userID := ev.OwnerUserID
	if userID == 0 {
		existing, err := r.repo.FindByCustomerRef(ctx, ev.CustomerID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				logger.WithFields(map[string]interface{}{
					"customer_ref":     ev.CustomerID,
					"subscription_ref": ev.SubscriptionID,
				}).Error("subscription event for unknown customer, dropping")
				return nil
			}
			return err
		}
		userID = existing.UserID
	}

	status := entitlement.MapProviderStatus(ev.Status)

	sub := &Subscription{
		UserID:             userID,
		CustomerRef:        &ev.CustomerID,
		SubscriptionRef:    &ev.SubscriptionID,
		Plan:               ev.Plan,
		Status:             status,
		CurrentPeriodStart: ev.CurrentPeriodStart,
		CurrentPeriodEnd:   ev.CurrentPeriodEnd,
		TrialEndsAt:        ev.TrialEnd,
		CancelAtPeriodEnd:  ev.CancelAtPeriodEnd,
	}
	if _, err := r.repo.UpsertByUser(ctx, sub); err != nil {
		return err
	}

	if status.Grants() {
		if err := r.userRepo.UpdateRole(ctx, userID, entitlement.RoleForPlan(ev.Plan)); err != nil {
			return err
		}
	}

	return nil
}

func (r *reconciler) SubscriptionDeleted(ctx context.Context, ev SubscriptionDeletedEvent) error {
	sub, err := r.repo.FindByCustomerRef(ctx, ev.CustomerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.WithFields(map[string]interface{}{"customer_ref": ev.CustomerID}).
				Error("deletion event for unknown customer, dropping")
			return nil
		}
		return err
	}

	if err := r.repo.UpdateStatus(ctx, sub.ID, entitlement.StatusCanceled); err != nil {
		return err
	}

	// Deletion always revokes paid access, whatever the plan was.
	return r.userRepo.UpdateRole(ctx, sub.UserID, auth.RoleUser)
}

func (r *reconciler) InvoicePaid(ctx context.Context, ev InvoicePaidEvent) error {
	sub, err := r.repo.FindBySubscriptionRef(ctx, ev.SubscriptionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.WithFields(map[string]interface{}{"subscription_ref": ev.SubscriptionID}).
				Error("invoice for unknown subscription, dropping")
			return nil
		}
		return err
	}

	created, err := r.repo.CreatePurchase(ctx, sub.UserID, ev.AmountCents, ev.Currency, ev.PaymentRef, PurchaseSucceeded)
	if err != nil {
		return err
	}
	if !created {
		logger.WithFields(map[string]interface{}{"payment_ref": ev.PaymentRef}).
			Debug("duplicate invoice, purchase already recorded")
	}

	return nil
}

func (r *reconciler) InvoiceFailed(ctx context.Context, ev InvoiceFailedEvent) error {
	sub, err := r.repo.FindBySubscriptionRef(ctx, ev.SubscriptionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.WithFields(map[string]interface{}{"subscription_ref": ev.SubscriptionID}).
				Error("failed invoice for unknown subscription, dropping")
			return nil
		}
		return err
	}

	// Access stays until deletion; the processor keeps retrying the charge.
	if err := r.repo.UpdateStatus(ctx, sub.ID, entitlement.StatusPastDue); err != nil {
		return err
	}

	owner, err := r.userRepo.FindByID(ctx, sub.UserID)
	if err == nil {
		if err := r.emails.SendPaymentFailed(ctx, owner.Email, owner.Name); err != nil {
			logger.WithError(err).Error("failed to queue payment-failed email")
		}
	}

	return nil
}
