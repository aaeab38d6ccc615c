// Package entitlement maps billing plans onto user access tiers. It is the
// single place that decides which role a plan grants; every role write on a
// paid-plan transition must go through RoleForPlan.
package entitlement

import (
	"errors"
	"strings"

	"github.com/Serg2206/ssvnauka-platform/internal/auth"
)

type Status string

const (
	StatusActive     Status = "ACTIVE"
	StatusTrialing   Status = "TRIALING"
	StatusCanceled   Status = "CANCELED"
	StatusPastDue    Status = "PAST_DUE"
	StatusIncomplete Status = "INCOMPLETE"
)

var ErrUnknownPlan = errors.New("unknown plan")

// RoleForPlan returns the role a plan entitles its holder to. Pure and total:
// any identifier not recognized as a paid plan maps to the base role.
func RoleForPlan(plan string) string {
	switch {
	case strings.HasPrefix(plan, "pro"):
		return auth.RolePro
	case strings.HasPrefix(plan, "premium"):
		return auth.RolePremium
	default:
		return auth.RoleUser
	}
}

// MapProviderStatus translates the billing processor's lifecycle state into
// the internal taxonomy. Unknown states fail safe toward CANCELED so that a
// new provider state can never silently grant access.
func MapProviderStatus(providerStatus string) Status {
	switch providerStatus {
	case "active":
		return StatusActive
	case "trialing":
		return StatusTrialing
	case "past_due", "unpaid":
		return StatusPastDue
	case "canceled", "paused":
		return StatusCanceled
	case "incomplete", "incomplete_expired":
		return StatusIncomplete
	default:
		return StatusCanceled
	}
}

// Grants reports whether a subscription status currently grants paid access.
func (s Status) Grants() bool {
	return s == StatusActive || s == StatusTrialing
}

type Plan struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Interval   string `json:"interval"`
	PriceCents int64  `json:"price_cents"`
	Currency   string `json:"currency"`
}

func Plans() []Plan {
	return []Plan{
		{ID: "premium_monthly", Name: "Premium", Interval: "month", PriceCents: 3900, Currency: "USD"},
		{ID: "premium_yearly", Name: "Premium", Interval: "year", PriceCents: 39000, Currency: "USD"},
		{ID: "pro_monthly", Name: "Pro", Interval: "month", PriceCents: 9900, Currency: "USD"},
		{ID: "pro_yearly", Name: "Pro", Interval: "year", PriceCents: 99000, Currency: "USD"},
	}
}

func FindPlan(planID string) (Plan, error) {
	for _, p := range Plans() {
		if p.ID == planID {
			return p, nil
		}
	}
	return Plan{}, ErrUnknownPlan
}
