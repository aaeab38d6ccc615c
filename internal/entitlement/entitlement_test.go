package entitlement

import (
	"testing"

	"github.com/Serg2206/ssvnauka-platform/internal/auth"

	"github.com/stretchr/testify/assert"
)

func TestRoleForPlan(t *testing.T) {
	tests := []struct {
		name     string
		plan     string
		expected string
	}{
		{"Pro monthly", "pro_monthly", auth.RolePro},
		{"Pro yearly", "pro_yearly", auth.RolePro},
		{"Bare pro prefix", "pro", auth.RolePro},
		{"Premium monthly", "premium_monthly", auth.RolePremium},
		{"Premium yearly", "premium_yearly", auth.RolePremium},
		{"Free plan", "free", auth.RoleUser},
		{"Empty plan", "", auth.RoleUser},
		{"Unknown plan", "enterprise_monthly", auth.RoleUser},
		{"Prefix is case sensitive", "PRO_monthly", auth.RoleUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RoleForPlan(tt.plan))
		})
	}
}

func TestRoleForPlanIsPure(t *testing.T) {
	// Один и тот же вход всегда дает один и тот же результат
	for i := 0; i < 3; i++ {
		assert.Equal(t, auth.RolePro, RoleForPlan("pro_monthly"))
	}
}

func TestMapProviderStatus(t *testing.T) {
	tests := []struct {
		provider string
		expected Status
	}{
		{"active", StatusActive},
		{"trialing", StatusTrialing},
		{"past_due", StatusPastDue},
		{"unpaid", StatusPastDue},
		{"canceled", StatusCanceled},
		{"paused", StatusCanceled},
		{"incomplete", StatusIncomplete},
		{"incomplete_expired", StatusIncomplete},
		{"", StatusCanceled},
		{"some_future_state", StatusCanceled},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapProviderStatus(tt.provider))
		})
	}
}

func TestStatusGrants(t *testing.T) {
	assert.True(t, StatusActive.Grants())
	assert.True(t, StatusTrialing.Grants())
	assert.False(t, StatusCanceled.Grants())
	assert.False(t, StatusPastDue.Grants())
	assert.False(t, StatusIncomplete.Grants())
}

func TestFindPlan(t *testing.T) {
	t.Run("Known plan", func(t *testing.T) {
		p, err := FindPlan("premium_monthly")
		assert.NoError(t, err)
		assert.Equal(t, int64(3900), p.PriceCents)
		assert.Equal(t, "month", p.Interval)
	})

	t.Run("Unknown plan", func(t *testing.T) {
		_, err := FindPlan("gold_weekly")
		assert.ErrorIs(t, err, ErrUnknownPlan)
	})
}
