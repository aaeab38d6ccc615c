package server

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/Serg2206/ssvnauka-platform/internal/config"
	"github.com/Serg2206/ssvnauka-platform/internal/email"
)

// Pins the route table so handlers and docs stay in sync with what the
// router actually serves.
func TestRegisteredRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cfg := &config.Config{JWTSecret: "test-secret"}
	emails := email.New("noreply@test.com", "Test", "localhost", "2525", "", "", "localhost:6379")

	srv := New(sqlx.NewDb(db, "sqlmock"), cfg, emails)

	expected := []struct {
		method string
		path   string
	}{
		{"POST", "/auth/register"},
		{"POST", "/auth/login"},
		{"POST", "/auth/refresh"},
		{"GET", "/categories"},
		{"GET", "/videos/featured"},
		{"GET", "/billing/plans"},
		{"POST", "/billing/webhook"},
		{"GET", "/courses"},
		{"GET", "/courses/:slug"},
		{"GET", "/me"},
		{"PATCH", "/me/profile"},
		{"GET", "/me/dashboard"},
		{"GET", "/me/subscription"},
		{"POST", "/courses/:slug/enroll"},
		{"GET", "/lessons/:lessonID/progress"},
		{"POST", "/lessons/:lessonID/progress"},
		{"POST", "/billing/checkout"},
		{"POST", "/billing/portal"},
		{"GET", "/admin/stats"},
		{"GET", "/health"},
		{"GET", "/metrics"},
	}

	registered := make(map[string]bool)
	for _, route := range srv.Router().Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, want := range expected {
		require.True(t, registered[want.method+" "+want.path],
			"missing route %s %s", want.method, want.path)
	}
}
