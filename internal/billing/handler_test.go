package billing

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Serg2206/ssvnauka-platform/internal/auth"
	"github.com/Serg2206/ssvnauka-platform/internal/entitlement"
	"github.com/Serg2206/ssvnauka-platform/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProcessorClient struct{ mock.Mock }

func (m *MockProcessorClient) CreateCheckoutSession(reqParams CheckoutSessionRequest) (*SessionResponse, error) {
	args := m.Called(reqParams)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SessionResponse), args.Error(1)
}

func (m *MockProcessorClient) CreatePortalSession(reqParams PortalSessionRequest) (*SessionResponse, error) {
	args := m.Called(reqParams)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SessionResponse), args.Error(1)
}

func (m *MockProcessorClient) CreateCustomer(reqParams CreateCustomerRequest) (*Customer, error) {
	args := m.Called(reqParams)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Customer), args.Error(1)
}

func setupBillingRouter(br Repository, ur user.Repository, client ProcessorClient) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewHandler(br, ur, client, "http://localhost:3000")

	protected := router.Group("/")
	protected.Use(auth.AuthMiddleware("test-secret"))
	{
		protected.POST("/billing/checkout", handler.CreateCheckout)
		protected.POST("/billing/portal", handler.CreatePortal)
		protected.GET("/me/subscription", handler.GetMySubscription)
	}
	return router
}

func authedRequest(t *testing.T, method, path string, body []byte) *http.Request {
	t.Helper()
	accessToken, _, err := auth.GenerateTokens(1, "u@test.com", auth.RoleUser, "test-secret", "test-secret")
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCreateCheckout_UnknownPlan(t *testing.T) {
	br := new(MockBillingRepo)
	ur := new(MockUserRepo)
	client := new(MockProcessorClient)
	router := setupBillingRouter(br, ur, client)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(t, "POST", "/billing/checkout", []byte(`{"plan":"platinum_weekly"}`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	client.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything)
}

func TestCreateCheckout_AlreadySubscribed(t *testing.T) {
	br := new(MockBillingRepo)
	ur := new(MockUserRepo)
	client := new(MockProcessorClient)

	br.On("FindByUserID", mock.Anything, 1).Return(&Subscription{
		UserID: 1, Plan: "premium_monthly", Status: entitlement.StatusActive,
	}, nil)

	router := setupBillingRouter(br, ur, client)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(t, "POST", "/billing/checkout", []byte(`{"plan":"pro_monthly"}`)))

	assert.Equal(t, http.StatusConflict, w.Code)
	client.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything)
}

func TestCreateCheckout_NewCustomer(t *testing.T) {
	br := new(MockBillingRepo)
	ur := new(MockUserRepo)
	client := new(MockProcessorClient)

	br.On("FindByUserID", mock.Anything, 1).Return(&Subscription{
		UserID: 1, Plan: "free", Status: entitlement.StatusIncomplete,
	}, nil)
	ur.On("FindByID", mock.Anything, 1).Return(&user.User{ID: 1, Email: "u@test.com", Name: "U"}, nil)
	client.On("CreateCustomer", mock.MatchedBy(func(req CreateCustomerRequest) bool {
		return req.Email == "u@test.com" && req.Metadata["user_id"] == "1"
	})).Return(&Customer{ID: "cus_new"}, nil)
	br.On("SetCustomerRef", mock.Anything, 1, "cus_new").Return(nil)
	client.On("CreateCheckoutSession", mock.MatchedBy(func(req CheckoutSessionRequest) bool {
		return req.CustomerRef == "cus_new" &&
			req.Plan == "premium_monthly" &&
			req.PriceCents == 3900 &&
			req.TrialDays == 14
	})).Return(&SessionResponse{ID: "cs_1", URL: "https://billing.example.com/c/cs_1"}, nil)

	router := setupBillingRouter(br, ur, client)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(t, "POST", "/billing/checkout", []byte(`{"plan":"premium_monthly"}`)))

	assert.Equal(t, http.StatusOK, w.Code)

	var session SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	assert.Equal(t, "https://billing.example.com/c/cs_1", session.URL)
	client.AssertExpectations(t)
	br.AssertExpectations(t)
}

func TestCreatePortal_NoBillingProfile(t *testing.T) {
	br := new(MockBillingRepo)
	ur := new(MockUserRepo)
	client := new(MockProcessorClient)

	br.On("FindByUserID", mock.Anything, 1).Return(&Subscription{UserID: 1, Plan: "free"}, nil)

	router := setupBillingRouter(br, ur, client)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(t, "POST", "/billing/portal", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	client.AssertNotCalled(t, "CreatePortalSession", mock.Anything)
}

func TestGetMySubscription(t *testing.T) {
	br := new(MockBillingRepo)
	ur := new(MockUserRepo)
	client := new(MockProcessorClient)

	ur.On("FindByID", mock.Anything, 1).Return(&user.User{ID: 1, Role: auth.RolePremium}, nil)
	br.On("FindByUserID", mock.Anything, 1).Return(&Subscription{
		UserID: 1, Plan: "premium_monthly", Status: entitlement.StatusActive,
	}, nil)

	router := setupBillingRouter(br, ur, client)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(t, "GET", "/me/subscription", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Role         string                `json:"role"`
		Subscription *SubscriptionSnapshot `json:"subscription"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, auth.RolePremium, resp.Role)
	require.NotNil(t, resp.Subscription)
	assert.Equal(t, "premium_monthly", resp.Subscription.Plan)
}

func TestGetMySubscription_NoRow(t *testing.T) {
	br := new(MockBillingRepo)
	ur := new(MockUserRepo)
	client := new(MockProcessorClient)

	ur.On("FindByID", mock.Anything, 1).Return(&user.User{ID: 1, Role: auth.RoleUser}, nil)
	br.On("FindByUserID", mock.Anything, 1).Return(nil, sql.ErrNoRows)

	router := setupBillingRouter(br, ur, client)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(t, "GET", "/me/subscription", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Role         string                `json:"role"`
		Subscription *SubscriptionSnapshot `json:"subscription"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Nil(t, resp.Subscription)
}
