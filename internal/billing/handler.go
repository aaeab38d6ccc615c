package billing

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/Serg2206/ssvnauka-platform/internal/api"
	"github.com/Serg2206/ssvnauka-platform/internal/auth"
	"github.com/Serg2206/ssvnauka-platform/internal/entitlement"
	"github.com/Serg2206/ssvnauka-platform/internal/logger"
	"github.com/Serg2206/ssvnauka-platform/internal/user"

	"github.com/gin-gonic/gin"
)

// ProcessorClient is the slice of Client the handler needs.
type ProcessorClient interface {
	CreateCheckoutSession(reqParams CheckoutSessionRequest) (*SessionResponse, error)
	CreatePortalSession(reqParams PortalSessionRequest) (*SessionResponse, error)
	CreateCustomer(reqParams CreateCustomerRequest) (*Customer, error)
}

type Handler struct {
	repo       Repository
	userRepo   user.Repository
	client     ProcessorClient
	appBaseURL string
}

func NewHandler(repo Repository, userRepo user.Repository, client ProcessorClient, appBaseURL string) *Handler {
	return &Handler{repo: repo, userRepo: userRepo, client: client, appBaseURL: appBaseURL}
}

// ListPlans godoc
// @Summary      List billing plans
// @Tags         billing
// @Produce      json
// @Success      200  {array}  entitlement.Plan
// @Router       /billing/plans [get]
func (h *Handler) ListPlans(c *gin.Context) {
	c.JSON(http.StatusOK, entitlement.Plans())
}

// CreateCheckout godoc
// @Summary      Start checkout
// @Description  Opens a hosted checkout session for the chosen plan.
// @Tags         billing
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        input  body      CheckoutRequest  true  "Plan to subscribe to"
// @Success      200    {object}  SessionResponse
// @Failure      400    {object}  gin.H
// @Failure      401    {object}  gin.H
// @Failure      409    {object}  gin.H
// @Failure      500    {object}  gin.H
// @Router       /billing/checkout [post]
func (h *Handler) CreateCheckout(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	plan, err := entitlement.FindPlan(req.Plan)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown plan"})
		return
	}

	ctx := c.Request.Context()

	sub, err := h.repo.FindByUserID(ctx, userID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if sub != nil && err == nil && sub.Status.Grants() {
		c.JSON(http.StatusConflict, gin.H{"error": "Subscription already active"})
		return
	}

	customerRef := ""
	if sub != nil && sub.CustomerRef != nil {
		customerRef = *sub.CustomerRef
	}
	if customerRef == "" {
		owner, err := h.userRepo.FindByID(ctx, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		customer, err := h.client.CreateCustomer(CreateCustomerRequest{
			Email:    owner.Email,
			Name:     owner.Name,
			Metadata: map[string]string{"user_id": strconv.Itoa(userID)},
		})
		if err != nil {
			logger.WithError(err).Error("failed to create billing customer")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Billing processor unavailable"})
			return
		}
		customerRef = customer.ID

		if err := h.repo.SetCustomerRef(ctx, userID, customerRef); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
	}

	session, err := h.client.CreateCheckoutSession(CheckoutSessionRequest{
		CustomerRef: customerRef,
		Plan:        plan.ID,
		PriceCents:  plan.PriceCents,
		Currency:    plan.Currency,
		TrialDays:   trialDays,
		SuccessURL:  h.appBaseURL + "/account?checkout=success",
		CancelURL:   h.appBaseURL + "/pricing",
		Metadata: map[string]string{
			"user_id": strconv.Itoa(userID),
			"plan":    plan.ID,
		},
	})
	if err != nil {
		logger.WithError(err).Error("failed to create checkout session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Billing processor unavailable"})
		return
	}

	c.JSON(http.StatusOK, session)
}

// CreatePortal godoc
// @Summary      Open billing portal
// @Description  Opens the processor's self-service portal. Requires a prior checkout.
// @Tags         billing
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  SessionResponse
// @Failure      401  {object}  gin.H
// @Failure      404  {object}  gin.H
// @Failure      500  {object}  gin.H
// @Router       /billing/portal [post]
func (h *Handler) CreatePortal(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	sub, err := h.repo.FindByUserID(c.Request.Context(), userID)
	if err != nil || sub.CustomerRef == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No billing profile"})
		return
	}

	session, err := h.client.CreatePortalSession(PortalSessionRequest{
		CustomerRef: *sub.CustomerRef,
		ReturnURL:   h.appBaseURL + "/account",
	})
	if err != nil {
		logger.WithError(err).Error("failed to create portal session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Billing processor unavailable"})
		return
	}

	c.JSON(http.StatusOK, session)
}

// GetMySubscription godoc
// @Summary      Current subscription
// @Description  Returns the caller's role and subscription snapshot; the snapshot is null when no row exists.
// @Tags         billing
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  gin.H
// @Failure      401  {object}  gin.H
// @Failure      500  {object}  gin.H
// @Router       /me/subscription [get]
func (h *Handler) GetMySubscription(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx := c.Request.Context()

	owner, err := h.userRepo.FindByID(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var snapshot *SubscriptionSnapshot
	sub, err := h.repo.FindByUserID(ctx, userID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if sub != nil && err == nil {
		snapshot = &SubscriptionSnapshot{
			Plan:              sub.Plan,
			Status:            sub.Status,
			CurrentPeriodEnd:  sub.CurrentPeriodEnd,
			TrialEndsAt:       sub.TrialEndsAt,
			CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"role":         owner.Role,
		"subscription": snapshot,
	})
}
