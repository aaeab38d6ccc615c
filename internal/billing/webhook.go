package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"github.com/Serg2206/ssvnauka-platform/internal/logger"
	"github.com/Serg2206/ssvnauka-platform/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Webhook event types sent by the billing processor.
const (
	EventCheckoutCompleted   = "checkout.completed"
	EventSubscriptionCreated = "subscription.created"
	EventSubscriptionUpdated = "subscription.updated"
	EventSubscriptionDeleted = "subscription.deleted"
	EventInvoicePaid         = "invoice.paid"
	EventInvoiceFailed       = "invoice.payment_failed"
)

type webhookEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type WebhookHandler struct {
	reconciler Reconciler
	secret     string
}

func NewWebhookHandler(reconciler Reconciler, secret string) *WebhookHandler {
	return &WebhookHandler{reconciler: reconciler, secret: secret}
}

func (h *WebhookHandler) verifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Handle godoc
// @Summary      Billing processor webhook
// @Description  Receives signed lifecycle events from the billing processor.
// @Tags         billing
// @Accept       json
// @Produce      json
// @Param        X-Billing-Signature  header    string  true  "HMAC-SHA256 of the raw body"
// @Success      200  {object}  gin.H
// @Failure      400  {object}  gin.H
// @Failure      401  {object}  gin.H
// @Failure      500  {object}  gin.H
// @Router       /billing/webhook [post]
func (h *WebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return
	}

	signature := c.GetHeader("X-Billing-Signature")
	if signature == "" || !h.verifySignature(body, signature) {
		logger.Error("invalid or missing webhook signature")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
		return
	}

	var envelope webhookEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	if err := h.dispatch(c, envelope); err != nil {
		metrics.RecordBillingEvent(envelope.Type, "error")
		logger.WithError(err).Error("failed to process billing event")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process event"})
		return
	}

	metrics.RecordBillingEvent(envelope.Type, "ok")
	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *WebhookHandler) dispatch(c *gin.Context, envelope webhookEnvelope) error {
	ctx := c.Request.Context()

	switch envelope.Type {
	case EventCheckoutCompleted:
		var ev CheckoutCompletedEvent
		if err := json.Unmarshal(envelope.Data, &ev); err != nil {
			return err
		}
		return h.reconciler.CheckoutCompleted(ctx, ev)

	case EventSubscriptionCreated, EventSubscriptionUpdated:
		var ev SubscriptionEvent
		if err := json.Unmarshal(envelope.Data, &ev); err != nil {
			return err
		}
		return h.reconciler.SubscriptionUpserted(ctx, ev)

	case EventSubscriptionDeleted:
		var ev SubscriptionDeletedEvent
		if err := json.Unmarshal(envelope.Data, &ev); err != nil {
			return err
		}
		return h.reconciler.SubscriptionDeleted(ctx, ev)

	case EventInvoicePaid:
		var ev InvoicePaidEvent
		if err := json.Unmarshal(envelope.Data, &ev); err != nil {
			return err
		}
		return h.reconciler.InvoicePaid(ctx, ev)

	case EventInvoiceFailed:
		var ev InvoiceFailedEvent
		if err := json.Unmarshal(envelope.Data, &ev); err != nil {
			return err
		}
		return h.reconciler.InvoiceFailed(ctx, ev)

	default:
		// Unknown types are acknowledged so the sender stops retrying.
		logger.WithFields(map[string]interface{}{"type": envelope.Type}).Info("ignored billing event")
		return nil
	}
}
