package stripe

import (
	"io"
	"net/http"
	"time"

	"github.com/jomonde/the-ammo-guys-lite/billing"
	"github.com/jomonde/the-ammo-guys-lite/cache"
	"github.com/jomonde/the-ammo-guys-lite/utils"

	"github.com/gin-gonic/gin"
)

const maxWebhookBodyBytes = int64(65536)

// eventSeenTTL bounds how long processed event IDs stay in the
// de-duplication cache; Stripe stops retrying well before this.
const eventSeenTTL = 24 * time.Hour

// Webhook handles asynchronous billing events from Stripe.
// @Summary Stripe webhook endpoint
// @Description Verifies the Stripe signature against the raw body, classifies the event and reconciles the local subscription mirror. Returns 200 for processed or safely ignored events, 400 on signature failure, 500 on transient storage failure so Stripe retries.
// @Tags stripe
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "received: true"
// @Failure 400 {object} map[string]string "error: signature verification failed"
// @Failure 500 {object} map[string]string "error: event processing failed"
// @Router /stripe/webhook [post]
func (h *Handler) Webhook(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBodyBytes)

	// The raw bytes must be read before any parsing: re-serialized JSON would
	// no longer match the signature.
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "could not read the request body"})
		return
	}

	if h.webhookSecret == "" {
		utils.LogError(nil, "STRIPE_WEBHOOK_SECRET is not configured")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "webhook secret not configured"})
		return
	}

	event, err := billing.VerifyEvent(payload, c.GetHeader("Stripe-Signature"), h.webhookSecret)
	if err != nil {
		utils.LogError(err, "Stripe signature verification failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "signature verification failed"})
		return
	}

	canonical, err := billing.Classify(event)
	if err != nil {
		// Verified but undecodable: acknowledge so Stripe does not keep
		// retrying a payload that will never parse.
		utils.LogError(err, "dropping malformed Stripe event "+event.ID)
		c.JSON(http.StatusOK, gin.H{"received": true, "ignored": true})
		return
	}

	if canonical.Kind == billing.EventIgnored {
		c.JSON(http.StatusOK, gin.H{"received": true, "ignored": true})
		return
	}

	if cache.SeenEvent(c.Request.Context(), canonical.ID) {
		c.JSON(http.StatusOK, gin.H{"received": true, "duplicate": true})
		return
	}

	if err := h.reconciler.Apply(canonical); err != nil {
		// Transient store failure: a 5xx makes Stripe redeliver.
		utils.LogError(err, "reconciling Stripe event "+event.ID+" failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "event processing failed"})
		return
	}

	cache.MarkEventProcessed(c.Request.Context(), canonical.ID, eventSeenTTL)
	c.JSON(http.StatusOK, gin.H{"received": true})
}
