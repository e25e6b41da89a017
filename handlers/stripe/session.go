package stripe

import (
	"errors"
	"net/http"

	"github.com/jomonde/the-ammo-guys-lite/billing"
	"github.com/jomonde/the-ammo-guys-lite/models"
	"github.com/jomonde/the-ammo-guys-lite/utils"

	"github.com/gin-gonic/gin"
)

// CheckoutSessionRequest is the request body for checkout session creation.
// PriceID accepts either a subscription tier ID or a raw Stripe price ID.
// @Description Checkout session creation payload
type CheckoutSessionRequest struct {
	PriceID       string            `json:"priceId" binding:"required" example:"standard"`
	CustomerEmail string            `json:"customerEmail" example:"shooter@example.com"`
	UserID        string            `json:"userId"`
	Metadata      map[string]string `json:"metadata"`
	SuccessURL    string            `json:"successUrl" binding:"required" example:"/subscribe/success?session_id={CHECKOUT_SESSION_ID}"`
	CancelURL     string            `json:"cancelUrl" binding:"required" example:"/subscribe"`
}

// PortalSessionRequest is the request body for billing portal session
// creation.
// @Description Portal session creation payload
type PortalSessionRequest struct {
	CustomerID string `json:"customerId"`
	ReturnURL  string `json:"returnUrl" example:"/dashboard"`
}

// CreateCheckoutSession starts a Stripe Checkout for a subscription tier.
// @Summary Create a Stripe Checkout session
// @Description Resolves (or lazily creates) the Stripe customer for the caller, maps the tier to its price and returns the Checkout session ID for the frontend redirect.
// @Tags stripe
// @Accept json
// @Produce json
// @Param request body CheckoutSessionRequest true "Checkout parameters"
// @Security BearerAuth
// @Success 200 {object} map[string]string "sessionId: ID of the Stripe Checkout session"
// @Failure 400 {object} map[string]string "error: Invalid input or unresolvable customer"
// @Failure 500 {object} map[string]string "error: Stripe or storage error"
// @Router /stripe/checkout-session [post]
func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	var req CheckoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	// The authenticated identity wins over whatever the body claims.
	userID := req.UserID
	if tokenUserID := contextUserID(c); tokenUserID != "" {
		userID = tokenUserID
	}

	priceID := h.priceFor(req.PriceID)
	if priceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown tier or price ID"})
		return
	}

	var customerID string
	if userID != "" {
		var err error
		customerID, err = h.resolver.Resolve(userID, req.CustomerEmail)
		if errors.Is(err, billing.ErrMissingCustomerIdentity) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No billing customer and no email to create one"})
			return
		}
		if err != nil {
			utils.LogErrorWithUser(userID, err, "customer resolution failed in CreateCheckoutSession")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session"})
			return
		}
	} else if req.CustomerEmail == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A user or customer email is required"})
		return
	}

	sessionID, err := h.processor.CreateCheckoutSession(billing.CheckoutParams{
		PriceID:       priceID,
		CustomerID:    customerID,
		CustomerEmail: req.CustomerEmail,
		UserID:        userID,
		Metadata:      req.Metadata,
		SuccessURL:    h.absoluteURL(req.SuccessURL),
		CancelURL:     h.absoluteURL(req.CancelURL),
	})
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Stripe checkout session creation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session"})
		return
	}

	utils.LogSuccessWithUser(userID, "Stripe checkout session created")
	c.JSON(http.StatusOK, gin.H{"sessionId": sessionID})
}

// CreatePortalSession opens the Stripe billing portal for an existing
// customer.
// @Summary Create a Stripe billing portal session
// @Description Returns the portal URL for the caller's Stripe customer. Fails when the caller never went through checkout.
// @Tags stripe
// @Accept json
// @Produce json
// @Param request body PortalSessionRequest true "Portal parameters"
// @Security BearerAuth
// @Success 200 {object} map[string]string "url: Stripe billing portal URL"
// @Failure 400 {object} map[string]string "error: No billing customer"
// @Failure 500 {object} map[string]string "error: Stripe error"
// @Router /stripe/portal-session [post]
func (h *Handler) CreatePortalSession(c *gin.Context) {
	var req PortalSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	customerID := req.CustomerID
	if customerID == "" {
		if userID := contextUserID(c); userID != "" {
			var profile models.Profile
			if err := h.db.First(&profile, "id = ?", userID).Error; err == nil {
				customerID = profile.StripeCustomerID
			}
		}
	}
	if customerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": billing.ErrNoBillingCustomer.Error()})
		return
	}

	returnURL := req.ReturnURL
	if returnURL == "" {
		returnURL = "/dashboard"
	}

	url, err := h.processor.CreatePortalSession(customerID, h.absoluteURL(returnURL))
	if err != nil {
		utils.LogError(err, "Stripe portal session creation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create portal session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
