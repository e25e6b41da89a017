package billing

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jomonde/the-ammo-guys-lite/models"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

// Config carries the Stripe credentials and endpoints, resolved once at
// process start and passed down explicitly. Nothing in this package reads the
// environment after LoadConfig.
type Config struct {
	SecretKey     string
	WebhookSecret string
	AppBaseURL    string
	Timeout       time.Duration
	// Prices maps a subscription tier ID to its Stripe price ID.
	Prices map[string]string
}

// LoadConfig reads the Stripe configuration from the environment. Tier price
// IDs come from STRIPE_PRICE_<TIER>, e.g. STRIPE_PRICE_STANDARD.
func LoadConfig() Config {
	prices := make(map[string]string, len(models.SubscriptionTiers))
	for _, tier := range models.SubscriptionTiers {
		if priceID := os.Getenv("STRIPE_PRICE_" + strings.ToUpper(tier.ID)); priceID != "" {
			prices[tier.ID] = priceID
		}
	}
	return Config{
		SecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		WebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		AppBaseURL:    os.Getenv("APP_BASE_URL"),
		Timeout:       10 * time.Second,
		Prices:        prices,
	}
}

// CheckoutParams describes one outbound checkout session. The user ID and
// caller metadata are embedded into both the session and the subscription it
// creates, so webhook reconciliation can recover the owner from the event
// payload alone.
type CheckoutParams struct {
	PriceID       string
	CustomerID    string
	CustomerEmail string
	UserID        string
	Metadata      map[string]string
	SuccessURL    string
	CancelURL     string
}

// Processor is the subset of the Stripe API this service depends on. It is an
// explicit dependency of every component that talks to Stripe so tests can
// swap in fakes.
type Processor interface {
	CreateCustomer(email, userID string, metadata map[string]string) (string, error)
	CreateCheckoutSession(params CheckoutParams) (string, error)
	CreatePortalSession(customerID, returnURL string) (string, error)
}

// StripeProcessor implements Processor against the real Stripe API with a
// bounded HTTP timeout.
type StripeProcessor struct {
	api *client.API
}

func NewStripeProcessor(cfg Config) *StripeProcessor {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	api := &client.API{}
	api.Init(cfg.SecretKey, stripe.NewBackends(&http.Client{Timeout: timeout}))
	return &StripeProcessor{api: api}
}

func (p *StripeProcessor) CreateCustomer(email, userID string, metadata map[string]string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
	}
	for key, value := range metadata {
		params.AddMetadata(key, value)
	}
	params.AddMetadata("userId", userID)

	cust, err := p.api.Customers.New(params)
	if err != nil {
		return "", err
	}
	return cust.ID, nil
}

func (p *StripeProcessor) CreateCheckoutSession(in CheckoutParams) (string, error) {
	metadata := make(map[string]string, len(in.Metadata)+1)
	for key, value := range in.Metadata {
		metadata[key] = value
	}
	metadata["userId"] = in.UserID

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(in.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(in.SuccessURL),
		CancelURL:  stripe.String(in.CancelURL),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: metadata,
		},
	}
	params.Metadata = metadata

	if in.CustomerID != "" {
		params.Customer = stripe.String(in.CustomerID)
	} else if in.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(in.CustomerEmail)
	}

	s, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return "", err
	}
	return s.ID, nil
}

func (p *StripeProcessor) CreatePortalSession(customerID, returnURL string) (string, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}
	s, err := p.api.BillingPortalSessions.New(params)
	if err != nil {
		return "", err
	}
	return s.URL, nil
}
