package stripe

import (
	"strings"

	"github.com/jomonde/the-ammo-guys-lite/billing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type customerResolver interface {
	Resolve(userID, email string) (string, error)
}

type eventReconciler interface {
	Apply(event billing.Event) error
}

// Handler serves the Stripe-facing endpoints. The processor client, webhook
// secret and price table are injected at construction instead of read from
// package globals, so the handlers can be exercised with fakes.
type Handler struct {
	db            *gorm.DB
	processor     billing.Processor
	resolver      customerResolver
	reconciler    eventReconciler
	webhookSecret string
	baseURL       string
	prices        map[string]string
}

func New(processor billing.Processor, database *gorm.DB, cfg billing.Config) *Handler {
	return &Handler{
		db:            database,
		processor:     processor,
		resolver:      billing.NewCustomerResolver(database, processor),
		reconciler:    billing.NewReconciler(database),
		webhookSecret: cfg.WebhookSecret,
		baseURL:       cfg.AppBaseURL,
		prices:        cfg.Prices,
	}
}

// priceFor translates a tier ID into its Stripe price ID. Raw price IDs are
// passed through so the frontend can also send them directly.
func (h *Handler) priceFor(id string) string {
	if priceID, ok := h.prices[id]; ok {
		return priceID
	}
	if strings.HasPrefix(id, "price_") {
		return id
	}
	return ""
}

// absoluteURL prefixes app-relative redirect paths with the configured base
// URL. Absolute URLs pass through untouched.
func (h *Handler) absoluteURL(path string) string {
	if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(h.baseURL, "/") + path
}

func contextUserID(c *gin.Context) string {
	if value, exists := c.Get("user_id"); exists {
		if userID, ok := value.(string); ok {
			return userID
		}
	}
	return ""
}
