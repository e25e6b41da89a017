package routes

import (
	stripeHandlers "github.com/jomonde/the-ammo-guys-lite/handlers/stripe"
	"github.com/jomonde/the-ammo-guys-lite/middleware"

	"github.com/gin-gonic/gin"
)

func StripeRoutes(r *gin.Engine, h *stripeHandlers.Handler) {
	sessionRoutes := r.Group("/stripe")
	sessionRoutes.Use(middleware.JWTAuth())
	{
		sessionRoutes.POST("/checkout-session", h.CreateCheckoutSession)
		sessionRoutes.POST("/portal-session", h.CreatePortalSession)
	}

	// The webhook authenticates by signature, never by JWT.
	r.POST("/stripe/webhook", h.Webhook)
}
