package routes

import (
	"github.com/jomonde/the-ammo-guys-lite/handlers/subscriptions"
	"github.com/jomonde/the-ammo-guys-lite/middleware"

	"github.com/gin-gonic/gin"
)

func SubscriptionsRoutes(r *gin.Engine) {
	subscriptionRoutes := r.Group("/subscriptions")
	subscriptionRoutes.Use(middleware.JWTAuth())
	{
		subscriptionRoutes.GET("/", subscriptions.GetUserSubscriptions)
		subscriptionRoutes.GET("/:stripeSubscriptionId", subscriptions.GetSubscriptionDetail)
	}
}
