package routes

import (
	"time"

	"github.com/jomonde/the-ammo-guys-lite/handlers/ping"
	stripeHandlers "github.com/jomonde/the-ammo-guys-lite/handlers/stripe"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func SetupRouter(stripeHandler *stripeHandlers.Handler) *gin.Engine {

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	pingHandler := ping.New()
	r.GET("/ping", pingHandler.HandlePing)

	StripeRoutes(r, stripeHandler)
	SubscriptionsRoutes(r)
	OnboardingRoutes(r)
	StockpileRoutes(r)
	CatalogRoutes(r)
	LeadsRoutes(r)

	return r
}
