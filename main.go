package main

import (
	"log"
	"os"

	"github.com/jomonde/the-ammo-guys-lite/billing"
	"github.com/jomonde/the-ammo-guys-lite/cache"
	"github.com/jomonde/the-ammo-guys-lite/db"
	_ "github.com/jomonde/the-ammo-guys-lite/docs"
	"github.com/jomonde/the-ammo-guys-lite/handlers/stripe"
	"github.com/jomonde/the-ammo-guys-lite/routes"

	"github.com/gin-gonic/gin"
)

// @title The Ammo Guys API
// @version 1.0
// @description Subscription commerce backend: Stripe billing sync, onboarding and stockpile tracking
// @host localhost:8080
// @BasePath /
// @SecurityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter the JWT with the Bearer prefix: Bearer <JWT>
func main() {

	gin.SetMode(gin.ReleaseMode)

	db.InitDB()
	cache.InitRedis()

	cfg := billing.LoadConfig()
	processor := billing.NewStripeProcessor(cfg)
	stripeHandler := stripe.New(processor, db.DB, cfg)

	r := routes.SetupRouter(stripeHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal("error starting the server:", err)
	}
}
