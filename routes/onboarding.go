package routes

import (
	"github.com/jomonde/the-ammo-guys-lite/handlers/onboarding"
	"github.com/jomonde/the-ammo-guys-lite/middleware"

	"github.com/gin-gonic/gin"
)

func OnboardingRoutes(r *gin.Engine) {
	onboardingRoutes := r.Group("/onboarding")
	onboardingRoutes.Use(middleware.JWTAuth())
	{
		onboardingRoutes.PUT("/", onboarding.SaveOnboarding)
		onboardingRoutes.GET("/status", onboarding.GetOnboardingStatus)
		onboardingRoutes.POST("/complete", onboarding.CompleteOnboarding)
	}
}
