package routes

import (
	"github.com/jomonde/the-ammo-guys-lite/handlers/catalog"

	"github.com/gin-gonic/gin"
)

func CatalogRoutes(r *gin.Engine) {
	catalogRoutes := r.Group("/catalog")
	{
		catalogRoutes.GET("/tiers", catalog.GetTiers)
		catalogRoutes.GET("/tiers/:tierId", catalog.GetTier)
		catalogRoutes.GET("/calibers", catalog.GetCalibers)
		catalogRoutes.GET("/use-cases", catalog.GetUseCases)
	}
}
