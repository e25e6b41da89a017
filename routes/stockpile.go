package routes

import (
	"github.com/jomonde/the-ammo-guys-lite/handlers/stockpile"
	"github.com/jomonde/the-ammo-guys-lite/middleware"

	"github.com/gin-gonic/gin"
)

func StockpileRoutes(r *gin.Engine) {
	stockpileRoutes := r.Group("/stockpile")
	stockpileRoutes.Use(middleware.JWTAuth())
	{
		stockpileRoutes.GET("/", stockpile.GetStockpile)
		stockpileRoutes.PATCH("/:caliberId", stockpile.UpdateTarget)
	}
}
