package routes

import (
	"github.com/jomonde/the-ammo-guys-lite/handlers/leads"

	"github.com/gin-gonic/gin"
)

func LeadsRoutes(r *gin.Engine) {
	r.POST("/leads", leads.CreateLead)
}
