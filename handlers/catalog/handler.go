package catalog

import (
	"net/http"

	"github.com/jomonde/the-ammo-guys-lite/models"

	"github.com/gin-gonic/gin"
)

// GetTiers lists the subscription tiers.
// @Summary List subscription tiers
// @Tags catalog
// @Produce json
// @Success 200 {array} models.SubscriptionTier
// @Router /catalog/tiers [get]
func GetTiers(c *gin.Context) {
	c.JSON(http.StatusOK, models.SubscriptionTiers)
}

// GetTier returns one subscription tier.
// @Summary Details of a subscription tier
// @Tags catalog
// @Produce json
// @Param tierId path string true "Tier ID"
// @Success 200 {object} models.SubscriptionTier
// @Failure 404 {object} map[string]string "error: Unknown tier"
// @Router /catalog/tiers/{tierId} [get]
func GetTier(c *gin.Context) {
	tier := models.TierByID(c.Param("tierId"))
	if tier == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown tier"})
		return
	}
	c.JSON(http.StatusOK, tier)
}

// GetCalibers lists the supported calibers.
// @Summary List popular calibers
// @Tags catalog
// @Produce json
// @Success 200 {array} models.Caliber
// @Router /catalog/calibers [get]
func GetCalibers(c *gin.Context) {
	c.JSON(http.StatusOK, models.PopularCalibers)
}

// GetUseCases lists the shooting use cases offered during onboarding.
// @Summary List use cases
// @Tags catalog
// @Produce json
// @Success 200 {array} models.UseCase
// @Router /catalog/use-cases [get]
func GetUseCases(c *gin.Context) {
	c.JSON(http.StatusOK, models.UseCases)
}
