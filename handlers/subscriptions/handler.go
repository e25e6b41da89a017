package subscriptions

import (
	"net/http"

	"github.com/jomonde/the-ammo-guys-lite/db"
	"github.com/jomonde/the-ammo-guys-lite/models"
	"github.com/jomonde/the-ammo-guys-lite/utils"

	"github.com/gin-gonic/gin"
)

// GetUserSubscriptions lists the caller's subscription mirror rows.
// @Summary List the user's subscriptions
// @Description Return every local subscription mirror row of the connected user, newest first. Canceled and inactive rows are included: rows are never deleted.
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Subscription
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /subscriptions [get]
func GetUserSubscriptions(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var subs []models.Subscription
	err := db.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&subs).Error
	if err != nil {
		utils.LogErrorWithUser(userID, err, "error fetching subscriptions in GetUserSubscriptions")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching subscriptions"})
		return
	}

	c.JSON(http.StatusOK, subs)
}

// GetSubscriptionDetail returns one subscription mirror row.
// @Summary Details of a subscription
// @Description Return the local mirror of one Stripe subscription, with an ownership check.
// @Tags subscriptions
// @Produce json
// @Param stripeSubscriptionId path string true "Stripe subscription ID"
// @Security BearerAuth
// @Success 200 {object} models.Subscription
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: Not your subscription"
// @Failure 404 {object} map[string]string "error: Subscription not found"
// @Router /subscriptions/{stripeSubscriptionId} [get]
func GetSubscriptionDetail(c *gin.Context) {
	stripeSubscriptionID := c.Param("stripeSubscriptionId")

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var sub models.Subscription
	err := db.DB.First(&sub, "stripe_subscription_id = ?", stripeSubscriptionID).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subscription not found"})
		return
	}

	if sub.UserID != userID {
		utils.LogErrorWithUser(userID, nil, "attempt to read another user's subscription in GetSubscriptionDetail")
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to view this subscription"})
		return
	}

	c.JSON(http.StatusOK, sub)
}
