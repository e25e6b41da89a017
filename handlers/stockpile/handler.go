package stockpile

import (
	"net/http"

	"github.com/jomonde/the-ammo-guys-lite/db"
	"github.com/jomonde/the-ammo-guys-lite/models"
	"github.com/jomonde/the-ammo-guys-lite/utils"

	"github.com/gin-gonic/gin"
)

// TargetUpdate is the request body for adjusting a caliber's target.
// @Description Stockpile target adjustment
type TargetUpdate struct {
	TargetQuantity int `json:"targetQuantity" binding:"required,min=1" example:"2000"`
}

// GetStockpile lists the caller's stockpile entries.
// @Summary List stockpile entries
// @Tags stockpile
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.StockpileEntry
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /stockpile [get]
func GetStockpile(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var entries []models.StockpileEntry
	err := db.DB.Where("user_id = ?", userID).Order("caliber_name ASC").Find(&entries).Error
	if err != nil {
		utils.LogErrorWithUser(userID, err, "error fetching stockpile in GetStockpile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching stockpile"})
		return
	}

	c.JSON(http.StatusOK, entries)
}

// UpdateTarget adjusts the target quantity of one caliber entry.
// @Summary Update a stockpile target
// @Tags stockpile
// @Accept json
// @Produce json
// @Param caliberId path string true "Caliber ID"
// @Param target body TargetUpdate true "New target quantity"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Target updated"
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 404 {object} map[string]string "error: No stockpile entry for this caliber"
// @Router /stockpile/{caliberId} [patch]
func UpdateTarget(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var update TargetUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	result := db.DB.Model(&models.StockpileEntry{}).
		Where("user_id = ? AND caliber_id = ?", userID, c.Param("caliberId")).
		Update("target_quantity", update.TargetQuantity)
	if result.Error != nil {
		utils.LogErrorWithUser(userID, result.Error, "error updating stockpile target")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating stockpile target"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No stockpile entry for this caliber"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Target updated"})
}
