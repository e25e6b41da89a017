package onboarding

import (
	"encoding/json"
	"net/http"

	"github.com/jomonde/the-ammo-guys-lite/db"
	"github.com/jomonde/the-ammo-guys-lite/models"
	"github.com/jomonde/the-ammo-guys-lite/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaveOnboarding stores partial onboarding data on the caller's profile.
// @Summary Save onboarding progress
// @Description Upsert the onboarding wizard state onto the profile. Completion stays false until the final submission.
// @Tags onboarding
// @Accept json
// @Produce json
// @Param data body models.OnboardingData true "Onboarding data"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Onboarding data saved"
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 500 {object} map[string]string "error: Storage error"
// @Router /onboarding [put]
func SaveOnboarding(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var data models.OnboardingData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	raw, err := json.Marshal(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid onboarding data"})
		return
	}

	profile := models.Profile{
		ID:                  userID.(string),
		Email:               data.Email,
		FullName:            data.FullName,
		OnboardingCompleted: false,
		OnboardingData:      datatypes.JSON(raw),
	}
	err = db.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "full_name", "onboarding_completed", "onboarding_data", "updated_at"}),
	}).Create(&profile).Error
	if err != nil {
		utils.LogErrorWithUser(userID, err, "error saving onboarding data")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error saving onboarding data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Onboarding data saved"})
}

// GetOnboardingStatus returns the caller's onboarding completion and data.
// @Summary Onboarding status
// @Tags onboarding
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "completed: bool, data: saved wizard state"
// @Router /onboarding/status [get]
func GetOnboardingStatus(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var profile models.Profile
	err := db.DB.First(&profile, "id = ?", userID).Error
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"completed": false, "data": nil})
		return
	}

	var data interface{}
	if len(profile.OnboardingData) > 0 {
		data = json.RawMessage(profile.OnboardingData)
	}
	c.JSON(http.StatusOK, gin.H{"completed": profile.OnboardingCompleted, "data": data})
}

// CompleteOnboarding finalizes onboarding and provisions the stockpile.
// @Summary Complete onboarding
// @Description Marks the profile completed and provisions one stockpile entry per selected caliber, at quantity 0 with the default target, in a single transaction.
// @Tags onboarding
// @Accept json
// @Produce json
// @Param data body models.OnboardingData true "Final onboarding data"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "message, provisionedCalibers"
// @Failure 400 {object} map[string]string "error: No caliber selected"
// @Failure 500 {object} map[string]string "error: Storage error"
// @Router /onboarding/complete [post]
func CompleteOnboarding(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var data models.OnboardingData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var selected []models.OnboardingCaliber
	for _, caliber := range data.Calibers {
		if caliber.Selected {
			selected = append(selected, caliber)
		}
	}
	if len(selected) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one caliber must be selected"})
		return
	}

	raw, err := json.Marshal(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid onboarding data"})
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		profile := models.Profile{
			ID:                  userID.(string),
			Email:               data.Email,
			FullName:            data.FullName,
			OnboardingCompleted: true,
			OnboardingData:      datatypes.JSON(raw),
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"email", "full_name", "onboarding_completed", "onboarding_data", "updated_at"}),
		}).Create(&profile).Error; err != nil {
			return err
		}

		for _, caliber := range selected {
			entry := models.StockpileEntry{
				UserID:         userID.(string),
				CaliberID:      caliber.ID,
				CaliberName:    caliber.Name,
				Quantity:       0,
				TargetQuantity: models.DefaultStockpileTarget,
			}
			// Re-submitting onboarding must not reset existing entries.
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.LogErrorWithUser(userID, err, "error completing onboarding")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error completing onboarding"})
		return
	}

	utils.LogSuccessWithUser(userID, "onboarding completed, stockpile provisioned")
	c.JSON(http.StatusOK, gin.H{
		"message":             "Onboarding completed",
		"provisionedCalibers": len(selected),
	})
}
