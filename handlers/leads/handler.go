package leads

import (
	"net/http"

	"github.com/jomonde/the-ammo-guys-lite/db"
	"github.com/jomonde/the-ammo-guys-lite/models"
	"github.com/jomonde/the-ammo-guys-lite/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

// CreateLead captures a launch-list email from the landing page.
// @Summary Capture a landing page email
// @Description Store an email for the launch list. Duplicate emails are accepted silently.
// @Tags leads
// @Accept json
// @Produce json
// @Param lead body models.LeadCreate true "Lead information"
// @Success 201 {object} map[string]string "message: Email captured"
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 500 {object} map[string]string "error: Storage error"
// @Router /leads [post]
func CreateLead(c *gin.Context) {
	var input models.LeadCreate
	if !utils.ValidateRequestBody(c, &input) {
		return
	}

	lead := models.Lead{
		Email:  input.Email,
		Source: input.Source,
	}
	err := db.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoNothing: true,
	}).Create(&lead).Error
	if err != nil {
		utils.LogError(err, "error storing lead")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error storing email"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Email captured"})
}
