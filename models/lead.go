package models

import (
	"time"
)

// Lead is a launch-list email captured from the landing page.
type Lead struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Email     string    `json:"email" gorm:"uniqueIndex" binding:"required,email"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Lead) TableName() string {
	return "leads"
}

// LeadCreate is the request body for the email capture endpoint.
// @Description Email capture payload
type LeadCreate struct {
	Email  string `json:"email" binding:"required,email" example:"shooter@example.com"`
	Source string `json:"source" example:"landing_hero"`
}
