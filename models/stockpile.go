package models

import (
	"time"
)

// StockpileEntry tracks accumulated rounds for one caliber of one user.
// Entries are provisioned at quantity 0 when onboarding completes and grow
// with each shipment cycle.
// @Description One caliber line of a user's stockpile
type StockpileEntry struct {
	ID             string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID         string    `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_stockpile_user_caliber"`
	CaliberID      string    `json:"caliberId" gorm:"column:caliber_id;uniqueIndex:idx_stockpile_user_caliber"`
	CaliberName    string    `json:"caliberName" gorm:"column:caliber_name"`
	Quantity       int       `json:"quantity"`
	TargetQuantity int       `json:"targetQuantity" gorm:"column:target_quantity"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (StockpileEntry) TableName() string {
	return "user_stockpile"
}

// DefaultStockpileTarget is the initial target for a freshly provisioned
// caliber until the user adjusts it.
const DefaultStockpileTarget = 1000
