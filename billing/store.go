package billing

import (
	"github.com/jomonde/the-ammo-guys-lite/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubscriptionStore persists the local subscription mirror. All writes are
// keyed by the Stripe subscription ID so redelivered events overwrite instead
// of accumulating.
type SubscriptionStore struct {
	db *gorm.DB
}

func NewSubscriptionStore(db *gorm.DB) *SubscriptionStore {
	return &SubscriptionStore{db: db}
}

// UpsertByStripeSubscriptionID inserts the mirror row or fully overwrites the
// mutable fields of an existing one.
func (s *SubscriptionStore) UpsertByStripeSubscriptionID(sub *models.Subscription) error {
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "stripe_subscription_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"user_id",
			"stripe_customer_id",
			"status",
			"current_period_end",
			"cancel_at_period_end",
			"canceled_at",
			"metadata",
			"updated_at",
		}),
	}).Create(sub).Error
}

// UpdateByStripeSubscriptionID applies the given column updates and reports
// how many rows matched. Zero rows is not an error: events legitimately arrive
// for subscriptions that were never materialized locally.
func (s *SubscriptionStore) UpdateByStripeSubscriptionID(stripeSubscriptionID string, fields map[string]interface{}) (int64, error) {
	result := s.db.Model(&models.Subscription{}).
		Where("stripe_subscription_id = ?", stripeSubscriptionID).
		Updates(fields)
	return result.RowsAffected, result.Error
}
