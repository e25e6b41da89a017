package billing

import (
	"errors"

	"github.com/jomonde/the-ammo-guys-lite/models"
	"github.com/jomonde/the-ammo-guys-lite/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CustomerResolver maps local users to Stripe customers. A user gets exactly
// one Stripe customer over the system's lifetime: the local mapping is checked
// before Stripe is ever called, and a concurrent double-create is settled by
// always trusting the first persisted mapping.
type CustomerResolver struct {
	db        *gorm.DB
	processor Processor
}

func NewCustomerResolver(db *gorm.DB, processor Processor) *CustomerResolver {
	return &CustomerResolver{db: db, processor: processor}
}

// Resolve returns the Stripe customer ID for the user, creating the customer
// on first use when an email is available. A cached mapping is returned
// without re-verifying the remote record.
func (r *CustomerResolver) Resolve(userID, email string) (string, error) {
	if userID == "" {
		return "", ErrMissingCustomerIdentity
	}

	var profile models.Profile
	err := r.db.First(&profile, "id = ?", userID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	profileMissing := errors.Is(err, gorm.ErrRecordNotFound)

	if profile.StripeCustomerID != "" {
		return profile.StripeCustomerID, nil
	}

	if email == "" {
		email = profile.Email
	}
	if email == "" {
		return "", ErrMissingCustomerIdentity
	}

	customerID, err := r.processor.CreateCustomer(email, userID, nil)
	if err != nil {
		return "", err
	}

	if profileMissing {
		created := models.Profile{ID: userID, Email: email, StripeCustomerID: customerID}
		tx := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&created)
		if tx.Error != nil {
			return "", tx.Error
		}
		if tx.RowsAffected > 0 {
			return customerID, nil
		}
	} else {
		result := r.db.Model(&models.Profile{}).
			Where("id = ? AND (stripe_customer_id IS NULL OR stripe_customer_id = '')", userID).
			Update("stripe_customer_id", customerID)
		if result.Error != nil {
			return "", result.Error
		}
		if result.RowsAffected > 0 {
			return customerID, nil
		}
	}

	// A concurrent resolution won the race; return the winning mapping and let
	// the extra Stripe customer go unused.
	var winner models.Profile
	if err := r.db.First(&winner, "id = ?", userID).Error; err != nil {
		return "", err
	}
	if winner.StripeCustomerID != "" {
		utils.LogInfo("concurrent customer resolution detected, keeping first persisted mapping")
		return winner.StripeCustomerID, nil
	}
	return customerID, nil
}
