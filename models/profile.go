package models

import (
	"time"

	"gorm.io/datatypes"
)

// Profile maps one authenticated user to their Stripe customer and carries the
// onboarding state. The primary key is the auth user ID, which also enforces
// the one-billing-customer-per-user invariant at the store level.
// @Description User profile with Stripe customer mapping and onboarding state
type Profile struct {
	ID                  string         `json:"id" gorm:"primaryKey;type:uuid"`
	Email               string         `json:"email"`
	FullName            string         `json:"fullName" gorm:"column:full_name"`
	StripeCustomerID    string         `json:"stripeCustomerId" gorm:"column:stripe_customer_id;index"`
	OnboardingCompleted bool           `json:"onboardingCompleted" gorm:"column:onboarding_completed"`
	OnboardingData      datatypes.JSON `json:"onboardingData" gorm:"column:onboarding_data" swaggertype:"object"`
	CreatedAt           time.Time      `json:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt"`
}

func (Profile) TableName() string {
	return "profiles"
}
