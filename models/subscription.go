package models

import (
	"time"

	"gorm.io/datatypes"
)

type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
	SubscriptionInactive SubscriptionStatus = "inactive"
)

// Subscription is the local mirror of one Stripe subscription.
// The Stripe subscription ID is the primary key: webhook reconciliation always
// matches on the natural key, and rows are never deleted. Cancellation is a
// status transition so billing history stays attributable.
// @Description Local mirror of a Stripe subscription
type Subscription struct {
	StripeSubscriptionID string             `json:"stripeSubscriptionId" gorm:"primaryKey;column:stripe_subscription_id"`
	UserID               string             `json:"userId" gorm:"type:uuid;not null;index"`
	StripeCustomerID     string             `json:"stripeCustomerId" gorm:"column:stripe_customer_id;index"`
	Status               SubscriptionStatus `json:"status" gorm:"type:varchar(20);not null"`
	CurrentPeriodEnd     time.Time          `json:"currentPeriodEnd"`
	CancelAtPeriodEnd    bool               `json:"cancelAtPeriodEnd"`
	CanceledAt           *time.Time         `json:"canceledAt"`
	Metadata             datatypes.JSONMap  `json:"metadata" swaggertype:"object,string"`
	CreatedAt            time.Time          `json:"createdAt"`
	UpdatedAt            time.Time          `json:"updatedAt"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
