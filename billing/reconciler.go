package billing

import (
	"errors"
	"time"

	"github.com/jomonde/the-ammo-guys-lite/models"
	"github.com/jomonde/the-ammo-guys-lite/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Reconciler folds canonical billing events into the local subscription
// mirror. Every transition is an unconditional field overwrite keyed by the
// Stripe subscription ID, so at-least-once delivery and redelivery of the same
// event leave the row in the same state as a single delivery.
//
// Stripe provides no sequence numbers, so no ordering is enforced beyond
// last-write-wins; the event timestamp is logged with every applied transition
// to make regressions observable.
type Reconciler struct {
	db    *gorm.DB
	store *SubscriptionStore
}

func NewReconciler(db *gorm.DB) *Reconciler {
	return &Reconciler{db: db, store: NewSubscriptionStore(db)}
}

// Apply routes one canonical event through the transition table. A nil return
// means the event was fully processed or safely dropped; a non-nil return
// means a transient store failure that the caller should surface so Stripe
// redelivers.
func (r *Reconciler) Apply(event Event) error {
	switch event.Kind {
	case EventCheckoutCompleted:
		return r.applyCheckoutCompleted(event)
	case EventSubscriptionRenewed:
		return r.applyRenewed(event)
	case EventSubscriptionCanceled:
		return r.applyCanceled(event)
	case EventPaymentFailed:
		return r.applyPaymentFailed(event)
	default:
		return nil
	}
}

func (r *Reconciler) applyCheckoutCompleted(event Event) error {
	if event.SubscriptionID == "" {
		utils.LogInfo("checkout completed without a subscription, nothing to mirror")
		return nil
	}

	userID, err := r.resolveOwner(event)
	if err != nil {
		return err
	}
	if userID == "" {
		utils.LogError(nil, "dropping checkout event "+event.ID+": no userId in metadata and no customer mapping")
		return nil
	}

	if event.CustomerID != "" {
		if err := r.ensureCustomerMapping(userID, event.CustomerID); err != nil {
			return err
		}
	}

	periodEnd := event.CurrentPeriodEnd
	if periodEnd.IsZero() {
		// Session payloads without an expanded subscription carry no period
		// end; the first invoice event will set the authoritative value.
		periodEnd = event.OccurredAt
	}

	sub := &models.Subscription{
		StripeSubscriptionID: event.SubscriptionID,
		UserID:               userID,
		StripeCustomerID:     event.CustomerID,
		Status:               models.SubscriptionActive,
		CurrentPeriodEnd:     periodEnd,
		Metadata:             toJSONMap(event.Metadata),
	}
	if err := r.store.UpsertByStripeSubscriptionID(sub); err != nil {
		return err
	}
	utils.LogSuccessWithUser(userID, "subscription "+event.SubscriptionID+" activated from checkout at "+event.OccurredAt.Format(time.RFC3339))
	return nil
}

func (r *Reconciler) applyRenewed(event Event) error {
	if event.SubscriptionID == "" {
		utils.LogInfo("renewal event " + event.ID + " carries no subscription ID, dropping")
		return nil
	}

	status := renewedStatus(event)

	fields := map[string]interface{}{
		"status": status,
	}
	if !event.CurrentPeriodEnd.IsZero() {
		// The processor's period end is authoritative; never compute it
		// locally.
		fields["current_period_end"] = event.CurrentPeriodEnd
	}

	affected, err := r.store.UpdateByStripeSubscriptionID(event.SubscriptionID, fields)
	if err != nil {
		return err
	}
	if affected > 0 {
		utils.LogSuccess("subscription " + event.SubscriptionID + " updated to " + string(status) + ", event from " + event.OccurredAt.Format(time.RFC3339))
		return nil
	}

	// Not materialized locally yet; a renewal can still create the mirror row
	// when the subscription metadata identifies the owner.
	userID, err := r.resolveOwner(event)
	if err != nil {
		return err
	}
	if userID == "" {
		utils.LogInfo("renewal for unknown subscription " + event.SubscriptionID + ", nothing to reconcile")
		return nil
	}

	sub := &models.Subscription{
		StripeSubscriptionID: event.SubscriptionID,
		UserID:               userID,
		StripeCustomerID:     event.CustomerID,
		Status:               status,
		CurrentPeriodEnd:     event.CurrentPeriodEnd,
		CancelAtPeriodEnd:    event.CancelAtPeriodEnd,
		Metadata:             toJSONMap(event.Metadata),
	}
	return r.store.UpsertByStripeSubscriptionID(sub)
}

// renewedStatus mirrors the processor's subscription status on the renewed
// path. Stripe emits subscription.updated with past_due or unpaid alongside a
// failed payment; writing active there would undo the payment failure
// transition.
func renewedStatus(event Event) models.SubscriptionStatus {
	switch event.Status {
	case "past_due", "unpaid":
		return models.SubscriptionPastDue
	default:
		return models.SubscriptionActive
	}
}

func (r *Reconciler) applyCanceled(event Event) error {
	if event.SubscriptionID == "" {
		utils.LogInfo("cancellation event " + event.ID + " carries no subscription ID, dropping")
		return nil
	}

	// cancel_at_period_end means the subscription stays serviceable until the
	// period runs out; an immediate cancellation goes straight to inactive.
	status := models.SubscriptionInactive
	if event.CancelAtPeriodEnd {
		status = models.SubscriptionCanceled
	}

	canceledAt := event.CanceledAt
	if canceledAt == nil {
		occurredAt := event.OccurredAt
		canceledAt = &occurredAt
	}

	fields := map[string]interface{}{
		"status":               status,
		"cancel_at_period_end": event.CancelAtPeriodEnd,
		"canceled_at":          canceledAt,
	}
	if !event.CurrentPeriodEnd.IsZero() {
		fields["current_period_end"] = event.CurrentPeriodEnd
	}

	affected, err := r.store.UpdateByStripeSubscriptionID(event.SubscriptionID, fields)
	if err != nil {
		return err
	}
	if affected == 0 {
		utils.LogInfo("cancellation for unknown subscription " + event.SubscriptionID + ", nothing to reconcile")
		return nil
	}
	utils.LogSuccess("subscription " + event.SubscriptionID + " marked " + string(status) + ", event from " + event.OccurredAt.Format(time.RFC3339))
	return nil
}

func (r *Reconciler) applyPaymentFailed(event Event) error {
	if event.SubscriptionID == "" {
		utils.LogInfo("payment failure event " + event.ID + " carries no subscription ID, dropping")
		return nil
	}

	// Only the status moves; the period end and cancellation flags are
	// untouched until Stripe says otherwise.
	affected, err := r.store.UpdateByStripeSubscriptionID(event.SubscriptionID, map[string]interface{}{
		"status": models.SubscriptionPastDue,
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		utils.LogInfo("payment failure for unknown subscription " + event.SubscriptionID + ", nothing to reconcile")
		return nil
	}
	utils.LogSuccess("subscription " + event.SubscriptionID + " marked past_due, event from " + event.OccurredAt.Format(time.RFC3339))
	return nil
}

// resolveOwner recovers the local user for an event, preferring the userId
// embedded in the metadata and falling back to the customer mapping.
func (r *Reconciler) resolveOwner(event Event) (string, error) {
	if event.UserID != "" {
		return event.UserID, nil
	}
	if event.CustomerID == "" {
		return "", nil
	}
	var profile models.Profile
	err := r.db.First(&profile, "stripe_customer_id = ?", event.CustomerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return profile.ID, nil
}

// ensureCustomerMapping records the user to Stripe customer mapping when the
// checkout event is the first the service hears of it. The event is
// authoritative for a missing mapping, but an existing mapping is never
// overwritten.
func (r *Reconciler) ensureCustomerMapping(userID, customerID string) error {
	profile := models.Profile{ID: userID, StripeCustomerID: customerID}
	tx := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&profile)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected > 0 {
		return nil
	}
	return r.db.Model(&models.Profile{}).
		Where("id = ? AND (stripe_customer_id IS NULL OR stripe_customer_id = '')", userID).
		Update("stripe_customer_id", customerID).Error
}

func toJSONMap(metadata map[string]string) datatypes.JSONMap {
	if len(metadata) == 0 {
		return nil
	}
	out := make(datatypes.JSONMap, len(metadata))
	for key, value := range metadata {
		out[key] = value
	}
	return out
}
