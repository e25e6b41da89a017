package billing

import "errors"

var (
	// ErrMissingCustomerIdentity is returned when a user has no Stripe
	// customer mapping and no email address to create one with. Session
	// creation must not proceed past it.
	ErrMissingCustomerIdentity = errors.New("no billing customer mapping and no email to create one")

	// ErrNoBillingCustomer is returned when a portal session is requested for
	// a user who never went through checkout.
	ErrNoBillingCustomer = errors.New("no billing customer exists for this user")
)
