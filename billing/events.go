package billing

import (
	"encoding/json"
	"fmt"
	"time"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// EventKind is the canonical classification of a Stripe notification. Every
// raw event type maps to exactly one kind; anything outside the lifecycle the
// service cares about is EventIgnored.
type EventKind string

const (
	EventCheckoutCompleted    EventKind = "checkout_completed"
	EventSubscriptionRenewed  EventKind = "subscription_renewed"
	EventSubscriptionCanceled EventKind = "subscription_canceled"
	EventPaymentFailed        EventKind = "payment_failed"
	EventIgnored              EventKind = "ignored"
)

// Event is the canonical, fully-decoded form of one Stripe notification. Only
// the fields relevant to the event's kind are populated.
type Event struct {
	Kind              EventKind
	ID                string
	OccurredAt        time.Time
	SubscriptionID    string
	CustomerID        string
	CheckoutSessionID string
	UserID            string
	// Status is the raw Stripe subscription status when the payload carries
	// one. The reconciler mirrors it instead of assuming the event kind
	// implies a healthy subscription.
	Status            string
	CurrentPeriodEnd  time.Time
	CancelAtPeriodEnd bool
	CanceledAt        *time.Time
	Metadata          map[string]string
}

// VerifyEvent checks the Stripe-Signature header against the raw request body
// and returns the parsed event. The bytes must be passed exactly as received:
// any re-serialization before this point breaks the signature.
func VerifyEvent(payload []byte, signatureHeader, secret string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, signatureHeader, secret)
}

// stripeID accepts either a bare ID string or an expanded object carrying one.
// Stripe sends both shapes depending on expansion settings.
type stripeID string

func (s *stripeID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*s = stripeID(id)
		return nil
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*s = stripeID(obj.ID)
	return nil
}

// subscriptionPayload covers customer.subscription.* event objects. Newer API
// versions carry current_period_end on the subscription items rather than the
// subscription itself, so both locations are read.
type subscriptionPayload struct {
	ID                string            `json:"id"`
	Customer          stripeID          `json:"customer"`
	Status            string            `json:"status"`
	CurrentPeriodEnd  int64             `json:"current_period_end"`
	CancelAtPeriodEnd bool              `json:"cancel_at_period_end"`
	CanceledAt        int64             `json:"canceled_at"`
	Metadata          map[string]string `json:"metadata"`
	Items             struct {
		Data []struct {
			CurrentPeriodEnd int64 `json:"current_period_end"`
		} `json:"data"`
	} `json:"items"`
}

func (p *subscriptionPayload) periodEnd() int64 {
	if p.CurrentPeriodEnd != 0 {
		return p.CurrentPeriodEnd
	}
	for _, item := range p.Items.Data {
		if item.CurrentPeriodEnd != 0 {
			return item.CurrentPeriodEnd
		}
	}
	return 0
}

// subscriptionRef is the subscription field of a checkout session: either an
// ID string or the expanded subscription object.
type subscriptionRef struct {
	ID        string
	PeriodEnd int64
}

func (r *subscriptionRef) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		r.ID = id
		return nil
	}
	var sub subscriptionPayload
	if err := json.Unmarshal(data, &sub); err != nil {
		return err
	}
	r.ID = sub.ID
	r.PeriodEnd = sub.periodEnd()
	return nil
}

type checkoutSessionPayload struct {
	ID           string            `json:"id"`
	Customer     stripeID          `json:"customer"`
	Subscription subscriptionRef   `json:"subscription"`
	Metadata     map[string]string `json:"metadata"`
}

// invoicePayload covers invoice.payment_* event objects. The subscription
// reference moved under parent.subscription_details in newer API versions; the
// legacy top-level field is kept as a fallback.
type invoicePayload struct {
	Customer     stripeID `json:"customer"`
	Subscription stripeID `json:"subscription"`
	Parent       *struct {
		SubscriptionDetails *struct {
			Subscription stripeID          `json:"subscription"`
			Metadata     map[string]string `json:"metadata"`
		} `json:"subscription_details"`
	} `json:"parent"`
	PeriodEnd int64 `json:"period_end"`
	Lines     struct {
		Data []struct {
			Period struct {
				End int64 `json:"end"`
			} `json:"period"`
		} `json:"data"`
	} `json:"lines"`
}

func (p *invoicePayload) subscriptionID() string {
	if p.Parent != nil && p.Parent.SubscriptionDetails != nil && p.Parent.SubscriptionDetails.Subscription != "" {
		return string(p.Parent.SubscriptionDetails.Subscription)
	}
	return string(p.Subscription)
}

func (p *invoicePayload) metadata() map[string]string {
	if p.Parent != nil && p.Parent.SubscriptionDetails != nil {
		return p.Parent.SubscriptionDetails.Metadata
	}
	return nil
}

func (p *invoicePayload) periodEnd() int64 {
	for _, line := range p.Lines.Data {
		if line.Period.End != 0 {
			return line.Period.End
		}
	}
	return p.PeriodEnd
}

// Classify maps a verified Stripe event onto the canonical set. The mapping is
// total over event types: unrecognized types come back as EventIgnored with a
// nil error. A non-nil error means the payload of a recognized type could not
// be decoded; such events are acknowledged upstream but never reconciled.
func Classify(event stripe.Event) (Event, error) {
	out := Event{
		Kind:       EventIgnored,
		ID:         event.ID,
		OccurredAt: time.Unix(event.Created, 0).UTC(),
	}

	switch event.Type {
	case "checkout.session.completed":
		var session checkoutSessionPayload
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return out, fmt.Errorf("decoding checkout session: %w", err)
		}
		out.Kind = EventCheckoutCompleted
		out.CheckoutSessionID = session.ID
		out.CustomerID = string(session.Customer)
		out.SubscriptionID = session.Subscription.ID
		out.Metadata = session.Metadata
		out.UserID = session.Metadata["userId"]
		if session.Subscription.PeriodEnd > 0 {
			out.CurrentPeriodEnd = time.Unix(session.Subscription.PeriodEnd, 0).UTC()
		}

	case "customer.subscription.updated", "customer.subscription.deleted":
		var sub subscriptionPayload
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return out, fmt.Errorf("decoding subscription: %w", err)
		}
		out.SubscriptionID = sub.ID
		out.CustomerID = string(sub.Customer)
		out.Status = sub.Status
		out.Metadata = sub.Metadata
		out.UserID = sub.Metadata["userId"]
		out.CancelAtPeriodEnd = sub.CancelAtPeriodEnd
		if periodEnd := sub.periodEnd(); periodEnd > 0 {
			out.CurrentPeriodEnd = time.Unix(periodEnd, 0).UTC()
		}
		if sub.CanceledAt > 0 {
			canceledAt := time.Unix(sub.CanceledAt, 0).UTC()
			out.CanceledAt = &canceledAt
		}
		if event.Type == "customer.subscription.deleted" || sub.Status == "canceled" || sub.CancelAtPeriodEnd {
			out.Kind = EventSubscriptionCanceled
		} else {
			out.Kind = EventSubscriptionRenewed
		}

	case "invoice.payment_succeeded":
		var invoice invoicePayload
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			return out, fmt.Errorf("decoding invoice: %w", err)
		}
		out.Kind = EventSubscriptionRenewed
		out.SubscriptionID = invoice.subscriptionID()
		out.CustomerID = string(invoice.Customer)
		out.Metadata = invoice.metadata()
		out.UserID = out.Metadata["userId"]
		if periodEnd := invoice.periodEnd(); periodEnd > 0 {
			out.CurrentPeriodEnd = time.Unix(periodEnd, 0).UTC()
		}

	case "invoice.payment_failed":
		var invoice invoicePayload
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			return out, fmt.Errorf("decoding invoice: %w", err)
		}
		out.Kind = EventPaymentFailed
		out.SubscriptionID = invoice.subscriptionID()
		out.CustomerID = string(invoice.Customer)
	}

	return out, nil
}
