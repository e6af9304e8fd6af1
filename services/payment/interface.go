package payment

import (
	"context"
	"errors"

	"superscooops/models"
)

// ErrNoCustomer is returned when no billing account matches the email.
var ErrNoCustomer = errors.New("no billing account found for this email")

// CustomerInput creates a payment-provider customer from a validated
// card token and billing address.
type CustomerInput struct {
	Email     string
	Name      string
	Phone     string
	Billing   models.Address
	CardToken string
}

// SubscriptionInput creates the recurring subscription for a customer.
// Price identifiers are resolved from configuration by the provider.
type SubscriptionInput struct {
	CustomerID   string
	PlanID       string
	ExtraDogs    int64
	DeodorizerID string
	// AnchorDay is the weekday name of the first preferred service day;
	// billing is anchored to its next occurrence.
	AnchorDay string
	// ApplyPromo attaches the free-first-cleanup discount.
	ApplyPromo bool
}

// CheckoutInput builds a redirect-based checkout session (legacy
// signup variant).
type CheckoutInput struct {
	Email        string
	Name         string
	PlanID       string
	Dogs         int64
	DeodorizerID string
	Address      string
}

// Provider is the payment collaborator consumed by the booking
// workflow's commit phase.
type Provider interface {
	CreateCustomer(ctx context.Context, in CustomerInput) (string, error)
	CreateSubscription(ctx context.Context, in SubscriptionInput) (string, error)
	// AttachCRMClient backlinks the CRM client id onto the customer.
	// Best effort: callers must not fail the commit on error.
	AttachCRMClient(ctx context.Context, customerID, clientID string) error
	CreateCheckoutSession(ctx context.Context, in CheckoutInput) (string, error)
	CreatePortalSession(ctx context.Context, email, returnURL string) (string, error)
}
