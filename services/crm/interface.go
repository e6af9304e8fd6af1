package crm

import (
	"context"

	"superscooops/models"
)

// Lead is an inquiry without payment: a contact record plus free-text
// notes, created through the CRM's out-of-service intake.
type Lead struct {
	Name    string
	Email   string
	Phone   string
	Address models.Address
	Notes   string
}

// Registration creates a paying client with a service package and a
// validated payment token.
type Registration struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Address     models.Address
	PlanID      string
	PlanName    string
	FrequencyID string
	CardToken   string
	Notes       string
}

// Client is the CRM collaborator consumed by the booking workflow.
type Client interface {
	CreateLead(ctx context.Context, lead Lead) error
	CreateClientWithPlan(ctx context.Context, reg Registration) (string, error)
}
