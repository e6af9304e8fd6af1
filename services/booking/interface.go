package booking

import (
	"context"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"superscooops/models"
	"superscooops/services/crm"
	"superscooops/services/quote"
)

// InitiateInput starts a session from the plan card the visitor clicked,
// plus whatever they typed into the availability check.
type InitiateInput struct {
	PlanID string `json:"planId"`
	Zip    string `json:"zip"`
	Phone  string `json:"phone"`
}

// LeadInput captures an out-of-service-area inquiry. No payment details
// are ever collected on this path.
type LeadInput struct {
	Name    string         `json:"name"`
	Email   string         `json:"email"`
	Phone   string         `json:"phone"`
	Address models.Address `json:"address"`
	Notes   string         `json:"notes"`
}

// SessionService drives the multi-step booking workflow. Every method
// loads the session from Redis, applies one transition, and writes it
// back under a fresh TTL.
type SessionService interface {
	Initiate(ctx context.Context, in InitiateInput) (*models.BookingSession, error)
	Get(ctx context.Context, sessionID string) (*models.BookingSession, error)
	UpdateQuote(ctx context.Context, sessionID string, req models.QuoteRequest) (*models.BookingSession, error)
	SubmitContact(ctx context.Context, sessionID string, in ContactInput) (*models.BookingSession, error)
	SubmitPayment(ctx context.Context, sessionID string, in PaymentInput) (*models.BookingSession, error)
	SubmitLead(ctx context.Context, sessionID string, in LeadInput) error
	Activate(ctx context.Context, sessionID string) (*models.BookingSession, *models.CommitResult, error)
	Cancel(ctx context.Context, sessionID string) error
}

// Committer is the two-phase commit behind Activate.
type Committer interface {
	Commit(ctx context.Context, planID string, req models.QuoteRequest, res models.QuoteResult, customer models.CustomerRecord) models.CommitResult
}

// DefaultSessionService implements SessionService on a Redis session
// store.
type DefaultSessionService struct {
	Cache     *redis.Client
	Engine    *quote.Engine
	Committer Committer
	CRM       crm.Client
	Logger    *zap.Logger
}
