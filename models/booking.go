package models

// SessionState is the current step of the booking workflow.
type SessionState string

const (
	StateQuoting    SessionState = "quoting"
	StateContact    SessionState = "contact"
	StatePayment    SessionState = "payment"
	StateCommitting SessionState = "committing"
	StateSucceeded  SessionState = "succeeded"
	StateFailed     SessionState = "failed"
)

// Terminal reports whether no further transitions are allowed.
func (s SessionState) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// Address is a US service or billing address.
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

// Complete reports whether all four address fields are present.
func (a Address) Complete() bool {
	return a.Street != "" && a.City != "" && a.State != "" && a.Zip != ""
}

// CustomerRecord holds the contact and payment details collected during
// a session. It exists only inside the session and is discarded once the
// two remote collaborators have consumed it.
type CustomerRecord struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone"`
	Address Address `json:"address"`
	// BillingAddress is set only when it differs from the service address.
	BillingAddress *Address `json:"billingAddress,omitempty"`
	// ServiceDays holds one weekday per visit, pairwise distinct.
	ServiceDays []string `json:"serviceDays"`
	// StripeToken is the one-time card token from client-side tokenization.
	StripeToken string `json:"stripeToken,omitempty"`
}

// EffectiveBillingAddress returns the billing address, falling back to
// the service address when none was given.
func (c CustomerRecord) EffectiveBillingAddress() Address {
	if c.BillingAddress != nil {
		return *c.BillingAddress
	}
	return c.Address
}

// BookingSession holds workflow context between the quote and the final
// two-phase commit. Sessions live in Redis under a TTL and are the only
// state this service keeps; everything durable belongs to Stripe and the
// CRM.
type BookingSession struct {
	SessionID string         `json:"sessionId"`
	State     SessionState   `json:"state"`
	PlanID    string         `json:"planId"`
	Quote     QuoteRequest   `json:"quote"`
	Result    QuoteResult    `json:"result"`
	Customer  CustomerRecord `json:"customer"`
	// FailedPhase records which commit phase failed, when State is failed.
	FailedPhase string `json:"failedPhase,omitempty"`
}

// Commit phases, used for error attribution.
const (
	PhasePayment = "payment"
	PhaseCRM     = "crm"
)

// BookingOutcome is the tri-state result of the two-phase commit.
type BookingOutcome string

const (
	OutcomePending   BookingOutcome = "pending"
	OutcomeSucceeded BookingOutcome = "succeeded"
	OutcomeFailed    BookingOutcome = "failed"
)

// CommitResult reconciles the two remote phases into one user-facing
// result.
type CommitResult struct {
	Outcome        BookingOutcome `json:"outcome"`
	CustomerID     string         `json:"customerId,omitempty"`
	SubscriptionID string         `json:"subscriptionId,omitempty"`
	ClientID       string         `json:"clientId,omitempty"`
	FailedPhase    string         `json:"failedPhase,omitempty"`
	Message        string         `json:"message,omitempty"`
}
