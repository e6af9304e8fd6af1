package booking

import (
	"fmt"
	"strings"

	"superscooops/models"
)

// PhaseError attributes a commit failure to the payment or CRM phase,
// which drives distinct user-facing remediation paths.
type PhaseError struct {
	Phase   string
	Message string
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Message)
}

// NewPaymentError wraps a Phase A failure. The CRM was never called, so
// the user is told to fix their card details and retry.
func NewPaymentError(cause error) *PhaseError {
	detail := "payment could not be processed"
	if cause != nil && strings.TrimSpace(cause.Error()) != "" {
		detail = cause.Error()
	}
	return &PhaseError{
		Phase:   models.PhasePayment,
		Message: fmt.Sprintf("Payment failed: %s. Please check your card and billing details.", detail),
	}
}

// NewCRMError wraps a Phase B failure. Money has already moved, so the
// user must go through support instead of retrying.
func NewCRMError(cause error) *PhaseError {
	detail := "account registration failed"
	if cause != nil && strings.TrimSpace(cause.Error()) != "" {
		detail = cause.Error()
	}
	return &PhaseError{
		Phase:   models.PhaseCRM,
		Message: fmt.Sprintf("Your payment was processed, but account setup did not complete: %s. Please contact support; do not retry, or you may be charged twice.", detail),
	}
}

// ValidationError aggregates every missing or invalid field so the form
// can be fixed in one pass.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "Missing or invalid fields: " + strings.Join(e.Fields, ", ")
}
