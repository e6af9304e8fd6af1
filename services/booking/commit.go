package booking

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"superscooops/models"
	"superscooops/services/crm"
	"superscooops/services/payment"
	"superscooops/services/quote"
)

// CommitEngine runs the two-phase signup commit: Phase A creates the
// payment-provider customer (and subscription for recurring
// frequencies), Phase B registers the client in the CRM. Phase B is
// never reached when Phase A fails, so no durable CRM record can exist
// without a validated payment method.
type CommitEngine struct {
	Payment payment.Provider
	CRM     crm.Client
	Quotes  *quote.Engine
	Logger  *zap.Logger
}

// NewCommitEngine wires the two collaborators behind the commit.
func NewCommitEngine(p payment.Provider, c crm.Client, q *quote.Engine, logger *zap.Logger) *CommitEngine {
	return &CommitEngine{Payment: p, CRM: c, Quotes: q, Logger: logger}
}

// Commit executes both phases sequentially and reconciles their
// combined outcome. The two calls are strictly ordered; there is no
// automatic retry on either side.
func (e *CommitEngine) Commit(ctx context.Context, planID string, req models.QuoteRequest, res models.QuoteResult, customer models.CustomerRecord) models.CommitResult {
	catalog := e.Quotes.Catalog()

	plan, ok := catalog.PlanByID(planID)
	if !ok {
		plan = catalog.PlanForFrequency(req.FrequencyID)
	}
	freq, ok := catalog.FrequencyByID(req.FrequencyID)
	if !ok {
		return models.CommitResult{
			Outcome:     models.OutcomeFailed,
			FailedPhase: models.PhasePayment,
			Message:     NewPaymentError(fmt.Errorf("unknown frequency: %q", req.FrequencyID)).Message,
		}
	}

	// Phase A: payment provider.
	customerID, err := e.Payment.CreateCustomer(ctx, payment.CustomerInput{
		Email:     customer.Email,
		Name:      customer.Name,
		Phone:     customer.Phone,
		Billing:   customer.EffectiveBillingAddress(),
		CardToken: customer.StripeToken,
	})
	if err != nil {
		e.Logger.Error("commit phase A failed: customer creation",
			zap.String("email", customer.Email), zap.Error(err))
		return models.CommitResult{
			Outcome:     models.OutcomeFailed,
			FailedPhase: models.PhasePayment,
			Message:     NewPaymentError(err).Message,
		}
	}

	var subscriptionID string
	if freq.Recurring {
		anchorDay := ""
		if len(customer.ServiceDays) > 0 {
			anchorDay = customer.ServiceDays[0]
		}
		subscriptionID, err = e.Payment.CreateSubscription(ctx, payment.SubscriptionInput{
			CustomerID:   customerID,
			PlanID:       plan.ID,
			ExtraDogs:    int64(max(0, req.Dogs-1)),
			DeodorizerID: req.DeodorizerID,
			AnchorDay:    anchorDay,
			ApplyPromo:   freq.PromoEligible,
		})
		if err != nil {
			e.Logger.Error("commit phase A failed: subscription creation",
				zap.String("customer", customerID), zap.Error(err))
			return models.CommitResult{
				Outcome:     models.OutcomeFailed,
				CustomerID:  customerID,
				FailedPhase: models.PhasePayment,
				Message:     NewPaymentError(err).Message,
			}
		}
	}

	// Phase B: CRM registration, only after Phase A succeeded.
	first, last := splitName(customer.Name)
	clientID, err := e.CRM.CreateClientWithPlan(ctx, crm.Registration{
		FirstName:   first,
		LastName:    last,
		Email:       customer.Email,
		Phone:       customer.Phone,
		Address:     customer.Address,
		PlanID:      plan.ID,
		PlanName:    plan.Name,
		FrequencyID: freq.ID,
		CardToken:   customer.StripeToken,
		Notes:       registrationNotes(freq, req, res, customer),
	})
	if err != nil {
		e.Logger.Error("commit phase B failed: crm registration",
			zap.String("customer", customerID), zap.Error(err))
		return models.CommitResult{
			Outcome:        models.OutcomeFailed,
			CustomerID:     customerID,
			SubscriptionID: subscriptionID,
			FailedPhase:    models.PhaseCRM,
			Message:        NewCRMError(err).Message,
		}
	}

	// Backlink the CRM client onto the payment customer. Best effort: a
	// failure here must not fail an otherwise committed signup.
	if err := e.Payment.AttachCRMClient(ctx, customerID, clientID); err != nil {
		e.Logger.Warn("failed to backlink crm client to customer",
			zap.String("customer", customerID),
			zap.String("client", clientID),
			zap.Error(err))
	}

	return models.CommitResult{
		Outcome:        models.OutcomeSucceeded,
		CustomerID:     customerID,
		SubscriptionID: subscriptionID,
		ClientID:       clientID,
	}
}

// registrationNotes builds the free-text comment attached to the CRM
// client, mirroring what the field team expects to see.
func registrationNotes(freq models.Frequency, req models.QuoteRequest, res models.QuoteResult, customer models.CustomerRecord) string {
	var b strings.Builder
	if freq.PromoEligible {
		b.WriteString("PROMO: FREE FIRST CLEANING\n")
	}
	days := "Monday"
	if len(customer.ServiceDays) > 0 {
		days = strings.Join(customer.ServiceDays, ", ")
	}
	fmt.Fprintf(&b, "Preferred Service Day: %s\n", days)
	fmt.Fprintf(&b, "Dogs: %d\n", req.Dogs)
	deodorizer := "NONE"
	if req.DeodorizerID != "" {
		deodorizer = strings.ToUpper(strings.TrimPrefix(req.DeodorizerID, "deodorizer-"))
	}
	fmt.Fprintf(&b, "Deodorizer Mission: %s\n", deodorizer)
	fmt.Fprintf(&b, "Quoted: %s per cleanup (%s per period)", res.PerCleanupLabel, res.PeriodTotalLabel)
	return b.String()
}

// splitName splits a full name into first/last parts, with the
// placeholders the CRM onboarding expects when a part is missing.
func splitName(name string) (string, string) {
	parts := strings.Fields(strings.TrimSpace(name))
	switch len(parts) {
	case 0:
		return "Hero", "Recruit"
	case 1:
		return parts[0], "Recruit"
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}
