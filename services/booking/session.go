package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"superscooops/models"
	"superscooops/services/crm"
)

// sessionTTL is refreshed on every successful transition, so a session
// only expires after half an hour of inactivity.
const sessionTTL = 30 * time.Minute

var (
	// ErrSessionNotFound means the session never existed or its TTL lapsed.
	ErrSessionNotFound = errors.New("booking session not found or expired")
	// ErrCommitInFlight rejects a second activation while one is running.
	ErrCommitInFlight = errors.New("booking activation already in progress")
	// ErrSessionFinished rejects transitions on a terminal session.
	ErrSessionFinished = errors.New("booking session already finished")
)

// Initiate creates a session in the quoting state, priced against the
// chosen plan's default cadence, and stores it in Redis.
func (s *DefaultSessionService) Initiate(ctx context.Context, in InitiateInput) (*models.BookingSession, error) {
	catalog := s.Engine.Catalog()

	plan, ok := catalog.PlanByID(in.PlanID)
	if !ok {
		return nil, fmt.Errorf("unknown plan: %q", in.PlanID)
	}

	req := s.Engine.Normalize(models.QuoteRequest{Dogs: 1, FrequencyID: plan.FrequencyID})
	res, err := s.Engine.Quote(req)
	if err != nil {
		return nil, fmt.Errorf("failed to price initial quote: %w", err)
	}

	session := models.BookingSession{
		SessionID: uuid.New().String(),
		State:     models.StateQuoting,
		PlanID:    plan.ID,
		Quote:     req,
		Result:    res,
		Customer: models.CustomerRecord{
			Phone:   in.Phone,
			Address: models.Address{Zip: in.Zip},
		},
	}

	if err := s.save(ctx, &session); err != nil {
		return nil, err
	}
	s.Logger.Info("booking session started",
		zap.String("session", session.SessionID), zap.String("plan", plan.ID))
	return &session, nil
}

// Get returns the current session without modifying it.
func (s *DefaultSessionService) Get(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	return s.load(ctx, sessionID)
}

// UpdateQuote reprices the session from new inputs. Allowed in any
// pre-commit state so the visitor can go back and change their selection
// right up until activation.
func (s *DefaultSessionService) UpdateQuote(ctx context.Context, sessionID string, req models.QuoteRequest) (*models.BookingSession, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := guardMutable(session); err != nil {
		return nil, err
	}

	req = s.Engine.Normalize(req)
	res, err := s.Engine.Quote(req)
	if err != nil {
		return nil, err
	}

	// A cadence change invalidates the preferred-day selection, which is
	// sized to the number of visits per week.
	if req.FrequencyID != session.Quote.FrequencyID {
		session.Customer.ServiceDays = nil
		if session.State == models.StatePayment {
			session.State = models.StateContact
		}
	}

	session.Quote = req
	session.Result = res
	if plan, ok := s.Engine.Catalog().PlanByID(session.PlanID); !ok || plan.FrequencyID != req.FrequencyID {
		session.PlanID = s.Engine.Catalog().PlanForFrequency(req.FrequencyID).ID
	}

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SubmitContact validates and stores the contact step, advancing the
// session to the payment step. Validation failures leave the session in
// the contact state with nothing persisted.
func (s *DefaultSessionService) SubmitContact(ctx context.Context, sessionID string, in ContactInput) (*models.BookingSession, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := guardMutable(session); err != nil {
		return nil, err
	}

	if err := ValidateContact(in, s.Engine.RequiredServiceDays(session.Quote.FrequencyID)); err != nil {
		if session.State == models.StateQuoting {
			session.State = models.StateContact
			if saveErr := s.save(ctx, session); saveErr != nil {
				return nil, saveErr
			}
		}
		return session, err
	}

	session.Customer.Name = in.Name
	session.Customer.Email = in.Email
	session.Customer.Phone = in.Phone
	session.Customer.Address = in.Address
	session.Customer.ServiceDays = trimmedDays(in.ServiceDays)
	session.State = models.StatePayment

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SubmitPayment validates and stores the payment step. The card token
// is held only inside the session until activation consumes it.
func (s *DefaultSessionService) SubmitPayment(ctx context.Context, sessionID string, in PaymentInput) (*models.BookingSession, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := guardMutable(session); err != nil {
		return nil, err
	}
	if session.State != models.StatePayment {
		return nil, fmt.Errorf("contact details must be submitted before payment")
	}

	if err := ValidatePayment(in); err != nil {
		return session, err
	}

	session.Customer.StripeToken = in.StripeToken
	if in.BillingSameAsService {
		session.Customer.BillingAddress = nil
	} else {
		session.Customer.BillingAddress = in.BillingAddress
	}

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SubmitLead converts the session into a CRM lead for addresses outside
// the service area. The payment provider is never contacted and the
// session is discarded afterwards.
func (s *DefaultSessionService) SubmitLead(ctx context.Context, sessionID string, in LeadInput) error {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := guardMutable(session); err != nil {
		return err
	}

	var fields []string
	if in.Email == "" {
		fields = append(fields, "email")
	}
	if in.Phone == "" {
		fields = append(fields, "phone")
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	address := in.Address
	if address.Zip == "" {
		address.Zip = session.Customer.Address.Zip
	}

	if err := s.CRM.CreateLead(ctx, crm.Lead{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Address: address,
		Notes:   in.Notes,
	}); err != nil {
		return err
	}

	if err := s.Cache.Del(ctx, sessionID).Err(); err != nil {
		s.Logger.Warn("failed to delete session after lead capture",
			zap.String("session", sessionID), zap.Error(err))
	}
	s.Logger.Info("out-of-area lead captured", zap.String("session", sessionID))
	return nil
}

// Activate runs the two-phase commit exactly once per session. The
// session is moved to committing before Phase A starts, so a concurrent
// or repeated activation is rejected instead of double-charging.
func (s *DefaultSessionService) Activate(ctx context.Context, sessionID string) (*models.BookingSession, *models.CommitResult, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if session.State == models.StateCommitting {
		return nil, nil, ErrCommitInFlight
	}
	if session.State.Terminal() {
		return nil, nil, ErrSessionFinished
	}
	if session.State != models.StatePayment || session.Customer.StripeToken == "" {
		return nil, nil, fmt.Errorf("payment details must be submitted before activation")
	}

	session.State = models.StateCommitting
	if err := s.save(ctx, session); err != nil {
		return nil, nil, err
	}

	result := s.Committer.Commit(ctx, session.PlanID, session.Quote, session.Result, session.Customer)

	switch result.Outcome {
	case models.OutcomeSucceeded:
		session.State = models.StateSucceeded
		session.FailedPhase = ""
	default:
		session.State = models.StateFailed
		session.FailedPhase = result.FailedPhase
	}
	// The token is single-use; drop it once the commit has consumed it.
	session.Customer.StripeToken = ""

	if err := s.save(ctx, session); err != nil {
		s.Logger.Error("failed to persist commit outcome",
			zap.String("session", sessionID), zap.Error(err))
	}
	return session, &result, nil
}

// Cancel discards the session.
func (s *DefaultSessionService) Cancel(ctx context.Context, sessionID string) error {
	if err := s.Cache.Del(ctx, sessionID).Err(); err != nil {
		return fmt.Errorf("failed to cancel booking session: %w", err)
	}
	return nil
}

// guardMutable rejects transitions once the commit has started.
func guardMutable(session *models.BookingSession) error {
	if session.State == models.StateCommitting {
		return ErrCommitInFlight
	}
	if session.State.Terminal() {
		return ErrSessionFinished
	}
	return nil
}

func (s *DefaultSessionService) load(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	data, err := s.Cache.Get(ctx, sessionID).Result()
	if err != nil {
		return nil, ErrSessionNotFound
	}
	var session models.BookingSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to parse booking session: %w", err)
	}
	return &session, nil
}

func (s *DefaultSessionService) save(ctx context.Context, session *models.BookingSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal booking session: %w", err)
	}
	if err := s.Cache.Set(ctx, session.SessionID, data, sessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to store booking session: %w", err)
	}
	return nil
}
