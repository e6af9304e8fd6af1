package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"superscooops/models"
)

// dedupeTTL keeps processed event keys long enough to absorb the CRM's
// retry window.
const dedupeTTL = 24 * time.Hour

// Processor handles inbound CRM webhook events: signature verification,
// duplicate suppression, and per-type dispatch.
type Processor struct {
	Dedupe *redis.Client
	Secret string
	Logger *zap.Logger
}

func NewProcessor(dedupe *redis.Client, secret string, logger *zap.Logger) *Processor {
	return &Processor{Dedupe: dedupe, Secret: secret, Logger: logger}
}

// VerifySignature checks the HMAC-SHA256 hex signature of the raw body.
// With no secret configured, every request is accepted.
func (p *Processor) VerifySignature(body []byte, signature string) bool {
	if p.Secret == "" {
		return true
	}
	mac := hmac.New(sha256.New, []byte(p.Secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.TrimSpace(signature)))
}

// MarkSeen records the event and reports whether it was already
// processed. The SetNX result is authoritative: only the first caller
// for a given key proceeds.
func (p *Processor) MarkSeen(ctx context.Context, event models.SweepWebhookEvent) (bool, error) {
	stored, err := p.Dedupe.SetNX(ctx, dedupeKey(event), 1, dedupeTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to record webhook event: %w", err)
	}
	return !stored, nil
}

// Process dispatches a deduplicated event. Unknown types are reported
// as unhandled, not as errors, so the sender does not retry them.
func (p *Processor) Process(ctx context.Context, event models.SweepWebhookEvent) (bool, error) {
	fields := []zap.Field{
		zap.String("event_type", event.EventType),
		zap.String("organization", event.Organization),
		zap.String("client_id", event.ClientID()),
	}

	switch normalizeEventType(event.EventType) {
	case "client_created":
		p.Logger.Info("crm client created", fields...)
	case "client_updated":
		p.Logger.Info("crm client updated", fields...)
	case "payment_received", "payment_success":
		p.Logger.Info("crm payment received",
			append(fields, zap.Any("amount", event.Data["amount"]))...)
	case "payment_failed":
		p.Logger.Warn("crm payment failed",
			append(fields, zap.Any("reason", event.Data["failure_reason"]))...)
	case "service_completed", "cleanup_completed":
		p.Logger.Info("service completed",
			append(fields, zap.Any("service_date", event.Data["service_date"]))...)
	case "service_scheduled":
		p.Logger.Info("service scheduled",
			append(fields, zap.Any("service_date", event.Data["service_date"]))...)
	case "subscription_cancelled":
		p.Logger.Warn("subscription cancelled", fields...)
	case "subscription_activated":
		p.Logger.Info("subscription activated", fields...)
	default:
		p.Logger.Info("unhandled webhook event type", fields...)
		return false, nil
	}
	return true, nil
}

// normalizeEventType folds the CRM's dotted and underscored spellings
// into one form.
func normalizeEventType(eventType string) string {
	return strings.ReplaceAll(strings.ToLower(eventType), ".", "_")
}

func dedupeKey(event models.SweepWebhookEvent) string {
	return fmt.Sprintf("sweep:%s:%s:%s",
		normalizeEventType(event.EventType), event.ClientID(), event.Timestamp)
}
