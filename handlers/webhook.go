package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"superscooops/models"
	"superscooops/services/webhook"
)

// WebhookHandler receives inbound Sweep&Go events.
type WebhookHandler struct {
	Processor *webhook.Processor
	Logger    *zap.Logger
}

func NewWebhookHandler(processor *webhook.Processor, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{Processor: processor, Logger: logger}
}

// SweepWebhook validates, deduplicates, and dispatches one event.
// Unknown-but-well-formed event types are acknowledged with 200 so the
// CRM does not retry them; only processing failures return 500.
func (h *WebhookHandler) SweepWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	signature := c.GetHeader("X-Sweep-Signature")
	if signature == "" {
		signature = c.GetHeader("X-Webhook-Signature")
	}
	if !h.Processor.VerifySignature(body, signature) {
		h.Logger.Warn("webhook signature mismatch")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	var event models.SweepWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload", "details": err.Error()})
		return
	}
	if event.EventType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing event_type"})
		return
	}

	duplicate, err := h.Processor.MarkSeen(c.Request.Context(), event)
	if err != nil {
		h.Logger.Error("webhook dedupe failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook processing failed"})
		return
	}
	if duplicate {
		c.JSON(http.StatusOK, gin.H{
			"received":   true,
			"event_type": event.EventType,
			"message":    "Duplicate event ignored",
		})
		return
	}

	handled, err := h.Processor.Process(c.Request.Context(), event)
	if err != nil {
		h.Logger.Error("webhook processing failed",
			zap.String("event_type", event.EventType), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook processing failed"})
		return
	}
	if !handled {
		c.JSON(http.StatusOK, gin.H{
			"received":   true,
			"event_type": event.EventType,
			"message":    "Event received but not processed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"event_type": event.EventType,
		"message":    "Webhook processed successfully",
	})
}
