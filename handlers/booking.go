package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"superscooops/models"
	"superscooops/services/booking"
	"superscooops/services/quote"
)

// BookingHandler exposes the session workflow over HTTP.
type BookingHandler struct {
	Sessions booking.SessionService
	Engine   *quote.Engine
}

func NewBookingHandler(sessions booking.SessionService, engine *quote.Engine) *BookingHandler {
	return &BookingHandler{Sessions: sessions, Engine: engine}
}

// Catalog returns the rate table the front end renders: plans,
// frequencies, and deodorizer tiers.
func (h *BookingHandler) Catalog(c *gin.Context) {
	catalog := h.Engine.Catalog()
	c.JSON(http.StatusOK, gin.H{
		"plans":        catalog.Plans,
		"frequencies":  catalog.Frequencies,
		"deodorizers":  catalog.Deodorizers,
		"extraDogRate": catalog.ExtraDogRate,
	})
}

// StartSession creates a new booking session from the selected plan.
func (h *BookingHandler) StartSession(c *gin.Context) {
	var input booking.InitiateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Sessions.Initiate(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session)
}

// GetSession returns the current session state.
func (h *BookingHandler) GetSession(c *gin.Context) {
	session, err := h.Sessions.Get(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// UpdateQuote reprices the session from new selections.
func (h *BookingHandler) UpdateQuote(c *gin.Context) {
	var input models.QuoteRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Sessions.UpdateQuote(c.Request.Context(), c.Param("sessionID"), input)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// SubmitContact stores the contact step and advances to payment.
func (h *BookingHandler) SubmitContact(c *gin.Context) {
	var input booking.ContactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Sessions.SubmitContact(c.Request.Context(), c.Param("sessionID"), input)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// SubmitPayment stores the tokenized payment step.
func (h *BookingHandler) SubmitPayment(c *gin.Context) {
	var input booking.PaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Sessions.SubmitPayment(c.Request.Context(), c.Param("sessionID"), input)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// SubmitLead converts the session into a CRM lead for out-of-area
// visitors.
func (h *BookingHandler) SubmitLead(c *gin.Context) {
	var input booking.LeadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if err := h.Sessions.SubmitLead(c.Request.Context(), c.Param("sessionID"), input); err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Thanks! We'll reach out as soon as we cover your area."})
}

// Activate runs the two-phase commit. The commit outcome is always a
// 200 with the result body; only workflow violations map to error codes.
func (h *BookingHandler) Activate(c *gin.Context) {
	var input struct {
		SessionID string `json:"sessionId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, result, err := h.Sessions.Activate(c.Request.Context(), input.SessionID)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session": session,
		"result":  result,
	})
}

// CancelSession discards the session.
func (h *BookingHandler) CancelSession(c *gin.Context) {
	if err := h.Sessions.Cancel(c.Request.Context(), c.Param("sessionID")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking session cancelled"})
}

// respondSessionError maps workflow errors onto HTTP status codes.
func respondSessionError(c *gin.Context, err error) {
	var verr *booking.ValidationError
	switch {
	case errors.Is(err, booking.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrCommitInFlight), errors.Is(err, booking.ErrSessionFinished):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "fields": verr.Fields})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
