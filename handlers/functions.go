package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"superscooops/models"
	"superscooops/services/crm"
)

// SweepClientRequest is the stateless signup payload used by the embedded
// widget variant, which collects everything in one form instead of a
// session.
type SweepClientRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`

	PlanID       string      `json:"planId"`
	PlanName     string      `json:"planName"`
	Dogs         int         `json:"dogs"`
	FrequencyID  string      `json:"frequencyId"`
	PreferredDay string      `json:"preferredDay"`
	Deodorizer   string      `json:"deodorizer"`
	TotalPrice   interface{} `json:"totalPrice"`

	StripeToken string `json:"stripeToken"`
	IsLeadOnly  bool   `json:"isLeadOnly"`
}

// FunctionsHandler serves the stateless endpoints the site's forms post
// to directly.
type FunctionsHandler struct {
	CRM    crm.Client
	Logger *zap.Logger
}

func NewFunctionsHandler(crmClient crm.Client, logger *zap.Logger) *FunctionsHandler {
	return &FunctionsHandler{CRM: crmClient, Logger: logger}
}

// CreateSweepClient creates either a lead or a full registration in the
// CRM, depending on whether the form carried a payment token.
func (h *FunctionsHandler) CreateSweepClient(c *gin.Context) {
	var data SweepClientRequest
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	required := []struct {
		value string
		label string
	}{
		{data.Name, "name"},
		{data.Email, "email"},
		{data.Phone, "phone"},
		{data.Address, "address"},
		{data.City, "city"},
		{data.State, "state"},
		{data.Zip, "ZIP code"},
	}
	var missing []string
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.label)
		}
	}
	if len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing required fields: " + strings.Join(missing, ", "),
		})
		return
	}

	address := models.Address{
		Street: data.Address,
		City:   data.City,
		State:  data.State,
		Zip:    data.Zip,
	}

	if data.IsLeadOnly {
		err := h.CRM.CreateLead(c.Request.Context(), crm.Lead{
			Name:    data.Name,
			Email:   data.Email,
			Phone:   data.Phone,
			Address: address,
			Notes:   leadNotes(data),
		})
		if err != nil {
			h.Logger.Error("lead creation failed", zap.String("email", data.Email), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "mode": "lead"})
		return
	}

	if strings.TrimSpace(data.StripeToken) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Stripe token is required for client registration"})
		return
	}

	planName := data.PlanName
	if planName == "" {
		planName = "Standard Plan"
	}

	clientID, err := h.CRM.CreateClientWithPlan(c.Request.Context(), crm.Registration{
		FirstName:   firstNameOf(data.Name),
		LastName:    lastNameOf(data.Name),
		Email:       data.Email,
		Phone:       data.Phone,
		Address:     address,
		PlanID:      data.PlanID,
		PlanName:    planName,
		FrequencyID: data.FrequencyID,
		CardToken:   data.StripeToken,
		Notes:       registrationComment(data),
	})
	if err != nil {
		h.Logger.Error("registration failed", zap.String("email", data.Email), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"mode":     "registration",
		"clientId": clientID,
	})
}

// SubmitBooking is the legacy lead path kept for the original booking
// form. It creates a CRM lead and nothing else.
func (h *FunctionsHandler) SubmitBooking(c *gin.Context) {
	var data struct {
		Name       string `json:"name"`
		Email      string `json:"email"`
		Address    string `json:"address"`
		Zip        string `json:"zip"`
		PlanID     string `json:"planId"`
		Dogs       int    `json:"dogs"`
		Deodorizer string `json:"deodorizer"`
	}
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if data.Name == "" || data.Email == "" || data.Address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	deodorizer := "No"
	if data.Deodorizer != "" {
		deodorizer = "Yes"
	}
	err := h.CRM.CreateLead(c.Request.Context(), crm.Lead{
		Name:    data.Name,
		Email:   data.Email,
		Address: models.Address{Street: data.Address, Zip: data.Zip},
		Notes:   fmt.Sprintf("Plan: %s | Dogs: %d | Deodorizer: %s", data.PlanID, data.Dogs, deodorizer),
	})
	if err != nil {
		h.Logger.Error("booking lead submission failed", zap.String("email", data.Email), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "CRM ERROR: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Booking submitted successfully!"})
}

func leadNotes(data SweepClientRequest) string {
	plan := data.PlanName
	if plan == "" {
		plan = "Not specified"
	}
	dogs := data.Dogs
	if dogs < 1 {
		dogs = 1
	}
	total := "N/A"
	if data.TotalPrice != nil {
		total = fmt.Sprintf("%v", data.TotalPrice)
	}
	day := data.PreferredDay
	if day == "" {
		day = "Not specified"
	}
	return fmt.Sprintf("QUESTION FROM RECRUIT:\nPlan: %s\nDogs: %d\nTotal: $%s\nPreferred Day: %s",
		plan, dogs, total, day)
}

func registrationComment(data SweepClientRequest) string {
	day := data.PreferredDay
	if day == "" {
		day = "Monday"
	}
	dogs := data.Dogs
	if dogs < 1 {
		dogs = 1
	}
	deodorizer := "NONE"
	if data.Deodorizer != "" {
		deodorizer = strings.ToUpper(strings.TrimPrefix(data.Deodorizer, "deodorizer-"))
	}
	return fmt.Sprintf("PROMO: FREE FIRST CLEANING\nPreferred Service Day: %s\nDogs: %d\nDeodorizer Mission: %s",
		day, dogs, deodorizer)
}

func firstNameOf(name string) string {
	first, _ := splitFullName(name)
	return first
}

func lastNameOf(name string) string {
	_, last := splitFullName(name)
	return last
}

func splitFullName(name string) (string, string) {
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
