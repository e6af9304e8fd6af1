package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"superscooops/config"
	"superscooops/services/payment"
)

// CheckoutHandler serves the redirect-based Stripe flows: hosted
// checkout for the embedded signup variant and the billing portal for
// existing subscribers.
type CheckoutHandler struct {
	Payments payment.Provider
	Logger   *zap.Logger
}

func NewCheckoutHandler(payments payment.Provider, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{Payments: payments, Logger: logger}
}

// CreateCheckout builds a hosted checkout session and returns its URL.
func (h *CheckoutHandler) CreateCheckout(c *gin.Context) {
	var data struct {
		Email      string `json:"email"`
		Name       string `json:"name"`
		PlanID     string `json:"planId"`
		Dogs       int64  `json:"dogs"`
		Deodorizer string `json:"deodorizer"`
		Address    string `json:"address"`
	}
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	url, err := h.Payments.CreateCheckoutSession(c.Request.Context(), payment.CheckoutInput{
		Email:        data.Email,
		Name:         data.Name,
		PlanID:       data.PlanID,
		Dogs:         data.Dogs,
		DeodorizerID: data.Deodorizer,
		Address:      data.Address,
	})
	if err != nil {
		h.Logger.Error("checkout session creation failed",
			zap.String("plan", data.PlanID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// CreateBillingPortalSession resolves the caller's billing account by
// email and returns a portal URL for self-service subscription changes.
func (h *CheckoutHandler) CreateBillingPortalSession(c *gin.Context) {
	var data struct {
		Email     string `json:"email"`
		ReturnURL string `json:"return_url"`
	}
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	email := strings.TrimSpace(data.Email)
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}

	returnURL := data.ReturnURL
	if returnURL == "" {
		returnURL = config.AppConfig.SiteBaseURL + "/manage-billing.html"
	}

	url, err := h.Payments.CreatePortalSession(c.Request.Context(), email, returnURL)
	if err != nil {
		if errors.Is(err, payment.ErrNoCustomer) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "No billing account found for this email. Sign up first or use the email you used when subscribing.",
			})
			return
		}
		h.Logger.Error("billing portal session failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
