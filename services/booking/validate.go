package booking

import (
	"fmt"
	"strings"

	"superscooops/models"
)

// ContactInput carries the contact-step fields before validation.
type ContactInput struct {
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	Phone       string         `json:"phone"`
	Address     models.Address `json:"address"`
	ServiceDays []string       `json:"serviceDays"`
}

// PaymentInput carries the payment-step fields before validation.
type PaymentInput struct {
	BillingSameAsService bool            `json:"billingSameAsService"`
	BillingAddress       *models.Address `json:"billingAddress,omitempty"`
	StripeToken          string          `json:"stripeToken"`
}

// ValidateContact checks the contact step, collecting every problem
// instead of stopping at the first. requiredDays is the number of
// preferred service days the selected frequency needs.
func ValidateContact(in ContactInput, requiredDays int) error {
	var fields []string

	required := []struct {
		value string
		label string
	}{
		{in.Name, "name"},
		{in.Email, "email"},
		{in.Phone, "phone"},
		{in.Address.Street, "street address"},
		{in.Address.City, "city"},
		{in.Address.State, "state"},
		{in.Address.Zip, "ZIP code"},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			fields = append(fields, f.label)
		}
	}

	days := trimmedDays(in.ServiceDays)
	if len(days) != requiredDays {
		fields = append(fields, fmt.Sprintf("%d preferred service day(s)", requiredDays))
	} else if hasDuplicateDays(days) {
		fields = append(fields, "distinct preferred service days")
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// ValidatePayment checks the payment step. A distinct billing address,
// when requested, must be complete; the card token must be present.
func ValidatePayment(in PaymentInput) error {
	var fields []string

	if strings.TrimSpace(in.StripeToken) == "" {
		fields = append(fields, "payment token")
	}
	if !in.BillingSameAsService {
		if in.BillingAddress == nil {
			fields = append(fields, "billing address")
		} else {
			billing := []struct {
				value string
				label string
			}{
				{in.BillingAddress.Street, "billing street address"},
				{in.BillingAddress.City, "billing city"},
				{in.BillingAddress.State, "billing state"},
				{in.BillingAddress.Zip, "billing ZIP code"},
			}
			for _, f := range billing {
				if strings.TrimSpace(f.value) == "" {
					fields = append(fields, f.label)
				}
			}
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func trimmedDays(days []string) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		if trimmed := strings.TrimSpace(d); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func hasDuplicateDays(days []string) bool {
	seen := make(map[string]bool, len(days))
	for _, d := range days {
		key := strings.ToLower(d)
		if seen[key] {
			return true
		}
		seen[key] = true
	}
	return false
}
