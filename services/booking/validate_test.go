package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"superscooops/models"
)

func TestValidateContactCollectsEveryProblem(t *testing.T) {
	err := ValidateContact(ContactInput{}, 1)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ElementsMatch(t, []string{
		"name", "email", "phone",
		"street address", "city", "state", "ZIP code",
		"1 preferred service day(s)",
	}, verr.Fields)
	assert.Contains(t, verr.Error(), "Missing or invalid fields")
}

func TestValidateContactAcceptsCompleteInput(t *testing.T) {
	err := ValidateContact(validContact(), 1)
	assert.NoError(t, err)
}

func TestValidateContactIgnoresWhitespaceDays(t *testing.T) {
	in := validContact()
	in.ServiceDays = []string{"  ", "Tuesday", ""}
	assert.NoError(t, ValidateContact(in, 1))
}

func TestValidatePayment(t *testing.T) {
	tests := []struct {
		name   string
		in     PaymentInput
		fields []string
	}{
		{
			name:   "missing token",
			in:     PaymentInput{BillingSameAsService: true},
			fields: []string{"payment token"},
		},
		{
			name: "distinct billing without address",
			in:   PaymentInput{StripeToken: "tok_visa"},
			// BillingSameAsService is false and no address was given.
			fields: []string{"billing address"},
		},
		{
			name: "incomplete billing address",
			in: PaymentInput{
				StripeToken:    "tok_visa",
				BillingAddress: &models.Address{Street: "12 Oak Lane", City: "Springfield"},
			},
			fields: []string{"billing state", "billing ZIP code"},
		},
		{
			name: "complete distinct billing",
			in: PaymentInput{
				StripeToken: "tok_visa",
				BillingAddress: &models.Address{
					Street: "99 Elm St", City: "Chatham", State: "IL", Zip: "62629",
				},
			},
		},
		{
			name: "same as service",
			in:   PaymentInput{BillingSameAsService: true, StripeToken: "tok_visa"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePayment(tc.in)
			if len(tc.fields) == 0 {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.ElementsMatch(t, tc.fields, verr.Fields)
		})
	}
}
