package crm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"superscooops/models"
)

func TestMapFrequency(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"3x-weekly", "three_times_a_week"},
		{"2x-weekly", "two_times_a_week"},
		{"weekly", "once_a_week"},
		{"bi-weekly", "bi_weekly"},
		{"one-time", "one_time"},
		{"something-else", "once_a_week"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, MapFrequency(tc.in), tc.in)
	}
}

func newTestCRM(t *testing.T, handler http.HandlerFunc) *SweepAndGo {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewSweepAndGo(srv.URL, "test-key", "super-scooops-qhnjn", zap.NewNop())
	return client
}

func TestCreateLeadPostsOnboardingForm(t *testing.T) {
	var got map[string]interface{}
	var auth, path string
	client := newTestCRM(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	err := client.CreateLead(context.Background(), Lead{
		Name:  "Jordan Barker",
		Email: "jordan@example.com",
		Phone: "555-0100",
		Address: models.Address{
			Street: "12 Oak Lane", City: "Springfield", State: "IL", Zip: "62704",
		},
		Notes: "outside current coverage",
	})
	require.NoError(t, err)

	assert.Equal(t, "/api/v2/client_on_boarding/out_of_service_form", path)
	assert.Equal(t, "Bearer test-key", auth)
	assert.Equal(t, "super-scooops-qhnjn", got["organization"])
	assert.Equal(t, "jordan@example.com", got["email_address"])
	assert.Equal(t, "62704", got["zip_code"])
	assert.Equal(t, float64(1), got["marketing_allowed"])
	assert.Equal(t, "open_api", got["marketing_allowed_source"])
}

func TestCreateClientWithPlanPostsRegistration(t *testing.T) {
	var got map[string]interface{}
	client := newTestCRM(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/client_on_boarding/create_client_with_package", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"client_id":"client_123"}`))
	})

	clientID, err := client.CreateClientWithPlan(context.Background(), Registration{
		FirstName:   "Jordan",
		LastName:    "Barker",
		Email:       "jordan@example.com",
		Phone:       "555-0100",
		Address:     models.Address{Street: "12 Oak Lane", City: "Springfield", State: "IL", Zip: "62704"},
		PlanID:      "hero",
		PlanName:    "The Hero Plan",
		FrequencyID: "2x-weekly",
		CardToken:   "tok_visa",
	})
	require.NoError(t, err)
	assert.Equal(t, "client_123", clientID)

	assert.Equal(t, "pkg_hero", got["cross_sell_id"])
	assert.Equal(t, "two_times_a_week", got["clean_up_frequency"])
	assert.Equal(t, "cleanup", got["category"])
	assert.Equal(t, "monthly", got["billing_interval"])
	assert.Equal(t, "tok_visa", got["credit_card_token"])
	assert.Equal(t, true, got["terms_open_api"])
}

func TestCreateClientWithPlanFallsBackToIDField(t *testing.T) {
	client := newTestCRM(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"id":"client_456"}`))
	})

	clientID, err := client.CreateClientWithPlan(context.Background(), Registration{
		CardToken: "tok_visa",
	})
	require.NoError(t, err)
	assert.Equal(t, "client_456", clientID)
}

func TestCreateClientWithPlanRequiresToken(t *testing.T) {
	client := newTestCRM(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := client.CreateClientWithPlan(context.Background(), Registration{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "payment token is required")
}

func TestErrorMessageExtraction(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"message field", `{"message":"zip code not serviceable"}`, "zip code not serviceable"},
		{"error field", `{"error":"invalid token"}`, "invalid token"},
		{"raw text", `upstream exploded`, "upstream exploded"},
		{"empty body", ``, "crm api responded with status 422"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestCRM(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusUnprocessableEntity)
				w.Write([]byte(tc.body))
			})
			err := client.CreateLead(context.Background(), Lead{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestMissingAPIKeyFailsFast(t *testing.T) {
	client := NewSweepAndGo("http://localhost:0", "", "org", zap.NewNop())

	err := client.CreateLead(context.Background(), Lead{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key is not configured")

	_, err = client.CreateClientWithPlan(context.Background(), Registration{CardToken: "tok"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key is not configured")
}
