package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"superscooops/services/crm"
)

type stubCRM struct {
	leadErr         error
	registrationErr error

	leads         []crm.Lead
	registrations []crm.Registration
}

func (s *stubCRM) CreateLead(_ context.Context, lead crm.Lead) error {
	s.leads = append(s.leads, lead)
	return s.leadErr
}

func (s *stubCRM) CreateClientWithPlan(_ context.Context, reg crm.Registration) (string, error) {
	s.registrations = append(s.registrations, reg)
	if s.registrationErr != nil {
		return "", s.registrationErr
	}
	return "client_789", nil
}

func newFunctionsRouter(t *testing.T, crmClient crm.Client) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	handler := NewFunctionsHandler(crmClient, zap.NewNop())
	r := gin.New()
	r.POST("/functions/create-sweep-client", handler.CreateSweepClient)
	r.POST("/functions/submit-booking", handler.SubmitBooking)
	return r
}

func postJSON(r *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func completeSweepClientPayload() map[string]interface{} {
	return map[string]interface{}{
		"name":        "Jordan Barker",
		"email":       "jordan@example.com",
		"phone":       "555-0100",
		"address":     "12 Oak Lane",
		"city":        "Springfield",
		"state":       "IL",
		"zip":         "62704",
		"planId":      "hero",
		"planName":    "The Hero Plan",
		"dogs":        2,
		"frequencyId": "2x-weekly",
		"deodorizer":  "deodorizer-2x",
	}
}

func TestCreateSweepClientRegistersWithToken(t *testing.T) {
	stub := &stubCRM{}
	r := newFunctionsRouter(t, stub)

	payload := completeSweepClientPayload()
	payload["stripeToken"] = "tok_visa"

	w := postJSON(r, "/functions/create-sweep-client", payload)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "registration", resp["mode"])
	assert.Equal(t, "client_789", resp["clientId"])

	require.Len(t, stub.registrations, 1)
	reg := stub.registrations[0]
	assert.Equal(t, "Jordan", reg.FirstName)
	assert.Equal(t, "Barker", reg.LastName)
	assert.Equal(t, "hero", reg.PlanID)
	assert.Contains(t, reg.Notes, "Deodorizer Mission: 2X")
	assert.Empty(t, stub.leads)
}

func TestCreateSweepClientLeadOnlySkipsRegistration(t *testing.T) {
	stub := &stubCRM{}
	r := newFunctionsRouter(t, stub)

	payload := completeSweepClientPayload()
	payload["isLeadOnly"] = true

	w := postJSON(r, "/functions/create-sweep-client", payload)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"mode":"lead"`)

	require.Len(t, stub.leads, 1)
	assert.Contains(t, stub.leads[0].Notes, "QUESTION FROM RECRUIT")
	assert.Empty(t, stub.registrations)
}

func TestCreateSweepClientAggregatesMissingFields(t *testing.T) {
	stub := &stubCRM{}
	r := newFunctionsRouter(t, stub)

	w := postJSON(r, "/functions/create-sweep-client", map[string]interface{}{
		"name": "Jordan Barker",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Missing required fields")
	assert.Contains(t, w.Body.String(), "email")
	assert.Contains(t, w.Body.String(), "ZIP code")
	assert.Empty(t, stub.leads)
	assert.Empty(t, stub.registrations)
}

func TestCreateSweepClientRequiresTokenForRegistration(t *testing.T) {
	stub := &stubCRM{}
	r := newFunctionsRouter(t, stub)

	w := postJSON(r, "/functions/create-sweep-client", completeSweepClientPayload())
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Stripe token is required")
	assert.Empty(t, stub.registrations)
}

func TestCreateSweepClientSurfacesCRMError(t *testing.T) {
	stub := &stubCRM{registrationErr: errors.New("zip code not serviceable")}
	r := newFunctionsRouter(t, stub)

	payload := completeSweepClientPayload()
	payload["stripeToken"] = "tok_visa"

	w := postJSON(r, "/functions/create-sweep-client", payload)
	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "zip code not serviceable")
}

func TestSubmitBookingCreatesLead(t *testing.T) {
	stub := &stubCRM{}
	r := newFunctionsRouter(t, stub)

	w := postJSON(r, "/functions/submit-booking", map[string]interface{}{
		"name":       "Jordan Barker",
		"email":      "jordan@example.com",
		"address":    "12 Oak Lane",
		"zip":        "62704",
		"planId":     "sidekick",
		"dogs":       2,
		"deodorizer": "deodorizer-1x",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Booking submitted successfully!")

	require.Len(t, stub.leads, 1)
	assert.Equal(t, "Plan: sidekick | Dogs: 2 | Deodorizer: Yes", stub.leads[0].Notes)
}

func TestSubmitBookingRequiresCoreFields(t *testing.T) {
	stub := &stubCRM{}
	r := newFunctionsRouter(t, stub)

	w := postJSON(r, "/functions/submit-booking", map[string]interface{}{"email": "jordan@example.com"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Missing required fields")
	assert.Empty(t, stub.leads)
}
