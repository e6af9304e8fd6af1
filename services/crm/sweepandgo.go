package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	leadPath         = "/api/v2/client_on_boarding/out_of_service_form"
	registrationPath = "/api/v2/client_on_boarding/create_client_with_package"
)

// frequencyVocabulary maps internal frequency ids to the CRM's
// clean_up_frequency enum.
var frequencyVocabulary = map[string]string{
	"3x-weekly": "three_times_a_week",
	"2x-weekly": "two_times_a_week",
	"weekly":    "once_a_week",
	"bi-weekly": "bi_weekly",
	"one-time":  "one_time",
}

// MapFrequency translates an internal frequency id into the CRM
// vocabulary, defaulting to weekly service.
func MapFrequency(frequencyID string) string {
	if v, ok := frequencyVocabulary[frequencyID]; ok {
		return v
	}
	return "once_a_week"
}

// SweepAndGo is the HTTP client for the Sweep&Go open API.
type SweepAndGo struct {
	BaseURL    string
	APIKey     string
	OrgSlug    string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewSweepAndGo builds the CRM client. The API key is required for
// every call; its absence is reported per request so a misconfigured
// deploy still serves the rest of the site.
func NewSweepAndGo(baseURL, apiKey, orgSlug string, logger *zap.Logger) *SweepAndGo {
	return &SweepAndGo{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		OrgSlug:    orgSlug,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		Logger:     logger,
	}
}

func (s *SweepAndGo) CreateLead(ctx context.Context, lead Lead) error {
	if s.APIKey == "" {
		return errors.New("sweep&go api key is not configured")
	}

	payload := map[string]interface{}{
		"organization":             s.OrgSlug,
		"name":                     lead.Name,
		"address":                  lead.Address.Street,
		"city":                     lead.Address.City,
		"state":                    lead.Address.State,
		"email_address":            lead.Email,
		"phone":                    lead.Phone,
		"zip_code":                 lead.Address.Zip,
		"comment":                  lead.Notes,
		"marketing_allowed":        1,
		"marketing_allowed_source": "open_api",
	}

	_, err := s.post(ctx, leadPath, payload)
	if err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}
	return nil
}

func (s *SweepAndGo) CreateClientWithPlan(ctx context.Context, reg Registration) (string, error) {
	if s.APIKey == "" {
		return "", errors.New("sweep&go api key is not configured")
	}
	if reg.CardToken == "" {
		return "", errors.New("payment token is required for client registration")
	}

	payload := map[string]interface{}{
		"first_name":               reg.FirstName,
		"last_name":                reg.LastName,
		"email":                    reg.Email,
		"cell_phone_number":        reg.Phone,
		"home_address":             reg.Address.Street,
		"city":                     reg.Address.City,
		"state":                    reg.Address.State,
		"zip_code":                 reg.Address.Zip,
		"cross_sell_id":            "pkg_" + reg.PlanID,
		"cross_sell_name":          reg.PlanName,
		"clean_up_frequency":       MapFrequency(reg.FrequencyID),
		"category":                 "cleanup",
		"billing_interval":         "monthly",
		"credit_card_token":        reg.CardToken,
		"marketing_allowed":        1,
		"terms_open_api":           true,
		"organization":             s.OrgSlug,
		"marketing_allowed_source": "open_api",
		"comment":                  reg.Notes,
	}

	body, err := s.post(ctx, registrationPath, payload)
	if err != nil {
		return "", fmt.Errorf("failed to create client: %w", err)
	}

	var result struct {
		ClientID string `json:"client_id"`
		ID       string `json:"id"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse registration response: %w", err)
	}
	if result.ClientID != "" {
		return result.ClientID, nil
	}
	return result.ID, nil
}

// post sends a JSON payload and returns the response body, converting
// non-2xx responses into errors carrying the CRM's message text.
func (s *SweepAndGo) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.APIKey)

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		s.Logger.Error("sweep&go request failed", zap.String("path", path), zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.Logger.Error("sweep&go api error",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return nil, errors.New(errorMessage(body, resp.StatusCode))
	}
	return body, nil
}

// errorMessage extracts a human-readable message from an error body,
// falling back to the raw text or the status code.
func errorMessage(body []byte, status int) string {
	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			return parsed.Message
		}
		if parsed.Error != "" {
			return parsed.Error
		}
	}
	if len(body) > 0 {
		return string(body)
	}
	return fmt.Sprintf("crm api responded with status %d", status)
}
