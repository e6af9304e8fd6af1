package handlers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"superscooops/services/webhook"
)

func newWebhookRouter(t *testing.T, secret string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	handler := NewWebhookHandler(
		webhook.NewProcessor(client, secret, zap.NewNop()),
		zap.NewNop(),
	)
	r := gin.New()
	r.POST("/functions/sweep-webhook", handler.SweepWebhook)
	return r
}

func postWebhook(r *gin.Engine, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/functions/sweep-webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSweepWebhookProcessesKnownEvent(t *testing.T) {
	r := newWebhookRouter(t, "")
	body := []byte(`{"event_type":"client.created","timestamp":"2026-08-28T12:00:00Z","data":{"client_id":"client_123"}}`)

	w := postWebhook(r, body, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "client.created", resp["event_type"])
}

func TestSweepWebhookIgnoresDuplicateDelivery(t *testing.T) {
	r := newWebhookRouter(t, "")
	body := []byte(`{"event_type":"payment.received","timestamp":"2026-08-28T12:00:00Z","data":{"client_id":"client_123"}}`)

	first := postWebhook(r, body, nil)
	require.Equal(t, http.StatusOK, first.Code)

	second := postWebhook(r, body, nil)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Contains(t, second.Body.String(), "Duplicate event ignored")
}

func TestSweepWebhookAcknowledgesUnknownType(t *testing.T) {
	r := newWebhookRouter(t, "")
	body := []byte(`{"event_type":"client.deleted"}`)

	w := postWebhook(r, body, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Event received but not processed")
}

func TestSweepWebhookRejectsMalformedPayload(t *testing.T) {
	r := newWebhookRouter(t, "")

	w := postWebhook(r, []byte(`{not json`), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postWebhook(r, []byte(`{"data":{}}`), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Missing event_type")
}

func TestSweepWebhookEnforcesSignatureWhenConfigured(t *testing.T) {
	r := newWebhookRouter(t, "shhh")
	body := []byte(`{"event_type":"client.created"}`)

	w := postWebhook(r, body, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	mac := hmac.New(sha256.New, []byte("shhh"))
	mac.Write(body)
	signature := hex.EncodeToString(mac.Sum(nil))

	w = postWebhook(r, body, map[string]string{"X-Sweep-Signature": signature})
	assert.Equal(t, http.StatusOK, w.Code)

	// The alternate header name is accepted too.
	w = postWebhook(r, []byte(`{"event_type":"client.updated"}`), map[string]string{
		"X-Webhook-Signature": func() string {
			m := hmac.New(sha256.New, []byte("shhh"))
			m.Write([]byte(`{"event_type":"client.updated"}`))
			return hex.EncodeToString(m.Sum(nil))
		}(),
	})
	assert.Equal(t, http.StatusOK, w.Code)
}
