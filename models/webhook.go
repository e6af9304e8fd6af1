package models

// SweepWebhookEvent is the inbound payload from the Sweep&Go CRM.
// Data is left loosely typed; event types carry different shapes and
// unknown fields must survive dispatch.
type SweepWebhookEvent struct {
	EventType    string                 `json:"event_type"`
	Organization string                 `json:"organization,omitempty"`
	Timestamp    string                 `json:"timestamp,omitempty"`
	Data         map[string]interface{} `json:"data,omitempty"`
}

// ClientID extracts the CRM client id from the payload, when present.
func (e SweepWebhookEvent) ClientID() string {
	if id, ok := e.Data["client_id"].(string); ok {
		return id
	}
	return ""
}
