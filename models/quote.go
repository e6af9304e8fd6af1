package models

// QuoteRequest captures the user's current selection. Dogs below one are
// clamped by the engine; a deodorizer incompatible with the frequency is
// cleared by the session layer before pricing.
type QuoteRequest struct {
	Dogs         int    `json:"dogs"`
	FrequencyID  string `json:"frequencyId"`
	DeodorizerID string `json:"deodorizerId,omitempty"`
}

// QuoteResult is derived from a QuoteRequest and the static rate catalog.
// It is recomputed on every input change and never mutated independently.
type QuoteResult struct {
	PerCleanup        float64 `json:"perCleanup"`
	PeriodTotal       float64 `json:"periodTotal"`
	CleanupsPerPeriod int     `json:"cleanupsPerPeriod"`
	PerCleanupLabel   string  `json:"perCleanupLabel"`
	PeriodTotalLabel  string  `json:"periodTotalLabel"`
}
