package models

// ServicePlan is a named offering shown on the pricing page. Plans are
// static configuration; a session selects one but never mutates it.
type ServicePlan struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	FrequencyID string   `json:"frequencyId"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	Color       string   `json:"color"`
	Badge       string   `json:"badge,omitempty"`
}

// Frequency describes one visit cadence and its pricing parameters.
type Frequency struct {
	ID                string  `json:"id"`
	Label             string  `json:"label"`
	BasePerCleanup    float64 `json:"basePerCleanup"`
	CleanupsPerPeriod int     `json:"cleanupsPerPeriod"`
	// Recurring frequencies are billed weekly through a subscription;
	// the rest are flat-rate and billed post-service.
	Recurring bool `json:"recurring"`
	// Factor reflects route density economics (discount or premium).
	Factor float64 `json:"factor"`
	// PromoEligible marks frequencies that get the first cleanup free.
	PromoEligible bool `json:"promoEligible"`
}

// DeodorizerOption is an optional per-cleanup add-on. It is offered only
// for frequencies whose visit count covers its own cadence.
type DeodorizerOption struct {
	ID             string   `json:"id"`
	Label          string   `json:"label"`
	PricePerVisit  float64  `json:"pricePerVisit"`
	ValidFrequency []string `json:"validFrequencies"`
}

// ValidFor reports whether the option may be combined with the frequency.
func (d DeodorizerOption) ValidFor(frequencyID string) bool {
	for _, id := range d.ValidFrequency {
		if id == frequencyID {
			return true
		}
	}
	return false
}
