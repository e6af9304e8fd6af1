package quote

import "superscooops/models"

// Catalog is the immutable rate table the engine prices against. It is
// built once at startup and injected, so tests can swap in alternate
// rates.
type Catalog struct {
	Plans       []models.ServicePlan
	Frequencies []models.Frequency
	Deodorizers []models.DeodorizerOption
	// ExtraDogRate is charged per extra dog per cleanup.
	ExtraDogRate float64
}

// DefaultCatalog returns the production rate table.
func DefaultCatalog() Catalog {
	return Catalog{
		Plans: []models.ServicePlan{
			{
				ID:          "sidekick",
				Name:        "The Sidekick Plan",
				Price:       20,
				FrequencyID: "weekly",
				Description: "Perfect for the Lone Wolf",
				Features: []string{
					"1x weekly mission",
					"Perfect for the Lone Wolf",
					"Text alert when secured",
					"Free First Cleanup!",
				},
				Color: "#28A745",
			},
			{
				ID:          "hero",
				Name:        "The Hero Plan",
				Price:       40,
				FrequencyID: "2x-weekly",
				Description: "Our Most Popular Defense",
				Features: []string{
					"2x weekly mission",
					"Our Most Popular Defense",
					"Priority mission status",
					"Gate-lock photo confirmation",
				},
				Color: "#0056B3",
				Badge: "MOST POPULAR",
			},
			{
				ID:          "super-scooper",
				Name:        "The Super Scooops Plan",
				Price:       56,
				FrequencyID: "3x-weekly",
				Description: "For the Full Pack",
				Features: []string{
					"3x weekly mission",
					"For the Full Pack (3+ dogs)",
					"Ultra-sanitized equipment",
					"Elite odor neutralize included",
				},
				Color: "#E60000",
			},
		},
		Frequencies: []models.Frequency{
			{ID: "3x-weekly", Label: "3x Weekly", BasePerCleanup: 20, CleanupsPerPeriod: 3, Recurring: true, Factor: 0.9, PromoEligible: true},
			{ID: "2x-weekly", Label: "2x Weekly", BasePerCleanup: 20, CleanupsPerPeriod: 2, Recurring: true, Factor: 1.0, PromoEligible: true},
			{ID: "weekly", Label: "Weekly", BasePerCleanup: 20, CleanupsPerPeriod: 1, Recurring: true, Factor: 1.0, PromoEligible: true},
			{ID: "bi-weekly", Label: "Bi-Weekly", BasePerCleanup: 25, CleanupsPerPeriod: 1, Recurring: false, Factor: 1.0},
			{ID: "one-time", Label: "One-Time", BasePerCleanup: 80, CleanupsPerPeriod: 1, Recurring: false, Factor: 1.0},
		},
		Deodorizers: []models.DeodorizerOption{
			{ID: "deodorizer-1x", Label: "Yard Deodorizing (1x)", PricePerVisit: 6.25, ValidFrequency: []string{"weekly", "2x-weekly", "3x-weekly", "bi-weekly", "one-time"}},
			{ID: "deodorizer-2x", Label: "Yard Deodorizing (2x)", PricePerVisit: 6.25, ValidFrequency: []string{"2x-weekly", "3x-weekly"}},
			{ID: "deodorizer-3x", Label: "Yard Deodorizing (3x)", PricePerVisit: 6.25, ValidFrequency: []string{"3x-weekly"}},
		},
		ExtraDogRate: 2.50,
	}
}

// FrequencyByID looks up a frequency in the catalog.
func (c Catalog) FrequencyByID(id string) (models.Frequency, bool) {
	for _, f := range c.Frequencies {
		if f.ID == id {
			return f, true
		}
	}
	return models.Frequency{}, false
}

// DeodorizerByID looks up a deodorizer option in the catalog.
func (c Catalog) DeodorizerByID(id string) (models.DeodorizerOption, bool) {
	for _, d := range c.Deodorizers {
		if d.ID == id {
			return d, true
		}
	}
	return models.DeodorizerOption{}, false
}

// PlanByID looks up a service plan in the catalog.
func (c Catalog) PlanByID(id string) (models.ServicePlan, bool) {
	for _, p := range c.Plans {
		if p.ID == id {
			return p, true
		}
	}
	return models.ServicePlan{}, false
}

// PlanForFrequency returns the plan sold at the given cadence, falling
// back to the weekly plan.
func (c Catalog) PlanForFrequency(frequencyID string) models.ServicePlan {
	for _, p := range c.Plans {
		if p.FrequencyID == frequencyID {
			return p
		}
	}
	if p, ok := c.PlanByID("sidekick"); ok {
		return p
	}
	return models.ServicePlan{}
}
