package quote

import (
	"fmt"
	"math"

	"superscooops/models"
)

// Engine computes deterministic price quotes from the current selection.
// It performs no I/O; the same request always yields the same result.
type Engine struct {
	catalog Catalog
}

// NewEngine returns an engine priced against the given catalog.
func NewEngine(catalog Catalog) *Engine {
	return &Engine{catalog: catalog}
}

// Catalog exposes the injected rate table.
func (e *Engine) Catalog() Catalog {
	return e.catalog
}

// Quote prices the request. Dog counts below one are clamped; a
// deodorizer that is unknown or incompatible with the frequency is
// treated as none.
func (e *Engine) Quote(req models.QuoteRequest) (models.QuoteResult, error) {
	freq, ok := e.catalog.FrequencyByID(req.FrequencyID)
	if !ok {
		return models.QuoteResult{}, fmt.Errorf("unknown frequency: %q", req.FrequencyID)
	}

	dogs := req.Dogs
	if dogs < 1 {
		dogs = 1
	}

	cleanups := freq.CleanupsPerPeriod
	if cleanups < 1 {
		cleanups = 1
	}

	// Recurring frequencies price per cleanup and scale to the period;
	// flat-rate frequencies charge the base once.
	periodBase := freq.BasePerCleanup
	scale := 1.0
	if freq.Recurring {
		periodBase = freq.BasePerCleanup * float64(cleanups)
		scale = float64(cleanups)
	}

	period := periodBase
	period += float64(dogs-1) * e.catalog.ExtraDogRate * scale

	if req.DeodorizerID != "" {
		if d, ok := e.catalog.DeodorizerByID(req.DeodorizerID); ok && d.ValidFor(freq.ID) {
			period += d.PricePerVisit * scale
		}
	}

	period *= freq.Factor

	perCleanup := roundCents(period / float64(cleanups))
	periodTotal := roundCents(perCleanup * float64(cleanups))

	return models.QuoteResult{
		PerCleanup:        perCleanup,
		PeriodTotal:       periodTotal,
		CleanupsPerPeriod: cleanups,
		PerCleanupLabel:   fmt.Sprintf("$%.2f", perCleanup),
		PeriodTotalLabel:  fmt.Sprintf("$%.2f", periodTotal),
	}, nil
}

// Normalize clamps the dog count and clears a deodorizer selection that
// the frequency does not support. The session layer calls this whenever
// quote inputs change, so an incompatible add-on is never silently
// priced.
func (e *Engine) Normalize(req models.QuoteRequest) models.QuoteRequest {
	if req.Dogs < 1 {
		req.Dogs = 1
	}
	if req.DeodorizerID != "" {
		d, ok := e.catalog.DeodorizerByID(req.DeodorizerID)
		if !ok || !d.ValidFor(req.FrequencyID) {
			req.DeodorizerID = ""
		}
	}
	return req
}

// RequiredServiceDays returns how many distinct preferred weekdays the
// frequency needs: one per visit for recurring multi-visit cadences,
// otherwise one.
func (e *Engine) RequiredServiceDays(frequencyID string) int {
	freq, ok := e.catalog.FrequencyByID(frequencyID)
	if !ok || !freq.Recurring || freq.CleanupsPerPeriod < 1 {
		return 1
	}
	return freq.CleanupsPerPeriod
}

// roundCents rounds half-up on the cent.
func roundCents(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
