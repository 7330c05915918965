// Package rates supplies the USD -> KHR exchange rate used for new
// pricing calculations.
//
// The provider holds the live rate, seeded from server settings at startup
// and on demand. Historical invoices carry their own pinned rate and never
// read this provider when rendered.
package rates

import "github.com/paintbistro/posterm/internal/poserr"

// DefaultRate is the fallback used when settings cannot be fetched.
const DefaultRate = 4000

// Provider holds the current exchange rate and, when the shop has
// scheduled a change, the pending rate that takes effect at midnight.
//
// Pending rates are display-only: they never feed pricing until the
// backend promotes them to the live rate.
type Provider struct {
	rate    float64
	pending float64
}

// NewProvider creates a provider seeded with DefaultRate.
func NewProvider() *Provider {
	return &Provider{rate: DefaultRate}
}

// Current returns the live rate.
func (p *Provider) Current() float64 {
	return p.rate
}

// Set replaces the live rate. The rate must be positive.
func (p *Provider) Set(rate float64) error {
	if rate <= 0 {
		return poserr.Validation("exchange rate must be positive, got %v", rate)
	}
	p.rate = rate
	return nil
}

// SetPending records a scheduled rate change for display. Zero clears it.
func (p *Provider) SetPending(rate float64) {
	p.pending = rate
}

// Pending returns the scheduled rate, if any.
func (p *Provider) Pending() (float64, bool) {
	return p.pending, p.pending > 0
}
