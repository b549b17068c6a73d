package engine

import "github.com/awaistahir/wattwise/internal/knowledge"

// UsageInput describes one calculation request. Exactly one power source
// must resolve: an explicit PowerWatts override wins over the appliance's
// catalog rating.
type UsageInput struct {
	// Appliance is an optional catalog name. Unknown names are fine as
	// long as PowerWatts is set.
	Appliance string `json:"appliance,omitempty"`

	// PowerWatts overrides the catalog power rating when non-nil.
	PowerWatts *float64 `json:"power_watts,omitempty"`

	DurationMinutes float64 `json:"duration_minutes"`
	RatePerKWh      float64 `json:"rate_per_kwh"`
}

// ScaledAnalogy is an analogy template scaled to a concrete energy value.
type ScaledAnalogy struct {
	Template  knowledge.AnalogyTemplate `json:"template"`
	Magnitude float64                   `json:"magnitude"`
}

// Result is the immutable outcome of one calculation.
type Result struct {
	// Appliance is the matched catalog name, or the free-form name the
	// caller supplied for a custom device.
	Appliance string             `json:"appliance,omitempty"`
	Category  knowledge.Category `json:"category,omitempty"`

	PowerWatts      float64 `json:"power_watts"`
	DurationMinutes float64 `json:"duration_minutes"`
	RatePerKWh      float64 `json:"rate_per_kwh"`

	EnergyKWh float64       `json:"energy_kwh"`
	Cost      float64       `json:"cost"`
	Analogy   ScaledAnalogy `json:"analogy"`
}
