// Package engine turns a usage description into energy consumed, monetary
// cost, and a scaled physical analogy. Calculations are pure: the same
// input against the same knowledge base always yields the same Result.
package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/awaistahir/wattwise/internal/knowledge"
)

// ErrInvalidInput is the sentinel all input validation failures wrap.
var ErrInvalidInput = errors.New("invalid input parameters")

// InvalidInputError names the first offending field so the caller can
// re-prompt for it. Fields are checked in a fixed order: power, duration,
// rate.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

func invalidInput(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}

// Calculator computes results against an injected knowledge base.
type Calculator struct {
	kb *knowledge.Base
}

// New creates a Calculator bound to kb.
func New(kb *knowledge.Base) *Calculator {
	return &Calculator{kb: kb}
}

// Calculate resolves the effective power, validates the input, and derives
// energy, cost, and a scaled analogy. It performs no I/O and mutates
// nothing; duration 0 is a valid degenerate case with all-zero magnitudes.
func (c *Calculator) Calculate(in UsageInput) (Result, error) {
	name := strings.TrimSpace(in.Appliance)

	var (
		power     float64
		havePower bool
		category  knowledge.Category
	)

	if in.PowerWatts != nil {
		power = *in.PowerWatts
		havePower = true
	}

	// A lookup miss is recoverable when an override is present: the name
	// then just labels a custom device.
	if name != "" {
		app, err := c.kb.LookupAppliance(name)
		if err == nil {
			name = app.Name
			category = app.Category
			if !havePower {
				power = app.PowerWatts
				havePower = true
			}
		} else if !errors.Is(err, knowledge.ErrNotFound) {
			return Result{}, err
		}
	}

	if !havePower {
		return Result{}, invalidInput("power", "missing power source")
	}
	if power <= 0 {
		return Result{}, invalidInput("power", "must be positive")
	}
	if in.DurationMinutes < 0 {
		return Result{}, invalidInput("duration", "must not be negative")
	}
	if in.RatePerKWh <= 0 {
		return Result{}, invalidInput("rate", "must be positive")
	}

	energy := power * in.DurationMinutes / 60000
	cost := energy * in.RatePerKWh

	tmpl := selectAnalogy(c.analogiesFor(category), energy)

	return Result{
		Appliance:       name,
		Category:        category,
		PowerWatts:      power,
		DurationMinutes: in.DurationMinutes,
		RatePerKWh:      in.RatePerKWh,
		EnergyKWh:       energy,
		Cost:            cost,
		Analogy: ScaledAnalogy{
			Template:  tmpl,
			Magnitude: energy * tmpl.PerKWh,
		},
	}, nil
}

// analogiesFor returns the candidate templates for a category, falling back
// to the full catalog when the category is unknown or has no templates.
func (c *Calculator) analogiesFor(category knowledge.Category) []knowledge.AnalogyTemplate {
	if category != "" {
		if list := c.kb.Analogies(category); len(list) > 0 {
			return list
		}
	}
	return c.kb.Analogies("")
}
