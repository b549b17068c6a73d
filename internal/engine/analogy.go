package engine

import "github.com/awaistahir/wattwise/internal/knowledge"

// Scaled magnitudes inside this half-open range read as human-graspable
// numbers; anything outside is absurdly large or vanishingly small.
const (
	minSensibleMagnitude = 0.1
	maxSensibleMagnitude = 10000
)

// selectAnalogy picks the first template whose scaled magnitude lands in
// the sensible range, preserving catalog order on ties. When no template
// qualifies (including energy 0), the first template wins regardless.
// Callers guarantee templates is non-empty; the knowledge base refuses to
// load an empty analogy catalog.
func selectAnalogy(templates []knowledge.AnalogyTemplate, energyKWh float64) knowledge.AnalogyTemplate {
	for _, t := range templates {
		m := energyKWh * t.PerKWh
		if m >= minSensibleMagnitude && m < maxSensibleMagnitude {
			return t
		}
	}
	return templates[0]
}
