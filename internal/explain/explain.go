// Package explain renders calculation results into display text. It is
// pure formatting: no I/O, no state, and no locale handling beyond English
// number separators.
package explain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/awaistahir/wattwise/internal/engine"
)

// ErrFormat means a template placeholder could not be bound. With a
// well-formed Result this never happens; treat it as a defect, not a
// user-facing condition.
var ErrFormat = errors.New("cannot bind explanation template")

// placeholder marks where the scaled magnitude goes in an analogy template.
const placeholder = "{n}"

// Compose renders res into a single explanatory sentence, e.g.
//
//	Using Microwave for 10 minutes consumes 0.1833 kWh, costing $0.0275,
//	equivalent to toasting 5.5 slices of bread.
func Compose(res engine.Result) (string, error) {
	tmpl := res.Analogy.Template.DescriptionTemplate
	if !strings.Contains(tmpl, placeholder) {
		return "", fmt.Errorf("%w: analogy template %q has no %s placeholder", ErrFormat, tmpl, placeholder)
	}
	analogy := strings.ReplaceAll(tmpl, placeholder, Magnitude(res.Analogy.Magnitude))

	subject := res.Appliance
	if subject == "" {
		subject = "this appliance"
	}

	return fmt.Sprintf("Using %s for %s minutes consumes %s kWh, costing $%s, equivalent to %s.",
		subject,
		Decimal(res.DurationMinutes, 2),
		Decimal(res.EnergyKWh, 4),
		Decimal(res.Cost, 4),
		analogy,
	), nil
}
