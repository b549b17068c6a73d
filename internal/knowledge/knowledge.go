// Package knowledge holds the static reference data the calculator works
// from: appliance power ratings, physical analogy templates, and city rate
// presets. The data is loaded once at startup and never mutated afterwards,
// so a Base can be shared freely across goroutines.
package knowledge

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrNotFound      = errors.New("not found in knowledge base")
	ErrMalformedData = errors.New("malformed knowledge data")
)

// Category classifies appliances and analogy templates.
type Category string

const (
	CategoryKitchen       Category = "kitchen"
	CategoryEntertainment Category = "entertainment"
	CategoryClimate       Category = "climate"
	CategoryLighting      Category = "lighting"
	CategoryOther         Category = "other"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryKitchen, CategoryEntertainment, CategoryClimate, CategoryLighting, CategoryOther:
		return true
	}
	return false
}

// Appliance is a reference entry with a typical power rating.
type Appliance struct {
	Name       string   `yaml:"name" json:"name"`
	PowerWatts float64  `yaml:"power_watts" json:"power_watts"`
	Category   Category `yaml:"category" json:"category"`
}

// AnalogyTemplate maps one kilowatt-hour to an intuitive physical quantity.
// DescriptionTemplate contains a "{n}" placeholder for the scaled magnitude,
// e.g. "running {n} km" with PerKWh = 10.
type AnalogyTemplate struct {
	DescriptionTemplate string   `yaml:"description_template" json:"description_template"`
	PerKWh              float64  `yaml:"reference_quantity_per_kwh" json:"reference_quantity_per_kwh"`
	Category            Category `yaml:"category" json:"category"`
}

// CityRate is a preset electricity price for a city.
type CityRate struct {
	City       string  `yaml:"city" json:"city"`
	RatePerKWh float64 `yaml:"rate_per_kwh" json:"rate_per_kwh"`
}

// document is the on-disk schema of a knowledge file.
type document struct {
	Appliances []Appliance       `yaml:"appliances"`
	Analogies  []AnalogyTemplate `yaml:"analogies"`
	Rates      []CityRate        `yaml:"rates"`
}

// Base is an immutable, indexed snapshot of the reference data.
type Base struct {
	appliances []Appliance
	byName     map[string]int
	analogies  []AnalogyTemplate
	rates      []CityRate
	byCity     map[string]int
}

// New validates the given entries and builds an indexed Base.
// Any schema violation returns an error wrapping ErrMalformedData.
func New(appliances []Appliance, analogies []AnalogyTemplate, rates []CityRate) (*Base, error) {
	b := &Base{
		appliances: make([]Appliance, 0, len(appliances)),
		byName:     make(map[string]int, len(appliances)),
		analogies:  make([]AnalogyTemplate, 0, len(analogies)),
		rates:      make([]CityRate, 0, len(rates)),
		byCity:     make(map[string]int, len(rates)),
	}

	for _, a := range appliances {
		if strings.TrimSpace(a.Name) == "" {
			return nil, fmt.Errorf("%w: appliance with empty name", ErrMalformedData)
		}
		if a.PowerWatts <= 0 {
			return nil, fmt.Errorf("%w: appliance %q: power_watts must be positive", ErrMalformedData, a.Name)
		}
		if !a.Category.Valid() {
			return nil, fmt.Errorf("%w: appliance %q: unknown category %q", ErrMalformedData, a.Name, a.Category)
		}
		key := strings.ToLower(a.Name)
		if _, dup := b.byName[key]; dup {
			return nil, fmt.Errorf("%w: duplicate appliance name %q", ErrMalformedData, a.Name)
		}
		b.byName[key] = len(b.appliances)
		b.appliances = append(b.appliances, a)
	}

	if len(analogies) == 0 {
		return nil, fmt.Errorf("%w: at least one analogy template is required", ErrMalformedData)
	}
	for _, t := range analogies {
		if strings.TrimSpace(t.DescriptionTemplate) == "" {
			return nil, fmt.Errorf("%w: analogy with empty description_template", ErrMalformedData)
		}
		if t.PerKWh <= 0 {
			return nil, fmt.Errorf("%w: analogy %q: reference_quantity_per_kwh must be positive", ErrMalformedData, t.DescriptionTemplate)
		}
		if !t.Category.Valid() {
			return nil, fmt.Errorf("%w: analogy %q: unknown category %q", ErrMalformedData, t.DescriptionTemplate, t.Category)
		}
		b.analogies = append(b.analogies, t)
	}

	for _, r := range rates {
		if strings.TrimSpace(r.City) == "" {
			return nil, fmt.Errorf("%w: rate with empty city", ErrMalformedData)
		}
		if r.RatePerKWh <= 0 {
			return nil, fmt.Errorf("%w: rate for %q: rate_per_kwh must be positive", ErrMalformedData, r.City)
		}
		key := strings.ToLower(r.City)
		if _, dup := b.byCity[key]; dup {
			return nil, fmt.Errorf("%w: duplicate city %q", ErrMalformedData, r.City)
		}
		b.byCity[key] = len(b.rates)
		b.rates = append(b.rates, r)
	}

	return b, nil
}

// Load parses a YAML knowledge document from r and builds a Base.
func Load(r io.Reader) (*Base, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedData, err)
	}
	return New(doc.Appliances, doc.Analogies, doc.Rates)
}

// LoadFile loads a knowledge document from a file path.
func LoadFile(path string) (*Base, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening knowledge file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// LookupAppliance finds an appliance by case-insensitive exact name match.
// A miss returns ErrNotFound; callers fall back to a manual power value.
func (b *Base) LookupAppliance(name string) (Appliance, error) {
	i, ok := b.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Appliance{}, fmt.Errorf("appliance %q: %w", name, ErrNotFound)
	}
	return b.appliances[i], nil
}

// Appliances returns all appliances in insertion order.
func (b *Base) Appliances() []Appliance {
	out := make([]Appliance, len(b.appliances))
	copy(out, b.appliances)
	return out
}

// Analogies returns analogy templates in insertion order, filtered by
// category when one is given. An empty category returns all templates.
func (b *Base) Analogies(category Category) []AnalogyTemplate {
	if category == "" {
		out := make([]AnalogyTemplate, len(b.analogies))
		copy(out, b.analogies)
		return out
	}
	out := []AnalogyTemplate{}
	for _, t := range b.analogies {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

// LookupRate finds a city rate preset by case-insensitive exact match.
func (b *Base) LookupRate(city string) (CityRate, error) {
	i, ok := b.byCity[strings.ToLower(strings.TrimSpace(city))]
	if !ok {
		return CityRate{}, fmt.Errorf("city %q: %w", city, ErrNotFound)
	}
	return b.rates[i], nil
}

// Rates returns all city rate presets in insertion order.
func (b *Base) Rates() []CityRate {
	out := make([]CityRate, len(b.rates))
	copy(out, b.rates)
	return out
}
