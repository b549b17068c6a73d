package explain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awaistahir/wattwise/internal/engine"
	"github.com/awaistahir/wattwise/internal/knowledge"
)

func TestCompose(t *testing.T) {
	res := engine.Result{
		Appliance:       "Microwave",
		Category:        knowledge.CategoryKitchen,
		PowerWatts:      1100,
		DurationMinutes: 10,
		RatePerKWh:      0.15,
		EnergyKWh:       1100 * 10 / 60000.0,
		Cost:            1100 * 10 / 60000.0 * 0.15,
		Analogy: engine.ScaledAnalogy{
			Template: knowledge.AnalogyTemplate{
				DescriptionTemplate: "toasting {n} slices of bread",
				PerKWh:              30,
				Category:            knowledge.CategoryKitchen,
			},
			Magnitude: 1100 * 10 / 60000.0 * 30,
		},
	}

	text, err := Compose(res)
	require.NoError(t, err)
	assert.Equal(t,
		"Using Microwave for 10 minutes consumes 0.1833 kWh, costing $0.0275, equivalent to toasting 5.5 slices of bread.",
		text)
}

func TestComposeCustomDevice(t *testing.T) {
	res := engine.Result{
		PowerWatts:      60,
		DurationMinutes: 120,
		RatePerKWh:      0.20,
		EnergyKWh:       0.12,
		Cost:            0.024,
		Analogy: engine.ScaledAnalogy{
			Template: knowledge.AnalogyTemplate{
				DescriptionTemplate: "running {n} km",
				PerKWh:              10,
				Category:            knowledge.CategoryOther,
			},
			Magnitude: 1.2,
		},
	}

	text, err := Compose(res)
	require.NoError(t, err)
	assert.Equal(t,
		"Using this appliance for 120 minutes consumes 0.12 kWh, costing $0.024, equivalent to running 1.2 km.",
		text)
}

func TestComposeZeroDuration(t *testing.T) {
	res := engine.Result{
		Appliance: "Fridge",
		Analogy: engine.ScaledAnalogy{
			Template: knowledge.AnalogyTemplate{
				DescriptionTemplate: "running {n} km",
				PerKWh:              10,
			},
		},
	}

	text, err := Compose(res)
	require.NoError(t, err)
	assert.Equal(t,
		"Using Fridge for 0 minutes consumes 0 kWh, costing $0, equivalent to running 0 km.",
		text)
}

func TestComposeUnboundPlaceholder(t *testing.T) {
	res := engine.Result{
		Appliance: "Fridge",
		Analogy: engine.ScaledAnalogy{
			Template: knowledge.AnalogyTemplate{
				DescriptionTemplate: "an analogy without a slot",
				PerKWh:              10,
			},
		},
	}

	_, err := Compose(res)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestNumber(t *testing.T) {
	assert.Equal(t, "18,248", Number(18248))
	assert.Equal(t, "7", Number(7))
}

func TestDecimal(t *testing.T) {
	assert.Equal(t, "0.1833", Decimal(0.18333333333333332, 4))
	assert.Equal(t, "0.024", Decimal(0.024, 4))
	assert.Equal(t, "10", Decimal(10, 2))
	assert.Equal(t, "0", Decimal(0, 4))
}

func TestMagnitude(t *testing.T) {
	assert.Equal(t, "0", Magnitude(0))
	assert.Equal(t, "5.5", Magnitude(5.5))
	assert.Equal(t, "550,500", Magnitude(550500))
	assert.Equal(t, "~1.5 million", Magnitude(1_500_000))
	assert.Equal(t, "~2.5 billion", Magnitude(2_500_000_000))
}
