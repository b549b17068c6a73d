package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awaistahir/wattwise/internal/knowledge"
)

func testBase(t *testing.T) *knowledge.Base {
	t.Helper()

	kb, err := knowledge.New(
		[]knowledge.Appliance{
			{Name: "Microwave", PowerWatts: 1100, Category: knowledge.CategoryKitchen},
			{Name: "Fridge", PowerWatts: 150, Category: knowledge.CategoryKitchen},
			{Name: "Heater", PowerWatts: 1500, Category: knowledge.CategoryClimate},
		},
		[]knowledge.AnalogyTemplate{
			{DescriptionTemplate: "lifting {n} kg by one meter", PerKWh: 367000, Category: knowledge.CategoryOther},
			{DescriptionTemplate: "running {n} km", PerKWh: 10, Category: knowledge.CategoryOther},
			{DescriptionTemplate: "toasting {n} slices of bread", PerKWh: 30, Category: knowledge.CategoryKitchen},
		},
		nil,
	)
	require.NoError(t, err)
	return kb
}

func TestCalculate(t *testing.T) {
	calc := New(testBase(t))

	tests := []struct {
		name        string
		input       UsageInput
		wantEnergy  float64
		wantCost    float64
		wantPower   float64
		wantAnalogy string
		wantField   string
	}{
		{
			name: "catalog appliance",
			input: UsageInput{
				Appliance:       "Microwave",
				DurationMinutes: 10,
				RatePerKWh:      0.15,
			},
			wantEnergy:  1100 * 10 / 60000.0,
			wantCost:    1100 * 10 / 60000.0 * 0.15,
			wantPower:   1100,
			wantAnalogy: "toasting {n} slices of bread",
		},
		{
			name: "custom device with power override",
			input: UsageInput{
				PowerWatts:      ptrFloat(60),
				DurationMinutes: 120,
				RatePerKWh:      0.20,
			},
			wantEnergy:  0.12,
			wantCost:    0.024,
			wantPower:   60,
			wantAnalogy: "running {n} km",
		},
		{
			name: "override beats catalog rating",
			input: UsageInput{
				Appliance:       "Microwave",
				PowerWatts:      ptrFloat(800),
				DurationMinutes: 30,
				RatePerKWh:      0.15,
			},
			wantEnergy:  800 * 30 / 60000.0,
			wantCost:    800 * 30 / 60000.0 * 0.15,
			wantPower:   800,
			wantAnalogy: "toasting {n} slices of bread",
		},
		{
			name: "unknown appliance with override is a custom device",
			input: UsageInput{
				Appliance:       "Aquarium Pump",
				PowerWatts:      ptrFloat(25),
				DurationMinutes: 60,
				RatePerKWh:      0.23,
			},
			wantEnergy:  0.025,
			wantCost:    0.025 * 0.23,
			wantPower:   25,
			// 0.025 kWh scales lifting to 9,175 kg, still in range.
			wantAnalogy: "lifting {n} kg by one meter",
		},
		{
			name: "unknown appliance without override",
			input: UsageInput{
				Appliance:       "Flux Capacitor",
				DurationMinutes: 10,
				RatePerKWh:      0.15,
			},
			wantField: "power",
		},
		{
			name: "no power source at all",
			input: UsageInput{
				DurationMinutes: 10,
				RatePerKWh:      0.15,
			},
			wantField: "power",
		},
		{
			name: "non-positive power override",
			input: UsageInput{
				PowerWatts:      ptrFloat(-5),
				DurationMinutes: 10,
				RatePerKWh:      0.15,
			},
			wantField: "power",
		},
		{
			name: "negative duration",
			input: UsageInput{
				Appliance:       "Fridge",
				DurationMinutes: -1,
				RatePerKWh:      0.15,
			},
			wantField: "duration",
		},
		{
			name: "zero rate",
			input: UsageInput{
				Appliance:       "Fridge",
				DurationMinutes: 60,
			},
			wantField: "rate",
		},
		{
			name: "negative rate",
			input: UsageInput{
				Appliance:       "Fridge",
				DurationMinutes: 60,
				RatePerKWh:      -0.10,
			},
			wantField: "rate",
		},
		{
			name: "power reported before duration and rate",
			input: UsageInput{
				PowerWatts:      ptrFloat(0),
				DurationMinutes: -1,
				RatePerKWh:      -1,
			},
			wantField: "power",
		},
		{
			name: "duration reported before rate",
			input: UsageInput{
				PowerWatts:      ptrFloat(100),
				DurationMinutes: -1,
				RatePerKWh:      -1,
			},
			wantField: "duration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := calc.Calculate(tt.input)

			if tt.wantField != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidInput)

				var iie *InvalidInputError
				require.ErrorAs(t, err, &iie)
				assert.Equal(t, tt.wantField, iie.Field)
				return
			}

			require.NoError(t, err)
			assert.InDelta(t, tt.wantEnergy, res.EnergyKWh, 1e-12)
			assert.InDelta(t, tt.wantCost, res.Cost, 1e-12)
			assert.Equal(t, tt.wantPower, res.PowerWatts)
			assert.Equal(t, tt.wantAnalogy, res.Analogy.Template.DescriptionTemplate)
			assert.InDelta(t, res.EnergyKWh*res.Analogy.Template.PerKWh, res.Analogy.Magnitude, 1e-12)
		})
	}
}

func TestCalculateZeroDuration(t *testing.T) {
	calc := New(testBase(t))

	res, err := calc.Calculate(UsageInput{
		Appliance:       "Fridge",
		DurationMinutes: 0,
		RatePerKWh:      0.15,
	})

	require.NoError(t, err)
	assert.Zero(t, res.EnergyKWh)
	assert.Zero(t, res.Cost)
	assert.Zero(t, res.Analogy.Magnitude)
	// Nothing is in range at zero energy, so the first candidate wins.
	assert.Equal(t, "toasting {n} slices of bread", res.Analogy.Template.DescriptionTemplate)
}

func TestCalculateCategoryFallback(t *testing.T) {
	// Heater is climate, and the test catalog has no climate analogies;
	// selection must fall back to the full catalog.
	calc := New(testBase(t))

	res, err := calc.Calculate(UsageInput{
		Appliance:       "Heater",
		DurationMinutes: 60,
		RatePerKWh:      0.20,
	})

	require.NoError(t, err)
	assert.Equal(t, knowledge.CategoryClimate, res.Category)
	assert.Equal(t, "running {n} km", res.Analogy.Template.DescriptionTemplate)
	assert.InDelta(t, 15.0, res.Analogy.Magnitude, 1e-12)
}

func TestCalculateCaseInsensitiveLookup(t *testing.T) {
	calc := New(testBase(t))

	res, err := calc.Calculate(UsageInput{
		Appliance:       "microwave",
		DurationMinutes: 10,
		RatePerKWh:      0.15,
	})

	require.NoError(t, err)
	assert.Equal(t, "Microwave", res.Appliance)
	assert.Equal(t, 1100.0, res.PowerWatts)
}

func TestCalculateIdempotent(t *testing.T) {
	calc := New(testBase(t))

	input := UsageInput{
		Appliance:       "Microwave",
		DurationMinutes: 10,
		RatePerKWh:      0.15,
	}

	first, err := calc.Calculate(input)
	require.NoError(t, err)
	second, err := calc.Calculate(input)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func ptrFloat(f float64) *float64 {
	return &f
}
