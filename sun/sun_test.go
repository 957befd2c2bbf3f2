package sun

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaylight(t *testing.T) {
	oslo, err := time.LoadLocation("Europe/Oslo")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	tests := []struct {
		name      string
		date      time.Time
		lat, lon  float64
		polar     Polar
		minLength time.Duration
		maxLength time.Duration
	}{
		{
			name: "Oslo midsummer", date: time.Date(2024, 6, 21, 0, 0, 0, 0, oslo),
			lat: 59.9139, lon: 10.7522,
			minLength: 18 * time.Hour, maxLength: 19 * time.Hour,
		},
		{
			name: "Oslo midwinter", date: time.Date(2024, 12, 21, 0, 0, 0, 0, oslo),
			lat: 59.9139, lon: 10.7522,
			minLength: 5*time.Hour + 30*time.Minute, maxLength: 6*time.Hour + 30*time.Minute,
		},
		{
			name: "Tromsø midsummer", date: time.Date(2024, 6, 21, 0, 0, 0, 0, oslo),
			lat: 69.6492, lon: 18.9553,
			polar: PolarDay, minLength: 24 * time.Hour, maxLength: 24 * time.Hour,
		},
		{
			name: "Tromsø midwinter", date: time.Date(2024, 12, 21, 0, 0, 0, 0, oslo),
			lat: 69.6492, lon: 18.9553,
			polar: PolarNight,
		},
		{
			name: "equator", date: time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
			lat: 0, lon: 0,
			minLength: 11*time.Hour + 50*time.Minute, maxLength: 12*time.Hour + 20*time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Daylight(tt.date, tt.lat, tt.lon)

			assert.Equal(t, tt.polar, got.Polar)
			assert.GreaterOrEqual(t, got.DayLength, tt.minLength)
			assert.LessOrEqual(t, got.DayLength, tt.maxLength)
			assert.Equal(t, tt.date.Day(), got.SolarNoon.Day())

			if tt.polar != NotPolar {
				assert.True(t, got.Sunrise.IsZero())
				assert.True(t, got.Sunset.IsZero())
				return
			}
			assert.True(t, got.Sunrise.Before(got.SolarNoon))
			assert.True(t, got.SolarNoon.Before(got.Sunset))
			assert.Equal(t, tt.date.Location(), got.Sunrise.Location())
		})
	}
}

func TestIsDaylight(t *testing.T) {
	noon := time.Date(2024, 6, 21, 11, 0, 0, 0, time.UTC)
	midnight := time.Date(2024, 6, 21, 23, 0, 0, 0, time.UTC)

	assert.True(t, IsDaylight(noon, 59.9139, 10.7522))
	assert.False(t, IsDaylight(midnight, -22.9068, -43.1729), "Rio at 20:00 local in winter")
	assert.True(t, IsDaylight(midnight, 78.2232, 15.6267), "Svalbard midnight sun")
}

func TestPolarString(t *testing.T) {
	assert.Equal(t, "polar day", PolarDay.String())
	assert.Equal(t, "polar night", PolarNight.String())
	assert.Empty(t, NotPolar.String())
}
