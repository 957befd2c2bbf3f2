package meteo

import (
	"time"
)

// GetCurrentWeather returns the time step closest to now.
func (f *METJSONForecast) GetCurrentWeather() *ForecastTimeStep {
	return f.GetWeatherAtTime(time.Now())
}

// GetWeatherAtTime returns the weather data closest to the specified time.
// On a tie the earlier step wins.
func (f *METJSONForecast) GetWeatherAtTime(target time.Time) *ForecastTimeStep {
	steps := f.timeseries()
	if len(steps) == 0 {
		return nil
	}

	best := 0
	bestDiff := absDuration(steps[0].Time.Sub(target))
	for i := 1; i < len(steps); i++ {
		if d := absDuration(steps[i].Time.Sub(target)); d < bestDiff {
			best, bestDiff = i, d
		}
	}
	return &steps[best]
}

// GetDayForecast returns the steps falling on the calendar day of date, in
// date's location. Midnight belongs to the day it starts.
func (f *METJSONForecast) GetDayForecast(date time.Time) []ForecastTimeStep {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	end := start.AddDate(0, 0, 1)

	var out []ForecastTimeStep
	for _, step := range f.timeseries() {
		if !step.Time.Before(start) && step.Time.Before(end) {
			out = append(out, step)
		}
	}
	return out
}

// GetForecastForPeriod returns the steps within [start, end].
func (f *METJSONForecast) GetForecastForPeriod(start, end time.Time) []ForecastTimeStep {
	var out []ForecastTimeStep
	for _, step := range f.timeseries() {
		if !step.Time.Before(start) && !step.Time.After(end) {
			out = append(out, step)
		}
	}
	return out
}

func (f *METJSONForecast) timeseries() []ForecastTimeStep {
	if f == nil || f.Properties == nil {
		return nil
	}
	return f.Properties.Timeseries
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// HasPrecipitation reports a positive precipitation amount in the next
// 1 or 6 hours.
func (ts *ForecastTimeStep) HasPrecipitation() bool {
	for _, p := range []*ForecastPeriodData{ts.next(1), ts.next(6)} {
		if p != nil && p.Details != nil && p.Details.PrecipitationAmount != nil &&
			*p.Details.PrecipitationAmount > 0 {
			return true
		}
	}
	return false
}

// GetTemperature returns the air temperature if available
func (ts *ForecastTimeStep) GetTemperature() *float64 {
	if d := ts.instant(); d != nil {
		return d.AirTemperature
	}
	return nil
}

// GetWindSpeed returns the wind speed if available
func (ts *ForecastTimeStep) GetWindSpeed() *float64 {
	if d := ts.instant(); d != nil {
		return d.WindSpeed
	}
	return nil
}

// GetWindDirection returns the direction the wind blows from, in degrees.
func (ts *ForecastTimeStep) GetWindDirection() *float64 {
	if d := ts.instant(); d != nil {
		return d.WindFromDirection
	}
	return nil
}

// GetHumidity returns the relative humidity if available
func (ts *ForecastTimeStep) GetHumidity() *float64 {
	if d := ts.instant(); d != nil {
		return d.RelativeHumidity
	}
	return nil
}

// GetCloudCoverage returns the cloud area fraction if available
func (ts *ForecastTimeStep) GetCloudCoverage() *float64 {
	if d := ts.instant(); d != nil {
		return d.CloudAreaFraction
	}
	return nil
}

// GetUVIndex returns the clear-sky UV index. Only the complete product
// carries it.
func (ts *ForecastTimeStep) GetUVIndex() *float64 {
	if d := ts.instant(); d != nil {
		return d.UltravioletIndexClearSky
	}
	return nil
}

// GetSymbolCode returns the symbol of the shortest summary period available:
// next 1 hour, then 6, then 12.
func (ts *ForecastTimeStep) GetSymbolCode() *WeatherSymbol {
	for _, hours := range []int{1, 6, 12} {
		if p := ts.next(hours); p != nil && p.Summary != nil {
			return &p.Summary.SymbolCode
		}
	}
	return nil
}

// NextPeriod returns the next_1_hours, next_6_hours or next_12_hours block,
// or nil for any other duration or when the block is absent.
func (ts *ForecastTimeStep) NextPeriod(hours int) *ForecastPeriodData {
	return ts.next(hours)
}

func (ts *ForecastTimeStep) instant() *ForecastTimeInstant {
	if ts == nil || ts.Data == nil || ts.Data.Instant == nil {
		return nil
	}
	return ts.Data.Instant.Details
}

func (ts *ForecastTimeStep) next(hours int) *ForecastPeriodData {
	if ts == nil || ts.Data == nil {
		return nil
	}
	switch hours {
	case 1:
		return ts.Data.Next1Hours
	case 6:
		return ts.Data.Next6Hours
	case 12:
		return ts.Data.Next12Hours
	default:
		return nil
	}
}

// IntPtr is a helper function to get a pointer to an int value
func IntPtr(i int) *int {
	return &i
}

// Float64Ptr is a helper function to get a pointer to a float64 value
func Float64Ptr(f float64) *float64 {
	return &f
}

// StringPtr is a helper function to get a pointer to a string value
func StringPtr(s string) *string {
	return &s
}
