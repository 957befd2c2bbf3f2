// Package sun computes sunrise, sunset and day length for a coordinate.
package sun

import (
	"math"
	"time"

	"github.com/sixdouglas/suncalc"
)

// Sun altitude at sunrise and sunset, accounting for refraction and the
// apparent solar radius.
const horizonDegrees = -0.833

// Polar describes days on which the sun never crosses the horizon.
type Polar int

const (
	// NotPolar days have a sunrise and a sunset.
	NotPolar Polar = iota
	// PolarDay: the sun stays above the horizon all day.
	PolarDay
	// PolarNight: the sun stays below the horizon all day.
	PolarNight
)

func (p Polar) String() string {
	switch p {
	case PolarDay:
		return "polar day"
	case PolarNight:
		return "polar night"
	default:
		return ""
	}
}

// Times holds the solar events of one day. Sunrise and Sunset are zero on
// polar days and nights.
type Times struct {
	Sunrise   time.Time
	Sunset    time.Time
	SolarNoon time.Time
	DayLength time.Duration
	Polar     Polar
}

// Daylight returns solar events for the calendar day of date, expressed in
// date's location.
func Daylight(date time.Time, lat, lon float64) Times {
	loc := date.Location()
	noon := time.Date(date.Year(), date.Month(), date.Day(), 12, 0, 0, 0, loc)
	times := suncalc.GetTimes(noon, lat, lon)

	out := Times{SolarNoon: times["solarNoon"].Value.In(loc)}

	noonAltitude := degrees(suncalc.GetPosition(out.SolarNoon, lat, lon).Altitude)
	nadirAltitude := degrees(suncalc.GetPosition(times["nadir"].Value, lat, lon).Altitude)
	switch {
	case noonAltitude < horizonDegrees:
		out.Polar = PolarNight
		return out
	case nadirAltitude > horizonDegrees:
		out.Polar = PolarDay
		out.DayLength = 24 * time.Hour
		return out
	}

	out.Sunrise = times["sunrise"].Value.In(loc)
	out.Sunset = times["sunset"].Value.In(loc)
	out.DayLength = out.Sunset.Sub(out.Sunrise)
	return out
}

// IsDaylight reports whether the sun is above the horizon at t.
func IsDaylight(t time.Time, lat, lon float64) bool {
	return degrees(suncalc.GetPosition(t, lat, lon).Altitude) > horizonDegrees
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
