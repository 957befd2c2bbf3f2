// Package daily condenses a forecast time series into one summary per
// local calendar day, the way weather sites present a week ahead.
package daily

import (
	"time"

	"github.com/devskill-org/metno/meteo"
	"github.com/devskill-org/metno/sun"
)

// DefaultDays is used when Summarize is asked for zero or fewer days.
const DefaultDays = 7

// Day is the summary of one local calendar day.
type Day struct {
	// Date is local midnight.
	Date time.Time `json:"date"`
	// Symbols holds the six-hour symbols for night, morning, afternoon and
	// evening. A slot is nil when the forecast has no matching period.
	Symbols [4]*meteo.WeatherSymbol `json:"symbols"`
	MinTemp *float64                `json:"min_temp,omitempty"`
	MaxTemp *float64                `json:"max_temp,omitempty"`
	// Precipitation sums the six-hour amounts of the periods starting at
	// 00, 06, 12 or 18 UTC on this day.
	Precipitation float64   `json:"precipitation"`
	MaxWind       *float64  `json:"max_wind,omitempty"`
	Sunrise       time.Time `json:"sunrise"`
	Sunset        time.Time `json:"sunset"`
	Polar         sun.Polar `json:"polar,omitempty"`
}

// Summarize groups the time series by calendar date in loc and summarizes
// the first days dates. A nil loc means UTC.
func Summarize(forecast *meteo.METJSONForecast, loc *time.Location, days int) []Day {
	if forecast == nil || forecast.Properties == nil {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}
	if days <= 0 {
		days = DefaultDays
	}

	var out []Day
	var group []*meteo.ForecastTimeStep
	var groupDate time.Time

	flush := func() {
		if len(group) > 0 {
			out = append(out, summarizeDay(forecast.Geometry, groupDate, group, len(out) == 0))
		}
	}

	series := forecast.Properties.Timeseries
	for i := range series {
		step := &series[i]
		local := step.Time.In(loc)
		date := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

		if !date.Equal(groupDate) {
			flush()
			if len(out) == days {
				return out
			}
			group, groupDate = nil, date
		}
		group = append(group, step)
	}
	flush()
	return out
}

func summarizeDay(geom *meteo.PointGeometry, date time.Time, steps []*meteo.ForecastTimeStep, first bool) Day {
	day := Day{Date: date}
	loc := date.Location()

	for _, step := range steps {
		// Six-hour periods are aligned on UTC 00/06/12/18. The slot is the
		// local quarter of the day that period starts in.
		utc := step.Time.UTC()
		if utc.Hour()%6 == 0 && utc.Minute() == 0 {
			slot := step.Time.In(loc).Hour() / 6
			if day.Symbols[slot] == nil {
				day.Symbols[slot] = sixHourSymbol(step)
			}
			// Only aligned periods are summed; hourly steps in between
			// carry overlapping six-hour windows.
			if p := step.NextPeriod(6); p != nil && p.Details != nil && p.Details.PrecipitationAmount != nil {
				day.Precipitation += *p.Details.PrecipitationAmount
			}
		}

		if temp := step.GetTemperature(); temp != nil {
			day.MinTemp = minPtr(day.MinTemp, *temp)
			day.MaxTemp = maxPtr(day.MaxTemp, *temp)
		}
		if wind := step.GetWindSpeed(); wind != nil {
			day.MaxWind = maxPtr(day.MaxWind, *wind)
		}
	}

	// The first day usually starts mid-day; show the current period too.
	if first {
		slot := steps[0].Time.In(loc).Hour() / 6
		if day.Symbols[slot] == nil {
			day.Symbols[slot] = sixHourSymbol(steps[0])
		}
	}

	if geom != nil && len(geom.Coordinates) == 3 {
		t := sun.Daylight(date, geom.Latitude(), geom.Longitude())
		day.Sunrise, day.Sunset, day.Polar = t.Sunrise, t.Sunset, t.Polar
	}
	return day
}

func sixHourSymbol(step *meteo.ForecastTimeStep) *meteo.WeatherSymbol {
	p := step.NextPeriod(6)
	if p == nil || p.Summary == nil {
		return nil
	}
	symbol := p.Summary.SymbolCode
	return &symbol
}

func minPtr(cur *float64, v float64) *float64 {
	if cur == nil || v < *cur {
		return &v
	}
	return cur
}

func maxPtr(cur *float64, v float64) *float64 {
	if cur == nil || v > *cur {
		return &v
	}
	return cur
}
