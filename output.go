package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/devskill-org/metno/daily"
	"github.com/devskill-org/metno/meteo"
	"github.com/devskill-org/metno/sun"
)

const maxTableRows = 48

func printTimeseries(w io.Writer, resp *meteo.Response, loc *time.Location) {
	forecast := resp.Forecast
	geom := forecast.Geometry

	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w, "WEATHER FORECAST")
	fmt.Fprintln(w, "========================================")
	fmt.Fprintf(w, "Location:  %.4f, %.4f (%.0f m)\n", geom.Latitude(), geom.Longitude(), geom.Altitude())
	fmt.Fprintf(w, "Timezone:  %s\n", loc)
	fmt.Fprintf(w, "Updated:   %s\n", forecast.Properties.Meta.UpdatedAt.In(loc).Format("2006-01-02 15:04"))
	if !resp.ExpiresAt.IsZero() {
		fmt.Fprintf(w, "Expires:   %s\n", resp.ExpiresAt.In(loc).Format("2006-01-02 15:04"))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "┌──────────────────┬─────────┬──────────┬─────────┬──────────┬───────┬──────────────────────────┐")
	fmt.Fprintln(w, "│       Time       │  Temp   │   Wind   │   Dir   │  Precip  │  UV   │         Weather          │")
	fmt.Fprintln(w, "│                  │  (°C)   │  (m/s)   │  (deg)  │   (mm)   │       │                          │")
	fmt.Fprintln(w, "├──────────────────┼─────────┼──────────┼─────────┼──────────┼───────┼──────────────────────────┤")

	steps := forecast.Properties.Timeseries
	if len(steps) > maxTableRows {
		steps = steps[:maxTableRows]
	}
	for i := range steps {
		step := &steps[i]
		fmt.Fprintf(w, "│ %16s │ %7s │ %8s │ %7s │ %8s │ %5s │ %-24s │\n",
			step.Time.In(loc).Format("2006-01-02 15:04"),
			formatValue(step.GetTemperature(), "%.1f"),
			formatValue(step.GetWindSpeed(), "%.1f"),
			formatValue(step.GetWindDirection(), "%.0f"),
			formatValue(precipitation(step), "%.1f"),
			formatValue(step.GetUVIndex(), "%.1f"),
			formatSymbol(step.GetSymbolCode()),
		)
	}
	fmt.Fprintln(w, "└──────────────────┴─────────┴──────────┴─────────┴──────────┴───────┴──────────────────────────┘")

	if n := len(forecast.Properties.Timeseries); n > len(steps) {
		fmt.Fprintf(w, "(%d more steps, use -daily for the full range)\n", n-len(steps))
	}
}

func printDaily(w io.Writer, forecast *meteo.METJSONForecast, loc *time.Location, days int) {
	summary := daily.Summarize(forecast, loc, days)

	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w, "DAILY SUMMARY")
	fmt.Fprintln(w, "========================================")
	fmt.Fprintf(w, "Timezone:  %s\n\n", loc)

	fmt.Fprintln(w, "┌────────────┬───────────────────┬───────────────────┬───────────────────┬───────────────────┬─────────┬─────────┬─────────┬─────────┬─────────┬─────────┐")
	fmt.Fprintln(w, "│    Date    │       00-06       │       06-12       │       12-18       │       18-24       │   Min   │   Max   │ Precip  │  Wind   │ Sunrise │ Sunset  │")
	fmt.Fprintln(w, "│            │                   │                   │                   │                   │  (°C)   │  (°C)   │  (mm)   │  (m/s)  │         │         │")
	fmt.Fprintln(w, "├────────────┼───────────────────┼───────────────────┼───────────────────┼───────────────────┼─────────┼─────────┼─────────┼─────────┼─────────┼─────────┤")

	for _, day := range summary {
		fmt.Fprintf(w, "│ %10s │ %-17s │ %-17s │ %-17s │ %-17s │ %7s │ %7s │ %7.1f │ %7s │ %7s │ %7s │\n",
			day.Date.Format("2006-01-02"),
			formatSymbol(day.Symbols[0]),
			formatSymbol(day.Symbols[1]),
			formatSymbol(day.Symbols[2]),
			formatSymbol(day.Symbols[3]),
			formatValue(day.MinTemp, "%.1f"),
			formatValue(day.MaxTemp, "%.1f"),
			day.Precipitation,
			formatValue(day.MaxWind, "%.1f"),
			formatSunTime(day.Sunrise, day, loc),
			formatSunTime(day.Sunset, day, loc),
		)
	}
	fmt.Fprintln(w, "└────────────┴───────────────────┴───────────────────┴───────────────────┴───────────────────┴─────────┴─────────┴─────────┴─────────┴─────────┴─────────┘")
}

// precipitation prefers the hourly amount and falls back to six hours.
func precipitation(step *meteo.ForecastTimeStep) *float64 {
	for _, hours := range []int{1, 6} {
		if p := step.NextPeriod(hours); p != nil && p.Details != nil && p.Details.PrecipitationAmount != nil {
			return p.Details.PrecipitationAmount
		}
	}
	return nil
}

func formatValue(v *float64, format string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}

func formatSymbol(s *meteo.WeatherSymbol) string {
	if s == nil {
		return "-"
	}
	text := strings.ReplaceAll(s.Base(), "_", " ")
	if s.IsNight() {
		text += " (night)"
	}
	return text
}

func formatSunTime(t time.Time, day daily.Day, loc *time.Location) string {
	if t.IsZero() {
		if day.Polar != sun.NotPolar {
			return day.Polar.String()
		}
		return "-"
	}
	return t.In(loc).Format("15:04")
}
