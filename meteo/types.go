package meteo

import (
	"math"
	"time"
)

// Product selects which variant of the locationforecast endpoint is queried.
type Product string

const (
	// ProductComplete returns all parameters, including percentiles and UV.
	ProductComplete Product = "complete"
	// ProductCompact returns the most common parameters only.
	ProductCompact Product = "compact"
)

// The `validate` tags mark the fields a body must carry to be accepted.
// Everything else may be absent.

// PointGeometry represents a GeoJSON point geometry
type PointGeometry struct {
	Type        string    `json:"type" validate:"required"`     // "Point"
	Coordinates []float64 `json:"coordinates" validate:"len=3"` // [longitude, latitude, altitude]
}

// Longitude of the grid point the forecast applies to.
func (g *PointGeometry) Longitude() float64 { return g.coordinate(0) }

// Latitude of the grid point the forecast applies to.
func (g *PointGeometry) Latitude() float64 { return g.coordinate(1) }

// Altitude of the grid point in metres.
func (g *PointGeometry) Altitude() float64 { return g.coordinate(2) }

func (g *PointGeometry) coordinate(i int) float64 {
	if g == nil || len(g.Coordinates) <= i {
		return math.NaN()
	}
	return g.Coordinates[i]
}

// ForecastUnits contains the units for all forecast values
type ForecastUnits struct {
	AirPressureAtSeaLevel       *string `json:"air_pressure_at_sea_level,omitempty"`
	AirTemperature              *string `json:"air_temperature,omitempty"`
	AirTemperatureMax           *string `json:"air_temperature_max,omitempty"`
	AirTemperatureMin           *string `json:"air_temperature_min,omitempty"`
	CloudAreaFraction           *string `json:"cloud_area_fraction,omitempty"`
	CloudAreaFractionHigh       *string `json:"cloud_area_fraction_high,omitempty"`
	CloudAreaFractionLow        *string `json:"cloud_area_fraction_low,omitempty"`
	CloudAreaFractionMedium     *string `json:"cloud_area_fraction_medium,omitempty"`
	DewPointTemperature         *string `json:"dew_point_temperature,omitempty"`
	FogAreaFraction             *string `json:"fog_area_fraction,omitempty"`
	PrecipitationAmount         *string `json:"precipitation_amount,omitempty"`
	PrecipitationAmountMax      *string `json:"precipitation_amount_max,omitempty"`
	PrecipitationAmountMin      *string `json:"precipitation_amount_min,omitempty"`
	ProbabilityOfPrecipitation  *string `json:"probability_of_precipitation,omitempty"`
	ProbabilityOfThunder        *string `json:"probability_of_thunder,omitempty"`
	RelativeHumidity            *string `json:"relative_humidity,omitempty"`
	UltravioletIndexClearSky    *string `json:"ultraviolet_index_clear_sky,omitempty"`
	UltravioletIndexClearSkyMax *string `json:"ultraviolet_index_clear_sky_max,omitempty"`
	WindFromDirection           *string `json:"wind_from_direction,omitempty"`
	WindSpeed                   *string `json:"wind_speed,omitempty"`
	WindSpeedOfGust             *string `json:"wind_speed_of_gust,omitempty"`
	WindSpeedPercentile10       *string `json:"wind_speed_percentile_10,omitempty"`
	WindSpeedPercentile90       *string `json:"wind_speed_percentile_90,omitempty"`
}

// ForecastMeta contains metadata for the forecast
type ForecastMeta struct {
	UpdatedAt time.Time      `json:"updated_at" validate:"required"`
	Units     *ForecastUnits `json:"units" validate:"required"`
}

// ForecastTimeInstant contains weather parameters valid for a specific point in time
type ForecastTimeInstant struct {
	AirPressureAtSeaLevel      *float64 `json:"air_pressure_at_sea_level,omitempty"`
	AirTemperature             *float64 `json:"air_temperature,omitempty"`
	AirTemperaturePercentile10 *float64 `json:"air_temperature_percentile_10,omitempty"`
	AirTemperaturePercentile90 *float64 `json:"air_temperature_percentile_90,omitempty"`
	CloudAreaFraction          *float64 `json:"cloud_area_fraction,omitempty"`
	CloudAreaFractionHigh      *float64 `json:"cloud_area_fraction_high,omitempty"`
	CloudAreaFractionLow       *float64 `json:"cloud_area_fraction_low,omitempty"`
	CloudAreaFractionMedium    *float64 `json:"cloud_area_fraction_medium,omitempty"`
	DewPointTemperature        *float64 `json:"dew_point_temperature,omitempty"`
	FogAreaFraction            *float64 `json:"fog_area_fraction,omitempty"`
	RelativeHumidity           *float64 `json:"relative_humidity,omitempty"`
	UltravioletIndexClearSky   *float64 `json:"ultraviolet_index_clear_sky,omitempty"`
	WindFromDirection          *float64 `json:"wind_from_direction,omitempty"`
	WindSpeed                  *float64 `json:"wind_speed,omitempty"`
	WindSpeedOfGust            *float64 `json:"wind_speed_of_gust,omitempty"`
	WindSpeedPercentile10      *float64 `json:"wind_speed_percentile_10,omitempty"`
	WindSpeedPercentile90      *float64 `json:"wind_speed_percentile_90,omitempty"`
}

// ForecastTimePeriod contains weather parameters valid for a specified time period
type ForecastTimePeriod struct {
	AirTemperatureMax           *float64 `json:"air_temperature_max,omitempty"`
	AirTemperatureMin           *float64 `json:"air_temperature_min,omitempty"`
	PrecipitationAmount         *float64 `json:"precipitation_amount,omitempty"`
	PrecipitationAmountMax      *float64 `json:"precipitation_amount_max,omitempty"`
	PrecipitationAmountMin      *float64 `json:"precipitation_amount_min,omitempty"`
	ProbabilityOfPrecipitation  *float64 `json:"probability_of_precipitation,omitempty"`
	ProbabilityOfThunder        *float64 `json:"probability_of_thunder,omitempty"`
	UltravioletIndexClearSkyMax *float64 `json:"ultraviolet_index_clear_sky_max,omitempty"`
}

// ForecastSummary contains a summary of weather conditions
type ForecastSummary struct {
	SymbolCode WeatherSymbol `json:"symbol_code" validate:"required"`
}

// ForecastPeriodData contains forecast data for a specific period.
// Details is documented as mandatory but the API omits it at the end of
// long series.
type ForecastPeriodData struct {
	Summary *ForecastSummary    `json:"summary" validate:"required"`
	Details *ForecastTimePeriod `json:"details,omitempty"`
}

// ForecastInstantData contains instant forecast data
type ForecastInstantData struct {
	Details *ForecastTimeInstant `json:"details" validate:"required"`
}

// ForecastTimeStepData contains forecast data for a specific time step
type ForecastTimeStepData struct {
	Instant     *ForecastInstantData `json:"instant" validate:"required"`
	Next1Hours  *ForecastPeriodData  `json:"next_1_hours,omitempty" validate:"omitempty"`
	Next6Hours  *ForecastPeriodData  `json:"next_6_hours,omitempty" validate:"omitempty"`
	Next12Hours *ForecastPeriodData  `json:"next_12_hours,omitempty" validate:"omitempty"`
}

// ForecastTimeStep represents a forecast for a specific time step
type ForecastTimeStep struct {
	Time time.Time             `json:"time" validate:"required"`
	Data *ForecastTimeStepData `json:"data" validate:"required"`
}

// Forecast contains the main forecast data
type Forecast struct {
	Meta       *ForecastMeta      `json:"meta" validate:"required"`
	Timeseries []ForecastTimeStep `json:"timeseries" validate:"required,dive"`
}

// METJSONForecast represents the root forecast response
type METJSONForecast struct {
	Type       string         `json:"type" validate:"required"` // "Feature"
	Geometry   *PointGeometry `json:"geometry" validate:"required"`
	Properties *Forecast      `json:"properties" validate:"required"`
}

// Params holds the inputs of a single forecast request.
//
// LastResponse, when set, turns the request into a conditional one: an
// unexpired response is returned without contacting the API, otherwise its
// Last-Modified value is sent as If-Modified-Since.
type Params struct {
	Latitude     float64
	Longitude    float64
	Altitude     *int
	LastResponse *Response
}

// Truncated returns a copy with latitude and longitude truncated to four
// decimals, the precision the API asks clients not to exceed.
func (p Params) Truncated() Params {
	p.Latitude = math.Trunc(p.Latitude*10000) / 10000
	p.Longitude = math.Trunc(p.Longitude*10000) / 10000
	return p
}

// Validate checks coordinate ranges. Latitude and longitude must be finite
// and within [-90, 90] and [-180, 180]; altitude within [-500, 9000] metres.
func (p Params) Validate() error {
	if math.IsNaN(p.Latitude) || math.IsInf(p.Latitude, 0) {
		return newCoordinateError("latitude", p.Latitude, "must be a finite number")
	}
	if p.Latitude < -90 || p.Latitude > 90 {
		return newCoordinateError("latitude", p.Latitude, "must be between -90 and 90")
	}
	if math.IsNaN(p.Longitude) || math.IsInf(p.Longitude, 0) {
		return newCoordinateError("longitude", p.Longitude, "must be a finite number")
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return newCoordinateError("longitude", p.Longitude, "must be between -180 and 180")
	}
	if p.Altitude != nil && (*p.Altitude < MinAltitude || *p.Altitude > MaxAltitude) {
		return newCoordinateError("altitude", float64(*p.Altitude), "must be between -500 and 9000")
	}
	return nil
}

// Altitude bounds accepted by the API, in metres.
const (
	MinAltitude = -500
	MaxAltitude = 9000
)
