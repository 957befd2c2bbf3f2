package meteo

import "strings"

// WeatherSymbol is a symbol_code from a next_* summary, e.g. "partlycloudy_day".
// Most codes carry a _day, _night or _polartwilight variant suffix.
type WeatherSymbol string

// Clear and cloudy.
const (
	ClearSkyDay               WeatherSymbol = "clearsky_day"
	ClearSkyNight             WeatherSymbol = "clearsky_night"
	ClearSkyPolarTwilight     WeatherSymbol = "clearsky_polartwilight"
	FairDay                   WeatherSymbol = "fair_day"
	FairNight                 WeatherSymbol = "fair_night"
	FairPolarTwilight         WeatherSymbol = "fair_polartwilight"
	PartlyCloudyDay           WeatherSymbol = "partlycloudy_day"
	PartlyCloudyNight         WeatherSymbol = "partlycloudy_night"
	PartlyCloudyPolarTwilight WeatherSymbol = "partlycloudy_polartwilight"
	Cloudy                    WeatherSymbol = "cloudy"
	Fog                       WeatherSymbol = "fog"
)

// Rain.
const (
	LightRain                               WeatherSymbol = "lightrain"
	Rain                                    WeatherSymbol = "rain"
	HeavyRain                               WeatherSymbol = "heavyrain"
	LightRainAndThunder                     WeatherSymbol = "lightrainandthunder"
	RainAndThunder                          WeatherSymbol = "rainandthunder"
	HeavyRainAndThunder                     WeatherSymbol = "heavyrainandthunder"
	LightRainShowersDay                     WeatherSymbol = "lightrainshowers_day"
	LightRainShowersNight                   WeatherSymbol = "lightrainshowers_night"
	LightRainShowersPolarTwilight           WeatherSymbol = "lightrainshowers_polartwilight"
	RainShowersDay                          WeatherSymbol = "rainshowers_day"
	RainShowersNight                        WeatherSymbol = "rainshowers_night"
	RainShowersPolarTwilight                WeatherSymbol = "rainshowers_polartwilight"
	HeavyRainShowersDay                     WeatherSymbol = "heavyrainshowers_day"
	HeavyRainShowersNight                   WeatherSymbol = "heavyrainshowers_night"
	HeavyRainShowersPolarTwilight           WeatherSymbol = "heavyrainshowers_polartwilight"
	LightRainShowersAndThunderDay           WeatherSymbol = "lightrainshowersandthunder_day"
	LightRainShowersAndThunderNight         WeatherSymbol = "lightrainshowersandthunder_night"
	LightRainShowersAndThunderPolarTwilight WeatherSymbol = "lightrainshowersandthunder_polartwilight"
	RainShowersAndThunderDay                WeatherSymbol = "rainshowersandthunder_day"
	RainShowersAndThunderNight              WeatherSymbol = "rainshowersandthunder_night"
	RainShowersAndThunderPolarTwilight      WeatherSymbol = "rainshowersandthunder_polartwilight"
	HeavyRainShowersAndThunderDay           WeatherSymbol = "heavyrainshowersandthunder_day"
	HeavyRainShowersAndThunderNight         WeatherSymbol = "heavyrainshowersandthunder_night"
	HeavyRainShowersAndThunderPolarTwilight WeatherSymbol = "heavyrainshowersandthunder_polartwilight"
)

// Sleet.
const (
	LightSleet                     WeatherSymbol = "lightsleet"
	Sleet                          WeatherSymbol = "sleet"
	HeavySleet                     WeatherSymbol = "heavysleet"
	LightSleetAndThunder           WeatherSymbol = "lightsleetandthunder"
	SleetAndThunder                WeatherSymbol = "sleetandthunder"
	HeavySleetAndThunder           WeatherSymbol = "heavysleetandthunder"
	LightSleetShowersDay           WeatherSymbol = "lightsleetshowers_day"
	LightSleetShowersNight         WeatherSymbol = "lightsleetshowers_night"
	LightSleetShowersPolarTwilight WeatherSymbol = "lightsleetshowers_polartwilight"
	SleetShowersDay                WeatherSymbol = "sleetshowers_day"
	SleetShowersNight              WeatherSymbol = "sleetshowers_night"
	SleetShowersPolarTwilight      WeatherSymbol = "sleetshowers_polartwilight"
	HeavySleetShowersDay           WeatherSymbol = "heavysleetshowers_day"
	HeavySleetShowersNight         WeatherSymbol = "heavysleetshowers_night"
	HeavySleetShowersPolarTwilight WeatherSymbol = "heavysleetshowers_polartwilight"
	// The "lightss" spelling is what the API actually sends.
	LightSleetShowersAndThunderDay           WeatherSymbol = "lightssleetshowersandthunder_day"
	LightSleetShowersAndThunderNight         WeatherSymbol = "lightssleetshowersandthunder_night"
	LightSleetShowersAndThunderPolarTwilight WeatherSymbol = "lightssleetshowersandthunder_polartwilight"
	SleetShowersAndThunderDay                WeatherSymbol = "sleetshowersandthunder_day"
	SleetShowersAndThunderNight              WeatherSymbol = "sleetshowersandthunder_night"
	SleetShowersAndThunderPolarTwilight      WeatherSymbol = "sleetshowersandthunder_polartwilight"
	HeavySleetShowersAndThunderDay           WeatherSymbol = "heavysleetshowersandthunder_day"
	HeavySleetShowersAndThunderNight         WeatherSymbol = "heavysleetshowersandthunder_night"
	HeavySleetShowersAndThunderPolarTwilight WeatherSymbol = "heavysleetshowersandthunder_polartwilight"
)

// Snow.
const (
	LightSnow                               WeatherSymbol = "lightsnow"
	Snow                                    WeatherSymbol = "snow"
	HeavySnow                               WeatherSymbol = "heavysnow"
	LightSnowAndThunder                     WeatherSymbol = "lightsnowandthunder"
	SnowAndThunder                          WeatherSymbol = "snowandthunder"
	HeavySnowAndThunder                     WeatherSymbol = "heavysnowandthunder"
	LightSnowShowersDay                     WeatherSymbol = "lightsnowshowers_day"
	LightSnowShowersNight                   WeatherSymbol = "lightsnowshowers_night"
	LightSnowShowersPolarTwilight           WeatherSymbol = "lightsnowshowers_polartwilight"
	SnowShowersDay                          WeatherSymbol = "snowshowers_day"
	SnowShowersNight                        WeatherSymbol = "snowshowers_night"
	SnowShowersPolarTwilight                WeatherSymbol = "snowshowers_polartwilight"
	HeavySnowShowersDay                     WeatherSymbol = "heavysnowshowers_day"
	HeavySnowShowersNight                   WeatherSymbol = "heavysnowshowers_night"
	HeavySnowShowersPolarTwilight           WeatherSymbol = "heavysnowshowers_polartwilight"
	LightSnowShowersAndThunderDay           WeatherSymbol = "lightssnowshowersandthunder_day"
	LightSnowShowersAndThunderNight         WeatherSymbol = "lightssnowshowersandthunder_night"
	LightSnowShowersAndThunderPolarTwilight WeatherSymbol = "lightssnowshowersandthunder_polartwilight"
	SnowShowersAndThunderDay                WeatherSymbol = "snowshowersandthunder_day"
	SnowShowersAndThunderNight              WeatherSymbol = "snowshowersandthunder_night"
	SnowShowersAndThunderPolarTwilight      WeatherSymbol = "snowshowersandthunder_polartwilight"
	HeavySnowShowersAndThunderDay           WeatherSymbol = "heavysnowshowersandthunder_day"
	HeavySnowShowersAndThunderNight         WeatherSymbol = "heavysnowshowersandthunder_night"
	HeavySnowShowersAndThunderPolarTwilight WeatherSymbol = "heavysnowshowersandthunder_polartwilight"
)

// Base returns the symbol without its _day/_night/_polartwilight suffix.
func (ws WeatherSymbol) Base() string {
	str := string(ws)
	if i := strings.LastIndexByte(str, '_'); i >= 0 {
		return str[:i]
	}
	return str
}

// IsDay checks if the weather symbol indicates daytime conditions
func (ws WeatherSymbol) IsDay() bool {
	return strings.HasSuffix(string(ws), "_day")
}

// IsNight checks if the weather symbol indicates nighttime conditions
func (ws WeatherSymbol) IsNight() bool {
	return strings.HasSuffix(string(ws), "_night")
}

// IsPolarTwilight checks if the weather symbol indicates polar twilight conditions
func (ws WeatherSymbol) IsPolarTwilight() bool {
	return strings.HasSuffix(string(ws), "_polartwilight")
}

// HasThunder checks if the weather symbol indicates thunder
func (ws WeatherSymbol) HasThunder() bool {
	return strings.Contains(string(ws), "thunder")
}

// HasSnow reports snow or snow showers. Sleet is not snow.
func (ws WeatherSymbol) HasSnow() bool {
	return strings.Contains(string(ws), "snow")
}

// HasRain reports rain, rain showers or sleet.
func (ws WeatherSymbol) HasRain() bool {
	str := string(ws)
	return strings.Contains(str, "rain") || strings.Contains(str, "sleet")
}
