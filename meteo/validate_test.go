package meteo

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withoutField decodes the fixture, removes the value at path and
// re-encodes it. Numeric path segments index into arrays.
func withoutField(t *testing.T, path string) []byte {
	t.Helper()
	var doc map[string]any
	require.NoError(t, json.Unmarshal(loadFixture(t), &doc))

	parts := strings.Split(path, ".")
	var node any = doc
	for _, p := range parts[:len(parts)-1] {
		switch n := node.(type) {
		case map[string]any:
			node = n[p]
		case []any:
			idx := 0
			for _, c := range p {
				idx = idx*10 + int(c-'0')
			}
			node = n[idx]
		}
	}
	m, ok := node.(map[string]any)
	require.True(t, ok, "path %s does not lead to an object", path)
	delete(m, parts[len(parts)-1])

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	return out
}

func TestDecodeForecast_Fixture(t *testing.T) {
	forecast, err := decodeForecast(loadFixture(t))
	require.NoError(t, err)
	assert.Len(t, forecast.Properties.Timeseries, 3)

	// Everything but unknown members must survive a decode and re-encode.
	var want map[string]any
	require.NoError(t, json.Unmarshal(loadFixture(t), &want))
	steps := want["properties"].(map[string]any)["timeseries"].([]any)
	delete(steps[0].(map[string]any), "unknown_extension")

	encoded, err := json.Marshal(forecast)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(encoded, &got))
	assert.Equal(t, want, got)
}

func TestDecodeForecast_RequiredFields(t *testing.T) {
	tests := []struct {
		remove string
		path   string
	}{
		{remove: "type", path: "type"},
		{remove: "geometry", path: "geometry"},
		{remove: "geometry.type", path: "geometry.type"},
		{remove: "geometry.coordinates", path: "geometry.coordinates"},
		{remove: "properties", path: "properties"},
		{remove: "properties.meta", path: "properties.meta"},
		{remove: "properties.meta.updated_at", path: "properties.meta.updated_at"},
		{remove: "properties.meta.units", path: "properties.meta.units"},
		{remove: "properties.timeseries", path: "properties.timeseries"},
		{remove: "properties.timeseries.1.time", path: "properties.timeseries[1].time"},
		{remove: "properties.timeseries.0.data", path: "properties.timeseries[0].data"},
		{remove: "properties.timeseries.2.data.instant", path: "properties.timeseries[2].data.instant"},
		{remove: "properties.timeseries.0.data.instant.details", path: "properties.timeseries[0].data.instant.details"},
		{remove: "properties.timeseries.0.data.next_6_hours.summary", path: "properties.timeseries[0].data.next_6_hours.summary"},
		{remove: "properties.timeseries.1.data.next_1_hours.summary.symbol_code", path: "properties.timeseries[1].data.next_1_hours.summary.symbol_code"},
	}

	for _, tt := range tests {
		t.Run(tt.remove, func(t *testing.T) {
			forecast, err := decodeForecast(withoutField(t, tt.remove))
			assert.Nil(t, forecast)

			var dErr *DeserializationError
			require.ErrorAs(t, err, &dErr)
			assert.Contains(t, err.Error(), `"`+tt.path+`"`)
		})
	}
}

func TestDecodeForecast_OptionalFields(t *testing.T) {
	optional := []string{
		"properties.timeseries.0.data.next_1_hours",
		"properties.timeseries.0.data.next_12_hours",
		"properties.timeseries.0.data.next_6_hours.details",
		"properties.timeseries.0.data.instant.details.air_temperature",
		"properties.meta.units.wind_speed",
	}

	for _, path := range optional {
		t.Run(path, func(t *testing.T) {
			_, err := decodeForecast(withoutField(t, path))
			assert.NoError(t, err)
		})
	}
}

func TestDecodeForecast_EmptyTimeseries(t *testing.T) {
	body := `{"type":"Feature","geometry":{"type":"Point","coordinates":[10.75,59.91,14]},` +
		`"properties":{"meta":{"updated_at":"2024-03-04T09:41:07Z","units":{}},"timeseries":[]}}`

	forecast, err := decodeForecast([]byte(body))
	require.NoError(t, err)
	assert.NotNil(t, forecast.Properties.Timeseries)
	assert.Empty(t, forecast.Properties.Timeseries)
}

func TestDecodeForecast_Coordinates(t *testing.T) {
	body := `{"type":"Feature","geometry":{"type":"Point","coordinates":[10.75,59.91]},` +
		`"properties":{"meta":{"updated_at":"2024-03-04T09:41:07Z","units":{}},"timeseries":[]}}`

	_, err := decodeForecast([]byte(body))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly 3 elements")
}

func TestDecodeForecast_BadTimestamp(t *testing.T) {
	body := strings.Replace(string(loadFixture(t)), "2024-03-04T11:00:00Z", "yesterday", 1)

	_, err := decodeForecast([]byte(body))
	assert.Equal(t, KindDeserialization, Kind(err))
}

func TestValidateIdentity_Reasons(t *testing.T) {
	err := ValidateIdentity("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be empty")

	err = ValidateIdentity("app\x07 a@b.no")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "control characters")

	err = ValidateIdentity("app/1.0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contact")

	assert.NoError(t, ValidateIdentity("app/1.0 <a@b.no>"))
}
