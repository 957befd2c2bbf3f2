//go:build integration

package meteo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run with: METNO_USER_AGENT="yourapp you@example.com" go test -tags integration ./meteo
func TestLiveForecast(t *testing.T) {
	identity := os.Getenv("METNO_USER_AGENT")
	if identity == "" {
		t.Skip("METNO_USER_AGENT not set")
	}

	client, err := NewClient(identity)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := client.Fetch(ctx, 59.9139, 10.7522)
	require.NoError(t, err)
	require.NotEmpty(t, resp.Forecast.Properties.Timeseries)
	assert.False(t, resp.ExpiresAt.IsZero())
	assert.NotEmpty(t, resp.LastModified)

	// The previous response is still fresh, so no request is made.
	again, err := client.FetchWithParams(ctx, Params{Latitude: 59.9139, Longitude: 10.7522, LastResponse: resp})
	require.NoError(t, err)
	assert.Same(t, resp, again)

	first := resp.Forecast.Properties.Timeseries[0]
	assert.NotNil(t, first.GetTemperature())
	assert.NotNil(t, first.GetUVIndex(), "complete product carries UV")
}
