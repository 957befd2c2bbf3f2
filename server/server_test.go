package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/devskill-org/metno/meteo"
	"github.com/devskill-org/metno/utils"
)

const testAgent = "metno-server-test/1.0 ops@example.com"

// fakeAPI imitates the locationforecast endpoint, honouring
// If-Modified-Since against its current Last-Modified value.
type fakeAPI struct {
	body []byte

	mu           sync.Mutex
	lastModified time.Time
	expires      time.Time
	failStatus   int

	hits        atomic.Int32
	conditional atomic.Int32
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	body, err := os.ReadFile("../meteo/testdata/complete.json")
	require.NoError(t, err)
	return &fakeAPI{
		body:         body,
		lastModified: time.Date(2024, 3, 4, 9, 41, 7, 0, time.UTC),
		expires:      time.Now().Add(-time.Minute),
	}
}

func (f *fakeAPI) set(fn func(f *fakeAPI)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.hits.Add(1)
	f.mu.Lock()
	lastModified, expires, failStatus := f.lastModified, f.expires, f.failStatus
	f.mu.Unlock()

	if failStatus != 0 {
		http.Error(w, "upstream trouble", failStatus)
		return
	}

	w.Header().Set("Expires", utils.FormatHTTPDate(expires))
	w.Header().Set("Last-Modified", utils.FormatHTTPDate(lastModified))
	if ims := r.Header.Get("If-Modified-Since"); ims != "" {
		f.conditional.Add(1)
		if since, err := utils.ParseHTTPDate(ims); err == nil && !lastModified.After(since) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(f.body)
}

func newTestRefresher(t *testing.T, api *fakeAPI) *Refresher {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	client, err := meteo.NewClient(testAgent,
		meteo.WithBaseURL(srv.URL+"/weatherapi/locationforecast/2.0"),
		meteo.WithHTTPClient(srv.Client()),
		meteo.WithLogger(zap.NewNop()))
	require.NoError(t, err)

	return NewRefresher(client, meteo.Params{Latitude: 59.9139, Longitude: 10.7522}, time.Minute, zap.NewNop())
}

func TestRefresherRefresh(t *testing.T) {
	api := newFakeAPI(t)
	r := newTestRefresher(t, api)

	var updates atomic.Int32
	r.OnUpdate(func(resp *meteo.Response) { updates.Add(1) })

	assert.Nil(t, r.Latest())
	assert.False(t, r.Status().HasForecast)

	// First poll downloads the forecast.
	require.NoError(t, r.Refresh(context.Background()))
	first := r.Latest()
	require.NotNil(t, first)
	assert.False(t, first.NotModified)
	assert.Equal(t, int32(1), updates.Load())
	assert.Equal(t, int32(0), api.conditional.Load())

	// Expired but unchanged: conditional request, 304, no update.
	require.NoError(t, r.Refresh(context.Background()))
	second := r.Latest()
	require.NotNil(t, second)
	assert.True(t, second.NotModified)
	assert.Same(t, first.Forecast, second.Forecast)
	assert.Equal(t, int32(1), api.conditional.Load())
	assert.Equal(t, int32(1), updates.Load())

	// New model run: full body and an update.
	api.set(func(f *fakeAPI) { f.lastModified = f.lastModified.Add(time.Hour) })
	require.NoError(t, r.Refresh(context.Background()))
	assert.False(t, r.Latest().NotModified)
	assert.Equal(t, int32(2), updates.Load())
	assert.Equal(t, int32(3), api.hits.Load())

	status := r.Status()
	assert.True(t, status.HasForecast)
	require.NotNil(t, status.LastCheck)
	require.NotNil(t, status.UpdatedAt)
	assert.Equal(t, time.Date(2024, 3, 4, 9, 41, 7, 0, time.UTC), *status.UpdatedAt)
	assert.Empty(t, status.LastError)
	assert.Equal(t, "1m0s", status.Interval)
}

func TestRefresherReusesFreshForecast(t *testing.T) {
	api := newFakeAPI(t)
	api.expires = time.Now().Add(time.Hour)
	r := newTestRefresher(t, api)

	var updates atomic.Int32
	r.OnUpdate(func(resp *meteo.Response) { updates.Add(1) })

	require.NoError(t, r.Refresh(context.Background()))
	first := r.Latest()
	require.NoError(t, r.Refresh(context.Background()))

	assert.Same(t, first, r.Latest())
	assert.Equal(t, int32(1), api.hits.Load(), "fresh forecast must not be requested again")
	assert.Equal(t, int32(1), updates.Load())
	require.NotNil(t, r.Status().ExpiresAt)
}

func TestRefresherKeepsForecastOnError(t *testing.T) {
	api := newFakeAPI(t)
	r := newTestRefresher(t, api)

	require.NoError(t, r.Refresh(context.Background()))
	good := r.Latest()

	api.set(func(f *fakeAPI) { f.failStatus = http.StatusInternalServerError })
	err := r.Refresh(context.Background())
	require.Error(t, err)
	assert.Equal(t, meteo.KindAPI, meteo.Kind(err))

	assert.Same(t, good, r.Latest())
	status := r.Status()
	assert.True(t, status.HasForecast)
	assert.Contains(t, status.LastError, "500")
}

func TestRefresherConcurrentListeners(t *testing.T) {
	api := newFakeAPI(t)
	r := newTestRefresher(t, api)

	var updates atomic.Int32
	r.OnUpdate(func(*meteo.Response) { updates.Add(1) })

	const workers = 10
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.OnUpdate(func(*meteo.Response) {})
			errs <- r.Refresh(context.Background())
			_ = r.Status()
			_ = r.Latest()
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	require.NotNil(t, r.Latest())
	assert.GreaterOrEqual(t, updates.Load(), int32(1))
	assert.Len(t, r.listeners, workers+1)
}

func TestRefresherStartStop(t *testing.T) {
	api := newFakeAPI(t)
	r := newTestRefresher(t, api)

	require.NoError(t, r.Start())
	defer r.Stop()

	assert.Eventually(t, func() bool { return r.Latest() != nil }, 5*time.Second, 10*time.Millisecond)
}

func TestRefresherInvalidInterval(t *testing.T) {
	r := NewRefresher(nil, meteo.Params{}, 0, nil)
	assert.Error(t, r.Start())
}

func TestNewWebServerDisabled(t *testing.T) {
	r := NewRefresher(nil, meteo.Params{}, time.Minute, nil)
	ws := NewWebServer(r, 0, 7, nil)
	assert.Nil(t, ws)
	assert.NoError(t, ws.Start())
	assert.NoError(t, ws.Stop(context.Background()))
}

func newTestServer(t *testing.T, api *fakeAPI) (*Refresher, *WebServer, *httptest.Server) {
	t.Helper()
	r := newTestRefresher(t, api)
	ws := NewWebServer(r, 8080, 7, zap.NewNop())
	require.NotNil(t, ws)

	go ws.handleBroadcasts()
	t.Cleanup(func() { ws.stopOnce.Do(func() { close(ws.done) }) })

	srv := httptest.NewServer(ws.Handler())
	t.Cleanup(srv.Close)
	return r, ws, srv
}

func TestHealthHandler(t *testing.T) {
	r, _, srv := newTestServer(t, newFakeAPI(t))

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	var health HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "unhealthy", health.Status)

	require.NoError(t, r.Refresh(context.Background()))

	resp, err = http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	health = HealthResponse{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, Version, health.Version)
	assert.True(t, health.Forecast.HasForecast)
	assert.NotEmpty(t, health.System.Uptime)
}

func TestForecastHandler(t *testing.T) {
	api := newFakeAPI(t)
	r, _, srv := newTestServer(t, api)

	resp, err := http.Get(srv.URL + "/api/forecast")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	require.NoError(t, r.Refresh(context.Background()))

	resp, err = http.Get(srv.URL + "/api/forecast")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "Mon, 04 Mar 2024 09:41:07 GMT", resp.Header.Get("Last-Modified"))

	var forecast meteo.METJSONForecast
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&forecast))
	assert.Len(t, forecast.Properties.Timeseries, 3)

	post, err := http.Post(srv.URL+"/api/forecast", "application/json", nil)
	require.NoError(t, err)
	post.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, post.StatusCode)
}

func TestDailyHandler(t *testing.T) {
	r, _, srv := newTestServer(t, newFakeAPI(t))
	require.NoError(t, r.Refresh(context.Background()))

	for _, bad := range []string{"0", "11", "many"} {
		resp, err := http.Get(srv.URL + "/api/daily?days=" + bad)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, bad)
	}

	resp, err := http.Get(srv.URL + "/api/daily?days=2")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body DailyResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Europe/Oslo", body.Timezone)
	assert.InDelta(t, 59.9139, body.Latitude, 1e-9)
	assert.NotEmpty(t, body.Days)
	assert.LessOrEqual(t, len(body.Days), 2)
}

func readUpdate(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg map[string]any
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestWebSocketUpdates(t *testing.T) {
	api := newFakeAPI(t)
	r, ws, srv := newTestServer(t, api)
	require.NoError(t, r.Refresh(context.Background()))

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// The current forecast is sent on connect.
	msg := readUpdate(t, conn)
	assert.Equal(t, "forecast_update", msg["type"])
	dailyBody, ok := msg["daily"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Europe/Oslo", dailyBody["timezone"])
	assert.Equal(t, 1, ws.clientCount())

	// A new model run is pushed.
	api.set(func(f *fakeAPI) { f.lastModified = f.lastModified.Add(time.Hour) })
	require.NoError(t, r.Refresh(context.Background()))

	msg = readUpdate(t, conn)
	assert.Equal(t, "forecast_update", msg["type"])
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{1500 * time.Millisecond, "2s"},
		{61 * time.Second, "1m1s"},
		{2*time.Hour + 3*time.Minute + 4*time.Second, "2h3m4s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatUptime(tt.in))
	}
}
