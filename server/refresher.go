package server

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/devskill-org/metno/meteo"
)

// Fetcher is the part of *meteo.Client the refresher depends on.
type Fetcher interface {
	FetchWithParams(ctx context.Context, params meteo.Params) (*meteo.Response, error)
}

// Refresher keeps the latest forecast for one location up to date. Every
// poll passes the previous response along, so the API is only contacted
// once the forecast has expired and unchanged forecasts come back as 304.
type Refresher struct {
	client   Fetcher
	params   meteo.Params
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger

	scheduler *gocron.Scheduler

	mu        sync.RWMutex
	latest    *meteo.Response
	lastCheck time.Time
	lastErr   error
	listeners []func(*meteo.Response)
}

// RefresherStatus is a snapshot of the refresher state.
type RefresherStatus struct {
	HasForecast bool       `json:"has_forecast"`
	LastCheck   *time.Time `json:"last_check,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	Interval    string     `json:"interval"`
}

// NewRefresher creates a refresher polling client for params every interval.
func NewRefresher(client Fetcher, params meteo.Params, interval time.Duration, logger *zap.Logger) *Refresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	params.LastResponse = nil
	return &Refresher{
		client:    client,
		params:    params,
		interval:  interval,
		timeout:   30 * time.Second,
		logger:    logger,
		scheduler: gocron.NewScheduler(time.UTC),
	}
}

// OnUpdate registers fn to be called with every newly downloaded forecast.
// Reused and not-modified responses are not reported. Listeners run on the
// polling goroutine.
func (r *Refresher) OnUpdate(fn func(*meteo.Response)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// Refresh polls the API once.
func (r *Refresher) Refresh(ctx context.Context) error {
	params := r.params
	params.LastResponse = r.Latest()

	resp, err := r.client.FetchWithParams(ctx, params)

	r.mu.Lock()
	r.lastCheck = time.Now()
	r.lastErr = err
	if err != nil {
		r.mu.Unlock()
		r.logger.Warn("forecast refresh failed",
			zap.Stringer("kind", meteo.Kind(err)),
			zap.Error(err))
		return err
	}
	changed := resp != params.LastResponse && !resp.NotModified
	r.latest = resp
	listeners := slices.Clone(r.listeners)
	r.mu.Unlock()

	if !changed {
		r.logger.Debug("forecast unchanged",
			zap.Bool("not_modified", resp.NotModified),
			zap.Time("expires", resp.ExpiresAt))
		return nil
	}

	r.logger.Info("forecast refreshed",
		zap.Int("status", resp.StatusCode),
		zap.Time("updated_at", resp.Forecast.Properties.Meta.UpdatedAt),
		zap.Time("expires", resp.ExpiresAt))

	for _, fn := range listeners {
		fn(resp)
	}
	return nil
}

// Start schedules polling. The first poll runs immediately.
func (r *Refresher) Start() error {
	if r.interval <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %v", r.interval)
	}

	_, err := r.scheduler.Every(r.interval).SingletonMode().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		_ = r.Refresh(ctx) // logged in Refresh
	})
	if err != nil {
		return fmt.Errorf("failed to schedule forecast refresh: %w", err)
	}

	r.scheduler.StartAsync()
	r.logger.Info("forecast refresher started",
		zap.Float64("lat", r.params.Latitude),
		zap.Float64("lon", r.params.Longitude),
		zap.Duration("interval", r.interval))
	return nil
}

// Stop cancels future polls.
func (r *Refresher) Stop() {
	r.scheduler.Stop()
}

// Latest returns the most recent successful response, or nil.
func (r *Refresher) Latest() *meteo.Response {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.latest
}

// Params returns the location being polled.
func (r *Refresher) Params() meteo.Params {
	return r.params
}

// Status returns the current state of the refresher.
func (r *Refresher) Status() RefresherStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	status := RefresherStatus{
		HasForecast: r.latest != nil,
		Interval:    r.interval.String(),
	}
	if !r.lastCheck.IsZero() {
		t := r.lastCheck.UTC()
		status.LastCheck = &t
	}
	if r.lastErr != nil {
		status.LastError = r.lastErr.Error()
	}
	if r.latest != nil {
		updated := r.latest.Forecast.Properties.Meta.UpdatedAt
		status.UpdatedAt = &updated
		if !r.latest.ExpiresAt.IsZero() {
			expires := r.latest.ExpiresAt
			status.ExpiresAt = &expires
		}
	}
	return status
}
