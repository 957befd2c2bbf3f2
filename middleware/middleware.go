// Package middleware provides meteo.Doer decorators that keep a caller
// within the LocationForecast terms of service: rate and concurrency
// limits, a circuit breaker and retries with exponential backoff.
//
// The meteo client does none of this on its own. Wrap the transport and
// hand it over with meteo.WithHTTPClient:
//
//	doer := middleware.Chain(middleware.NewHTTPClient(30*time.Second), middleware.Default()...)
//	client, err := meteo.NewClient(identity, meteo.WithHTTPClient(doer))
package middleware

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/devskill-org/metno/meteo"
)

// Published limits of api.met.no.
const (
	DefaultMaxInFlight    = 50
	DefaultRatePerSecond  = 20
	DefaultRateLimitBurst = 20
)

// Middleware decorates a Doer.
type Middleware func(meteo.Doer) meteo.Doer

// Chain wraps d with mws. The first middleware is the outermost one and
// sees every request first.
func Chain(d meteo.Doer, mws ...Middleware) meteo.Doer {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] != nil {
			d = mws[i](d)
		}
	}
	return d
}

// Default returns the concurrency and rate limits the API asks clients to
// respect: at most 50 requests in flight and 20 requests per second.
func Default() []Middleware {
	return []Middleware{
		ConcurrencyLimit(DefaultMaxInFlight),
		RateLimit(rate.NewLimiter(rate.Limit(DefaultRatePerSecond), DefaultRateLimitBurst)),
	}
}

// NewHTTPClient returns an *http.Client with the given overall timeout.
// Zero means no timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
