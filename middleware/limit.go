package middleware

import (
	"net/http"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/devskill-org/metno/meteo"
)

// RateLimit blocks each request until limiter grants a token or the
// request context is done.
func RateLimit(limiter *rate.Limiter) Middleware {
	return func(next meteo.Doer) meteo.Doer {
		return meteo.DoerFunc(func(req *http.Request) (*http.Response, error) {
			if err := limiter.Wait(req.Context()); err != nil {
				return nil, err
			}
			return next.Do(req)
		})
	}
}

// ConcurrencyLimit allows at most n requests in flight at once. Waiting
// requests give up when their context is done.
func ConcurrencyLimit(n int64) Middleware {
	sem := semaphore.NewWeighted(n)
	return func(next meteo.Doer) meteo.Doer {
		return meteo.DoerFunc(func(req *http.Request) (*http.Response, error) {
			if err := sem.Acquire(req.Context(), 1); err != nil {
				return nil, err
			}
			defer sem.Release(1)
			return next.Do(req)
		})
	}
}
