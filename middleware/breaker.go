package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sony/gobreaker"

	"github.com/devskill-org/metno/meteo"
)

// ErrCircuitOpen is returned while the breaker rejects requests.
var ErrCircuitOpen = errors.New("circuit breaker open")

var errUpstream = errors.New("upstream failure")

// CircuitBreaker trips after repeated failures as decided by
// settings.ReadyToTrip. Transport errors, 429 and 5xx answers count as
// failures; the failing response itself is still handed back so the caller
// sees the real status.
func CircuitBreaker(settings gobreaker.Settings) Middleware {
	if settings.Name == "" {
		settings.Name = "locationforecast"
	}
	cb := gobreaker.NewCircuitBreaker(settings)

	return func(next meteo.Doer) meteo.Doer {
		return meteo.DoerFunc(func(req *http.Request) (*http.Response, error) {
			var resp *http.Response
			_, err := cb.Execute(func() (interface{}, error) {
				var doErr error
				resp, doErr = next.Do(req)
				if doErr != nil {
					return nil, doErr
				}
				if retryableStatus(resp.StatusCode) {
					return nil, errUpstream
				}
				return nil, nil
			})

			switch {
			case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
				return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
			case errors.Is(err, errUpstream):
				return resp, nil
			case err != nil:
				return nil, err
			}
			return resp, nil
		})
	}
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}
