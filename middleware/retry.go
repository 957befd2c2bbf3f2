package middleware

import (
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/devskill-org/metno/meteo"
)

// Backoff controls exponential backoff behaviour.
type Backoff struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultBackoff retries three times starting at half a second.
var DefaultBackoff = Backoff{
	MaxRetries:      3,
	InitialInterval: 500 * time.Millisecond,
	MaxInterval:     5 * time.Second,
}

func (b Backoff) delay(attempt int) time.Duration {
	limit := b.MaxInterval
	if limit <= 0 {
		limit = time.Duration(math.MaxInt64)
	}
	d := b.InitialInterval
	for i := 0; i < attempt; i++ {
		// Doubling past half the limit would overshoot or overflow.
		if d > limit/2 {
			return limit
		}
		d *= 2
	}
	if d > limit {
		d = limit
	}
	return d
}

// Retry re-sends requests that failed in transport or were answered with
// 429 or 5xx. A Retry-After header in seconds overrides the computed delay,
// capped at MaxInterval. The last response is returned as-is once retries
// are exhausted. Only requests without a body are retried.
func Retry(b Backoff) Middleware {
	return func(next meteo.Doer) meteo.Doer {
		return meteo.DoerFunc(func(req *http.Request) (*http.Response, error) {
			ctx := req.Context()
			for attempt := 0; ; attempt++ {
				resp, err := next.Do(req)
				if err == nil && !retryableStatus(resp.StatusCode) {
					return resp, nil
				}
				if attempt >= b.MaxRetries || req.Body != nil || ctx.Err() != nil {
					return resp, err
				}

				wait := b.delay(attempt)
				if err == nil {
					if ra, ok := retryAfter(resp.Header.Get("Retry-After")); ok {
						wait = ra
						if b.MaxInterval > 0 && wait > b.MaxInterval {
							wait = b.MaxInterval
						}
					}
					// Drain so the connection can be reused.
					_, _ = io.Copy(io.Discard, resp.Body)
					resp.Body.Close()
				}

				timer := time.NewTimer(wait)
				select {
				case <-ctx.Done():
					timer.Stop()
					return nil, ctx.Err()
				case <-timer.C:
				}
			}
		})
	}
}

func retryAfter(v string) (time.Duration, bool) {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs < 0 {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}
