package meteo

import (
	"net/http"
	"time"

	"github.com/devskill-org/metno/utils"
)

// Response is the result of a successful forecast request.
type Response struct {
	// Forecast is the validated body.
	Forecast *METJSONForecast
	// ExpiresAt is parsed from the Expires header; zero when the header is
	// missing or malformed.
	ExpiresAt time.Time
	// LastModified is the Last-Modified header verbatim, empty when absent.
	LastModified string
	StatusCode   int
	// NotModified is set when the API answered 304 and Forecast was carried
	// over from the previous response.
	NotModified bool

	raw []byte
}

// Raw returns a copy of the JSON body the forecast was decoded from.
func (r *Response) Raw() []byte {
	if r == nil || r.raw == nil {
		return nil
	}
	out := make([]byte, len(r.raw))
	copy(out, r.raw)
	return out
}

// Expired reports whether the response may no longer be reused at now.
// A response without an Expires header is always expired.
func (r *Response) Expired(now time.Time) bool {
	return r == nil || r.ExpiresAt.IsZero() || !now.Before(r.ExpiresAt)
}

func newResponse(resp *http.Response, forecast *METJSONForecast, raw []byte) *Response {
	expires, _ := utils.ParseHTTPDate(resp.Header.Get("Expires"))
	return &Response{
		Forecast:     forecast,
		ExpiresAt:    expires,
		LastModified: resp.Header.Get("Last-Modified"),
		StatusCode:   resp.StatusCode,
		raw:          raw,
	}
}

// notModified builds the answer to a 304: previous body, fresh cache headers.
func notModified(resp *http.Response, prev *Response) *Response {
	out := newResponse(resp, prev.Forecast, prev.raw)
	out.NotModified = true
	if out.LastModified == "" {
		out.LastModified = prev.LastModified
	}
	return out
}
