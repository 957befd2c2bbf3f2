package meteo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"
)

// DefaultBaseURL is the production LocationForecast 2.0 endpoint.
const DefaultBaseURL = "https://api.met.no/weatherapi/locationforecast/2.0"

// Doer sends a single HTTP request. *http.Client satisfies it; so does any
// decorator built from the middleware package.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DoerFunc adapts a plain function to Doer.
type DoerFunc func(req *http.Request) (*http.Response, error)

// Do calls f(req).
func (f DoerFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Client represents a client for the MET Norway Location Forecast API.
// It is immutable after construction and safe for concurrent use.
type Client struct {
	doer      Doer
	baseURL   *url.URL
	userAgent string
	product   Product
	gzip      bool
	logger    *zap.Logger
	now       func() time.Time
}

// Option configures a Client at construction time.
type Option func(*Client) error

// WithHTTPClient sets the transport used for requests.
func WithHTTPClient(doer Doer) Option {
	return func(c *Client) error {
		if doer == nil {
			return fmt.Errorf("http client must not be nil")
		}
		c.doer = doer
		return nil
	}
}

// WithBaseURL overrides the API root, mostly for tests and proxies.
func WithBaseURL(raw string) Option {
	return func(c *Client) error {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid base URL %q: %w", raw, err)
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid base URL %q: must be an absolute http(s) URL", raw)
		}
		c.baseURL = u
		return nil
	}
}

// WithProduct selects the compact or complete endpoint.
func WithProduct(p Product) Option {
	return func(c *Client) error {
		switch p {
		case ProductComplete, ProductCompact:
			c.product = p
			return nil
		default:
			return fmt.Errorf("unknown product %q", p)
		}
	}
}

// WithLogger attaches a logger for request tracing at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}

// WithGzip toggles the Accept-Encoding: gzip request header.
func WithGzip(enabled bool) Option {
	return func(c *Client) error {
		c.gzip = enabled
		return nil
	}
}

// NewClient creates a new client for the MET Norway Location Forecast API.
// The identity is sent as User-Agent and must name the application and a
// way to contact its owner, e.g. "acme.com/weather support@acme.com".
func NewClient(identity string, opts ...Option) (*Client, error) {
	if err := ValidateIdentity(identity); err != nil {
		return nil, err
	}

	base, _ := url.Parse(DefaultBaseURL)
	c := &Client{
		doer:      &http.Client{},
		baseURL:   base,
		userAgent: strings.TrimSpace(identity),
		product:   ProductComplete,
		gzip:      true,
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Identity returns the User-Agent value sent with every request.
func (c *Client) Identity() string {
	return c.userAgent
}

// Product returns the endpoint variant this client queries.
func (c *Client) Product() Product {
	return c.product
}

// Fetch retrieves the forecast for a coordinate.
func (c *Client) Fetch(ctx context.Context, lat, lon float64) (*Response, error) {
	return c.FetchWithParams(ctx, Params{Latitude: lat, Longitude: lon})
}

// FetchWithAltitude retrieves the forecast for a coordinate at the given
// ground height in metres.
func (c *Client) FetchWithAltitude(ctx context.Context, lat, lon float64, altitude int) (*Response, error) {
	return c.FetchWithParams(ctx, Params{Latitude: lat, Longitude: lon, Altitude: &altitude})
}

// FetchWithParams performs at most one GET request. Invalid params fail
// before any network activity. All failures are one of the Error types.
func (c *Client) FetchWithParams(ctx context.Context, params Params) (*Response, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	prev := params.LastResponse
	if prev != nil && prev.Forecast != nil && !prev.Expired(c.now()) {
		c.logger.Debug("forecast still fresh, skipping request",
			zap.Time("expires", prev.ExpiresAt))
		return prev, nil
	}

	req, err := c.newRequest(ctx, params)
	if err != nil {
		return nil, &TransportError{Operation: "build request", Err: err}
	}

	start := c.now()
	resp, err := c.doer.Do(req)
	if err != nil {
		c.logger.Debug("forecast request failed", zap.String("url", req.URL.String()), zap.Error(err))
		return nil, &TransportError{Operation: "request", Err: err}
	}
	defer resp.Body.Close()

	body, readErr := readBody(resp)

	c.logger.Debug("forecast response",
		zap.String("url", req.URL.String()),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", c.now().Sub(start)),
		zap.NamedError("read_error", readErr))

	// The status decides the error kind; a broken body on a non-2xx answer
	// is still an APIError carrying whatever could be read.
	if resp.StatusCode == http.StatusNotModified && prev != nil && prev.Forecast != nil {
		return notModified(resp, prev), nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	if readErr != nil {
		return nil, &TransportError{Operation: "read body", Err: readErr}
	}

	forecast, err := decodeForecast(body)
	if err != nil {
		return nil, err
	}
	return newResponse(resp, forecast, body), nil
}

func (c *Client) newRequest(ctx context.Context, params Params) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(params), nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if c.gzip {
		req.Header.Set("Accept-Encoding", "gzip")
	}
	if prev := params.LastResponse; prev != nil && prev.Forecast != nil && prev.LastModified != "" {
		req.Header.Set("If-Modified-Since", prev.LastModified)
	}
	return req, nil
}

// buildURL constructs the API URL with query parameters
func (c *Client) buildURL(params Params) string {
	u := *c.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + string(c.product)
	u.RawPath = ""

	query := url.Values{}
	query.Set("lat", formatFloat(params.Latitude))
	query.Set("lon", formatFloat(params.Longitude))
	if params.Altitude != nil {
		query.Set("altitude", strconv.Itoa(*params.Altitude))
	}

	u.RawQuery = query.Encode()
	return u.String()
}

// readBody drains the body, undoing gzip content encoding when present.
// When decompression fails the raw bytes are returned with the error.
func readBody(resp *http.Response) ([]byte, error) {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return raw, err
	}
	// 304s and HEAD-like answers may advertise gzip with no body.
	if len(raw) == 0 || !strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		return raw, nil
	}

	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return raw, fmt.Errorf("gzip: %w", err)
	}
	defer zr.Close()

	body, err := io.ReadAll(zr)
	if err != nil {
		return raw, fmt.Errorf("gzip: %w", err)
	}
	return body, nil
}

// formatFloat renders the shortest representation that round-trips, so no
// precision is lost.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
