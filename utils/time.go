// Package utils provides utility functions shared by the forecast packages.
package utils //nolint:revive // utils is a common and acceptable package name

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

// ErrEmptyDate is returned by ParseHTTPDate for a blank header value.
var ErrEmptyDate = errors.New("empty HTTP date")

// ParseHTTPDate parses an HTTP date header value such as Expires or
// Last-Modified. All three formats allowed by RFC 9110 are accepted.
func ParseHTTPDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrEmptyDate
	}
	t, err := http.ParseTime(value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// FormatHTTPDate formats t in the IMF-fixdate form used by HTTP headers.
func FormatHTTPDate(t time.Time) string {
	return t.UTC().Format(http.TimeFormat)
}
