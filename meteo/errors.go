package meteo

import (
	"errors"
	"fmt"
	"strconv"
)

// Error is implemented by every error returned from Client. The set of
// implementations is closed: *InvalidIdentityError, *InvalidCoordinateError,
// *TransportError, *APIError and *DeserializationError.
type Error interface {
	error
	forecastError()
}

// ErrorKind identifies which member of the Error family an error belongs to.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindInvalidIdentity
	KindInvalidCoordinate
	KindTransport
	KindAPI
	KindDeserialization
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidIdentity:
		return "invalid_identity"
	case KindInvalidCoordinate:
		return "invalid_coordinate"
	case KindTransport:
		return "transport"
	case KindAPI:
		return "api"
	case KindDeserialization:
		return "deserialization"
	default:
		return "unknown"
	}
}

// Kind reports the ErrorKind of err, looking through wrapped errors.
// Errors that did not originate from this package report KindUnknown.
func Kind(err error) ErrorKind {
	var fe Error
	if !errors.As(err, &fe) {
		return KindUnknown
	}

	switch fe.(type) {
	case *InvalidIdentityError:
		return KindInvalidIdentity
	case *InvalidCoordinateError:
		return KindInvalidCoordinate
	case *TransportError:
		return KindTransport
	case *APIError:
		return KindAPI
	case *DeserializationError:
		return KindDeserialization
	default:
		return KindUnknown
	}
}

// InvalidIdentityError is returned by NewClient when the identity string
// cannot be sent as the User-Agent.
type InvalidIdentityError struct {
	Identity string
	Reason   string
}

func (e *InvalidIdentityError) Error() string {
	return fmt.Sprintf("invalid identity %q: %s", e.Identity, e.Reason)
}

func (*InvalidIdentityError) forecastError() {}

// InvalidCoordinateError represents a validation error for input parameters
type InvalidCoordinateError struct {
	Field   string
	Value   string
	Message string
}

func (e *InvalidCoordinateError) Error() string {
	return fmt.Sprintf("validation error for field '%s' (%s): %s", e.Field, e.Value, e.Message)
}

func (*InvalidCoordinateError) forecastError() {}

func newCoordinateError(field string, value float64, msg string) *InvalidCoordinateError {
	return &InvalidCoordinateError{
		Field:   field,
		Value:   strconv.FormatFloat(value, 'g', -1, 64),
		Message: msg,
	}
}

// TransportError represents a network-related error
type TransportError struct {
	Operation string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Operation, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (*TransportError) forecastError() {}

// APIError represents a non-2xx answer from the MET API. Body holds the raw
// response body for diagnosis.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("API error %d", e.StatusCode)
	}
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Body)
}

func (*APIError) forecastError() {}

// DeserializationError is returned when a 2xx body does not match the
// forecast schema.
type DeserializationError struct {
	Err error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("unable to deserialize forecast body: %v", e.Err)
}

func (e *DeserializationError) Unwrap() error {
	return e.Err
}

func (*DeserializationError) forecastError() {}
