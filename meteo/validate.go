package meteo

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report JSON paths ("properties.meta.units") instead of Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeForecast parses and checks a 2xx body. It never returns a partially
// valid forecast.
func decodeForecast(body []byte) (*METJSONForecast, error) {
	var forecast METJSONForecast
	if err := json.Unmarshal(body, &forecast); err != nil {
		return nil, &DeserializationError{Err: err}
	}
	if err := validate.Struct(&forecast); err != nil {
		return nil, &DeserializationError{Err: describeValidation(err)}
	}
	return &forecast, nil
}

func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	// Only the first failure is reported, with the root type name stripped.
	fe := verrs[0]
	path := fe.Namespace()
	if _, rest, ok := strings.Cut(path, "."); ok {
		path = rest
	}

	switch fe.Tag() {
	case "required":
		return fmt.Errorf("missing required field %q", path)
	case "len":
		return fmt.Errorf("field %q must have exactly %s elements", path, fe.Param())
	default:
		return fmt.Errorf("field %q failed %q check", path, fe.Tag())
	}
}

// ValidateIdentity checks an identity string the way NewClient does. It must
// be non-empty after trimming, free of control characters and carry a
// contact token: an e-mail address or an http(s) URL, delimited by
// whitespace or parentheses, e.g. "acme.com/weather support@acme.com".
// A "mailto:" or "+" prefix on the token is accepted, as in
// "Widget/2 (+http://example.org/about)".
func ValidateIdentity(identity string) error {
	trimmed := strings.TrimSpace(identity)
	if trimmed == "" {
		return &InvalidIdentityError{Identity: identity, Reason: "must not be empty"}
	}
	if strings.IndexFunc(trimmed, unicode.IsControl) >= 0 {
		return &InvalidIdentityError{Identity: identity, Reason: "must not contain control characters"}
	}
	if !hasContactToken(trimmed) {
		return &InvalidIdentityError{
			Identity: identity,
			Reason:   "must include a contact e-mail address or http(s) URL",
		}
	}
	return nil
}

func hasContactToken(s string) bool {
	tokens := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune("()<>,;", r)
	})
	for _, tok := range tokens {
		tok = strings.TrimPrefix(tok, "mailto:")
		tok = strings.TrimPrefix(tok, "+")
		if validate.Var(tok, "email") == nil {
			return true
		}
		if (strings.HasPrefix(tok, "http://") || strings.HasPrefix(tok, "https://")) &&
			validate.Var(tok, "url") == nil {
			return true
		}
	}
	return false
}
