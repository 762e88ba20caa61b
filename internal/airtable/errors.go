package airtable

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// APIError is a non-2xx record store response.
type APIError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	return fmt.Sprintf("record store responded %d: %s", e.StatusCode, e.Body)
}

// Transient reports whether the response warrants a retry.
func (e *APIError) Transient() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// The quotes around the field name arrive backslash-escaped inside the raw
// JSON error body, so both forms must match.
var unknownFieldRe = regexp.MustCompile(`Unknown field name:\s*\\?"([^"\\]+)\\?"`)

// unknownField extracts the offending field name from a 422
// UNKNOWN_FIELD_NAME response, or "" when err is anything else.
func unknownField(err error) string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return ""
	}
	if apiErr.StatusCode != http.StatusUnprocessableEntity ||
		!strings.Contains(apiErr.Body, "UNKNOWN_FIELD_NAME") {
		return ""
	}
	m := unknownFieldRe.FindStringSubmatch(apiErr.Body)
	if m == nil {
		return ""
	}
	return m[1]
}
