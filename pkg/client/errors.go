package client

import (
	"fmt"
	"net/http"
)

// StatusError reports a non-2xx response from the form service. Callers
// treat it as recoverable: the UI stays in its loading-or-empty state and
// form state survives for retry.
type StatusError struct {
	Code int
	URL  string
	Err  error
}

func (e *StatusError) Error() string {
	status := http.StatusText(e.Code)
	if status == "" {
		status = fmt.Sprintf("status %d", e.Code)
	}
	if e.URL != "" {
		return fmt.Sprintf("client: %s: %s", e.URL, status)
	}
	return "client: " + status
}

func (e *StatusError) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status, defaulting to 500 when unset.
func (e *StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}
