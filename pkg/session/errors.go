package session

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-formrun/pkg/client"
)

// ValidationError reports the per-field messages that blocked a submission.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "session: validation failed"
	}
	ids := make([]string, 0, len(e.Fields))
	for id := range e.Fields {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return fmt.Sprintf("session: validation failed: %s", strings.Join(ids, ", "))
}

// SubmitError reports a submission the backend accepted but did not mark
// successful. The entered values stay intact so the user can retry.
type SubmitError struct {
	Receipt client.Receipt
}

func (e *SubmitError) Error() string {
	if e.Receipt.Message != "" {
		return fmt.Sprintf("session: submission rejected: %s", e.Receipt.Message)
	}
	return fmt.Sprintf("session: submission rejected: status %q", e.Receipt.Status)
}
