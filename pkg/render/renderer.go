// Package render defines the renderer contract shared by every output
// backend and a registry to look renderers up by name.
package render

import (
	"context"

	"github.com/goliatone/go-formrun/pkg/interpreter"
)

// Form is the renderable snapshot of a session: the active schema's title and
// the interpreted control tree with values and errors baked in.
type Form struct {
	Title    string
	Controls []interpreter.Control
}

// Options carry per-render settings that do not belong in the form itself.
type Options struct {
	// Action is the submit target, rendered where the backend supports one.
	Action string
	// AggregateErrors appends a combined error summary after the fields in
	// addition to the inline per-field messages.
	AggregateErrors bool
	// Notice is a one-shot status line shown above the form, typically the
	// backend's message after a successful submission.
	Notice string
}

// Renderer converts an interpreted form into a byte representation (HTML,
// terminal output, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form Form, options Options) ([]byte, error)
}
