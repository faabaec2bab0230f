package interpreter

import "github.com/goliatone/go-formrun/pkg/schema"

// Control is one interpreted, render-ready form control. Renderers consume
// the control tree without touching schema descriptors or live state again:
// options are resolved, visibility is already applied, and the current value
// and validation error are snapshotted.
type Control struct {
	ID       string
	Label    string
	Type     schema.FieldType
	Required bool

	// Options holds the resolved choice list for radio/checkbox/select.
	// For dynamic selects this is the snapshot for the current dependency
	// value; empty while the fetch is pending or failed.
	Options []string

	// Dynamic marks options as remotely sourced.
	Dynamic bool

	// Multiple marks set-membership controls (checkbox groups): several
	// options bind to the same id.
	Multiple bool

	// Value is the current live value.
	Value any

	// Error is the current validation message, empty when the field is valid
	// or not yet validated.
	Error string

	// Children carries the interpreted subtree for groups. Groups bind no
	// value of their own.
	Children []Control
}

// PendingFetch identifies a dynamic select whose options are not cached for
// its current dependency value. The session resolves these out-of-band and
// re-interprets once results arrive.
type PendingFetch struct {
	FieldID  string
	Dynamic  schema.DynamicOptions
	DepValue string
}

// Result is the outcome of one interpretation pass.
type Result struct {
	Controls []Control
	Pending  []PendingFetch
}
