package render

import "github.com/goliatone/go-formrun/pkg/interpreter"

// FieldError pairs a control with its validation message for summary views.
type FieldError struct {
	FieldID string
	Label   string
	Message string
}

// CollectErrors walks a control tree in display order and gathers every
// control that carries a validation message.
func CollectErrors(controls []interpreter.Control) []FieldError {
	var out []FieldError
	walkControls(controls, func(control interpreter.Control) {
		if control.Error == "" {
			return
		}
		out = append(out, FieldError{
			FieldID: control.ID,
			Label:   control.Label,
			Message: control.Error,
		})
	})
	return out
}

func walkControls(controls []interpreter.Control, visit func(interpreter.Control)) {
	for _, control := range controls {
		visit(control)
		if len(control.Children) > 0 {
			walkControls(control.Children, visit)
		}
	}
}
