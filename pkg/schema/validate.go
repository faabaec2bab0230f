package schema

import "fmt"

// Error reports a malformed schema. It is fatal for the field subtree it
// names: callers must surface it rather than render a partial form.
type Error struct {
	FieldID string
	Reason  string
}

func (e *Error) Error() string {
	if e.FieldID == "" {
		return "schema: " + e.Reason
	}
	return fmt.Sprintf("schema: field %q: %s", e.FieldID, e.Reason)
}

// Validate checks a form schema for structural errors: unknown field types,
// duplicate value-field ids (which would overwrite each other in the flat
// form state), groups carrying leaf-only descriptors, and leaves carrying
// nested fields.
func Validate(form FormSchema) error {
	if form.FormID == "" {
		return &Error{Reason: "formId is required"}
	}
	seen := make(map[string]struct{})
	return Walk(form.Fields, func(f Field) error {
		if f.ID == "" {
			return &Error{Reason: "field id is required"}
		}
		if !f.Type.Known() {
			return &Error{FieldID: f.ID, Reason: fmt.Sprintf("unknown field type %q", f.Type)}
		}
		if f.Type == FieldTypeGroup {
			if len(f.Options) > 0 || f.DynamicOptions != nil || f.Validation != nil {
				return &Error{FieldID: f.ID, Reason: "group fields must not declare options or validation"}
			}
			return nil
		}
		if len(f.Fields) > 0 {
			return &Error{FieldID: f.ID, Reason: "nested fields are only allowed on groups"}
		}
		if f.DynamicOptions != nil && f.Type != FieldTypeSelect {
			return &Error{FieldID: f.ID, Reason: "dynamicOptions are only allowed on select fields"}
		}
		if _, dup := seen[f.ID]; dup {
			return &Error{FieldID: f.ID, Reason: "duplicate field id"}
		}
		seen[f.ID] = struct{}{}
		return nil
	})
}
