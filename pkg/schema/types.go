package schema

// FieldType enumerates the control kinds a form service may declare. The set
// is closed: interpreters branch exhaustively over it and treat anything else
// as a schema error.
type FieldType string

const (
	FieldTypeRadio    FieldType = "radio"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeSelect   FieldType = "select"
	FieldTypeText     FieldType = "text"
	FieldTypeDate     FieldType = "date"
	FieldTypeNumber   FieldType = "number"
	FieldTypeGroup    FieldType = "group"
)

// Known reports whether t names one of the declared field types.
func (t FieldType) Known() bool {
	switch t {
	case FieldTypeRadio, FieldTypeCheckbox, FieldTypeSelect,
		FieldTypeText, FieldTypeDate, FieldTypeNumber, FieldTypeGroup:
		return true
	default:
		return false
	}
}

// TakesOptions reports whether the type sources its choices from an option
// list (static or dynamic).
func (t FieldType) TakesOptions() bool {
	switch t {
	case FieldTypeRadio, FieldTypeCheckbox, FieldTypeSelect:
		return true
	default:
		return false
	}
}

// DynamicOptions declares a remote choice source parameterized by another
// field's live value. The request is issued as
// {Endpoint}?{DependsOn}={current value} using the declared method.
type DynamicOptions struct {
	DependsOn string `json:"dependsOn" yaml:"dependsOn"`
	Endpoint  string `json:"endpoint" yaml:"endpoint"`
	Method    string `json:"method" yaml:"method"`
}

// Visibility gates a field (and its subtree) on the value of another field.
type Visibility struct {
	DependsOn string `json:"dependsOn" yaml:"dependsOn"`
	Condition string `json:"condition" yaml:"condition"`
	Value     string `json:"value" yaml:"value"`
}

// Validation carries the optional per-type constraints. Min and Max apply to
// number fields and are unconstrained when nil; Pattern applies to text fields
// and holds a regular expression.
type Validation struct {
	Min     *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max     *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Pattern string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
}

// Field is one declared control. Group fields are pure containers: they carry
// Fields, contribute no value of their own, and ignore option/validation
// descriptors.
type Field struct {
	ID             string          `json:"id" yaml:"id"`
	Label          string          `json:"label" yaml:"label"`
	Type           FieldType       `json:"type" yaml:"type"`
	Required       bool            `json:"required" yaml:"required"`
	Options        []string        `json:"options,omitempty" yaml:"options,omitempty"`
	DynamicOptions *DynamicOptions `json:"dynamicOptions,omitempty" yaml:"dynamicOptions,omitempty"`
	Visibility     *Visibility     `json:"visibility,omitempty" yaml:"visibility,omitempty"`
	Validation     *Validation     `json:"validation,omitempty" yaml:"validation,omitempty"`
	Fields         []Field         `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// FormSchema is one named, top-level form variant. Several coexist behind a
// selector; exactly one is active per session.
type FormSchema struct {
	FormID string  `json:"formId" yaml:"formId"`
	Title  string  `json:"title" yaml:"title"`
	Fields []Field `json:"fields" yaml:"fields"`
}

// Walk visits fields depth-first in declaration order, descending into group
// children. The walk stops at the first error.
func Walk(fields []Field, visit func(Field) error) error {
	for _, field := range fields {
		if err := visit(field); err != nil {
			return err
		}
		if len(field.Fields) > 0 {
			if err := Walk(field.Fields, visit); err != nil {
				return err
			}
		}
	}
	return nil
}

// ValueFieldIDs returns the ids of every value-bearing (non-group) field in
// declaration order. Group ids never appear: groups contribute no key to the
// submitted value map.
func ValueFieldIDs(fields []Field) []string {
	var ids []string
	_ = Walk(fields, func(f Field) error {
		if f.Type != FieldTypeGroup {
			ids = append(ids, f.ID)
		}
		return nil
	})
	return ids
}
