package interpreter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-formrun/pkg/formstate"
	"github.com/goliatone/go-formrun/pkg/schema"
)

// Messages is the validation message catalog. pkg/prefs can supply a
// localized implementation.
type Messages interface {
	Required(label string) string
	Pattern(label, pattern string) string
	Min(label string, min float64) string
	Max(label string, max float64) string
}

type englishMessages struct{}

// DefaultMessages returns the built-in English catalog.
func DefaultMessages() Messages {
	return englishMessages{}
}

func (englishMessages) Required(label string) string {
	return fmt.Sprintf("%q should be filled.", label)
}

func (englishMessages) Pattern(label, pattern string) string {
	return fmt.Sprintf("%q should match %s.", label, pattern)
}

func (englishMessages) Min(label string, min float64) string {
	return fmt.Sprintf("%q minimum is %s.", label, formatNumber(min))
}

func (englishMessages) Max(label string, max float64) string {
	return fmt.Sprintf("%q maximum is %s.", label, formatNumber(max))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ValidateField applies the field's rules against the live value, records the
// first failing rule's message in the state, and returns it. An empty return
// means the field is valid. Runs on every relevant value change (live
// validation), not only on submit.
//
// A malformed pattern expression is a schema error, not a validation failure.
func (it *Interpreter) ValidateField(field schema.Field, state *formstate.State) (string, error) {
	if field.Type == schema.FieldTypeGroup {
		return "", nil
	}

	message, err := it.fieldMessage(field, state)
	if err != nil {
		return "", err
	}
	state.SetError(field.ID, message)
	return message, nil
}

func (it *Interpreter) fieldMessage(field schema.Field, state *formstate.State) (string, error) {
	value := state.Watch(field.ID)

	if field.Required && isEmpty(value) {
		return it.messages.Required(field.Label), nil
	}

	switch field.Type {
	case schema.FieldTypeText:
		return it.textMessage(field, value)
	case schema.FieldTypeNumber:
		return it.numberMessage(field, value), nil
	default:
		return "", nil
	}
}

func (it *Interpreter) textMessage(field schema.Field, value any) (string, error) {
	if field.Validation == nil || field.Validation.Pattern == "" {
		return "", nil
	}
	text, _ := value.(string)
	if text == "" {
		return "", nil
	}
	re, err := regexp.Compile(field.Validation.Pattern)
	if err != nil {
		return "", &schema.Error{FieldID: field.ID, Reason: fmt.Sprintf("invalid pattern %q: %v", field.Validation.Pattern, err)}
	}
	if !re.MatchString(text) {
		return it.messages.Pattern(field.Label, field.Validation.Pattern), nil
	}
	return "", nil
}

// numberMessage applies min/max bounds. Absent bounds are unconstrained:
// there is no numeric coercion of missing limits.
func (it *Interpreter) numberMessage(field schema.Field, value any) string {
	number, ok := coerceFloat(value)
	if !ok {
		if field.Required {
			return it.messages.Required(field.Label)
		}
		return ""
	}
	if field.Validation == nil {
		return ""
	}
	if min := field.Validation.Min; min != nil && number < *min {
		return it.messages.Min(field.Label, *min)
	}
	if max := field.Validation.Max; max != nil && number > *max {
		return it.messages.Max(field.Label, *max)
	}
	return ""
}

// ValidateAll validates every visible value field, recording messages in the
// state, and reports whether the whole form is valid. Hidden subtrees are
// skipped entirely: their ids never appear in the error aggregation.
func (it *Interpreter) ValidateAll(fields []schema.Field, state *formstate.State) (bool, error) {
	valid := true
	err := it.walkVisible(fields, state, func(field schema.Field) error {
		message, err := it.ValidateField(field, state)
		if err != nil {
			return err
		}
		if message != "" {
			valid = false
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return valid, nil
}

func (it *Interpreter) walkVisible(fields []schema.Field, state *formstate.State, visit func(schema.Field) error) error {
	for _, field := range fields {
		visible, err := it.visible(field, state)
		if err != nil {
			return err
		}
		if !visible {
			continue
		}
		if field.Type == schema.FieldTypeGroup {
			if err := it.walkVisible(field.Fields, state, visit); err != nil {
				return err
			}
			continue
		}
		if err := visit(field); err != nil {
			return err
		}
	}
	return nil
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []string:
		return len(v) == 0
	default:
		return false
	}
}

func coerceFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
