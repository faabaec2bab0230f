package interpreter

import (
	"context"
	"fmt"

	"github.com/goliatone/go-formrun/pkg/condition"
	"github.com/goliatone/go-formrun/pkg/dynamic"
	"github.com/goliatone/go-formrun/pkg/formstate"
	"github.com/goliatone/go-formrun/pkg/schema"
)

// Option customises an Interpreter.
type Option func(*Interpreter)

// WithConditionEvaluator injects a custom visibility condition evaluator.
func WithConditionEvaluator(eval condition.Evaluator) Option {
	return func(it *Interpreter) {
		if eval != nil {
			it.conditions = eval
		}
	}
}

// WithResolver injects the dynamic option resolver. Without one, dynamic
// selects render with empty options.
func WithResolver(resolver *dynamic.Resolver) Option {
	return func(it *Interpreter) {
		it.resolver = resolver
	}
}

// WithMessages overrides the validation message catalog, for example with a
// localized one from pkg/prefs.
func WithMessages(messages Messages) Option {
	return func(it *Interpreter) {
		if messages != nil {
			it.messages = messages
		}
	}
}

// Interpreter turns a field-definition tree into live form state plus a
// render-ready control tree. It owns no state of its own: every pass reads
// and writes through the supplied formstate.State.
type Interpreter struct {
	conditions condition.Evaluator
	resolver   *dynamic.Resolver
	messages   Messages
}

// New constructs an Interpreter with the built-in condition evaluator and
// English validation messages.
func New(options ...Option) *Interpreter {
	it := &Interpreter{
		conditions: condition.Default(),
		messages:   DefaultMessages(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(it)
	}
	return it
}

// Interpret walks the definition tree against the live state: visibility
// conditions gate each node (a hidden node produces nothing and unregisters
// its whole subtree), visible value fields are registered, select and number
// defaults are seeded, and option lists are resolved from their static or
// cached dynamic source. Dynamic selects whose options are not cached yet are
// reported in Result.Pending for out-of-band resolution.
//
// Schema errors (unsupported condition tags, unknown field types) abort the
// pass; they indicate the schema needs fixing at the source.
func (it *Interpreter) Interpret(ctx context.Context, fields []schema.Field, state *formstate.State) (Result, error) {
	if state == nil {
		return Result{}, fmt.Errorf("interpreter: state is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	var result Result
	controls, err := it.walk(fields, state, &result.Pending)
	if err != nil {
		return Result{}, err
	}
	result.Controls = controls
	return result, nil
}

func (it *Interpreter) walk(fields []schema.Field, state *formstate.State, pending *[]PendingFetch) ([]Control, error) {
	var controls []Control
	for _, field := range fields {
		visible, err := it.visible(field, state)
		if err != nil {
			return nil, err
		}
		if !visible {
			unregisterSubtree(field, state)
			continue
		}

		control, err := it.interpretField(field, state, pending)
		if err != nil {
			return nil, err
		}
		controls = append(controls, control)
	}
	return controls, nil
}

func (it *Interpreter) interpretField(field schema.Field, state *formstate.State, pending *[]PendingFetch) (Control, error) {
	control := Control{
		ID:       field.ID,
		Label:    field.Label,
		Type:     field.Type,
		Required: field.Required,
	}

	switch field.Type {
	case schema.FieldTypeGroup:
		children, err := it.walk(field.Fields, state, pending)
		if err != nil {
			return Control{}, err
		}
		control.Children = children
		return control, nil

	case schema.FieldTypeRadio:
		state.Register(field.ID)
		control.Options = field.Options

	case schema.FieldTypeCheckbox:
		state.RegisterMulti(field.ID)
		control.Options = field.Options
		control.Multiple = true

	case schema.FieldTypeSelect:
		state.Register(field.ID)
		options, err := it.selectOptions(field, state, pending)
		if err != nil {
			return Control{}, err
		}
		control.Options = options
		control.Dynamic = field.DynamicOptions != nil
		if len(options) > 0 {
			state.Seed(field.ID, options[0])
		}

	case schema.FieldTypeText, schema.FieldTypeDate:
		state.Register(field.ID)

	case schema.FieldTypeNumber:
		state.Register(field.ID)
		state.Seed(field.ID, float64(0))

	default:
		return Control{}, &schema.Error{FieldID: field.ID, Reason: fmt.Sprintf("unknown field type %q", field.Type)}
	}

	control.Value = state.Watch(field.ID)
	control.Error = state.ErrorFor(field.ID)
	return control, nil
}

func (it *Interpreter) selectOptions(field schema.Field, state *formstate.State, pending *[]PendingFetch) ([]string, error) {
	dyn := field.DynamicOptions
	if dyn == nil {
		return field.Options, nil
	}

	depValue := state.WatchString(dyn.DependsOn)
	if depValue == "" {
		return nil, nil
	}
	if cached, ok := it.resolver.Cached(dyn, depValue); ok {
		return cached, nil
	}
	*pending = append(*pending, PendingFetch{
		FieldID:  field.ID,
		Dynamic:  *dyn,
		DepValue: depValue,
	})
	return nil, nil
}

func (it *Interpreter) visible(field schema.Field, state *formstate.State) (bool, error) {
	rule := field.Visibility
	if rule == nil {
		return true, nil
	}
	ok, err := it.conditions.Evaluate(state.WatchString(rule.DependsOn), condition.Tag(rule.Condition), rule.Value)
	if err != nil {
		return false, fmt.Errorf("interpreter: field %q visibility: %w", field.ID, err)
	}
	return ok, nil
}

// unregisterSubtree drops registrations and errors for a hidden field and all
// of its descendants. Values stay in the state so a re-shown field recovers
// its input, but Payload and validation never see hidden ids.
func unregisterSubtree(field schema.Field, state *formstate.State) {
	if field.Type != schema.FieldTypeGroup {
		state.Unregister(field.ID)
	}
	for _, child := range field.Fields {
		unregisterSubtree(child, state)
	}
}

// Payload collects the submission value map: visible, value-bearing fields
// only. Group ids never appear; hidden subtrees are purged even when the
// state still holds a previously entered value for them.
func (it *Interpreter) Payload(fields []schema.Field, state *formstate.State) (map[string]any, error) {
	payload := make(map[string]any)
	if err := it.collectPayload(fields, state, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (it *Interpreter) collectPayload(fields []schema.Field, state *formstate.State, payload map[string]any) error {
	for _, field := range fields {
		visible, err := it.visible(field, state)
		if err != nil {
			return err
		}
		if !visible {
			continue
		}
		if field.Type == schema.FieldTypeGroup {
			if err := it.collectPayload(field.Fields, state, payload); err != nil {
				return err
			}
			continue
		}
		payload[field.ID] = state.Watch(field.ID)
	}
	return nil
}

// FindField locates a field definition by id, descending into groups.
func FindField(fields []schema.Field, id string) (schema.Field, bool) {
	for _, field := range fields {
		if field.ID == id && field.Type != schema.FieldTypeGroup {
			return field, true
		}
		if len(field.Fields) > 0 {
			if found, ok := FindField(field.Fields, id); ok {
				return found, true
			}
		}
	}
	return schema.Field{}, false
}
