// Package session owns a live form-filling session: the schema catalog, the
// selected schema, field ordering, value changes with validation, and
// submission. It composes the interpreter, the shared form state, and the
// dynamic option resolver into a single controller.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/goliatone/go-formrun/pkg/client"
	"github.com/goliatone/go-formrun/pkg/condition"
	"github.com/goliatone/go-formrun/pkg/dynamic"
	"github.com/goliatone/go-formrun/pkg/formstate"
	"github.com/goliatone/go-formrun/pkg/interpreter"
	"github.com/goliatone/go-formrun/pkg/schema"
)

// DefaultSelectorField is the field that chooses which schema is active. Its
// value survives schema switches while everything else is wiped.
const DefaultSelectorField = "insuranceType"

// ErrNoSchema is returned by operations that need an active schema.
var ErrNoSchema = errors.New("session: no schema selected")

// SchemaSource lists the available form schemas.
type SchemaSource interface {
	Forms(ctx context.Context) ([]schema.FormSchema, error)
}

// Submitter delivers a finished payload to the backend.
type Submitter interface {
	Submit(ctx context.Context, payload map[string]any) (client.Receipt, error)
}

// Status tracks where the session is in its lifecycle.
type Status int

const (
	// StatusNoSchema means no schema has been selected yet.
	StatusNoSchema Status = iota
	// StatusReady means a schema is selected and accepting input.
	StatusReady
	// StatusSubmitting means a submission is in flight.
	StatusSubmitting
)

func (s Status) String() string {
	switch s {
	case StatusNoSchema:
		return "no-schema"
	case StatusReady:
		return "ready"
	case StatusSubmitting:
		return "submitting"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Option customises a Controller.
type Option func(*Controller)

// WithSelectorField overrides the schema selector field id.
func WithSelectorField(id string) Option {
	return func(c *Controller) {
		if id != "" {
			c.selectorField = id
		}
	}
}

// WithConditionEvaluator swaps the visibility condition evaluator.
func WithConditionEvaluator(evaluator condition.Evaluator) Option {
	return func(c *Controller) {
		if evaluator != nil {
			c.conditions = evaluator
		}
	}
}

// WithOptionSource sets the backend that serves dynamic select options.
func WithOptionSource(source dynamic.Source) Option {
	return func(c *Controller) {
		c.optionSource = source
	}
}

// WithMessages swaps the validation message catalog.
func WithMessages(messages interpreter.Messages) Option {
	return func(c *Controller) {
		if messages != nil {
			c.messages = messages
		}
	}
}

// WithOnChange registers a callback invoked whenever form state changes,
// including when an asynchronous option fetch lands, so a caller can
// re-render.
func WithOnChange(fn func()) Option {
	return func(c *Controller) {
		c.onChange = fn
	}
}

// Controller drives one form session.
type Controller struct {
	mu sync.Mutex

	source    SchemaSource
	submitter Submitter

	selectorField string
	conditions    condition.Evaluator
	optionSource  dynamic.Source
	messages      interpreter.Messages
	onChange      func()

	state    *formstate.State
	resolver *dynamic.Resolver
	interp   *interpreter.Interpreter

	schemas  []schema.FormSchema
	selected *schema.FormSchema
	order    []string
	status   Status
}

// New builds a Controller over the given schema source and submitter.
func New(source SchemaSource, submitter Submitter, options ...Option) *Controller {
	c := &Controller{
		source:        source,
		submitter:     submitter,
		selectorField: DefaultSelectorField,
		conditions:    condition.Default(),
		messages:      interpreter.DefaultMessages(),
		state:         formstate.New(),
		status:        StatusNoSchema,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	c.resolver = dynamic.NewResolver(c.optionSource)
	c.interp = interpreter.New(
		interpreter.WithConditionEvaluator(c.conditions),
		interpreter.WithResolver(c.resolver),
		interpreter.WithMessages(c.messages),
	)
	c.state.Subscribe(func(string) {
		if c.onChange != nil {
			c.onChange()
		}
	})
	return c
}

// Load fetches the schema catalog and auto-selects the first schema.
func (c *Controller) Load(ctx context.Context) error {
	if c.source == nil {
		return errors.New("session: schema source is required")
	}
	schemas, err := c.source.Forms(ctx)
	if err != nil {
		return fmt.Errorf("session: load schemas: %w", err)
	}

	c.mu.Lock()
	c.schemas = schemas
	c.mu.Unlock()

	if len(schemas) == 0 {
		return nil
	}
	return c.Select(ctx, schemas[0].FormID)
}

// Schemas returns the loaded catalog.
func (c *Controller) Schemas() []schema.FormSchema {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]schema.FormSchema(nil), c.schemas...)
}

// Selected returns the active schema, or nil when none is selected.
func (c *Controller) Selected() *schema.FormSchema {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == nil {
		return nil
	}
	copied := *c.selected
	return &copied
}

// Status reports the session lifecycle state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// State exposes the shared form state, mainly for renderers and tests.
func (c *Controller) State() *formstate.State {
	return c.state
}

// Select makes the named schema active. All prior answers and errors are
// wiped except the selector field's own value, which records the choice.
func (c *Controller) Select(ctx context.Context, formID string) error {
	c.mu.Lock()
	var picked *schema.FormSchema
	for i := range c.schemas {
		if c.schemas[i].FormID == formID {
			picked = &c.schemas[i]
			break
		}
	}
	if picked == nil {
		c.mu.Unlock()
		return fmt.Errorf("session: unknown schema %q", formID)
	}

	c.selected = picked
	c.order = topLevelIDs(picked.Fields)
	c.status = StatusReady
	c.mu.Unlock()

	c.state.Reset(c.selectorField)
	c.state.SetValue(c.selectorField, formID)

	_, err := c.Controls(ctx)
	return err
}

// Controls interprets the active schema against the current state and kicks
// off any dynamic option fetches that are not cached yet. It returns the
// renderable control tree.
func (c *Controller) Controls(ctx context.Context) ([]interpreter.Control, error) {
	fields, err := c.orderedFields()
	if err != nil {
		return nil, err
	}
	result, err := c.interp.Interpret(ctx, fields, c.state)
	if err != nil {
		return nil, err
	}
	c.refresh(ctx, result.Pending)
	return result.Controls, nil
}

// SetValue records a user edit, validates the touched field, and updates
// visibility-dependent state synchronously. Dynamic option fetches triggered
// by the edit run in the background.
func (c *Controller) SetValue(ctx context.Context, fieldID string, value any) error {
	fields, err := c.orderedFields()
	if err != nil {
		return err
	}

	c.state.SetValue(fieldID, value)

	if field, ok := interpreter.FindField(fields, fieldID); ok {
		if _, err := c.interp.ValidateField(field, c.state); err != nil {
			return err
		}
	}

	result, err := c.interp.Interpret(ctx, fields, c.state)
	if err != nil {
		return err
	}
	c.refresh(ctx, result.Pending)
	return nil
}

// Toggle flips a value in a multi-select field's answer set. Like SetValue it
// re-validates the touched field synchronously and kicks off any option
// fetches the change unlocked.
func (c *Controller) Toggle(ctx context.Context, fieldID, value string) error {
	fields, err := c.orderedFields()
	if err != nil {
		return err
	}

	c.state.Toggle(fieldID, value)

	if field, ok := interpreter.FindField(fields, fieldID); ok {
		if _, err := c.interp.ValidateField(field, c.state); err != nil {
			return err
		}
	}

	result, err := c.interp.Interpret(ctx, fields, c.state)
	if err != nil {
		return err
	}
	c.refresh(ctx, result.Pending)
	return nil
}

// Reorder moves the top-level field at index from to index to. Out-of-range
// indexes are a no-op. Ordering binds to field ids, so it survives
// re-interpretation and visibility changes.
func (c *Controller) Reorder(from, to int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if from < 0 || from >= len(c.order) || to < 0 || to >= len(c.order) || from == to {
		return
	}
	id := c.order[from]
	rest := append(append([]string(nil), c.order[:from]...), c.order[from+1:]...)
	c.order = append(append(append([]string(nil), rest[:to]...), id), rest[to:]...)
}

// Order returns the current top-level field ids in display order.
func (c *Controller) Order() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.order...)
}

// Submit validates every visible field and, when clean, delivers the payload
// of visible value-bearing fields. Validation or delivery failures leave the
// entered values intact so the user can correct and retry.
func (c *Controller) Submit(ctx context.Context) (client.Receipt, error) {
	if c.submitter == nil {
		return client.Receipt{}, errors.New("session: submitter is required")
	}
	fields, err := c.orderedFields()
	if err != nil {
		return client.Receipt{}, err
	}

	c.setStatus(StatusSubmitting)
	defer c.setStatus(StatusReady)

	ok, err := c.interp.ValidateAll(fields, c.state)
	if err != nil {
		return client.Receipt{}, err
	}
	if !ok {
		return client.Receipt{}, &ValidationError{Fields: c.state.Errors()}
	}

	payload, err := c.interp.Payload(fields, c.state)
	if err != nil {
		return client.Receipt{}, err
	}

	receipt, err := c.submitter.Submit(ctx, payload)
	if err != nil {
		return client.Receipt{}, fmt.Errorf("session: submit: %w", err)
	}
	if !receipt.Succeeded() {
		return receipt, &SubmitError{Receipt: receipt}
	}
	return receipt, nil
}

// RefreshOptions drops the cached option list for a dynamic select field and
// refetches it under the current dependency value, for callers that know the
// remote option set changed. A field without dynamic options is an error; an
// empty dependency value leaves the resolver disabled and fetches nothing.
func (c *Controller) RefreshOptions(ctx context.Context, fieldID string) error {
	fields, err := c.orderedFields()
	if err != nil {
		return err
	}
	field, ok := interpreter.FindField(fields, fieldID)
	if !ok || field.DynamicOptions == nil {
		return fmt.Errorf("session: field %q has no dynamic options", fieldID)
	}
	dyn := *field.DynamicOptions
	depValue := c.state.WatchString(dyn.DependsOn)
	if depValue == "" {
		return nil
	}
	c.resolver.Invalidate(&dyn, depValue)
	c.refresh(ctx, []interpreter.PendingFetch{{FieldID: fieldID, Dynamic: dyn, DepValue: depValue}})
	return nil
}

func (c *Controller) refresh(ctx context.Context, pending []interpreter.PendingFetch) {
	// The session outlives the call that triggered the fetch, so the fetch
	// must not die with a request-scoped context.
	ctx = context.WithoutCancel(ctx)
	for _, fetch := range pending {
		dyn := fetch.Dynamic
		c.resolver.Refresh(ctx, fetch.FieldID, &dyn, fetch.DepValue, func(_ []string, err error) {
			if err != nil {
				return
			}
			fields, err := c.orderedFields()
			if err != nil {
				return
			}
			if _, err := c.interp.Interpret(ctx, fields, c.state); err != nil {
				return
			}
			if c.onChange != nil {
				c.onChange()
			}
		})
	}
}

func (c *Controller) orderedFields() ([]schema.Field, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == nil {
		return nil, ErrNoSchema
	}
	byID := make(map[string]schema.Field, len(c.selected.Fields))
	for _, field := range c.selected.Fields {
		byID[field.ID] = field
	}
	out := make([]schema.Field, 0, len(c.order))
	for _, id := range c.order {
		if field, ok := byID[id]; ok {
			out = append(out, field)
		}
	}
	return out, nil
}

func (c *Controller) setStatus(status Status) {
	c.mu.Lock()
	c.status = status
	c.mu.Unlock()
}

func topLevelIDs(fields []schema.Field) []string {
	out := make([]string, 0, len(fields))
	for _, field := range fields {
		out = append(out, field.ID)
	}
	return out
}
