// Package tui fills a form interactively in the terminal. It prompts for each
// visible control in order and serializes the collected answers.
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/goliatone/go-formrun/pkg/interpreter"
	"github.com/goliatone/go-formrun/pkg/render"
	"github.com/goliatone/go-formrun/pkg/schema"
)

// Option customises the TUI renderer.
type Option func(*Renderer)

// WithDriver swaps the prompt driver, mainly for tests.
func WithDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithPageSize caps the visible rows in select prompts.
func WithPageSize(size int) Option {
	return func(r *Renderer) {
		if size > 0 {
			r.pageSize = size
		}
	}
}

// Renderer implements render.Renderer over an interactive terminal session.
type Renderer struct {
	driver   PromptDriver
	pageSize int
}

// New constructs the TUI renderer with the survey-backed driver by default.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		driver: newSurveyDriver(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r, nil
}

func (r *Renderer) Name() string {
	return "tui"
}

func (r *Renderer) ContentType() string {
	return "application/json"
}

// Render prompts for every control in order and returns the collected answers
// as a JSON document. Group controls print a section header and recurse.
func (r *Renderer) Render(ctx context.Context, form render.Form, options render.Options) ([]byte, error) {
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}
	if options.Notice != "" {
		if err := r.driver.Info(ctx, options.Notice); err != nil {
			return nil, err
		}
	}
	if form.Title != "" {
		if err := r.driver.Info(ctx, form.Title); err != nil {
			return nil, err
		}
	}

	values := make(map[string]any)
	if err := r.promptControls(ctx, form.Controls, values); err != nil {
		return nil, err
	}
	return json.Marshal(values)
}

func (r *Renderer) promptControls(ctx context.Context, controls []interpreter.Control, values map[string]any) error {
	for _, control := range controls {
		if err := r.promptControl(ctx, control, values); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) promptControl(ctx context.Context, control interpreter.Control, values map[string]any) error {
	switch control.Type {
	case schema.FieldTypeGroup:
		if err := r.driver.Info(ctx, "-- "+control.Label); err != nil {
			return err
		}
		return r.promptControls(ctx, control.Children, values)
	case schema.FieldTypeRadio, schema.FieldTypeSelect:
		return r.promptSelect(ctx, control, values)
	case schema.FieldTypeCheckbox:
		return r.promptMultiSelect(ctx, control, values)
	case schema.FieldTypeNumber:
		return r.promptNumber(ctx, control, values)
	case schema.FieldTypeText, schema.FieldTypeDate:
		return r.promptText(ctx, control, values)
	default:
		return fmt.Errorf("tui: field %q: unsupported type %q", control.ID, control.Type)
	}
}

func (r *Renderer) promptText(ctx context.Context, control interpreter.Control, values map[string]any) error {
	cfg := InputConfig{
		Message: control.Label,
		Default: stringValue(control.Value),
	}
	if control.Required {
		cfg.Validator = func(s string) error {
			if s == "" {
				return fmt.Errorf("%q should be filled.", control.Label)
			}
			return nil
		}
	}
	answer, err := r.driver.Input(ctx, cfg)
	if err != nil {
		return err
	}
	values[control.ID] = answer
	return nil
}

func (r *Renderer) promptNumber(ctx context.Context, control interpreter.Control, values map[string]any) error {
	answer, err := r.driver.Input(ctx, InputConfig{
		Message: control.Label,
		Default: stringValue(control.Value),
		Validator: func(s string) error {
			if s == "" {
				return nil
			}
			if _, err := strconv.ParseFloat(s, 64); err != nil {
				return fmt.Errorf("%q must be a number.", control.Label)
			}
			return nil
		},
	})
	if err != nil {
		return err
	}
	if answer == "" {
		values[control.ID] = float64(0)
		return nil
	}
	parsed, err := strconv.ParseFloat(answer, 64)
	if err != nil {
		return fmt.Errorf("tui: field %q: %w", control.ID, err)
	}
	values[control.ID] = parsed
	return nil
}

func (r *Renderer) promptSelect(ctx context.Context, control interpreter.Control, values map[string]any) error {
	if len(control.Options) == 0 {
		return r.driver.Info(ctx, fmt.Sprintf("%s: no options available yet", control.Label))
	}
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      control.Label,
		Options:      control.Options,
		DefaultIndex: indexOf(control.Options, stringValue(control.Value)),
		PageSize:     r.pageSize,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(control.Options) {
		return fmt.Errorf("tui: field %q: choice %d out of range", control.ID, idx)
	}
	values[control.ID] = control.Options[idx]
	return nil
}

func (r *Renderer) promptMultiSelect(ctx context.Context, control interpreter.Control, values map[string]any) error {
	var defaults []int
	if selected, ok := control.Value.([]string); ok {
		defaults = indicesOf(control.Options, selected)
	}
	indices, err := r.driver.MultiSelect(ctx, SelectConfig{
		Message:  control.Label,
		Options:  control.Options,
		Defaults: defaults,
		PageSize: r.pageSize,
	})
	if err != nil {
		return err
	}
	answers := make([]string, 0, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(control.Options) {
			answers = append(answers, control.Options[idx])
		}
	}
	values[control.ID] = answers
	return nil
}

func stringValue(value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}
