// Package vanilla renders an interpreted form as dependency-free HTML: plain
// inputs, fieldsets for groups, and inline validation messages.
package vanilla

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formrun/pkg/interpreter"
	"github.com/goliatone/go-formrun/pkg/render"
	"github.com/goliatone/go-formrun/pkg/schema"
)

type Option func(*config)

type config struct {
	policy      *bluemonday.Policy
	classPrefix string
}

// WithPolicy swaps the sanitizer applied to schema-provided text. The default
// strict policy strips all markup from titles and labels.
func WithPolicy(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// WithClassPrefix overrides the CSS class prefix used on generated elements.
func WithClassPrefix(prefix string) Option {
	return func(cfg *config) {
		if prefix != "" {
			cfg.classPrefix = prefix
		}
	}
}

// Renderer emits plain HTML for an interpreted control tree.
type Renderer struct {
	policy      *bluemonday.Policy
	classPrefix string
}

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		policy:      bluemonday.StrictPolicy(),
		classPrefix: "formrun",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return &Renderer{policy: cfg.policy, classPrefix: cfg.classPrefix}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(_ context.Context, form render.Form, options render.Options) ([]byte, error) {
	var b strings.Builder

	action := ""
	if options.Action != "" {
		action = fmt.Sprintf(` action=%q method="post"`, html.EscapeString(options.Action))
	}
	fmt.Fprintf(&b, "<form class=%q%s>\n", r.class("form"), action)
	if options.Notice != "" {
		fmt.Fprintf(&b, "  <p class=%q>%s</p>\n", r.class("notice"), html.EscapeString(options.Notice))
	}
	if form.Title != "" {
		fmt.Fprintf(&b, "  <h2 class=%q>%s</h2>\n", r.class("title"), r.text(form.Title))
	}

	for _, control := range form.Controls {
		if err := r.renderControl(&b, control, 1); err != nil {
			return nil, err
		}
	}

	if options.AggregateErrors {
		r.renderSummary(&b, render.CollectErrors(form.Controls))
	}

	b.WriteString("</form>\n")
	return []byte(b.String()), nil
}

func (r *Renderer) renderControl(b *strings.Builder, control interpreter.Control, depth int) error {
	pad := strings.Repeat("  ", depth)

	if control.Type == schema.FieldTypeGroup {
		fmt.Fprintf(b, "%s<fieldset class=%q id=%q>\n", pad, r.class("group"), html.EscapeString(control.ID))
		fmt.Fprintf(b, "%s  <legend>%s</legend>\n", pad, r.text(control.Label))
		for _, child := range control.Children {
			if err := r.renderControl(b, child, depth+1); err != nil {
				return err
			}
		}
		fmt.Fprintf(b, "%s</fieldset>\n", pad)
		return nil
	}

	fmt.Fprintf(b, "%s<div class=%q>\n", pad, r.class("field"))
	fmt.Fprintf(b, "%s  <label for=%q>%s%s</label>\n", pad, html.EscapeString(control.ID), r.text(control.Label), r.requiredMark(control.Required))

	switch control.Type {
	case schema.FieldTypeRadio:
		r.renderRadio(b, control, pad)
	case schema.FieldTypeCheckbox:
		r.renderCheckbox(b, control, pad)
	case schema.FieldTypeSelect:
		r.renderSelect(b, control, pad)
	case schema.FieldTypeText:
		r.renderInput(b, control, pad, "text")
	case schema.FieldTypeDate:
		r.renderInput(b, control, pad, "date")
	case schema.FieldTypeNumber:
		r.renderInput(b, control, pad, "number")
	default:
		return fmt.Errorf("vanilla renderer: field %q: unsupported type %q", control.ID, control.Type)
	}

	if control.Error != "" {
		fmt.Fprintf(b, "%s  <p class=%q>%s</p>\n", pad, r.class("error"), html.EscapeString(control.Error))
	}
	fmt.Fprintf(b, "%s</div>\n", pad)
	return nil
}

func (r *Renderer) renderInput(b *strings.Builder, control interpreter.Control, pad, kind string) {
	value := ""
	if control.Value != nil {
		value = fmt.Sprintf(" value=%q", html.EscapeString(fmt.Sprint(control.Value)))
	}
	fmt.Fprintf(b, "%s  <input type=%q id=%q name=%q%s%s>\n",
		pad, kind, html.EscapeString(control.ID), html.EscapeString(control.ID), value, requiredAttr(control.Required))
}

func (r *Renderer) renderRadio(b *strings.Builder, control interpreter.Control, pad string) {
	for _, option := range control.Options {
		checked := ""
		if selected, ok := control.Value.(string); ok && selected == option {
			checked = " checked"
		}
		fmt.Fprintf(b, "%s  <label class=%q><input type=\"radio\" name=%q value=%q%s> %s</label>\n",
			pad, r.class("choice"), html.EscapeString(control.ID), html.EscapeString(option), checked, r.text(option))
	}
}

func (r *Renderer) renderCheckbox(b *strings.Builder, control interpreter.Control, pad string) {
	selected := map[string]struct{}{}
	if values, ok := control.Value.([]string); ok {
		for _, value := range values {
			selected[value] = struct{}{}
		}
	}
	for _, option := range control.Options {
		checked := ""
		if _, ok := selected[option]; ok {
			checked = " checked"
		}
		fmt.Fprintf(b, "%s  <label class=%q><input type=\"checkbox\" name=%q value=%q%s> %s</label>\n",
			pad, r.class("choice"), html.EscapeString(control.ID), html.EscapeString(option), checked, r.text(option))
	}
}

func (r *Renderer) renderSelect(b *strings.Builder, control interpreter.Control, pad string) {
	fmt.Fprintf(b, "%s  <select id=%q name=%q%s>\n",
		pad, html.EscapeString(control.ID), html.EscapeString(control.ID), requiredAttr(control.Required))
	for _, option := range control.Options {
		selectedAttr := ""
		if selected, ok := control.Value.(string); ok && selected == option {
			selectedAttr = " selected"
		}
		fmt.Fprintf(b, "%s    <option value=%q%s>%s</option>\n",
			pad, html.EscapeString(option), selectedAttr, r.text(option))
	}
	fmt.Fprintf(b, "%s  </select>\n", pad)
}

func (r *Renderer) renderSummary(b *strings.Builder, errors []render.FieldError) {
	if len(errors) == 0 {
		return
	}
	fmt.Fprintf(b, "  <ul class=%q>\n", r.class("error-summary"))
	for _, fieldError := range errors {
		fmt.Fprintf(b, "    <li data-field=%q>%s</li>\n",
			html.EscapeString(fieldError.FieldID), html.EscapeString(fieldError.Message))
	}
	b.WriteString("  </ul>\n")
}

func (r *Renderer) class(suffix string) string {
	return r.classPrefix + "-" + suffix
}

// text sanitizes schema-provided strings before they reach the markup.
func (r *Renderer) text(s string) string {
	return r.policy.Sanitize(s)
}

func (r *Renderer) requiredMark(required bool) string {
	if !required {
		return ""
	}
	return fmt.Sprintf(` <span class=%q>*</span>`, r.class("required"))
}

func requiredAttr(required bool) string {
	if !required {
		return ""
	}
	return " required"
}
