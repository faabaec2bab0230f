// Package formrun wires the form runtime together: schema loading, a live
// session over the interpreter, and renderer registration. It re-exports the
// handful of types most callers need so simple integrations can stick to a
// single import.
package formrun

import (
	"context"
	"fmt"

	internalloader "github.com/goliatone/go-formrun/internal/loader"
	"github.com/goliatone/go-formrun/pkg/client"
	"github.com/goliatone/go-formrun/pkg/interpreter"
	"github.com/goliatone/go-formrun/pkg/render"
	"github.com/goliatone/go-formrun/pkg/renderers/tui"
	"github.com/goliatone/go-formrun/pkg/renderers/vanilla"
	"github.com/goliatone/go-formrun/pkg/schema"
	"github.com/goliatone/go-formrun/pkg/session"
)

// FormSchema is one named form variant served by the backend.
type FormSchema = schema.FormSchema

// Field is one declared control in a form schema.
type Field = schema.Field

// Control is an interpreted, renderable control.
type Control = interpreter.Control

// Receipt is the backend's answer to a submission.
type Receipt = client.Receipt

// Options carries per-render settings.
type Options = render.Options

// NewLoader constructs a schema loader using the internal implementation
// while keeping the concrete type hidden from consumers.
func NewLoader(options schema.LoaderOptions) schema.Loader {
	return internalloader.New(options)
}

// NewClient constructs the HTTP form service client.
func NewClient(baseURL string, options ...client.Option) *client.Client {
	return client.New(baseURL, options...)
}

// NewSession builds a session controller over a schema source and submitter.
// A *client.Client satisfies both.
func NewSession(source session.SchemaSource, submitter session.Submitter, options ...session.Option) *session.Controller {
	return session.New(source, submitter, options...)
}

// DefaultRegistry returns a renderer registry with the built-in backends
// registered: vanilla HTML and the interactive terminal renderer.
func DefaultRegistry() (*render.Registry, error) {
	registry := render.NewRegistry()

	html, err := vanilla.New()
	if err != nil {
		return nil, fmt.Errorf("formrun: build vanilla renderer: %w", err)
	}
	if err := registry.Register(html); err != nil {
		return nil, err
	}

	terminal, err := tui.New()
	if err != nil {
		return nil, fmt.Errorf("formrun: build tui renderer: %w", err)
	}
	if err := registry.Register(terminal); err != nil {
		return nil, err
	}
	return registry, nil
}

// RenderSession interprets the controller's active schema and renders it with
// the named renderer. It is the simplest entry point for callers that just
// want output bytes.
func RenderSession(ctx context.Context, controller *session.Controller, registry *render.Registry, rendererName string, options render.Options) ([]byte, error) {
	renderer, err := registry.Get(rendererName)
	if err != nil {
		return nil, err
	}
	controls, err := controller.Controls(ctx)
	if err != nil {
		return nil, err
	}
	form := render.Form{Controls: controls}
	if selected := controller.Selected(); selected != nil {
		form.Title = selected.Title
	}
	return renderer.Render(ctx, form, options)
}
