package tui_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formrun/pkg/interpreter"
	"github.com/goliatone/go-formrun/pkg/render"
	"github.com/goliatone/go-formrun/pkg/renderers/tui"
	"github.com/goliatone/go-formrun/pkg/schema"
)

// fakeDriver replays scripted answers and records the prompts it saw.
type fakeDriver struct {
	inputs   []string
	selects  []int
	multis   [][]int
	messages []string
	err      error
}

func (d *fakeDriver) Input(_ context.Context, cfg tui.InputConfig) (string, error) {
	if d.err != nil {
		return "", d.err
	}
	d.messages = append(d.messages, cfg.Message)
	if len(d.inputs) == 0 {
		return cfg.Default, nil
	}
	answer := d.inputs[0]
	d.inputs = d.inputs[1:]
	if cfg.Validator != nil {
		if err := cfg.Validator(answer); err != nil {
			return "", err
		}
	}
	return answer, nil
}

func (d *fakeDriver) Select(_ context.Context, cfg tui.SelectConfig) (int, error) {
	if d.err != nil {
		return 0, d.err
	}
	d.messages = append(d.messages, cfg.Message)
	idx := d.selects[0]
	d.selects = d.selects[1:]
	return idx, nil
}

func (d *fakeDriver) MultiSelect(_ context.Context, cfg tui.SelectConfig) ([]int, error) {
	if d.err != nil {
		return nil, d.err
	}
	d.messages = append(d.messages, cfg.Message)
	indices := d.multis[0]
	d.multis = d.multis[1:]
	return indices, nil
}

func (d *fakeDriver) Info(_ context.Context, msg string) error {
	d.messages = append(d.messages, msg)
	return nil
}

func TestRenderPromptsInOrderAndSerializes(t *testing.T) {
	t.Parallel()

	driver := &fakeDriver{
		inputs:  []string{"Ada Lovelace", "2"},
		selects: []int{0},
		multis:  [][]int{{1}},
	}
	renderer, err := tui.New(tui.WithDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	form := render.Form{
		Title: "Health Insurance",
		Controls: []interpreter.Control{
			{ID: "fullName", Label: "Full Name", Type: schema.FieldTypeText, Required: true},
			{ID: "smoker", Label: "Do you smoke?", Type: schema.FieldTypeRadio, Options: []string{"Yes", "No"}},
			{ID: "habits", Label: "Habits", Type: schema.FieldTypeGroup, Children: []interpreter.Control{
				{ID: "packsPerDay", Label: "Packs Per Day", Type: schema.FieldTypeNumber},
			}},
			{ID: "coverage", Label: "Coverage", Type: schema.FieldTypeCheckbox, Multiple: true, Options: []string{"Fire", "Theft"}},
		},
	}

	out, err := renderer.Render(context.Background(), form, render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	want := map[string]any{
		"fullName":    "Ada Lovelace",
		"smoker":      "Yes",
		"packsPerDay": float64(2),
		"coverage":    []any{"Theft"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("answers (-want +got):\n%s", diff)
	}

	wantOrder := []string{"Health Insurance", "Full Name", "Do you smoke?", "-- Habits", "Packs Per Day", "Coverage"}
	if diff := cmp.Diff(wantOrder, driver.messages); diff != "" {
		t.Fatalf("prompt order (-want +got):\n%s", diff)
	}
}

func TestRenderRequiredValidatorRejectsEmpty(t *testing.T) {
	t.Parallel()

	driver := &fakeDriver{inputs: []string{""}}
	renderer, err := tui.New(tui.WithDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	form := render.Form{
		Controls: []interpreter.Control{
			{ID: "fullName", Label: "Full Name", Type: schema.FieldTypeText, Required: true},
		},
	}
	if _, err := renderer.Render(context.Background(), form, render.Options{}); err == nil {
		t.Fatal("expected required validation error")
	}
}

func TestRenderAbort(t *testing.T) {
	t.Parallel()

	driver := &fakeDriver{err: tui.ErrAborted}
	renderer, err := tui.New(tui.WithDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	form := render.Form{
		Controls: []interpreter.Control{
			{ID: "fullName", Label: "Full Name", Type: schema.FieldTypeText},
		},
	}
	if _, err := renderer.Render(context.Background(), form, render.Options{}); !errors.Is(err, tui.ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestRenderSelectWithoutOptionsSkips(t *testing.T) {
	t.Parallel()

	driver := &fakeDriver{}
	renderer, err := tui.New(tui.WithDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	form := render.Form{
		Controls: []interpreter.Control{
			{ID: "city", Label: "City", Type: schema.FieldTypeSelect},
		},
	}
	out, err := renderer.Render(context.Background(), form, render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if _, ok := got["city"]; ok {
		t.Fatalf("optionless select produced an answer: %v", got)
	}
}
