package formstate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSetValueNotifiesAfterWrite(t *testing.T) {
	t.Parallel()

	state := New()
	state.Register("city")

	var observed string
	state.Subscribe(func(id string) {
		if id == "city" {
			observed = state.WatchString("city")
		}
	})

	state.SetValue("city", "Austin")
	if observed != "Austin" {
		t.Fatalf("subscriber saw %q, want the written value", observed)
	}
}

func TestToggleMultiValue(t *testing.T) {
	t.Parallel()

	state := New()
	state.RegisterMulti("coverage")

	state.Toggle("coverage", "fire")
	state.Toggle("coverage", "flood")
	state.Toggle("coverage", "fire")

	got, _ := state.Watch("coverage").([]string)
	if diff := cmp.Diff([]string{"flood"}, got); diff != "" {
		t.Fatalf("unexpected set membership (-want +got):\n%s", diff)
	}
}

func TestSeedSkipsExistingValue(t *testing.T) {
	t.Parallel()

	state := New()
	state.Register("state")

	if !state.Seed("state", "CA") {
		t.Fatalf("expected seed to apply on empty field")
	}
	if state.Seed("state", "NY") {
		t.Fatalf("expected seed to be skipped once a value exists")
	}
	if got := state.WatchString("state"); got != "CA" {
		t.Fatalf("WatchString = %q, want CA", got)
	}
}

func TestResetPreservesSelector(t *testing.T) {
	t.Parallel()

	state := New()
	state.Register("insuranceType")
	state.Register("fullName")
	state.SetValue("insuranceType", "health_insurance")
	state.SetValue("fullName", "Ada")
	state.SetError("fullName", `"Full Name" should be filled.`)

	state.Reset("insuranceType")

	if got := state.WatchString("insuranceType"); got != "health_insurance" {
		t.Fatalf("selector value lost on reset, got %q", got)
	}
	if state.HasValue("fullName") {
		t.Fatalf("expected prior schema values to be discarded")
	}
	if len(state.Errors()) != 0 {
		t.Fatalf("expected validation errors to be discarded")
	}
	if state.Registered("fullName") {
		t.Fatalf("expected prior registrations to be discarded")
	}
}

func TestErrorListSortedByFieldID(t *testing.T) {
	t.Parallel()

	state := New()
	state.SetError("b", "second")
	state.SetError("a", "first")

	if diff := cmp.Diff([]string{"first", "second"}, state.ErrorList()); diff != "" {
		t.Fatalf("unexpected error list (-want +got):\n%s", diff)
	}

	state.SetError("a", "")
	if diff := cmp.Diff([]string{"second"}, state.ErrorList()); diff != "" {
		t.Fatalf("unexpected error list after clear (-want +got):\n%s", diff)
	}
}
