package condition

import (
	"errors"
	"testing"
)

func TestEvaluateEquals(t *testing.T) {
	t.Parallel()

	ok, err := Evaluate("x", TagEquals, "x")
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected equal values to match")
	}

	ok, err = Evaluate("x", TagEquals, "y")
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if ok {
		t.Fatalf("expected differing values not to match")
	}
}

func TestEvaluateUnsupportedTag(t *testing.T) {
	t.Parallel()

	_, err := Evaluate("x", Tag("contains"), "x")
	if err == nil {
		t.Fatalf("expected error for unsupported condition")
	}

	var unsupported *UnsupportedConditionError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedConditionError, got %T", err)
	}
	if unsupported.Tag != Tag("contains") {
		t.Fatalf("expected offending tag to be preserved, got %q", unsupported.Tag)
	}
}

func TestEvaluatorFunc(t *testing.T) {
	t.Parallel()

	eval := Default()
	ok, err := eval.Evaluate("CA", TagEquals, "CA")
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected default evaluator to match equal values")
	}
}
