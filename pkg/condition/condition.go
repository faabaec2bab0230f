package condition

import "fmt"

// Tag names a declarative comparison a schema can attach to a visibility
// rule. The tag set is closed; evaluators must fail loudly on anything else
// since an unrecognized tag means the schema itself is malformed.
type Tag string

// TagEquals compares the watched value against the rule's comparison value
// for string equality.
const TagEquals Tag = "equals"

// UnsupportedConditionError reports a condition tag the evaluator does not
// implement. It must never be swallowed: rendering the affected subtree has
// to stop so the schema gets fixed at the source.
type UnsupportedConditionError struct {
	Tag Tag
}

func (e *UnsupportedConditionError) Error() string {
	return fmt.Sprintf("condition: unsupported condition %q", string(e.Tag))
}

// Evaluator decides whether a visibility rule holds for the current value of
// its dependency field. Implementations must be pure and cheap: Evaluate runs
// synchronously on every change of the watched value.
type Evaluator interface {
	Evaluate(dependsOnValue string, tag Tag, comparison string) (bool, error)
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(dependsOnValue string, tag Tag, comparison string) (bool, error)

// Evaluate delegates to the underlying function.
func (fn EvaluatorFunc) Evaluate(dependsOnValue string, tag Tag, comparison string) (bool, error) {
	return fn(dependsOnValue, tag, comparison)
}

// Evaluate applies the built-in tag set.
func Evaluate(dependsOnValue string, tag Tag, comparison string) (bool, error) {
	switch tag {
	case TagEquals:
		return dependsOnValue == comparison, nil
	default:
		return false, &UnsupportedConditionError{Tag: tag}
	}
}

// Default returns the built-in evaluator.
func Default() Evaluator {
	return EvaluatorFunc(Evaluate)
}
