package submissions

import "context"

// Record is one flat submission row. Beyond the internal "id" key it carries
// one value per declared column.
type Record map[string]any

// ResultSet is the remote submissions payload: a declared column order plus
// the rows themselves. The fetched set is read-only; viewers derive filtered
// and sliced views without mutating it.
type ResultSet struct {
	Columns []string `json:"columns"`
	Data    []Record `json:"data"`
}

// Loader fetches the submissions result set. pkg/client provides the
// HTTP-backed implementation.
type Loader interface {
	Submissions(ctx context.Context) (ResultSet, error)
}

// LoaderFunc adapts a function into a Loader.
type LoaderFunc func(ctx context.Context) (ResultSet, error)

// Submissions delegates to the underlying function.
func (fn LoaderFunc) Submissions(ctx context.Context) (ResultSet, error) {
	return fn(ctx)
}
