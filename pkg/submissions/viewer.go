package submissions

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

const (
	// DefaultPageSize matches the results table's fixed page size.
	DefaultPageSize = 2

	// DefaultFilterColumn is the designated free-text filter field.
	DefaultFilterColumn = "Full Name"

	idKey = "id"
)

// Option customises a Viewer.
type Option func(*Viewer)

// WithPageSize overrides the fixed page size used while no filter is active.
func WithPageSize(size int) Option {
	return func(v *Viewer) {
		if size > 0 {
			v.pageSize = size
		}
	}
}

// WithFilterColumn names the column the free-text filter matches against.
func WithFilterColumn(column string) Option {
	return func(v *Viewer) {
		if strings.TrimSpace(column) != "" {
			v.filterColumn = column
		}
	}
}

// Viewer is a client-side view over the fetched submissions: column
// selection, one-field free-text filtering, and 1-based pagination. The
// fetched result set is never mutated; every read derives a fresh view.
type Viewer struct {
	mu           sync.Mutex
	loader       Loader
	pageSize     int
	filterColumn string

	source   ResultSet
	selected map[string]struct{}
	filter   string
	page     int
}

// NewViewer constructs a Viewer over the given loader.
func NewViewer(loader Loader, options ...Option) *Viewer {
	v := &Viewer{
		loader:       loader,
		pageSize:     DefaultPageSize,
		filterColumn: DefaultFilterColumn,
		selected:     make(map[string]struct{}),
		page:         1,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(v)
	}
	return v
}

// Load fetches the result set. Every (re)load selects all columns and rewinds
// to the first page; a fetch failure leaves the viewer empty rather than
// partially populated.
func (v *Viewer) Load(ctx context.Context) error {
	if v.loader == nil {
		return fmt.Errorf("submissions: loader is required")
	}
	results, err := v.loader.Submissions(ctx)
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.source = results
	v.selected = make(map[string]struct{}, len(results.Columns))
	for _, column := range results.Columns {
		v.selected[column] = struct{}{}
	}
	v.page = 1
	v.mu.Unlock()
	return nil
}

// AllColumns returns the declared column order of the source.
func (v *Viewer) AllColumns() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.source.Columns...)
}

// Columns returns the currently selected columns in their original source
// order. Toggling a column off and back on restores its position.
func (v *Viewer) Columns() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]string, 0, len(v.selected))
	for _, column := range v.source.Columns {
		if _, ok := v.selected[column]; ok {
			out = append(out, column)
		}
	}
	return out
}

// ToggleColumn flips a column in or out of the selected set. Unknown names
// are ignored.
func (v *Viewer) ToggleColumn(name string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.knownColumn(name) {
		return
	}
	if _, ok := v.selected[name]; ok {
		delete(v.selected, name)
		return
	}
	v.selected[name] = struct{}{}
}

// ColumnSelected reports whether the column is currently rendered.
func (v *Viewer) ColumnSelected(name string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.selected[name]
	return ok
}

// SetFilter replaces the free-text filter. A non-empty filter collapses
// pagination: the whole match set renders as one page.
func (v *Viewer) SetFilter(text string) {
	v.mu.Lock()
	v.filter = text
	v.mu.Unlock()
}

// Filter returns the current filter text.
func (v *Viewer) Filter() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filter
}

// Page returns the current 1-based page index, clamped to the valid range.
func (v *Viewer) Page() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.clampedPage()
}

// PageCount returns the number of pages for the current filter state, never
// less than one.
func (v *Viewer) PageCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pageCount()
}

// NextPage advances one page; navigating past the last page is a no-op.
func (v *Viewer) NextPage() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if page := v.clampedPage(); page < v.pageCount() {
		v.page = page + 1
	}
}

// PrevPage rewinds one page; navigating below page 1 is a no-op.
func (v *Viewer) PrevPage() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if page := v.clampedPage(); page > 1 {
		v.page = page - 1
	}
}

// SetPage jumps to a 1-based page index; out-of-range targets are a no-op.
func (v *Viewer) SetPage(page int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if page < 1 || page > v.pageCount() {
		return
	}
	v.page = page
}

// TotalRows returns the size of the filtered set.
func (v *Viewer) TotalRows() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.filtered())
}

// Rows returns the current page of the filtered set with the internal id
// stripped. The source records are never modified.
func (v *Viewer) Rows() []Record {
	v.mu.Lock()
	defer v.mu.Unlock()

	filtered := v.filtered()
	if v.filter == "" {
		page := v.clampedPage()
		start := (page - 1) * v.pageSize
		if start > len(filtered) {
			start = len(filtered)
		}
		end := start + v.pageSize
		if end > len(filtered) {
			end = len(filtered)
		}
		filtered = filtered[start:end]
	}

	out := make([]Record, 0, len(filtered))
	for _, record := range filtered {
		row := make(Record, len(record))
		for key, value := range record {
			if key == idKey {
				continue
			}
			row[key] = value
		}
		out = append(out, row)
	}
	return out
}

func (v *Viewer) filtered() []Record {
	if v.filter == "" {
		return v.source.Data
	}
	needle := strings.ToLower(v.filter)
	var out []Record
	for _, record := range v.source.Data {
		haystack := strings.ToLower(recordString(record, v.filterColumn))
		if strings.Contains(haystack, needle) {
			out = append(out, record)
		}
	}
	return out
}

func (v *Viewer) pageCount() int {
	if v.filter != "" {
		return 1
	}
	total := len(v.source.Data)
	if total == 0 {
		return 1
	}
	return (total + v.pageSize - 1) / v.pageSize
}

func (v *Viewer) clampedPage() int {
	page := v.page
	if page < 1 {
		return 1
	}
	if last := v.pageCount(); page > last {
		return last
	}
	return page
}

func (v *Viewer) knownColumn(name string) bool {
	for _, column := range v.source.Columns {
		if column == name {
			return true
		}
	}
	return false
}

func recordString(record Record, key string) string {
	value, ok := record[key]
	if !ok || value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}
