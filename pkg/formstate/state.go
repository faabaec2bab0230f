package formstate

import (
	"fmt"
	"sort"
	"strconv"
	"sync"
)

// Subscriber observes value changes. Subscribers run synchronously, in
// subscription order, after the written value is visible to readers.
type Subscriber func(fieldID string)

// State is the live form state for one session: a flat mapping from field id
// to current value plus a mapping from field id to validation error. Values
// are written through SetValue (or Toggle for multi-value fields) so that
// dependent re-evaluation always observes a fully written value.
type State struct {
	mu          sync.RWMutex
	values      map[string]any
	errors      map[string]string
	registered  map[string]struct{}
	multi       map[string]struct{}
	subscribers []Subscriber
}

// New returns an empty state.
func New() *State {
	return &State{
		values:     make(map[string]any),
		errors:     make(map[string]string),
		registered: make(map[string]struct{}),
		multi:      make(map[string]struct{}),
	}
}

// Register declares a single-value field id. Registration is idempotent.
func (s *State) Register(id string) {
	if s == nil || id == "" {
		return
	}
	s.mu.Lock()
	s.registered[id] = struct{}{}
	s.mu.Unlock()
}

// RegisterMulti declares a multi-value field id (checkbox groups): several
// options toggle membership under the same id.
func (s *State) RegisterMulti(id string) {
	if s == nil || id == "" {
		return
	}
	s.mu.Lock()
	s.registered[id] = struct{}{}
	s.multi[id] = struct{}{}
	s.mu.Unlock()
}

// Unregister removes a field id along with its value and error. Used when a
// visibility condition hides a previously registered field.
func (s *State) Unregister(id string) {
	if s == nil || id == "" {
		return
	}
	s.mu.Lock()
	delete(s.registered, id)
	delete(s.multi, id)
	delete(s.errors, id)
	s.mu.Unlock()
}

// Registered reports whether the id is currently registered.
func (s *State) Registered(id string) bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.registered[id]
	return ok
}

// Watch returns the current value for a field id.
func (s *State) Watch(id string) any {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[id]
}

// WatchString returns the current value coerced to a string. Missing values
// and empty multi-value sets coerce to "".
func (s *State) WatchString(id string) string {
	return coerceString(s.Watch(id))
}

// HasValue reports whether the field currently holds a non-empty value.
func (s *State) HasValue(id string) bool {
	value := s.Watch(id)
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case []string:
		return len(v) > 0
	default:
		return true
	}
}

// SetValue writes a value and then notifies subscribers synchronously. The
// write completes before any subscriber runs, so validators and dependent
// refetch triggers never observe a torn intermediate state.
func (s *State) SetValue(id string, value any) {
	if s == nil || id == "" {
		return
	}
	s.mu.Lock()
	s.values[id] = value
	subs := append([]Subscriber(nil), s.subscribers...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub(id)
	}
}

// Seed writes a mount-time default without notifying subscribers and without
// clobbering an existing value. Interpreters use it while walking a schema so
// default seeding cannot re-trigger the walk. It reports whether the write
// happened.
func (s *State) Seed(id string, value any) bool {
	if s == nil || id == "" {
		return false
	}
	if s.HasValue(id) {
		return false
	}
	s.mu.Lock()
	s.values[id] = value
	s.mu.Unlock()
	return true
}

// Toggle flips membership of option in a multi-value field's set, preserving
// first-toggled order, and notifies subscribers.
func (s *State) Toggle(id, option string) {
	if s == nil || id == "" {
		return
	}
	s.mu.Lock()
	current, _ := s.values[id].([]string)
	next := make([]string, 0, len(current)+1)
	found := false
	for _, entry := range current {
		if entry == option {
			found = true
			continue
		}
		next = append(next, entry)
	}
	if !found {
		next = append(next, option)
	}
	s.values[id] = next
	subs := append([]Subscriber(nil), s.subscribers...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub(id)
	}
}

// Subscribe adds a change observer and returns a removal func.
func (s *State) Subscribe(fn Subscriber) func() {
	if s == nil || fn == nil {
		return func() {}
	}
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	index := len(s.subscribers) - 1
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		if index < len(s.subscribers) {
			s.subscribers[index] = func(string) {}
		}
		s.mu.Unlock()
	}
}

// SetError attaches a validation error message to a field id. An empty
// message clears the entry.
func (s *State) SetError(id, message string) {
	if s == nil || id == "" {
		return
	}
	s.mu.Lock()
	if message == "" {
		delete(s.errors, id)
	} else {
		s.errors[id] = message
	}
	s.mu.Unlock()
}

// ErrorFor returns the validation error for a field id, if any.
func (s *State) ErrorFor(id string) string {
	if s == nil {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errors[id]
}

// Errors returns a copy of the error map keyed by field id.
func (s *State) Errors() map[string]string {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.errors) == 0 {
		return nil
	}
	out := make(map[string]string, len(s.errors))
	for id, msg := range s.errors {
		out[id] = msg
	}
	return out
}

// ErrorList returns the current error messages sorted by field id, for
// aggregated display under the form.
func (s *State) ErrorList() []string {
	errs := s.Errors()
	if len(errs) == 0 {
		return nil
	}
	ids := make([]string, 0, len(errs))
	for id := range errs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, errs[id])
	}
	return out
}

// Values returns a copy of the current value map, including values for fields
// that are no longer registered.
func (s *State) Values() map[string]any {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.values))
	for id, value := range s.values {
		out[id] = value
	}
	return out
}

// Reset clears values, errors, and registrations, preserving only the values
// of the listed field ids. Used when the selected schema changes: everything
// belonging to the previous schema is discarded, the selector survives.
func (s *State) Reset(preserve ...string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	kept := make(map[string]any, len(preserve))
	for _, id := range preserve {
		if value, ok := s.values[id]; ok {
			kept[id] = value
		}
	}
	s.values = kept
	s.errors = make(map[string]string)
	s.registered = make(map[string]struct{})
	s.multi = make(map[string]struct{})
	for _, id := range preserve {
		s.registered[id] = struct{}{}
	}
	s.mu.Unlock()
}

func coerceString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case []string:
		if len(v) == 0 {
			return ""
		}
		return v[0]
	default:
		return fmt.Sprint(value)
	}
}
