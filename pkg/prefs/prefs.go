// Package prefs keeps the user-facing presentation preferences: interface
// language and the active theme. Values survive restarts through a pluggable
// persistence layer and feed the theme selector and the validation message
// catalog.
package prefs

import (
	"fmt"
	"sync"

	theme "github.com/goliatone/go-theme"
)

// Preferences is the persisted preference document.
type Preferences struct {
	Language string `json:"language"`
	Theme    string `json:"theme"`
	Variant  string `json:"variant"`
}

// Persistence loads and saves the preference document. Implementations that
// have nothing stored yet should return a zero Preferences and no error.
type Persistence interface {
	Load() (Preferences, error)
	Save(Preferences) error
}

// Option customises a Store.
type Option func(*Store)

// WithDefaults sets the preferences used when nothing is persisted yet.
func WithDefaults(defaults Preferences) Option {
	return func(s *Store) {
		s.defaults = defaults
	}
}

// WithPersistence plugs in a storage backend. Without one, preferences live
// only for the process lifetime.
func WithPersistence(persistence Persistence) Option {
	return func(s *Store) {
		s.persistence = persistence
	}
}

// WithThemeSelector wires a go-theme selector so Selection can resolve the
// active theme into renderable configuration.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(s *Store) {
		s.selector = selector
	}
}

// Store holds the current preferences and writes changes through to the
// persistence backend.
type Store struct {
	mu          sync.RWMutex
	current     Preferences
	defaults    Preferences
	persistence Persistence
	selector    theme.ThemeSelector
}

// New builds a Store, seeding it from the persistence backend when one is
// configured and holds stored values.
func New(options ...Option) (*Store, error) {
	s := &Store{
		defaults: Preferences{Language: "en"},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}

	s.current = s.defaults
	if s.persistence != nil {
		stored, err := s.persistence.Load()
		if err != nil {
			return nil, fmt.Errorf("prefs: load: %w", err)
		}
		if stored.Language != "" {
			s.current.Language = stored.Language
		}
		if stored.Theme != "" {
			s.current.Theme = stored.Theme
			s.current.Variant = stored.Variant
		}
	}
	return s, nil
}

// Current returns a snapshot of the active preferences.
func (s *Store) Current() Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Language returns the active interface language.
func (s *Store) Language() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Language
}

// SetLanguage switches the interface language and persists the change.
func (s *Store) SetLanguage(language string) error {
	if language == "" {
		return fmt.Errorf("prefs: language is required")
	}
	s.mu.Lock()
	s.current.Language = language
	snapshot := s.current
	s.mu.Unlock()
	return s.save(snapshot)
}

// SetTheme switches the active theme and variant and persists the change.
func (s *Store) SetTheme(name, variant string) error {
	if name == "" {
		return fmt.Errorf("prefs: theme name is required")
	}
	s.mu.Lock()
	s.current.Theme = name
	s.current.Variant = variant
	snapshot := s.current
	s.mu.Unlock()
	return s.save(snapshot)
}

// Selection resolves the active theme through the configured selector.
func (s *Store) Selection() (*theme.Selection, error) {
	s.mu.RLock()
	selector := s.selector
	current := s.current
	s.mu.RUnlock()

	if selector == nil {
		return nil, fmt.Errorf("prefs: no theme selector configured")
	}
	selection, err := selector.Select(current.Theme, current.Variant)
	if err != nil {
		return nil, fmt.Errorf("prefs: select theme %q: %w", current.Theme, err)
	}
	return selection, nil
}

// Messages returns the validation message catalog for the active language.
func (s *Store) Messages() *Translator {
	return NewTranslator(s.Language())
}

func (s *Store) save(snapshot Preferences) error {
	if s.persistence == nil {
		return nil
	}
	if err := s.persistence.Save(snapshot); err != nil {
		return fmt.Errorf("prefs: save: %w", err)
	}
	return nil
}
