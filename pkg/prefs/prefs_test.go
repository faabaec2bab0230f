package prefs_test

import (
	"errors"
	"path/filepath"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formrun/pkg/interpreter"
	"github.com/goliatone/go-formrun/pkg/prefs"
)

type memoryStore struct {
	stored  prefs.Preferences
	saves   int
	loadErr error
}

func (m *memoryStore) Load() (prefs.Preferences, error) {
	return m.stored, m.loadErr
}

func (m *memoryStore) Save(p prefs.Preferences) error {
	m.stored = p
	m.saves++
	return nil
}

type stubSelector struct {
	selection *theme.Selection
	err       error
	name      string
	variant   string
}

func (s *stubSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.name, s.variant = name, variant
	return s.selection, s.err
}

func TestNewSeedsFromPersistence(t *testing.T) {
	t.Parallel()

	store, err := prefs.New(
		prefs.WithDefaults(prefs.Preferences{Language: "en", Theme: "plain"}),
		prefs.WithPersistence(&memoryStore{stored: prefs.Preferences{Language: "es", Theme: "acme", Variant: "dark"}}),
	)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	got := store.Current()
	if got.Language != "es" || got.Theme != "acme" || got.Variant != "dark" {
		t.Fatalf("current = %+v", got)
	}
}

func TestSetLanguagePersists(t *testing.T) {
	t.Parallel()

	backend := &memoryStore{}
	store, err := prefs.New(prefs.WithPersistence(backend))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if err := store.SetLanguage("de"); err != nil {
		t.Fatalf("set language: %v", err)
	}
	if backend.saves != 1 || backend.stored.Language != "de" {
		t.Fatalf("persisted = %+v after %d saves", backend.stored, backend.saves)
	}
	if err := store.SetLanguage(""); err == nil {
		t.Fatal("expected error for empty language")
	}
}

func TestSelectionUsesConfiguredSelector(t *testing.T) {
	t.Parallel()

	selector := &stubSelector{selection: &theme.Selection{Theme: "acme", Variant: "dark"}}
	store, err := prefs.New(prefs.WithThemeSelector(selector))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.SetTheme("acme", "dark"); err != nil {
		t.Fatalf("set theme: %v", err)
	}

	selection, err := store.Selection()
	if err != nil {
		t.Fatalf("selection: %v", err)
	}
	if selection.Theme != "acme" || selector.name != "acme" || selector.variant != "dark" {
		t.Fatalf("selection = %+v, selector saw (%s, %s)", selection, selector.name, selector.variant)
	}
}

func TestSelectionErrors(t *testing.T) {
	t.Parallel()

	store, err := prefs.New()
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if _, err := store.Selection(); err == nil {
		t.Fatal("expected error without a selector")
	}

	selector := &stubSelector{err: errors.New("unknown theme")}
	store, err = prefs.New(prefs.WithThemeSelector(selector))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if _, err := store.Selection(); err == nil {
		t.Fatal("expected selector error to propagate")
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "prefs.json")
	backend, err := prefs.NewFileStore(path)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}

	loaded, err := backend.Load()
	if err != nil {
		t.Fatalf("load missing file: %v", err)
	}
	if loaded != (prefs.Preferences{}) {
		t.Fatalf("expected zero prefs, got %+v", loaded)
	}

	want := prefs.Preferences{Language: "es", Theme: "acme", Variant: "dark"}
	if err := backend.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err = backend.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded != want {
		t.Fatalf("round trip = %+v", loaded)
	}
}

func TestTranslatorLanguages(t *testing.T) {
	t.Parallel()

	var _ interpreter.Messages = prefs.NewTranslator("en")

	english := prefs.NewTranslator("en")
	if got := english.Required("Full Name"); got != `"Full Name" should be filled.` {
		t.Fatalf("english required = %q", got)
	}

	spanish := prefs.NewTranslator("es")
	if got := spanish.Required("Full Name"); got != `"Full Name" debe ser completado.` {
		t.Fatalf("spanish required = %q", got)
	}
	if got := spanish.Min("Age", 18); got != `"Age" el minimo es 18.` {
		t.Fatalf("spanish min = %q", got)
	}

	fallback := prefs.NewTranslator("xx")
	if got := fallback.Required("Full Name"); got != english.Required("Full Name") {
		t.Fatalf("fallback required = %q", got)
	}
}
