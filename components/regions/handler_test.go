package regions

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, key string) []string {
	t.Helper()
	var body map[string][]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	values, ok := body[key]
	if !ok {
		t.Fatalf("response missing key %q: %v", key, body)
	}
	return values
}

func TestHandlerServesOptionsForDependencyValue(t *testing.T) {
	t.Parallel()

	handler := Handler(WithTable(map[string][]string{
		"USA":    {"California", "New York"},
		"Canada": {"Ontario"},
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/insurance/states?country=USA", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	want := []string{"California", "New York"}
	if diff := cmp.Diff(want, decodeResponse(t, rec, "states")); diff != "" {
		t.Fatalf("options (-want +got):\n%s", diff)
	}
}

func TestHandlerMatchesKeyCaseInsensitively(t *testing.T) {
	t.Parallel()

	handler := Handler(WithTable(map[string][]string{"USA": {"California"}}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/insurance/states?country=usa", nil))

	if diff := cmp.Diff([]string{"California"}, decodeResponse(t, rec, "states")); diff != "" {
		t.Fatalf("options (-want +got):\n%s", diff)
	}
}

func TestHandlerUnknownValueYieldsEmptyList(t *testing.T) {
	t.Parallel()

	handler := Handler(WithTable(map[string][]string{"USA": {"California"}}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/insurance/states?country=Atlantis", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decodeResponse(t, rec, "states"); len(got) != 0 {
		t.Fatalf("expected empty list, got %v", got)
	}
}

func TestHandlerRequiresQueryParam(t *testing.T) {
	t.Parallel()

	handler := Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/insurance/states", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHandlerRejectsNonGet(t *testing.T) {
	t.Parallel()

	handler := Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/insurance/states?country=USA", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHandlerGuard(t *testing.T) {
	t.Parallel()

	handler := Handler(WithGuard(func(*http.Request) error {
		return StatusError{Code: http.StatusUnauthorized}
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/insurance/states?country=USA", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHandlerLimitClamp(t *testing.T) {
	t.Parallel()

	handler := Handler(
		WithTable(map[string][]string{"USA": {"A", "B", "C", "D"}}),
		WithMaxLimit(3),
	)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/insurance/states?country=USA&limit=2", nil))
	if got := decodeResponse(t, rec, "states"); len(got) != 2 {
		t.Fatalf("limit=2 returned %v", got)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/insurance/states?country=USA&limit=99", nil))
	if got := decodeResponse(t, rec, "states"); len(got) != 3 {
		t.Fatalf("limit above max returned %v", got)
	}
}

func TestCustomResponseKey(t *testing.T) {
	t.Parallel()

	handler := Handler(
		WithTable(map[string][]string{"USA": {"California"}}),
		WithResponseKey("data"),
	)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/insurance/states?country=USA", nil))
	if diff := cmp.Diff([]string{"California"}, decodeResponse(t, rec, "data")); diff != "" {
		t.Fatalf("options (-want +got):\n%s", diff)
	}
}
