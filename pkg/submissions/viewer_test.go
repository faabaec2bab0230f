package submissions_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formrun/pkg/submissions"
)

func sampleResults() submissions.ResultSet {
	return submissions.ResultSet{
		Columns: []string{"Full Name", "Insurance Type", "City"},
		Data: []submissions.Record{
			{"id": "1", "Full Name": "Ada Lovelace", "Insurance Type": "Health", "City": "London"},
			{"id": "2", "Full Name": "Grace Hopper", "Insurance Type": "Car", "City": "New York"},
			{"id": "3", "Full Name": "Alan Turing", "Insurance Type": "Home", "City": "Wilmslow"},
			{"id": "4", "Full Name": "Katherine Johnson", "Insurance Type": "Health", "City": "Hampton"},
			{"id": "5", "Full Name": "Annie Easley", "Insurance Type": "Car", "City": "Cleveland"},
		},
	}
}

func loadedViewer(t *testing.T, options ...submissions.Option) *submissions.Viewer {
	t.Helper()
	loader := submissions.LoaderFunc(func(context.Context) (submissions.ResultSet, error) {
		return sampleResults(), nil
	})
	viewer := submissions.NewViewer(loader, options...)
	if err := viewer.Load(context.Background()); err != nil {
		t.Fatalf("load submissions: %v", err)
	}
	return viewer
}

func names(rows []submissions.Record) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, row["Full Name"].(string))
	}
	return out
}

func TestLoadSelectsAllColumnsAndStripsID(t *testing.T) {
	t.Parallel()

	viewer := loadedViewer(t)

	want := []string{"Full Name", "Insurance Type", "City"}
	if diff := cmp.Diff(want, viewer.Columns()); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}
	for _, row := range viewer.Rows() {
		if _, ok := row["id"]; ok {
			t.Fatalf("row still carries id: %v", row)
		}
	}
}

func TestLoadError(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("backend down")
	loader := submissions.LoaderFunc(func(context.Context) (submissions.ResultSet, error) {
		return submissions.ResultSet{}, wantErr
	})
	viewer := submissions.NewViewer(loader)
	if err := viewer.Load(context.Background()); !errors.Is(err, wantErr) {
		t.Fatalf("expected load error, got %v", err)
	}
	if got := viewer.TotalRows(); got != 0 {
		t.Fatalf("expected empty viewer after failed load, got %d rows", got)
	}
}

func TestToggleColumnPreservesSourceOrder(t *testing.T) {
	t.Parallel()

	viewer := loadedViewer(t)

	viewer.ToggleColumn("Full Name")
	if diff := cmp.Diff([]string{"Insurance Type", "City"}, viewer.Columns()); diff != "" {
		t.Fatalf("columns after toggle off (-want +got):\n%s", diff)
	}

	viewer.ToggleColumn("Full Name")
	if diff := cmp.Diff([]string{"Full Name", "Insurance Type", "City"}, viewer.Columns()); diff != "" {
		t.Fatalf("columns after toggle back on (-want +got):\n%s", diff)
	}

	viewer.ToggleColumn("No Such Column")
	if got := len(viewer.Columns()); got != 3 {
		t.Fatalf("unknown column toggle changed selection: %d columns", got)
	}
}

func TestFilterMatchesCaseInsensitiveSubstring(t *testing.T) {
	t.Parallel()

	viewer := loadedViewer(t)

	viewer.SetFilter("aDa")
	if diff := cmp.Diff([]string{"Ada Lovelace"}, names(viewer.Rows())); diff != "" {
		t.Fatalf("filtered rows (-want +got):\n%s", diff)
	}

	viewer.SetFilter("an")
	want := []string{"Alan Turing", "Annie Easley"}
	if diff := cmp.Diff(want, names(viewer.Rows())); diff != "" {
		t.Fatalf("substring match (-want +got):\n%s", diff)
	}
}

func TestFilterBypassesPagination(t *testing.T) {
	t.Parallel()

	viewer := loadedViewer(t)

	viewer.SetFilter("a")
	if got := viewer.PageCount(); got != 1 {
		t.Fatalf("filtered view should be a single page, got %d", got)
	}
	if got := len(viewer.Rows()); got != viewer.TotalRows() {
		t.Fatalf("filtered view paginated: %d of %d rows", got, viewer.TotalRows())
	}

	viewer.SetFilter("")
	if got := len(viewer.Rows()); got != submissions.DefaultPageSize {
		t.Fatalf("expected page size %d after clearing filter, got %d", submissions.DefaultPageSize, got)
	}
}

func TestPaginationClampsAtBounds(t *testing.T) {
	t.Parallel()

	viewer := loadedViewer(t)

	if got := viewer.PageCount(); got != 3 {
		t.Fatalf("expected 3 pages of 2, got %d", got)
	}

	viewer.PrevPage()
	if got := viewer.Page(); got != 1 {
		t.Fatalf("prev on first page moved to %d", got)
	}

	viewer.NextPage()
	if diff := cmp.Diff([]string{"Alan Turing", "Katherine Johnson"}, names(viewer.Rows())); diff != "" {
		t.Fatalf("page 2 rows (-want +got):\n%s", diff)
	}

	viewer.NextPage()
	if got := len(viewer.Rows()); got != 1 {
		t.Fatalf("expected 1 row on the last page, got %d", got)
	}

	viewer.NextPage()
	if got := viewer.Page(); got != 3 {
		t.Fatalf("next on last page moved to %d", got)
	}

	viewer.SetPage(99)
	if got := viewer.Page(); got != 3 {
		t.Fatalf("out-of-range jump moved to %d", got)
	}
	viewer.SetPage(1)
	if diff := cmp.Diff([]string{"Ada Lovelace", "Grace Hopper"}, names(viewer.Rows())); diff != "" {
		t.Fatalf("page 1 rows (-want +got):\n%s", diff)
	}
}

func TestFilterColumnConfigurable(t *testing.T) {
	t.Parallel()

	viewer := loadedViewer(t, submissions.WithFilterColumn("City"))

	viewer.SetFilter("new york")
	if diff := cmp.Diff([]string{"Grace Hopper"}, names(viewer.Rows())); diff != "" {
		t.Fatalf("city filter (-want +got):\n%s", diff)
	}
}
