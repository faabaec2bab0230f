package dynamic

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formrun/pkg/schema"
)

func statesDescriptor() *schema.DynamicOptions {
	return &schema.DynamicOptions{
		DependsOn: "country",
		Endpoint:  "/api/insurance/states",
		Method:    "GET",
	}
}

func TestResolveDisabledWithoutDependencyValue(t *testing.T) {
	t.Parallel()

	calls := 0
	resolver := NewResolver(SourceFunc(func(context.Context, Request) ([]string, error) {
		calls++
		return []string{"CA"}, nil
	}))

	options, err := resolver.Resolve(context.Background(), statesDescriptor(), "")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if options != nil {
		t.Fatalf("expected no options while dependency is empty, got %v", options)
	}
	if calls != 0 {
		t.Fatalf("expected no fetch while dependency is empty, got %d calls", calls)
	}

	options, err = resolver.Resolve(context.Background(), nil, "USA")
	if err != nil || options != nil {
		t.Fatalf("expected nil result without a descriptor, got %v, %v", options, err)
	}
}

func TestResolveCachesByDependencyValue(t *testing.T) {
	t.Parallel()

	calls := 0
	resolver := NewResolver(SourceFunc(func(_ context.Context, req Request) ([]string, error) {
		calls++
		if req.Value == "USA" {
			return []string{"CA", "NY"}, nil
		}
		return []string{"ON", "BC"}, nil
	}))

	ctx := context.Background()
	dyn := statesDescriptor()

	first, err := resolver.Resolve(ctx, dyn, "USA")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if _, err := resolver.Resolve(ctx, dyn, "Canada"); err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	// Switching back must reuse the cached list, not refetch.
	again, err := resolver.Resolve(ctx, dyn, "USA")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if diff := cmp.Diff(first, again); diff != "" {
		t.Fatalf("cached result differs (-want +got):\n%s", diff)
	}
	if calls != 2 {
		t.Fatalf("expected 2 fetches, got %d", calls)
	}
}

func TestResolveFetchFailure(t *testing.T) {
	t.Parallel()

	fetchErr := errors.New("boom")
	resolver := NewResolver(SourceFunc(func(context.Context, Request) ([]string, error) {
		return nil, fetchErr
	}))

	options, err := resolver.Resolve(context.Background(), statesDescriptor(), "USA")
	if !errors.Is(err, fetchErr) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	if len(options) != 0 {
		t.Fatalf("expected empty options on failure, got %v", options)
	}
}

func TestRefreshDiscardsSupersededResult(t *testing.T) {
	t.Parallel()

	releaseCA := make(chan struct{})
	resolver := NewResolver(SourceFunc(func(_ context.Context, req Request) ([]string, error) {
		if req.Value == "CA" {
			<-releaseCA
			return []string{"stale-for-CA"}, nil
		}
		return []string{"Albany", "Buffalo"}, nil
	}))

	ctx := context.Background()
	dyn := statesDescriptor()

	var (
		mu      sync.Mutex
		applied [][]string
	)
	done := make(chan struct{}, 2)
	apply := func(options []string, err error) {
		if err != nil {
			t.Errorf("apply received error: %v", err)
		}
		mu.Lock()
		applied = append(applied, options)
		mu.Unlock()
		done <- struct{}{}
	}

	resolver.Refresh(ctx, "city", dyn, "CA", apply)
	resolver.Refresh(ctx, "city", dyn, "NY", apply)

	// The NY fetch settles first; the CA fetch resolves late and must be
	// discarded rather than applied over it.
	<-done
	close(releaseCA)

	select {
	case <-done:
		t.Fatalf("superseded fetch was applied")
	case <-time.After(100 * time.Millisecond):
	}

	mu.Lock()
	defer mu.Unlock()
	if len(applied) != 1 {
		t.Fatalf("expected exactly one applied result, got %d", len(applied))
	}
	if diff := cmp.Diff([]string{"Albany", "Buffalo"}, applied[0]); diff != "" {
		t.Fatalf("unexpected applied options (-want +got):\n%s", diff)
	}
}
