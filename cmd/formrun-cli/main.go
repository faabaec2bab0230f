package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	formrun "github.com/goliatone/go-formrun"
	"github.com/goliatone/go-formrun/pkg/render"
	"github.com/goliatone/go-formrun/pkg/schema"
	"github.com/goliatone/go-formrun/pkg/session"
)

func main() {
	schemas := flag.String("schemas", "data/schemas.json", "form schema document path or URL")
	formID := flag.String("form", "", "form id to select (first form if empty)")
	renderer := flag.String("renderer", "vanilla", "renderer to use (vanilla or tui)")
	output := flag.String("output", "", "output file (stdout if empty)")
	base := flag.String("base", "", "form service base URL for dynamic options and submission")
	flag.Parse()

	ctx := context.Background()

	src := parseSource(*schemas)
	if src == nil {
		log.Fatalf("invalid schema source: %q", *schemas)
	}

	loader := formrun.NewLoader(schema.LoaderOptions{AllowHTTPFallback: true})
	forms, err := loader.Load(ctx, src)
	if err != nil {
		log.Fatalf("Failed to load schemas: %v", err)
	}

	var options []session.Option
	var submitter session.Submitter
	if *base != "" {
		backend := formrun.NewClient(*base)
		options = append(options, session.WithOptionSource(backend))
		submitter = backend
	}

	controller := formrun.NewSession(staticSource(forms), submitter, options...)
	if err := controller.Load(ctx); err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}
	if *formID != "" {
		if err := controller.Select(ctx, *formID); err != nil {
			log.Fatalf("Failed to select form: %v", err)
		}
	}

	registry, err := formrun.DefaultRegistry()
	if err != nil {
		log.Fatalf("Failed to build renderers: %v", err)
	}

	rendered, err := formrun.RenderSession(ctx, controller, registry, *renderer, render.Options{})
	if err != nil {
		log.Fatalf("Failed to render form: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, rendered, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Form written to %s\n", *output)
	} else {
		fmt.Println(string(rendered))
	}
}

type staticSource []schema.FormSchema

func (s staticSource) Forms(context.Context) ([]schema.FormSchema, error) {
	return s, nil
}

func parseSource(raw string) schema.Source {
	path := strings.TrimSpace(raw)
	if path == "" {
		return nil
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return schema.SourceFromURL(path)
	}
	return schema.SourceFromFile(path)
}
