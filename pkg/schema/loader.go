package schema

import (
	"context"
	"io/fs"
	"net/http"
	"time"
)

// Loader fetches and decodes a schema document from a Source.
type Loader interface {
	Load(ctx context.Context, src Source) ([]FormSchema, error)
}

// LoaderOptions configure the built-in loader implementation.
type LoaderOptions struct {
	// FileSystem backs SourceKindFS lookups.
	FileSystem fs.FS
	// HTTPClient handles SourceKindURL lookups when provided.
	HTTPClient *http.Client
	// AllowHTTPFallback enables URL sources with a default client when no
	// HTTPClient is supplied.
	AllowHTTPFallback bool
	// RequestTimeout bounds each URL fetch.
	RequestTimeout time.Duration
}
