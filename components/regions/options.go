package regions

import "net/http"

type GuardFunc func(r *http.Request) error

type Options struct {
	RoutePath  string
	QueryParam string
	// ResponseKey names the JSON field holding the option list. It matches
	// the key form clients extract from dynamic option responses.
	ResponseKey string
	LimitParam  string
	MaxLimit    int
	Guard       GuardFunc

	// Table maps a dependency value (e.g. a country) to its option list.
	Table map[string][]string
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath:   "/api/insurance/states",
		QueryParam:  "country",
		ResponseKey: "states",
		LimitParam:  "limit",
		MaxLimit:    200,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.RoutePath == "" {
		opts.RoutePath = "/api/insurance/states"
	}
	if opts.QueryParam == "" {
		opts.QueryParam = "country"
	}
	if opts.ResponseKey == "" {
		opts.ResponseKey = "states"
	}
	if opts.LimitParam == "" {
		opts.LimitParam = "limit"
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = 200
	}
	if opts.Table != nil {
		copied := make(map[string][]string, len(opts.Table))
		for key, values := range opts.Table {
			copied[key] = append([]string{}, values...)
		}
		opts.Table = copied
	}
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

func WithQueryParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.QueryParam = name
	}
}

func WithResponseKey(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.ResponseKey = name
	}
}

func WithMaxLimit(limit int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxLimit = limit
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

func WithTable(table map[string][]string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		if table == nil {
			o.Table = nil
			return
		}
		copied := make(map[string][]string, len(table))
		for key, values := range table {
			copied[key] = append([]string{}, values...)
		}
		o.Table = copied
	}
}

func clampLimit(limit int, opts Options) int {
	if limit < 0 {
		return 0
	}
	if opts.MaxLimit > 0 && limit > opts.MaxLimit {
		return opts.MaxLimit
	}
	return limit
}
