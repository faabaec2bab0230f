package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-formrun/pkg/dynamic"
	"github.com/goliatone/go-formrun/pkg/schema"
	"github.com/goliatone/go-formrun/pkg/submissions"
)

const (
	defaultFormsPath       = "/api/insurance/forms"
	defaultSubmitPath      = "/api/insurance/forms/submit"
	defaultSubmissionsPath = "/api/insurance/forms/submissions"
	defaultOptionsKey      = "states"
)

// Option customises the Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.http = httpClient
		}
	}
}

// WithTimeout bounds each request.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithFormsPath overrides the forms-listing endpoint path.
func WithFormsPath(path string) Option {
	return func(c *Client) {
		if strings.TrimSpace(path) != "" {
			c.formsPath = path
		}
	}
}

// WithSubmitPath overrides the submission endpoint path.
func WithSubmitPath(path string) Option {
	return func(c *Client) {
		if strings.TrimSpace(path) != "" {
			c.submitPath = path
		}
	}
}

// WithSubmissionsPath overrides the results endpoint path.
func WithSubmissionsPath(path string) Option {
	return func(c *Client) {
		if strings.TrimSpace(path) != "" {
			c.submissionsPath = path
		}
	}
}

// WithOptionsKey names the response field holding dynamic option lists. The
// form service observed in the wild uses "states"; the shape is otherwise
// opaque to the runtime.
func WithOptionsKey(key string) Option {
	return func(c *Client) {
		if strings.TrimSpace(key) != "" {
			c.optionsKey = key
		}
	}
}

// Client talks to the remote form service: schema listing, dynamic option
// lookups, submission, and the submissions result set.
type Client struct {
	baseURL         string
	http            *http.Client
	timeout         time.Duration
	formsPath       string
	submitPath      string
	submissionsPath string
	optionsKey      string
}

var (
	_ dynamic.Source     = (*Client)(nil)
	_ submissions.Loader = (*Client)(nil)
)

// New constructs a Client rooted at baseURL.
func New(baseURL string, options ...Option) *Client {
	c := &Client{
		baseURL:         strings.TrimRight(baseURL, "/"),
		http:            &http.Client{},
		formsPath:       defaultFormsPath,
		submitPath:      defaultSubmitPath,
		submissionsPath: defaultSubmissionsPath,
		optionsKey:      defaultOptionsKey,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Forms fetches the ordered list of available form schemas.
func (c *Client) Forms(ctx context.Context) ([]schema.FormSchema, error) {
	data, err := c.do(ctx, http.MethodGet, c.baseURL+c.formsPath, nil)
	if err != nil {
		return nil, err
	}
	return schema.ParseSchemas(data)
}

// FetchOptions implements dynamic.Source: it issues
// {endpoint}?{dependsOn}={value} with the descriptor's method and extracts
// the option list from the configured response key.
func (c *Client) FetchOptions(ctx context.Context, req dynamic.Request) ([]string, error) {
	if req.Endpoint == "" {
		return nil, errors.New("client: dynamic options endpoint is required")
	}

	endpoint := req.Endpoint
	if strings.HasPrefix(endpoint, "/") {
		endpoint = c.baseURL + endpoint
	}

	query := url.Values{}
	query.Set(req.DependsOn, req.Value)
	separator := "?"
	if strings.Contains(endpoint, "?") {
		separator = "&"
	}

	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = http.MethodGet
	}

	data, err := c.do(ctx, method, endpoint+separator+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("client: decode options response: %w", err)
	}
	raw, ok := payload[c.optionsKey]
	if !ok {
		return nil, fmt.Errorf("client: options response missing %q", c.optionsKey)
	}
	var options []string
	if err := json.Unmarshal(raw, &options); err != nil {
		return nil, fmt.Errorf("client: decode option list: %w", err)
	}
	return options, nil
}

// Receipt is the submission response. "success" is the only recognised
// success sentinel.
type Receipt struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Succeeded reports whether the service accepted the submission.
func (r Receipt) Succeeded() bool {
	return r.Status == "success"
}

// Submit posts the collected value map and returns the service's receipt.
func (c *Client) Submit(ctx context.Context, payload map[string]any) (Receipt, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Receipt{}, fmt.Errorf("client: encode submission: %w", err)
	}

	data, err := c.do(ctx, http.MethodPost, c.baseURL+c.submitPath, body)
	if err != nil {
		return Receipt{}, err
	}

	var receipt Receipt
	if err := json.Unmarshal(data, &receipt); err != nil {
		return Receipt{}, fmt.Errorf("client: decode submission receipt: %w", err)
	}
	return receipt, nil
}

// Submissions implements submissions.Loader.
func (c *Client) Submissions(ctx context.Context) (submissions.ResultSet, error) {
	data, err := c.do(ctx, http.MethodGet, c.baseURL+c.submissionsPath, nil)
	if err != nil {
		return submissions.ResultSet{}, err
	}

	var results submissions.ResultSet
	if err := json.Unmarshal(data, &results); err != nil {
		return submissions.ResultSet{}, fmt.Errorf("client: decode submissions: %w", err)
	}
	return results, nil
}

func (c *Client) do(ctx context.Context, method, rawURL string, body []byte) ([]byte, error) {
	reqCtx := ctx
	var cancel context.CancelFunc
	if c.timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(reqCtx, method, rawURL, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: %s %s: %w", method, rawURL, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, URL: rawURL}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return data, nil
}
