package content

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/futureworld/futureworld.site/internal/platform/errors"
	"github.com/futureworld/futureworld.site/internal/platform/timeouts"
)

// Perspective selects which document visibility a client sees.
type Perspective string

const (
	// PerspectivePublished serves only published documents.
	PerspectivePublished Perspective = "published"
	// PerspectiveDrafts overlays unpublished edits for preview requests.
	PerspectiveDrafts Perspective = "previewDrafts"
)

const defaultAPIVersion = "2024-01-01"

// Config defines an immutable document-store client. Draft-mode access is a
// separately constructed client, never a mutable flag on a shared instance.
type Config struct {
	ProjectID   string
	Dataset     string
	APIVersion  string
	Token       string
	Perspective Perspective
	// BaseURL overrides the derived store endpoint. Used by tests.
	BaseURL    string
	HTTPClient *http.Client
}

// Client is a read-only wrapper around the store's HTTP query endpoint.
// It is safe for concurrent use and never mutated after construction.
type Client struct {
	baseURL     string
	dataset     string
	apiVersion  string
	token       string
	perspective Perspective
	httpClient  *http.Client
	tracer      trace.Tracer
}

// New validates the configuration and constructs a store client.
func New(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		projectID := strings.TrimSpace(cfg.ProjectID)
		if projectID == "" {
			return nil, apperrors.E(apperrors.KindConfig, "content store project id is required")
		}
		baseURL = fmt.Sprintf("https://%s.api.sanity.io", projectID)
	}
	dataset := strings.TrimSpace(cfg.Dataset)
	if dataset == "" {
		return nil, apperrors.E(apperrors.KindConfig, "content store dataset is required")
	}
	apiVersion := strings.TrimSpace(cfg.APIVersion)
	if apiVersion == "" {
		apiVersion = defaultAPIVersion
	}
	perspective := cfg.Perspective
	if perspective == "" {
		perspective = PerspectivePublished
	}
	if perspective == PerspectiveDrafts && strings.TrimSpace(cfg.Token) == "" {
		return nil, apperrors.E(apperrors.KindConfig, "draft perspective requires an API token")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeouts.UpstreamQuery}
	}
	return &Client{
		baseURL:     baseURL,
		dataset:     dataset,
		apiVersion:  apiVersion,
		token:       strings.TrimSpace(cfg.Token),
		perspective: perspective,
		httpClient:  httpClient,
		tracer:      otel.Tracer("content"),
	}, nil
}

// Perspective reports which visibility this client was built with.
func (c *Client) Perspective() Perspective {
	return c.perspective
}

// query executes one parameterized structured query and returns the raw
// result payload. Transport and query failures surface as unavailable errors;
// an absent result is returned as-is for the caller to classify.
func (c *Client) query(ctx context.Context, query string, params map[string]any) (json.RawMessage, error) {
	if c == nil {
		return nil, apperrors.E(apperrors.KindConfig, "content client is not configured")
	}

	values := url.Values{}
	values.Set("query", query)
	if c.perspective != PerspectivePublished {
		values.Set("perspective", string(c.perspective))
	}
	// Sorted param order keeps request URLs stable for caches and tests.
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		encoded, err := json.Marshal(params[name])
		if err != nil {
			return nil, fmt.Errorf("encode query param %q: %w", name, err)
		}
		values.Set("$"+name, string(encoded))
	}

	endpoint := fmt.Sprintf("%s/v%s/data/query/%s?%s", c.baseURL, c.apiVersion, c.dataset, values.Encode())

	ctx, span := c.tracer.Start(ctx, "content.query", trace.WithAttributes(
		attribute.String("content.dataset", c.dataset),
		attribute.String("content.perspective", string(c.perspective)),
	))
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build store request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, "store request failed")
		return nil, fmt.Errorf("query content store: %w: %w", apperrors.E(apperrors.KindUnavailable, "content store unreachable"), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		span.SetStatus(codes.Error, "store query rejected")
		return nil, fmt.Errorf("query content store: %w: status %d: %s",
			apperrors.E(apperrors.KindUnavailable, "content store query failed"), resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		span.SetStatus(codes.Error, "store response malformed")
		return nil, fmt.Errorf("decode store response: %w: %w", apperrors.E(apperrors.KindUnavailable, "content store response malformed"), err)
	}
	return payload.Result, nil
}

// QueryOne runs a single-document query. It reports found=false when the
// store returned no matching document; that outcome is distinct from a fetch
// failure, which returns a non-nil error.
func (c *Client) QueryOne(ctx context.Context, query string, params map[string]any, out any) (bool, error) {
	raw, err := c.query(ctx, query, params)
	if err != nil {
		return false, err
	}
	if isEmptyResult(raw) {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decode document: %w", err)
	}
	return true, nil
}

// QueryAll runs a collection query. A missing result decodes to an empty
// collection, never an error.
func (c *Client) QueryAll(ctx context.Context, query string, params map[string]any, out any) error {
	raw, err := c.query(ctx, query, params)
	if err != nil {
		return err
	}
	if isEmptyResult(raw) {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode document list: %w", err)
	}
	return nil
}

func isEmptyResult(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed == "" || trimmed == "null"
}
