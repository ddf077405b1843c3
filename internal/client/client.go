// Package client talks to the sync server's /api endpoints.
//
// It is the network boundary of the client side: every failure comes back as
// an *apperror.AppError, so the stores above it branch on kinds
// (ErrValidation, ErrDemoMode, ErrStorage, ErrUnavailable) instead of on
// status codes.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sakif/navidash/internal/apperror"
	"github.com/sakif/navidash/internal/model"
)

// Client is an HTTP client for the three synchronized documents.
// It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	demo    bool
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every request. There is no timeout by default: a hung
// request only stalls the one store operation waiting on it. The timeout is
// set on a copy, so a client passed to WithHTTPClient is left as it was.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

// WithDemoMode marks the deployment as a demo. Stores treat a failed widget
// save as an expected refusal instead of rolling back.
func WithDemoMode(demo bool) Option {
	return func(c *Client) { c.demo = demo }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a Client for the server at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DemoMode reports whether the client was configured for a demo deployment.
func (c *Client) DemoMode() bool {
	return c.demo
}

// Bookmarks fetches the bookmark tree and its version.
func (c *Client) Bookmarks(ctx context.Context) ([]model.Bookmark, int64, error) {
	var tree []model.Bookmark
	version, err := c.get(ctx, model.DocBookmarks, &tree)
	return tree, version, err
}

// SaveBookmarks replaces the server's bookmark tree.
func (c *Client) SaveBookmarks(ctx context.Context, tree []model.Bookmark) (int64, error) {
	if tree == nil {
		tree = []model.Bookmark{}
	}
	return c.post(ctx, model.DocBookmarks, tree)
}

// Widgets fetches the widget list and its version.
func (c *Client) Widgets(ctx context.Context) ([]model.Widget, int64, error) {
	var widgets []model.Widget
	version, err := c.get(ctx, model.DocWidgets, &widgets)
	return widgets, version, err
}

// SaveWidgets replaces the server's widget list.
func (c *Client) SaveWidgets(ctx context.Context, widgets []model.Widget) (int64, error) {
	if widgets == nil {
		widgets = []model.Widget{}
	}
	return c.post(ctx, model.DocWidgets, widgets)
}

// Settings fetches the settings record and its version. A server with no
// settings yet returns a zero Settings.
func (c *Client) Settings(ctx context.Context) (model.Settings, int64, error) {
	var settings model.Settings
	version, err := c.get(ctx, model.DocSettings, &settings)
	return settings, version, err
}

// SaveSettings replaces the server's settings record.
func (c *Client) SaveSettings(ctx context.Context, settings model.Settings) (int64, error) {
	return c.post(ctx, model.DocSettings, settings)
}

func (c *Client) url(doc model.Document) string {
	return c.baseURL + "/api/" + string(doc)
}

func (c *Client) get(ctx context.Context, doc model.Document, out any) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(doc), nil)
	if err != nil {
		return 0, fmt.Errorf("client: building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, apperror.Unavailable("fetch "+string(doc), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, decodeError(resp, "fetch "+string(doc))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return 0, apperror.Unavailable("decode "+string(doc), err)
	}

	version := parseVersion(resp.Header)
	c.logger.Debug("fetched document",
		slog.String("document", string(doc)),
		slog.Int64("version", version),
	)
	return version, nil
}

func (c *Client) post(ctx context.Context, doc model.Document, in any) (int64, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return 0, fmt.Errorf("client: encoding %s: %w", doc, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(doc), bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("client: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, apperror.Unavailable("save "+string(doc), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, decodeError(resp, "save "+string(doc))
	}

	var saved model.SaveResponse
	if err := json.NewDecoder(resp.Body).Decode(&saved); err != nil {
		return 0, apperror.Unavailable("decode save response", err)
	}
	if saved.Version == 0 {
		saved.Version = parseVersion(resp.Header)
	}

	c.logger.Debug("saved document",
		slog.String("document", string(doc)),
		slog.Int64("version", saved.Version),
	)
	return saved.Version, nil
}

// parseVersion reads X-Data-Version; a missing or malformed header is 0.
func parseVersion(h http.Header) int64 {
	v, err := strconv.ParseInt(h.Get(model.VersionHeader), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// decodeError maps a non-200 response back onto the error taxonomy.
//
//	400 → ErrValidation (details preserved)
//	403 → ErrDemoMode for "demo_mode", ErrForbidden otherwise
//	404 → ErrNotFound
//	413 → ErrValidation
//	5xx and anything else → ErrStorage
func decodeError(resp *http.Response, op string) error {
	var body model.ErrorResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err := json.Unmarshal(raw, &body); err != nil || body.Message == "" {
		body.Message = strings.TrimSpace(string(raw))
		if body.Message == "" {
			body.Message = http.StatusText(resp.StatusCode)
		}
	}

	switch resp.StatusCode {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		e := apperror.Invalid(op, body.Details)
		e.Message = body.Message
		return e
	case http.StatusForbidden:
		if body.Error == "demo_mode" {
			return apperror.DemoModeDenied()
		}
		return apperror.Forbidden(body.Message)
	case http.StatusNotFound:
		return &apperror.AppError{Err: apperror.ErrNotFound, Message: op + ": " + body.Message}
	default:
		return apperror.StorageFailed(op, fmt.Errorf("server returned %d: %s", resp.StatusCode, body.Message))
	}
}
