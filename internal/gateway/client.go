// Package gateway is the HTTP client for the feed generation backend.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iksnae/doomlearn/internal"
)

// Credential headers understood by the backend
const (
	HeaderGeminiKey  = "X-Gemini-Api-Key"
	HeaderMinimaxKey = "X-Minimax-Api-Key"
)

// Client talks to the backend over HTTP+JSON
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds every call except feed generation, which runs until
// the caller's context ends.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    60 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ internal.Backend = (*Client)(nil)

// BaseURL returns the backend root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health checks the backend and lists its providers.
func (c *Client) Health(ctx context.Context) (*internal.Health, error) {
	var out internal.Health
	if err := c.doJSON(ctx, http.MethodGet, "/api/health", nil, nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// IngestText creates a session from a typed prompt.
func (c *Client) IngestText(ctx context.Context, prompt string, platform internal.Platform) (*internal.Ingested, error) {
	body := textIngestRequest{Prompt: prompt}
	var out internal.Ingested
	if err := c.doJSON(ctx, http.MethodPost, ingestPath("text", platform), body, nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// IngestURL creates a session from a web page.
func (c *Client) IngestURL(ctx context.Context, rawURL string, restrictToDocument bool, platform internal.Platform) (*internal.Ingested, error) {
	body := urlIngestRequest{URL: rawURL, RestrictToDocument: restrictToDocument}
	var out internal.Ingested
	if err := c.doJSON(ctx, http.MethodPost, ingestPath("url", platform), body, nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// IngestDocument uploads a PDF as multipart form data.
func (c *Client) IngestDocument(ctx context.Context, doc *internal.Document, platform internal.Platform) (*internal.Ingested, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(map[string][]string)
	header["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name="file"; filename=%q`, doc.Name)}
	header["Content-Type"] = []string{internal.DocumentMIME}
	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("create form part: %w", err)
	}
	if _, err := part.Write(doc.Data); err != nil {
		return nil, fmt.Errorf("write form part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close form: %w", err)
	}

	ctx, cancel := c.withTimeout(ctx, true)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ingestPath("pdf", platform), &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out internal.Ingested
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateFeed asks the backend to generate posts for a session. Only the
// caller's context bounds this call.
func (c *Client) GenerateFeed(ctx context.Context, sessionID string, platform internal.Platform, postCount int, creds internal.Credentials) (*internal.GeneratedFeed, error) {
	body := feedRequest{SessionID: sessionID, Platform: platform, PostCount: postCount}
	var out internal.GeneratedFeed
	if err := c.doJSON(ctx, http.MethodPost, "/api/generate/feed", body, credentialHeaders(creds), &out, false); err != nil {
		return nil, err
	}
	if out.SessionID == "" {
		out.SessionID = sessionID
	}
	return &out, nil
}

// GenerateRecommendations returns follow-up prompts for a session.
func (c *Client) GenerateRecommendations(ctx context.Context, sessionID string, creds internal.Credentials) ([]string, error) {
	var out recommendationsResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/generate/recommendations", sessionRequest{SessionID: sessionID}, credentialHeaders(creds), &out, true); err != nil {
		return nil, err
	}
	return out.Recommendations, nil
}

// GenerateKnowledgeGraph returns the concept graph for a session.
func (c *Client) GenerateKnowledgeGraph(ctx context.Context, sessionID string, creds internal.Credentials) (*internal.KnowledgeGraph, error) {
	var out internal.KnowledgeGraph
	if err := c.doJSON(ctx, http.MethodPost, "/api/generate/knowledge-graph", sessionRequest{SessionID: sessionID}, credentialHeaders(creds), &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSession fetches a full session record. A 404 is ErrSessionNotFound.
func (c *Client) GetSession(ctx context.Context, sessionID string) (*internal.Session, error) {
	var out sessionResponse
	err := c.doJSON(ctx, http.MethodGet, "/api/session/"+url.PathEscape(sessionID), nil, nil, &out, true)
	if err != nil {
		var apiErr *internal.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, internal.ErrSessionNotFound
		}
		return nil, err
	}
	session := out.toSession()
	return &session, nil
}

func ingestPath(kind string, platform internal.Platform) string {
	if platform == "" {
		platform = internal.DefaultPlatform
	}
	return "/api/ingest/" + kind + "?platform=" + url.QueryEscape(string(platform))
}

func credentialHeaders(creds internal.Credentials) http.Header {
	h := http.Header{}
	if creds.GeminiAPIKey != "" {
		h.Set(HeaderGeminiKey, creds.GeminiAPIKey)
	}
	if creds.MinimaxAPIKey != "" {
		h.Set(HeaderMinimaxKey, creds.MinimaxAPIKey)
	}
	return h
}

func (c *Client) withTimeout(ctx context.Context, bounded bool) (context.Context, context.CancelFunc) {
	if !bounded || c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body interface{}, headers http.Header, out interface{}, bounded bool) error {
	ctx, cancel := c.withTimeout(ctx, bounded)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	return c.do(ctx, req, out)
}

func (c *Client) do(ctx context.Context, req *http.Request, out interface{}) error {
	internal.LogDebug("%s %s", req.Method, req.URL.Path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) || errors.Is(err, context.Canceled) {
			return internal.ErrCanceled
		}
		return fmt.Errorf("request %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return internal.ErrCanceled
		}
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &internal.APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp.StatusCode, data)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &internal.ParseError{Source: "backend", Key: req.URL.Path, Err: err}
	}
	return nil
}

// errorMessage picks the human readable message out of an error body:
// "detail" first, then "error", then the bare status.
func errorMessage(status int, body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if msg := eb.Detail.String(); msg != "" {
			return msg
		}
		if eb.Error != "" {
			return eb.Error
		}
	}
	return fmt.Sprintf("HTTP %d", status)
}
