package cloudlets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/akamai/AkamaiOPEN-edgegrid-golang/v9/pkg/edgegrid"
	"github.com/google/uuid"
)

// basePath is the root of the Cloudlets policy-management API.
const basePath = "/cloudlets/api/v2"

// Signer adds an Authorization header to an outgoing request.
// *edgegrid.Config satisfies it in production; tests use a no-op.
type Signer interface {
	SignRequest(r *http.Request)
}

// noopSigner leaves requests unsigned.
type noopSigner struct{}

func (noopSigner) SignRequest(r *http.Request) {}

// Client issues authenticated requests against the Cloudlets API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	signer     Signer
	logger     *slog.Logger
	metrics    *Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithSigner sets the request signer.
func WithSigner(s Signer) Option {
	return func(c *Client) { c.signer = s }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New creates a Client for the given base URL ("https://host").
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host are required", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		signer:     noopSigner{},
		logger:     slog.Default().With("component", "cloudlets.client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewFromEdgerc creates a signing Client from an .edgerc credentials file.
// The API host comes from the section's "host" entry.
func NewFromEdgerc(edgercPath, section string, timeout time.Duration, opts ...Option) (*Client, error) {
	edgerc, err := edgegrid.New(
		edgegrid.WithFile(edgercPath),
		edgegrid.WithSection(section),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load edgerc section %q from %q: %w", section, edgercPath, err)
	}

	host := edgerc.Host
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}

	combined := append([]Option{
		WithSigner(edgerc),
		WithHTTPClient(&http.Client{Timeout: timeout}),
	}, opts...)

	return New(host, combined...)
}

// do performs one API request. Exactly one HTTP attempt is made.
// body (when non-nil) is marshaled to JSON; a 2xx response body is decoded
// into out (when non-nil).
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	u := *c.baseURL
	u.Path = basePath + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: failed to encode request body: %w", op, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return fmt.Errorf("%s: failed to build request: %w", op, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.signer.SignRequest(req)

	c.logger.Debug("API request",
		"operation", op,
		"method", method,
		"path", u.Path,
		"request_id", requestID,
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.observe(op, "error", elapsed)
		return fmt.Errorf("%s: request failed: %w", op, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.observe(op, "error", elapsed)
		return fmt.Errorf("%s: failed to read response: %w", op, err)
	}

	c.metrics.observe(op, fmt.Sprintf("%d", resp.StatusCode), elapsed)
	c.logger.Debug("API response",
		"operation", op,
		"status", resp.StatusCode,
		"request_id", requestID,
		"elapsed", elapsed,
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.decodeError(op, resp.StatusCode, respBody)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("%s: unexpected response %q: %w", op, truncate(respBody, 512), err)
		}
	}
	return nil
}

// decodeError turns a non-2xx response into a typed error.
func (c *Client) decodeError(op string, status int, body []byte) error {
	apiErr := &APIError{Operation: op, Status: status}
	if err := json.Unmarshal(body, apiErr); err != nil || (apiErr.Title == "" && apiErr.Detail == "") {
		return &APIError{
			Operation: op,
			Status:    status,
			Detail:    truncate(body, 512),
		}
	}
	// Trust the transport status over whatever the document claims.
	apiErr.Status = status
	return apiErr
}

func truncate(b []byte, n int) string {
	s := strings.TrimSpace(string(b))
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
