package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/orderdesk/pkg/auth"
	pkgerrors "github.com/angelmondragon/orderdesk/pkg/errors"
	"github.com/angelmondragon/orderdesk/pkg/metrics"
	"github.com/angelmondragon/orderdesk/pkg/requestid"
)

const (
	defaultTimeout             = 10 * time.Second
	errorBodyReadLimit   int64 = 4096
	successBodyReadLimit int64 = 8 << 20
)

// Client talks to the remote inventory/order service on behalf of the signed-in user.
type Client struct {
	httpClient *http.Client
	baseURL    string
	creds      auth.Source
	metrics    *metrics.RemoteMetrics
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// WithMetrics records request counts and latency.
func WithMetrics(m *metrics.RemoteMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient builds the remote client. creds supplies the bearer token for every call.
func NewClient(baseURL string, creds auth.Source, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("remote base url is required")
	}
	if creds == nil {
		return nil, fmt.Errorf("credential source is required")
	}

	client := &Client{
		baseURL:    trimmed,
		creds:      creds,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

type errorBody struct {
	Msg     string `json:"msg"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) do(ctx context.Context, operation, method, path string, body any, out any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "remote client not configured")
	}
	creds, err := c.creds.Credentials(ctx)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal "+operation+" request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+strings.TrimLeft(path, "/"), reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build "+operation+" request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+creds.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := requestid.From(ctx); id != "" {
		req.Header.Set(requestid.Header, id)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.Observe(operation, 0, time.Since(started))
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, operation+" request failed").
			WithDetails(map[string]any{"operation": operation})
	}
	defer func() { _ = resp.Body.Close() }()
	c.metrics.Observe(operation, resp.StatusCode, time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(operation, resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, successBodyReadLimit))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read "+operation+" response")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode "+operation+" response")
	}
	return nil
}

func statusError(operation string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
	msg := serviceMessage(raw)
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	details := map[string]any{
		"operation": operation,
		"status":    resp.StatusCode,
		"msg":       msg,
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return pkgerrors.New(pkgerrors.CodeUnauthenticated, msg)
	case http.StatusForbidden:
		return pkgerrors.New(pkgerrors.CodeForbidden, msg)
	case http.StatusNotFound:
		return pkgerrors.New(pkgerrors.CodeNotFound, msg).WithDetails(details)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return pkgerrors.New(pkgerrors.CodeValidation, msg).WithDetails(details)
	default:
		return pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("%s: status %d: %s", operation, resp.StatusCode, msg)).
			WithDetails(details)
	}
}

// serviceMessage extracts the text the service puts in its error bodies.
func serviceMessage(raw []byte) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}
	var body errorBody
	if err := json.Unmarshal(trimmed, &body); err == nil {
		for _, candidate := range []string{body.Msg, body.Message, body.Error} {
			if s := strings.TrimSpace(candidate); s != "" {
				return s
			}
		}
		return ""
	}
	return strings.TrimSpace(string(trimmed))
}
