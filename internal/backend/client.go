// Package backend is the HTTP client for the theater records backend.
//
// The backend exposes JSON list endpoints returning arrays of flat records
// and accepts form-encoded POST/DELETE requests for mutations. Every
// request carries the caller's context; the client applies a per-request
// timeout on top of it when one is configured, and forwards the request id
// stored on it so both servers log the same X-Request-ID.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aanand-mishra/theater-records/internal/http/middleware"
	"github.com/aanand-mishra/theater-records/internal/types"
)

const maxBodyBytes = 4 << 20

// StatusError is returned when the backend answers with a non-2xx status.
// Message is the server's own text, taken from a JSON {"message"} body or
// the raw body.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP error! status: %d", e.Code)
}

// StatusCode returns the HTTP status of the failed response.
func (e *StatusError) StatusCode() int { return e.Code }

// Response is a raw backend response.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool { return r.Status >= 200 && r.Status < 300 }

// IsJSON reports whether the body was declared as JSON.
func (r *Response) IsJSON() bool {
	mt, _, err := mime.ParseMediaType(r.ContentType)
	if err != nil {
		return strings.Contains(r.ContentType, "application/json")
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

// Message extracts the human-readable text of the response: the "message"
// field of a JSON object, otherwise the body as literal text.
func (r *Response) Message() string {
	if r.IsJSON() {
		var payload struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if err := json.Unmarshal(r.Body, &payload); err == nil {
			if payload.Message != "" {
				return payload.Message
			}
			return payload.Error
		}
	}
	return strings.TrimSpace(string(r.Body))
}

// Client talks to one backend base URL.
type Client struct {
	base    *url.URL
	http    *http.Client
	timeout time.Duration
	log     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds every request. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger used for request failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New builds a client for baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("backend.New: parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("backend.New: base url %q must be absolute", baseURL)
	}

	c := &Client{base: u, http: http.DefaultClient, log: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FetchRecords GETs endpoint and decodes a JSON array of records.
// Non-2xx responses come back as *StatusError.
func (c *Client) FetchRecords(ctx context.Context, endpoint string) ([]types.Record, error) {
	resp, err := c.Do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, &StatusError{Code: resp.Status, Message: resp.Message()}
	}
	records, err := types.DecodeRecords(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", endpoint, err)
	}
	return records, nil
}

// PostForm sends values form-encoded. The response is returned whatever its
// status; only transport failures produce an error.
func (c *Client) PostForm(ctx context.Context, endpoint string, values url.Values) (*Response, error) {
	return c.Do(ctx, http.MethodPost, endpoint, values)
}

// Do issues a request. For methods other than GET and HEAD the values are sent
// as a form body; for GET they are merged into the query string.
func (c *Client) Do(ctx context.Context, method, endpoint string, values url.Values) (*Response, error) {
	target, err := c.resolve(endpoint)
	if err != nil {
		return nil, err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if method == http.MethodGet || method == http.MethodHead {
		if len(values) > 0 {
			q := target.Query()
			for k, vs := range values {
				for _, v := range vs {
					q.Add(k, v)
				}
			}
			target.RawQuery = q.Encode()
		}
	} else if values != nil {
		body = strings.NewReader(values.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("backend: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("Accept", "application/json, text/plain")
	if id := middleware.RequestIDFrom(ctx); id != "" {
		req.Header.Set(middleware.HeaderRequestID, id)
	}

	res, err := c.http.Do(req)
	if err != nil {
		c.log.Error("backend request failed",
			slog.String("method", method),
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("backend: %s %s: %w", method, endpoint, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("backend: read %s: %w", endpoint, err)
	}

	return &Response{
		Status:      res.StatusCode,
		ContentType: res.Header.Get("Content-Type"),
		Body:        data,
	}, nil
}

func (c *Client) resolve(endpoint string) (*url.URL, error) {
	ref, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("backend: parse endpoint %q: %w", endpoint, err)
	}
	if ref.IsAbs() {
		return nil, errors.New("backend: endpoint must be a path, not an absolute url")
	}
	u := *c.base
	u.Path = strings.TrimRight(c.base.Path, "/") + "/" + strings.TrimLeft(ref.Path, "/")
	u.RawPath = ""
	u.RawQuery = ref.RawQuery
	return &u, nil
}
