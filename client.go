package folio

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is where the portfolio backend listens by default.
const DefaultBaseURL = "https://localhost:5001/api"

// DefaultTimeout bounds every request to the backend.
const DefaultTimeout = 10 * time.Second

// maxErrorBody is how much of an error response body is kept in a StatusError.
const maxErrorBody = 512

// Client calls the portfolio backend REST API.
type Client struct {
	base  string
	http  *http.Client // authenticated requests
	plain *http.Client // login only
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	timeout   time.Duration
	transport http.RoundTripper
	insecure  bool
}

// WithTimeout bounds every request, DefaultTimeout otherwise.
func WithTimeout(d time.Duration) Option { return func(o *clientOptions) { o.timeout = d } }

// WithTransport replaces the underlying transport.
func WithTransport(rt http.RoundTripper) Option { return func(o *clientOptions) { o.transport = rt } }

// WithInsecureTLS accepts any certificate, for a backend on localhost with a self-signed one.
func WithInsecureTLS(insecure bool) Option { return func(o *clientOptions) { o.insecure = insecure } }

// NewClient returns a Client for the backend at baseURL, authenticated by session.
func NewClient(baseURL string, session Session, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid backend url %q: scheme must be http or https", baseURL)
	}

	o := clientOptions{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	base := o.transport
	if base == nil {
		t := http.DefaultTransport.(*http.Transport).Clone()
		if o.insecure {
			t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		}
		base = t
	}

	return &Client{
		base:  strings.TrimSuffix(u.String(), "/"),
		http:  &http.Client{Timeout: o.timeout, Transport: &authTransport{base: base, session: session}},
		plain: &http.Client{Timeout: o.timeout, Transport: &authTransport{base: base}},
	}, nil
}

// BaseURL returns the backend url the client talks to.
func (c *Client) BaseURL() string { return c.base }

// do sends a request with an optional JSON body and decodes the JSON answer into out, if not nil.
func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, query url.Values, body, out any) error {
	addr := c.base + path
	if len(query) > 0 {
		addr += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("cannot encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, addr, reader)
	if err != nil {
		return fmt.Errorf("cannot create http request %q: %w", addr, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("cannot http %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%s %s: %w", method, path, ErrUnauthorized)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Method: method,
			Path:   path,
			Code:   resp.StatusCode,
			Status: resp.Status,
			Body:   strings.TrimSpace(string(snippet)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	// reading in a buffer to tolerate empty bodies and report json errors.
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return fmt.Errorf("cannot read %s %s response: %w", method, path, err)
	}
	if buf.Len() == 0 {
		return nil
	}
	if err := json.Unmarshal(buf.Bytes(), out); err != nil {
		return fmt.Errorf("could not decode %s %s json: %w", method, path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, c.http, http.MethodGet, path, query, nil, out)
}

// GetRaw sends an authenticated GET to ref, a path relative to the base url,
// optionally with a query string, and returns the raw JSON answer.
func (c *Client) GetRaw(ctx context.Context, ref string) (json.RawMessage, error) {
	if ref == "" || !strings.HasPrefix(ref, "/") {
		ref = "/" + ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", ref, err)
	}
	if u.IsAbs() || u.Host != "" {
		return nil, errors.New("path must be relative to the backend url")
	}
	var raw json.RawMessage
	if err := c.get(ctx, u.EscapedPath(), u.Query(), &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
