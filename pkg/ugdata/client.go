// Package ugdata is a client for the Uganda administrative-geography data API.
package ugdata

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/samvad-hq/uganda-geodata/pkg/httpclient"
)

const (
	// DefaultBaseURL is the hosted Uganda data service.
	DefaultBaseURL = "https://uganda.rapharm.shop/api/uganda/data/v1"

	// Headers derived from the API key and sent with every request.
	HeaderAPIKey        = "X-API-KEY"
	HeaderAuthorization = "Authorization"
	HeaderRequestedWith = "X-Requested-With"

	requestedWithValue = "XMLHttpRequest"
	defaultTimeout     = 15 * time.Second
)

// credentials pairs an API key with the headers derived from it.
// Values are never mutated after construction.
type credentials struct {
	apiKey  string
	headers map[string]string
}

func newCredentials(apiKey string) *credentials {
	return &credentials{
		apiKey: apiKey,
		headers: map[string]string{
			HeaderAPIKey:        apiKey,
			HeaderAuthorization: "Bearer " + apiKey,
			HeaderRequestedWith: requestedWithValue,
		},
	}
}

// Client fetches districts, counties, sub-counties, parishes and villages.
// It is safe for concurrent use; SetAPIKey only affects requests started after it returns.
type Client struct {
	baseURL string
	http    httpclient.Client
	log     Logger
	creds   atomic.Pointer[credentials]
}

// Option customises a Client.
type Option func(*Client)

// WithBaseURL overrides DefaultBaseURL. Trailing slashes are trimmed.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/"); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithHTTPClient sets the transport used for GET requests.
func WithHTTPClient(client httpclient.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(log Logger) Option {
	return func(c *Client) {
		c.log = ensureLogger(log)
	}
}

// New builds a Client authenticated with apiKey. The key is used as given.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		log:     noopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.http == nil {
		c.http = httpclient.NewRestyClient(defaultTimeout)
	}
	c.creds.Store(newCredentials(apiKey))
	return c
}

// BaseURL returns the API root every endpoint path is appended to.
func (c *Client) BaseURL() string { return c.baseURL }

// APIKey returns the key currently attached to requests.
func (c *Client) APIKey() string { return c.creds.Load().apiKey }

// SetAPIKey replaces the key and all headers derived from it in one step.
func (c *Client) SetAPIKey(apiKey string) {
	c.creds.Store(newCredentials(apiKey))
}

// Headers returns a copy of the headers sent with every request.
func (c *Client) Headers() map[string]string {
	src := c.creds.Load().headers
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// FetchData issues an authenticated GET against url and returns the decoded JSON body.
// Transport failures and non-2xx responses are returned as a *FetchError.
func (c *Client) FetchData(ctx context.Context, url string) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	headers := c.creds.Load().headers

	start := time.Now()
	resp, err := c.http.Get(ctx, url, headers)
	if err != nil {
		return nil, c.fail(url, err)
	}

	body := resp.Body()
	if status := resp.StatusCode(); status < 200 || status > 299 {
		return nil, c.fail(url, &StatusError{StatusCode: status, Body: responseSnippet(body)})
	}

	payload := decodePayload(body)

	c.log.DebugObj("ugdata request completed", "ugdata_request", map[string]any{
		"url":        url,
		"status":     resp.StatusCode(),
		"bytes":      len(body),
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return payload, nil
}

func (c *Client) fail(url string, err error) error {
	c.log.WarnObj("ugdata request failed", "ugdata_error", map[string]any{
		"url":   url,
		"error": err.Error(),
	})
	return &FetchError{URL: url, Err: err}
}

// decodePayload keeps numbers as json.Number so the body round-trips unchanged.
// An empty body yields nil and a body that is not a single JSON value is returned as a string.
func decodePayload(body []byte) any {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var payload any
	if err := dec.Decode(&payload); err != nil {
		return string(body)
	}
	if _, err := dec.Token(); err != io.EOF {
		return string(body)
	}
	return payload
}

func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
