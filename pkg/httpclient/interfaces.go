package httpclient

import "context"

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client abstracts HTTP calls so callers can inject fakes or different transports.
// Implementations must copy headers into the outgoing request before returning.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}
