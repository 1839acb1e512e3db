package ugdata

import "fmt"

// FetchError is returned by every failed fetch.
// Transport failures and non-2xx statuses share this type; StatusError tells them apart.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return "error fetching data"
	}
	return "error fetching data: " + e.Err.Error()
}

func (e *FetchError) Unwrap() error { return e.Err }

// StatusError carries a non-2xx response as the cause of a FetchError.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("request failed with status code %d", e.StatusCode)
	}
	return fmt.Sprintf("request failed with status code %d: %s", e.StatusCode, e.Body)
}
