package publishers

import "time"

// Event is the payload published downstream after a successful fetch.
type Event struct {
	Endpoint  string    `json:"endpoint"`
	UUID      string    `json:"uuid,omitempty"`
	URL       string    `json:"url"`
	Payload   any       `json:"payload"`
	FetchedAt time.Time `json:"fetched_at"`
}

// NewEvent constructs an Event for a fetched endpoint.
func NewEvent(endpoint, uuid, url string, payload any) Event {
	return Event{
		Endpoint:  endpoint,
		UUID:      uuid,
		URL:       url,
		Payload:   payload,
		FetchedAt: time.Now().UTC(),
	}
}

func (e Event) attributes() map[string]string {
	attrs := map[string]string{"endpoint": e.Endpoint}
	if e.UUID != "" {
		attrs["uuid"] = e.UUID
	}
	return attrs
}
