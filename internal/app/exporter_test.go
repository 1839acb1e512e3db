package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samvad-hq/uganda-geodata/internal/config"
	"github.com/samvad-hq/uganda-geodata/pkg/httpclient"
	"github.com/samvad-hq/uganda-geodata/pkg/publishers"
	"github.com/samvad-hq/uganda-geodata/pkg/ugdata"
)

type stubResponse struct {
	body   []byte
	status int
}

func (s stubResponse) Body() []byte    { return s.body }
func (s stubResponse) StatusCode() int { return s.status }

type stubHTTPClient struct {
	urls []string
	body string
	err  error
}

func (s *stubHTTPClient) Get(_ context.Context, url string, _ map[string]string) (httpclient.Response, error) {
	s.urls = append(s.urls, url)
	if s.err != nil {
		return nil, s.err
	}
	return stubResponse{body: []byte(s.body), status: http.StatusOK}, nil
}

type recordingPublisher struct {
	events []publishers.Event
	err    error
}

func (r *recordingPublisher) ID() string   { return "rec" }
func (r *recordingPublisher) Type() string { return publishers.TypeHTTP }
func (r *recordingPublisher) Publish(_ context.Context, evt publishers.Event) error {
	r.events = append(r.events, evt)
	return r.err
}

func testConfig() *config.Config {
	return &config.Config{
		APIKey:       "k",
		BaseURL:      "https://geo.example/v1",
		OutputFormat: "json",
	}
}

func TestExporterRunFetchesAndPublishes(t *testing.T) {
	httpStub := &stubHTTPClient{body: `{"id":"d-1","name":"Gulu"}`}
	rec := &recordingPublisher{}

	exp, err := NewExporter(context.Background(), testConfig(), nil, true,
		WithHTTPClient(httpStub),
		WithFanout(publishers.NewFanout([]publishers.Publisher{rec})),
	)
	if err != nil {
		t.Fatalf("NewExporter: %v", err)
	}
	defer exp.Close()

	res, err := exp.Run(context.Background(), Request{Endpoint: ugdata.EndpointDistrict, UUID: "d-1"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.URL != "https://geo.example/v1/district/d-1" || httpStub.urls[0] != res.URL {
		t.Fatalf("unexpected url %q", res.URL)
	}
	if res.Published != 1 || len(rec.events) != 1 {
		t.Fatalf("expected one published event, got %d", len(rec.events))
	}
	if evt := rec.events[0]; evt.Endpoint != ugdata.EndpointDistrict || evt.UUID != "d-1" {
		t.Fatalf("unexpected event %#v", evt)
	}
}

func TestExporterRunWithoutPublishers(t *testing.T) {
	httpStub := &stubHTTPClient{body: `[]`}
	exp, err := NewExporter(context.Background(), testConfig(), nil, false, WithHTTPClient(httpStub))
	if err != nil {
		t.Fatalf("NewExporter: %v", err)
	}

	res, err := exp.Run(context.Background(), Request{
		Endpoint: ugdata.EndpointVillages,
		Params:   ugdata.ListParams{Limit: ugdata.Int(5)},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Published != 0 {
		t.Fatalf("nothing should be published")
	}
	if !strings.HasSuffix(res.URL, "/villages?limit=5&page=1&sort_order=asc") {
		t.Fatalf("unexpected url %q", res.URL)
	}
}

func TestExporterRunValidatesRequest(t *testing.T) {
	httpStub := &stubHTTPClient{body: `{}`}
	exp, err := NewExporter(context.Background(), testConfig(), nil, false, WithHTTPClient(httpStub))
	if err != nil {
		t.Fatalf("NewExporter: %v", err)
	}

	if _, err := exp.Run(context.Background(), Request{Endpoint: "regions"}); err == nil {
		t.Fatalf("expected unknown endpoint error")
	}
	if _, err := exp.Run(context.Background(), Request{Endpoint: ugdata.EndpointParish}); err == nil {
		t.Fatalf("expected missing uuid error")
	}
	if len(httpStub.urls) != 0 {
		t.Fatalf("invalid requests must not reach the transport")
	}
}

func TestExporterRunSurfacesFetchError(t *testing.T) {
	httpStub := &stubHTTPClient{err: errors.New("timeout awaiting headers")}
	rec := &recordingPublisher{}
	exp, err := NewExporter(context.Background(), testConfig(), nil, true,
		WithHTTPClient(httpStub),
		WithFanout(publishers.NewFanout([]publishers.Publisher{rec})),
	)
	if err != nil {
		t.Fatalf("NewExporter: %v", err)
	}

	_, err = exp.Run(context.Background(), Request{Endpoint: ugdata.EndpointCounties})
	var fetchErr *ugdata.FetchError
	if !errors.As(err, &fetchErr) || !strings.Contains(err.Error(), "timeout awaiting headers") {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if len(rec.events) != 0 {
		t.Fatalf("failed fetch must not publish")
	}
}

func TestExporterRunReturnsResultOnPublishError(t *testing.T) {
	rec := &recordingPublisher{err: errors.New("sink down")}
	exp, err := NewExporter(context.Background(), testConfig(), nil, true,
		WithHTTPClient(&stubHTTPClient{body: `{}`}),
		WithFanout(publishers.NewFanout([]publishers.Publisher{rec})),
	)
	if err != nil {
		t.Fatalf("NewExporter: %v", err)
	}

	res, err := exp.Run(context.Background(), Request{Endpoint: ugdata.EndpointDistricts})
	if err == nil || !strings.Contains(err.Error(), "sink down") {
		t.Fatalf("expected publish error, got %v", err)
	}
	if res == nil || res.Payload == nil {
		t.Fatalf("expected fetched payload alongside publish error")
	}
}

func TestNewExporterLoadsPublishersFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.yaml")
	raw := `
publishers:
  - id: hook
    type: http
    http:
      url: https://example.com/hook
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	cfg := testConfig()
	cfg.PublishersFile = path
	exp, err := NewExporter(context.Background(), cfg, nil, true, WithHTTPClient(&stubHTTPClient{}))
	if err != nil {
		t.Fatalf("NewExporter: %v", err)
	}
	defer exp.Close()
	if exp.fanout.Size() != 1 {
		t.Fatalf("expected 1 publisher, got %d", exp.fanout.Size())
	}
}

func TestNewExporterRequiresPublishersFileWhenPublishing(t *testing.T) {
	if _, err := NewExporter(context.Background(), testConfig(), nil, true); err == nil {
		t.Fatalf("expected error without publishers_file")
	}
	if _, err := NewExporter(context.Background(), nil, nil, false); err == nil {
		t.Fatalf("expected error for nil config")
	}
}

func TestNewExporterSelectsPublishersByID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publishers.yaml")
	raw := `
publishers:
  - id: hook
    type: http
    http:
      url: https://example.com/hook
  - id: backup
    type: http
    enabled: false
    http:
      url: https://example.com/backup
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	cfg := testConfig()
	cfg.PublishersFile = path
	exp, err := NewExporter(context.Background(), cfg, nil, true,
		WithHTTPClient(&stubHTTPClient{}),
		WithPublisherIDs("backup"),
	)
	if err != nil {
		t.Fatalf("NewExporter: %v", err)
	}
	defer exp.Close()
	if exp.fanout.Size() != 1 {
		t.Fatalf("expected only the selected publisher, got %d", exp.fanout.Size())
	}

	if _, err := NewExporter(context.Background(), cfg, nil, true, WithPublisherIDs("nope")); err == nil {
		t.Fatalf("expected error for unknown publisher id")
	}
}
