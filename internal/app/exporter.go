package app

import (
	"context"
	"fmt"
	"time"

	"github.com/samvad-hq/uganda-geodata/internal/config"
	"github.com/samvad-hq/uganda-geodata/internal/logger"
	"github.com/samvad-hq/uganda-geodata/pkg/httpclient"
	"github.com/samvad-hq/uganda-geodata/pkg/publishers"
	"github.com/samvad-hq/uganda-geodata/pkg/ugdata"
)

// Request identifies a single endpoint call.
type Request struct {
	Endpoint string
	UUID     string
	Params   ugdata.ListParams
}

// Result is the outcome of Exporter.Run.
type Result struct {
	URL       string
	Payload   any
	Published int
}

// Exporter fetches geography data and optionally forwards it to configured publishers.
type Exporter struct {
	cfg    *config.Config
	client *ugdata.Client
	fanout *publishers.Fanout
	log    logger.Logger
}

// Option customises an Exporter.
type Option func(*exporterOptions)

type exporterOptions struct {
	httpClient   httpclient.Client
	fanout       *publishers.Fanout
	publisherIDs []string
}

// WithHTTPClient overrides the transport built from config.
func WithHTTPClient(c httpclient.Client) Option {
	return func(o *exporterOptions) { o.httpClient = c }
}

// WithFanout supplies publishers directly instead of loading cfg.PublishersFile.
func WithFanout(f *publishers.Fanout) Option {
	return func(o *exporterOptions) { o.fanout = f }
}

// WithPublisherIDs limits publishing to the named publishers, including ones
// disabled in the publishers file.
func WithPublisherIDs(ids ...string) Option {
	return func(o *exporterOptions) { o.publisherIDs = append(o.publisherIDs, ids...) }
}

// NewExporter builds the runtime from config. Publishers are loaded only when
// publish is true.
func NewExporter(ctx context.Context, cfg *config.Config, log logger.Logger, publish bool, opts ...Option) (*Exporter, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.APIKey == "" {
		log.WarnObj("api key is empty; requests will likely be rejected", "config_key", "ugdata_api_key")
	}

	var o exporterOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = httpclient.NewRestyClient(cfg.HTTPTimeout)
	}

	client := ugdata.New(cfg.APIKey,
		ugdata.WithBaseURL(cfg.BaseURL),
		ugdata.WithHTTPClient(o.httpClient),
		ugdata.WithLogger(log),
	)

	fanout := o.fanout
	if publish && fanout == nil {
		var err error
		fanout, err = loadFanout(ctx, cfg, log, o.publisherIDs)
		if err != nil {
			return nil, err
		}
	}

	return &Exporter{
		cfg:    cfg,
		client: client,
		fanout: fanout,
		log:    log,
	}, nil
}

func loadFanout(ctx context.Context, cfg *config.Config, log logger.Logger, ids []string) (*publishers.Fanout, error) {
	if cfg.PublishersFile == "" {
		return nil, fmt.Errorf("publishing requested but publishers_file is not set")
	}

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabled, err := publisherReg.Select(ids...)
	if err != nil {
		return nil, fmt.Errorf("select publishers: %w", err)
	}
	if len(enabled) == 0 {
		return nil, fmt.Errorf("no publishers enabled in %s", cfg.PublishersFile)
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubClients), nil
}

// Client exposes the underlying geodata client.
func (e *Exporter) Client() *ugdata.Client { return e.client }

// Run fetches one endpoint and publishes the payload when publishers are configured.
// A publish failure is returned together with the fetched result.
func (e *Exporter) Run(ctx context.Context, req Request) (*Result, error) {
	if e == nil || e.client == nil {
		return nil, fmt.Errorf("exporter is not initialized")
	}

	endpoint, ok := ugdata.Lookup(req.Endpoint)
	if !ok {
		return nil, fmt.Errorf("unknown endpoint %q", req.Endpoint)
	}
	if !endpoint.List && req.UUID == "" {
		return nil, fmt.Errorf("endpoint %q requires a uuid", endpoint.Name)
	}

	url := e.client.URL(endpoint, req.UUID, req.Params)
	start := time.Now()
	e.log.InfoObj("fetch started", "fetch_meta", map[string]any{
		"endpoint": endpoint.Name,
		"url":      url,
	})

	payload, err := e.client.FetchData(ctx, url)
	if err != nil {
		return nil, err
	}
	e.log.InfoObj("fetch completed", "fetch_meta", map[string]any{
		"endpoint":   endpoint.Name,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})

	res := &Result{URL: url, Payload: payload}
	if e.fanout.Size() == 0 {
		return res, nil
	}

	evt := publishers.NewEvent(endpoint.Name, req.UUID, url, payload)
	n, err := e.fanout.Publish(ctx, evt)
	res.Published = n
	e.log.InfoObj("payload published", "publish_meta", map[string]any{
		"endpoint":   endpoint.Name,
		"successful": n,
		"publishers": e.fanout.Size(),
	})
	if err != nil {
		return res, fmt.Errorf("publish %s: %w", endpoint.Name, err)
	}
	return res, nil
}

// Close releases publisher connections, logging any errors encountered.
func (e *Exporter) Close() {
	if e == nil || e.fanout == nil {
		return
	}
	if err := e.fanout.Close(); err != nil {
		e.log.ErrorObj("publisher close failed", "error", err)
	}
}
