package publishers

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Supported publisher types.
const (
	TypeSQS       = "sqs"
	TypeSNS       = "sns"
	TypeHTTP      = "http"
	TypeGCPPubSub = "gcp_pubsub"
)

const (
	httpDefaultMethod         = "POST"
	httpDefaultTimeoutSeconds = 5
)

// PublisherConfig is one sink declared in the publishers file. Exactly the
// block matching Type is read.
type PublisherConfig struct {
	ID      string                 `json:"id" yaml:"id"`
	Type    string                 `json:"type" yaml:"type"`
	Enabled *bool                  `json:"enabled" yaml:"enabled"`
	SQS     *SQSPublisherConfig    `json:"sqs" yaml:"sqs"`
	SNS     *SNSPublisherConfig    `json:"sns" yaml:"sns"`
	HTTP    *HTTPPublisherConfig   `json:"http" yaml:"http"`
	PubSub  *PubSubPublisherConfig `json:"gcp_pubsub" yaml:"gcp_pubsub"`
}

// AWSCredentials optionally pins static credentials instead of the default AWS chain.
type AWSCredentials struct {
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
	SessionToken    string `json:"session_token" yaml:"session_token"`
}

// SQSPublisherConfig holds AWS SQS specific settings.
type SQSPublisherConfig struct {
	QueueURL    string          `json:"uri" yaml:"uri"`
	Region      string          `json:"region" yaml:"region"`
	Credentials *AWSCredentials `json:"credentials" yaml:"credentials"`
}

// SNSPublisherConfig holds AWS SNS specific settings.
type SNSPublisherConfig struct {
	TopicARN    string          `json:"topic_arn" yaml:"topic_arn"`
	Region      string          `json:"region" yaml:"region"`
	Credentials *AWSCredentials `json:"credentials" yaml:"credentials"`
}

// PubSubPublisherConfig holds Google Cloud Pub/Sub settings.
type PubSubPublisherConfig struct {
	ProjectID       string `json:"project_id" yaml:"project_id"`
	Topic           string `json:"topic" yaml:"topic"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file"`
}

// HTTPPublisherConfig holds webhook settings.
type HTTPPublisherConfig struct {
	URL            string            `json:"url" yaml:"url"`
	Method         string            `json:"method" yaml:"method"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// Registry is the validated, read-only set of sinks from a publishers file.
type Registry struct {
	sinks []PublisherConfig
	byID  map[string]int
}

// LoadRegistry reads a publishers file. Files ending in .json are decoded as
// JSON; everything else as YAML.
func LoadRegistry(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("publishers file path is empty")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read publishers file: %w", err)
	}

	var file struct {
		Publishers []PublisherConfig `json:"publishers" yaml:"publishers"`
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(raw, &file)
	} else {
		err = yaml.Unmarshal(raw, &file)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	if len(file.Publishers) == 0 {
		return nil, fmt.Errorf("%s declares no publishers", filepath.Base(path))
	}

	return newRegistry(file.Publishers)
}

func newRegistry(cfgs []PublisherConfig) (*Registry, error) {
	reg := &Registry{
		sinks: make([]PublisherConfig, 0, len(cfgs)),
		byID:  make(map[string]int, len(cfgs)),
	}
	for i, raw := range cfgs {
		cfg := raw.normalized()
		if err := cfg.validate(); err != nil {
			return nil, fmt.Errorf("publishers[%d]: %w", i, err)
		}
		if _, dup := reg.byID[cfg.ID]; dup {
			return nil, fmt.Errorf("duplicate publisher id %q", cfg.ID)
		}
		reg.byID[cfg.ID] = len(reg.sinks)
		reg.sinks = append(reg.sinks, cfg)
	}
	return reg, nil
}

// All returns every declared publisher in file order.
func (r *Registry) All() []PublisherConfig {
	if r == nil {
		return nil
	}
	out := make([]PublisherConfig, len(r.sinks))
	copy(out, r.sinks)
	return out
}

// Enabled returns the publishers whose enabled flag is unset or true.
func (r *Registry) Enabled() []PublisherConfig {
	if r == nil {
		return nil
	}
	var out []PublisherConfig
	for _, cfg := range r.sinks {
		if cfg.EnabledValue() {
			out = append(out, cfg)
		}
	}
	return out
}

// Select returns the publishers named by ids in the order given, ignoring
// their enabled flag. With no ids it returns Enabled().
func (r *Registry) Select(ids ...string) ([]PublisherConfig, error) {
	if len(ids) == 0 {
		return r.Enabled(), nil
	}
	if r == nil {
		return nil, errors.New("publishers registry is not loaded")
	}
	out := make([]PublisherConfig, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		i, ok := r.byID[id]
		if !ok {
			return nil, fmt.Errorf("unknown publisher id %q", id)
		}
		seen[id] = true
		out = append(out, r.sinks[i])
	}
	return out, nil
}

// EnabledValue returns the enabled flag, defaulting to true.
func (cfg PublisherConfig) EnabledValue() bool {
	return cfg.Enabled == nil || *cfg.Enabled
}

// normalized returns a trimmed copy with defaults applied. Type blocks are
// copied so the caller's values are never modified.
func (cfg PublisherConfig) normalized() PublisherConfig {
	cfg.ID = strings.TrimSpace(cfg.ID)
	cfg.Type = strings.ToLower(strings.TrimSpace(cfg.Type))
	if cfg.Enabled == nil {
		on := true
		cfg.Enabled = &on
	}
	if cfg.SQS != nil {
		c := *cfg.SQS
		c.QueueURL, c.Region = strings.TrimSpace(c.QueueURL), strings.TrimSpace(c.Region)
		cfg.SQS = &c
	}
	if cfg.SNS != nil {
		c := *cfg.SNS
		c.TopicARN, c.Region = strings.TrimSpace(c.TopicARN), strings.TrimSpace(c.Region)
		cfg.SNS = &c
	}
	if cfg.PubSub != nil {
		c := *cfg.PubSub
		c.ProjectID = strings.TrimSpace(c.ProjectID)
		c.Topic = strings.TrimSpace(c.Topic)
		c.CredentialsFile = strings.TrimSpace(c.CredentialsFile)
		cfg.PubSub = &c
	}
	if cfg.HTTP != nil {
		c := cfg.HTTP.normalized()
		cfg.HTTP = &c
	}
	return cfg
}

func (c HTTPPublisherConfig) normalized() HTTPPublisherConfig {
	c.URL = strings.TrimSpace(c.URL)
	c.Method = strings.ToUpper(strings.TrimSpace(c.Method))
	if c.Method == "" {
		c.Method = httpDefaultMethod
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = httpDefaultTimeoutSeconds
	}

	// blank header names or values are dropped
	var headers map[string]string
	for k, v := range c.Headers {
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		if headers == nil {
			headers = make(map[string]string, len(c.Headers))
		}
		headers[k] = v
	}
	c.Headers = headers
	return c
}

// validate checks that the block matching Type is present and complete.
func (cfg PublisherConfig) validate() error {
	if cfg.ID == "" {
		return errors.New("id is required")
	}

	var missing string
	switch cfg.Type {
	case "":
		return fmt.Errorf("publisher %q: type is required", cfg.ID)
	case TypeHTTP:
		switch {
		case cfg.HTTP == nil:
			missing = "http block"
		case cfg.HTTP.URL == "":
			missing = "http.url"
		}
	case TypeSQS:
		switch {
		case cfg.SQS == nil:
			missing = "sqs block"
		case cfg.SQS.QueueURL == "" || cfg.SQS.Region == "":
			missing = "sqs.uri and sqs.region"
		default:
			return cfg.SQS.Credentials.validate(cfg.ID)
		}
	case TypeSNS:
		switch {
		case cfg.SNS == nil:
			missing = "sns block"
		case cfg.SNS.TopicARN == "" || cfg.SNS.Region == "":
			missing = "sns.topic_arn and sns.region"
		default:
			return cfg.SNS.Credentials.validate(cfg.ID)
		}
	case TypeGCPPubSub:
		switch {
		case cfg.PubSub == nil:
			missing = "gcp_pubsub block"
		case cfg.PubSub.ProjectID == "" || cfg.PubSub.Topic == "":
			missing = "gcp_pubsub.project_id and gcp_pubsub.topic"
		}
	default:
		return fmt.Errorf("publisher %q: unsupported type %q", cfg.ID, cfg.Type)
	}
	if missing != "" {
		return fmt.Errorf("publisher %q: %s required", cfg.ID, missing)
	}
	return nil
}

func (c *AWSCredentials) validate(id string) error {
	if c == nil {
		return nil
	}
	if strings.TrimSpace(c.AccessKeyID) == "" || strings.TrimSpace(c.SecretAccessKey) == "" {
		return fmt.Errorf("publisher %q: credentials need access_key_id and secret_access_key", id)
	}
	return nil
}
