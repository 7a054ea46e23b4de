// Package config assembles the settings for one export run.
//
// Credentials come only from the environment. Everything else has a default,
// may be set in an optional YAML file, and may be overridden by CLI flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables holding the credentials.
const (
	EnvAPIKey = "AIRTABLE_API_KEY"
	EnvBaseID = "AIRTABLE_BASE_ID"
)

// Defaults for the non-secret settings.
const (
	DefaultAPIURL     = "https://api.airtable.com/v0/"
	DefaultTable      = "Events"
	DefaultOutputPath = "data/events.json"
	DefaultGCSObject  = "events.json"
	DefaultLogLevel   = "INFO"
)

var (
	ErrMissingAPIKey = errors.New("missing " + EnvAPIKey)
	ErrMissingBaseID = errors.New("missing " + EnvBaseID)
)

// Config is everything the exporter needs, passed in explicitly.
type Config struct {
	APIKey string `yaml:"-"`
	BaseID string `yaml:"-"`

	APIURL     string        `yaml:"api_url"`
	Table      string        `yaml:"table"`
	OutputPath string        `yaml:"output"`
	Timeout    time.Duration `yaml:"timeout"` // 0 waits indefinitely
	LogLevel   string        `yaml:"log_level"`
	GCS        GCS           `yaml:"gcs"`
}

// GCS describes the optional Cloud Storage copy of the output.
type GCS struct {
	Bucket string `yaml:"bucket"` // empty disables publishing
	Object string `yaml:"object"`
}

// Enabled reports whether a bucket has been configured.
func (g GCS) Enabled() bool {
	return g.Bucket != ""
}

// Default returns a Config with every non-secret default applied.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads non-secret settings from a YAML file and fills in defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	if !strings.HasSuffix(c.APIURL, "/") {
		c.APIURL += "/"
	}
	if c.Table == "" {
		c.Table = DefaultTable
	}
	if c.OutputPath == "" {
		c.OutputPath = DefaultOutputPath
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.GCS.Object == "" {
		c.GCS.Object = DefaultGCSObject
	}
}

// LoadCredentials fills APIKey and BaseID using getenv, normally os.Getenv.
// A missing or empty value is an error; nothing else about them is checked.
func (c *Config) LoadCredentials(getenv func(string) string) error {
	c.APIKey = strings.TrimSpace(getenv(EnvAPIKey))
	c.BaseID = strings.TrimSpace(getenv(EnvBaseID))

	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.BaseID == "" {
		return ErrMissingBaseID
	}
	return nil
}
