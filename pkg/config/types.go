// Package config holds the netreq client configuration: defaults,
// environment overrides, YAML loading and validation.
package config

import (
	"maps"
	"time"
)

// Default configuration values.
const (
	// DefaultUserAgent is sent when the caller sets none.
	DefaultUserAgent = "netreq-go/" + Version

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxResponseSize is the default response body limit.
	DefaultMaxResponseSize = 10 * 1024 * 1024 // 10MB

	// DefaultMaxIdleConns is the default maximum number of idle connections.
	DefaultMaxIdleConns = 100

	// DefaultMaxIdleConnsPerHost is the default maximum idle connections per host.
	DefaultMaxIdleConnsPerHost = 10

	// DefaultIdleConnTimeout is the default timeout for idle connections.
	DefaultIdleConnTimeout = 90 * time.Second

	// DefaultMetricsNamespace prefixes Prometheus metric names.
	DefaultMetricsNamespace = "netreq"
)

// Version is the library version reported in the default User-Agent.
const Version = "0.1.0"

// Config configures a netreq client.
type Config struct {
	// UserAgent is set on requests that carry no User-Agent header.
	UserAgent string `yaml:"user_agent" validate:"required"`

	// Timeout bounds a whole exchange, body read included.
	Timeout time.Duration `yaml:"timeout" validate:"gt=0,lte=10m"`

	// MaxResponseSize bounds response bodies in bytes.
	MaxResponseSize int64 `yaml:"max_response_size" validate:"gt=0,lte=1073741824"`

	MaxIdleConns        int           `yaml:"max_idle_conns" validate:"gte=0"`
	MaxIdleConnsPerHost int           `yaml:"max_idle_conns_per_host" validate:"gte=0"`
	IdleConnTimeout     time.Duration `yaml:"idle_conn_timeout" validate:"gte=0"`

	// Debug installs the debug hook, which logs headers.
	Debug bool `yaml:"debug"`

	// DefaultHeaders are added to requests that do not already carry them.
	// Values may reference environment variables as ${VAR}.
	DefaultHeaders map[string]string `yaml:"default_headers" validate:"dive,keys,required,endkeys"`

	// MetricsNamespace prefixes Prometheus metric names.
	MetricsNamespace string `yaml:"metrics_namespace" validate:"omitempty,metricname"`
}

// Default returns a Config populated with the default values.
func Default() *Config {
	return &Config{
		UserAgent:           DefaultUserAgent,
		Timeout:             DefaultTimeout,
		MaxResponseSize:     DefaultMaxResponseSize,
		MaxIdleConns:        DefaultMaxIdleConns,
		MaxIdleConnsPerHost: DefaultMaxIdleConnsPerHost,
		IdleConnTimeout:     DefaultIdleConnTimeout,
		MetricsNamespace:    DefaultMetricsNamespace,
	}
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	out.DefaultHeaders = maps.Clone(c.DefaultHeaders)
	return &out
}
