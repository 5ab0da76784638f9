package config

import (
	"net/http"
)

// HTTPClient builds an *http.Client from the timeout and connection pool
// settings.
func (c *Config) HTTPClient() *http.Client {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.MaxIdleConns = c.MaxIdleConns
	tr.MaxIdleConnsPerHost = c.MaxIdleConnsPerHost
	tr.IdleConnTimeout = c.IdleConnTimeout
	return &http.Client{
		Timeout:   c.Timeout,
		Transport: tr,
	}
}
