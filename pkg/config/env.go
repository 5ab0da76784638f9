package config

import (
	"os"
	"strconv"
	"time"
)

// Environment variable names for configuration.
const (
	EnvUserAgent       = "NETREQ_USER_AGENT"
	EnvTimeout         = "NETREQ_TIMEOUT"
	EnvMaxResponseSize = "NETREQ_MAX_RESPONSE_SIZE"
	EnvDebug           = "NETREQ_DEBUG"
)

// GetEnvString returns the value of an environment variable or a default.
func GetEnvString(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// GetEnvBool returns true if the env var is "true" or "1".
func GetEnvBool(key string) bool {
	v := os.Getenv(key)
	return v == "true" || v == "1"
}

// GetEnvDuration parses an environment variable as a time.Duration. Unset
// or malformed values yield the default.
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

// GetEnvInt parses an environment variable as an int64. Unset or malformed
// values yield the default.
func GetEnvInt(key string, defaultValue int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}

// ApplyEnv overrides fields of cfg from NETREQ_* environment variables.
func ApplyEnv(cfg *Config) {
	cfg.UserAgent = GetEnvString(EnvUserAgent, cfg.UserAgent)
	cfg.Timeout = GetEnvDuration(EnvTimeout, cfg.Timeout)
	cfg.MaxResponseSize = GetEnvInt(EnvMaxResponseSize, cfg.MaxResponseSize)
	if GetEnvBool(EnvDebug) {
		cfg.Debug = true
	}
}
