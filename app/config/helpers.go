package config

import (
	"time"
)

// GetTimeout returns the per-request timeout as time.Duration
func (a *APIConfig) GetTimeout() time.Duration {
	if a.Timeout <= 0 {
		return 15 * time.Second // default 15 seconds
	}
	return time.Duration(a.Timeout) * time.Second
}

// GetRetryDelay returns the base retry delay as time.Duration
func (a *APIConfig) GetRetryDelay() time.Duration {
	if a.RetryDelay < 0 {
		return 2 * time.Second // default 2 seconds
	}
	return time.Duration(a.RetryDelay) * time.Second
}
