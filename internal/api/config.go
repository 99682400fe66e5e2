package api

import (
	"errors"
	"time"
)

const DefaultBaseURL = "https://api.wanikani.com/v2"

// Config holds the API client configuration.
type Config struct {
	BaseURL string
	Token   string
	Retry   RetryConfig

	// Timeout bounds a single page request. Default: 20s.
	Timeout time.Duration
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     15 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 20 * time.Second,
	}
}

// Validate checks that a token is present.
func (c Config) Validate() error {
	if c.Token == "" {
		return errors.New("LEVELCAST_API_TOKEN is required for the remote source")
	}
	if c.BaseURL == "" {
		return errors.New("api base URL is empty")
	}
	return nil
}
