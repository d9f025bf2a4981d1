package challenge

import "time"

// Config configures the remote challenge service client.
type Config struct {
	// BaseURL is the service endpoint. Empty disables the client.
	BaseURL string `validate:"omitempty,url"`

	// Timeout bounds one call including retries. Default: 10s.
	Timeout time.Duration `validate:"gt=0"`

	Retry RetryConfig
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int `validate:"min=1,max=10"`
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64 `validate:"gte=1"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout: 10 * time.Second,
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     4 * time.Second,
			Multiplier:  2.0,
		},
	}
}
