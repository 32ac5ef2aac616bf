package httpclient

import (
	"fmt"
	"time"

	"github.com/kbukum/errhandling/validation"
)

const (
	defaultTimeout = 30 * time.Second
)

// Config configures the HTTP client.
type Config struct {
	// BaseURL is the base URL prepended to all request paths.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" json:"base_url" validate:"omitempty,url"`

	// Timeout is the default request timeout. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" json:"timeout"`

	// Auth configures default authentication applied to all requests.
	// Individual requests can override this.
	Auth *AuthConfig `yaml:"auth" mapstructure:"auth" json:"auth"`

	// Headers are default headers applied to all requests.
	Headers map[string]string `yaml:"headers" mapstructure:"headers" json:"headers"`

	// TLS configures certificate verification and client certificates.
	TLS *TLSConfig `yaml:"tls" mapstructure:"tls" json:"tls"`

	// RequestID adds an X-Request-Id header to requests that lack one.
	RequestID bool `yaml:"request_id" mapstructure:"request_id" json:"request_id"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient: timeout must be positive")
	}
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("httpclient: %w", err)
	}
	if c.Auth != nil {
		if err := c.Auth.Validate(); err != nil {
			return err
		}
	}
	if c.TLS != nil {
		if err := validation.Validate(c.TLS); err != nil {
			return fmt.Errorf("httpclient: tls: %w", err)
		}
		if err := c.TLS.Validate(); err != nil {
			return err
		}
	}
	return nil
}
