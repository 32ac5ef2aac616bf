package main

import (
	"fmt"

	"github.com/kbukum/errhandling/config"
	"github.com/kbukum/errhandling/httpclient"
	"github.com/kbukum/errhandling/observability"
	"github.com/kbukum/errhandling/server"
)

const serviceName = "errprobe"

// Config is errprobe's configuration file layout.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	HTTP    httpclient.Config         `yaml:"http" mapstructure:"http"`
	Server  server.Config             `yaml:"server" mapstructure:"server"`
	Metrics observability.MeterConfig `yaml:"metrics" mapstructure:"metrics"`
}

// ApplyDefaults keeps logs on stderr so command output stays parseable.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stderr"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "warn"
	}
	c.ServiceConfig.ApplyDefaults()
	c.HTTP.ApplyDefaults()
	c.Server.ApplyDefaults()

	c.Metrics.ApplyDefaults()
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = c.Name
	}
	if c.Metrics.ServiceVersion == "" {
		c.Metrics.ServiceVersion = c.Version
	}
	if c.Metrics.Environment == "" {
		c.Metrics.Environment = c.Environment
	}
}

// Validate validates every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("http: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	return c.Metrics.Validate()
}
