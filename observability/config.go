package observability

import (
	"time"

	"github.com/kbukum/monox/errors"
)

// Defaults applied by Config.ApplyDefaults.
const (
	DefaultEndpoint   = "localhost:4318"
	DefaultInterval   = 15 * time.Second
	DefaultSampleRate = 1.0
)

// Config configures telemetry export.
type Config struct {
	// Enabled turns on the OTLP exporters. When false every span and
	// instrument is a no-op.
	Enabled bool `mapstructure:"enabled"`
	// Endpoint is the OTLP HTTP endpoint host:port.
	Endpoint string `mapstructure:"endpoint" validate:"omitempty,hostname_port"`
	// Insecure disables TLS towards the collector.
	Insecure bool `mapstructure:"insecure"`
	// Interval is the metric export period.
	Interval time.Duration `mapstructure:"interval" validate:"gte=0"`
	// SampleRate is the trace sampling ratio (0.0 to 1.0).
	SampleRate float64 `mapstructure:"sample_rate" validate:"gte=0,lte=1"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.Interval == 0 {
		c.Interval = DefaultInterval
	}
	if c.SampleRate == 0 {
		c.SampleRate = DefaultSampleRate
	}
}

// Validate checks the configuration after defaults were applied.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Endpoint == "" {
		return errors.InvalidConfig("telemetry.endpoint is required when telemetry is enabled")
	}
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return errors.InvalidConfig("telemetry.sample_rate must be between 0 and 1").
			WithDetail("sample_rate", c.SampleRate)
	}
	return nil
}
