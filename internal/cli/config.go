package cli

import (
	"github.com/kbukum/monox/analysis"
	"github.com/kbukum/monox/config"
	"github.com/kbukum/monox/observability"
	"github.com/kbukum/monox/validation"
)

// ServiceName is the config and env-prefix name of the binary.
const ServiceName = "monox"

// Config is the full monox configuration.
//
//	name: monox
//	environment: production
//	analysis:
//	  input: bacon_valid.jsons
//	  partitions: 8
//	  observable: loose_muons
//	  error_policy: skip
//	telemetry:
//	  enabled: true
//	  endpoint: localhost:4318
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Analysis             analysis.Config      `yaml:"analysis" mapstructure:"analysis"`
	Telemetry            observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// ApplyDefaults fills unset fields. A command-line run defaults to the
// production environment so logs stay at info level.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = ServiceName
	}
	if c.Environment == "" {
		c.Environment = "production"
	}
	c.ServiceConfig.ApplyDefaults()
	c.Analysis.ApplyDefaults()
	c.Telemetry.ApplyDefaults()
}

// Validate checks every section and reports all failing fields at once.
func (c *Config) Validate() error {
	return validation.New().
		Merge("service", c.ServiceConfig.Validate()).
		Merge("analysis", c.Analysis.Validate()).
		Merge("telemetry", validation.Validate(&c.Telemetry)).
		Validate()
}
