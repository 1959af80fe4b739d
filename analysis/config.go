package analysis

import (
	"runtime"

	"github.com/kbukum/monox/validation"
)

// Config defaults.
const (
	DefaultInput = "bacon_valid.jsons"
	DefaultBins  = 10
)

// ErrorPolicy decides what happens to an event whose conversion or
// measurement fails.
type ErrorPolicy string

const (
	// PolicyAbort fails the whole run on the first bad event.
	PolicyAbort ErrorPolicy = "abort"
	// PolicySkip drops the bad event, logs it and counts it in Report.Skipped.
	PolicySkip ErrorPolicy = "skip"
)

// Output formats for a Report.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Config configures a Job.
type Config struct {
	Input       string      `yaml:"input" mapstructure:"input" validate:"required"`
	Partitions  int         `yaml:"partitions" mapstructure:"partitions" validate:"gte=1"`
	Parallelism int         `yaml:"parallelism" mapstructure:"parallelism" validate:"gte=0"`
	Observable  Observable  `yaml:"observable" mapstructure:"observable" validate:"oneof=muons loose_muons jets jet04"`
	ErrorPolicy ErrorPolicy `yaml:"error_policy" mapstructure:"error_policy" validate:"oneof=abort skip"`
	Bins        int         `yaml:"bins" mapstructure:"bins" validate:"gte=1"`
	Output      string      `yaml:"output" mapstructure:"output" validate:"oneof=text json"`
	// RunID is generated per run when empty.
	RunID string `yaml:"run_id" mapstructure:"run_id"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Input == "" {
		c.Input = DefaultInput
	}
	if c.Partitions <= 0 {
		c.Partitions = runtime.NumCPU()
	}
	if c.Observable == "" {
		c.Observable = ObservableMuons
	}
	if c.ErrorPolicy == "" {
		c.ErrorPolicy = PolicyAbort
	}
	if c.Bins <= 0 {
		c.Bins = DefaultBins
	}
	if c.Output == "" {
		c.Output = OutputText
	}
}

// Validate checks struct tags and the run id.
func (c *Config) Validate() error {
	return validation.New().
		Merge("", validation.Validate(c)).
		OptionalUUID("run_id", c.RunID).
		Validate()
}
