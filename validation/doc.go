// Package validation checks configuration values and reports every problem
// in one INVALID_CONFIG error.
//
// Struct tags cover single-field rules (using the validator library);
// the Validator collects programmatic and cross-field checks.
//
// # Struct Tag Validation
//
//	type Config struct {
//	    Partitions int    `mapstructure:"partitions" validate:"gte=0"`
//	    Policy     string `mapstructure:"error_policy" validate:"oneof=abort skip"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Custom(cfg.Parallelism <= cfg.Partitions, "parallelism", "must not exceed partitions")
//	err := v.Validate()
package validation
