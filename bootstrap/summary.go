package bootstrap

import (
	"context"
	"time"

	"github.com/kbukum/monox/component"
	"github.com/kbukum/monox/logger"
)

// Summary records what the application started with.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	components      []component.Health
}

// NewSummary creates a new startup summary.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{serviceName: serviceName, version: version}
}

// SetStartupDuration records how long startup took.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// Collect snapshots the health of every registered component.
func (s *Summary) Collect(ctx context.Context, registry *component.Registry) {
	s.components = registry.HealthAll(ctx)
}

// Healthy returns how many collected components reported healthy.
func (s *Summary) Healthy() int {
	n := 0
	for _, h := range s.components {
		if h.Status == component.StatusHealthy {
			n++
		}
	}
	return n
}

// Log writes the summary to log. Output goes through the logger so the
// report on stdout stays machine-readable.
func (s *Summary) Log(log *logger.Logger) {
	log.Info("application started", logger.Fields(
		"service", s.serviceName,
		"version", s.version,
		"startup_ms", s.startupDuration.Milliseconds(),
		"components", len(s.components),
		"healthy", s.Healthy(),
	))
	for _, h := range s.components {
		fields := logger.Fields(logger.FieldComponent, h.Name, "status", string(h.Status))
		if h.Message != "" {
			fields["message"] = h.Message
		}
		if h.Status == component.StatusHealthy {
			log.Debug("component ready", fields)
		} else {
			log.Warn("component not healthy", fields)
		}
	}
}
