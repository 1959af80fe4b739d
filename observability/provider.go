package observability

import (
	"context"
	"sync"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/multierr"

	"github.com/kbukum/monox/component"
	"github.com/kbukum/monox/logger"
)

const componentName = "telemetry"

// Provider owns the trace and meter providers for one process.
type Provider struct {
	cfg         Config
	service     string
	version     string
	environment string
	log         *logger.Logger

	mu      sync.Mutex
	tp      *sdktrace.TracerProvider
	mp      *sdkmetric.MeterProvider
	started bool
}

var _ component.Component = (*Provider)(nil)

// NewProvider returns an unstarted Provider. Defaults are applied to cfg.
func NewProvider(service, version, environment string, cfg Config) *Provider {
	cfg.ApplyDefaults()
	return &Provider{
		cfg:         cfg,
		service:     service,
		version:     version,
		environment: environment,
		log:         logger.Get(componentName),
	}
}

// Init creates and starts a Provider.
func Init(ctx context.Context, service, version, environment string, cfg Config) (*Provider, error) {
	p := NewProvider(service, version, environment, cfg)
	if err := p.Start(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// Name implements component.Component.
func (p *Provider) Name() string { return componentName }

// Start installs the global providers when telemetry is enabled.
func (p *Provider) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return nil
	}
	if err := p.cfg.Validate(); err != nil {
		return err
	}
	if !p.cfg.Enabled {
		p.started = true
		p.log.Debug("telemetry disabled")
		return nil
	}

	res, err := newResource(ctx, p.service, p.version, p.environment)
	if err != nil {
		return err
	}
	tp, err := newTracerProvider(ctx, &p.cfg, res)
	if err != nil {
		return err
	}
	mp, err := newMeterProvider(ctx, &p.cfg, res)
	if err != nil {
		return multierr.Append(err, tp.Shutdown(ctx))
	}

	p.tp, p.mp = tp, mp
	installGlobals(tp, mp)
	p.started = true

	p.log.Info("telemetry initialized", logger.Fields(
		"service", p.service,
		"endpoint", p.cfg.Endpoint,
		"sample_rate", p.cfg.SampleRate,
		"interval", p.cfg.Interval.String(),
	))
	return nil
}

// Stop implements component.Component.
func (p *Provider) Stop(ctx context.Context) error {
	return p.Shutdown(ctx)
}

// Shutdown flushes pending spans and metrics and releases the exporters.
// It is safe to call more than once.
func (p *Provider) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var err error
	if p.tp != nil {
		err = multierr.Append(err, p.tp.Shutdown(ctx))
		p.tp = nil
	}
	if p.mp != nil {
		err = multierr.Append(err, p.mp.Shutdown(ctx))
		p.mp = nil
	}
	p.started = false
	return err
}

// Health implements component.Component.
func (p *Provider) Health(_ context.Context) component.Health {
	p.mu.Lock()
	defer p.mu.Unlock()

	h := component.Health{Name: componentName, Status: component.StatusHealthy}
	switch {
	case !p.started:
		h.Status = component.StatusUnhealthy
		h.Message = "not started"
	case !p.cfg.Enabled:
		h.Message = "disabled"
	default:
		h.Message = "exporting to " + p.cfg.Endpoint
	}
	return h
}

// Enabled reports whether exporters are configured.
func (p *Provider) Enabled() bool {
	return p.cfg.Enabled
}
