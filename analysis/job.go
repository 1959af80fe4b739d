package analysis

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/monox/dataset"
	"github.com/kbukum/monox/errors"
	"github.com/kbukum/monox/histogram"
	"github.com/kbukum/monox/logger"
	"github.com/kbukum/monox/observability"
	"github.com/kbukum/monox/record"
	"github.com/kbukum/monox/selection"
	"github.com/kbukum/monox/source"
)

// Option configures a Job.
type Option func(*Job)

// WithSelector replaces the default selector.
func WithSelector(sel *selection.Selector) Option {
	return func(j *Job) { j.sel = sel }
}

// WithLogger sets the job logger.
func WithLogger(l *logger.Logger) Option {
	return func(j *Job) { j.log = l }
}

// WithMetrics sets the instruments the job records into.
func WithMetrics(m *observability.Metrics) Option {
	return func(j *Job) { j.metrics = m }
}

// WithEvents makes the job read events from d instead of opening
// Config.Input.
func WithEvents(d dataset.Dataset[source.Event]) Option {
	return func(j *Job) { j.events = &d }
}

// Job measures one observable over every event of an input.
type Job struct {
	cfg     Config
	sel     *selection.Selector
	log     *logger.Logger
	metrics *observability.Metrics
	events  *dataset.Dataset[source.Event]
}

// NewJob validates cfg and builds a Job. Defaults are applied to cfg.
func NewJob(cfg Config, opts ...Option) (*Job, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	j := &Job{cfg: cfg}
	for _, opt := range opts {
		opt(j)
	}
	if j.sel == nil {
		j.sel = selection.NewSelector(selection.NewEffectiveAreas())
	}
	if j.log == nil {
		j.log = logger.Get("analysis")
	}
	if j.metrics == nil {
		m, err := observability.NewMetrics(observability.Meter("github.com/kbukum/monox/analysis"))
		if err != nil {
			return nil, errors.Internal(err)
		}
		j.metrics = m
	}
	return j, nil
}

// Config returns the job configuration with defaults applied.
func (j *Job) Config() Config { return j.cfg }

// outcome is the per-event result flowing to the barrier.
type outcome struct {
	value   int
	skipped bool
}

// run holds the state of a single Run call.
type run struct {
	job     *Job
	id      string
	log     *logger.Logger
	skipped atomic.Int64
}

// Run reads the input, measures the observable for every event and
// histograms the values. Under PolicyAbort the first failing event aborts
// the run; under PolicySkip failing events are dropped and counted.
func (j *Job) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	r := &run{job: j, id: j.cfg.RunID}
	if r.id == "" {
		r.id = uuid.NewString()
	}

	ctx = logger.ContextWithRunID(ctx, r.id)
	ctx, span := observability.StartSpan(ctx, observability.SpanAnalysisRun, trace.WithAttributes(
		attribute.String(observability.AttrRunID, r.id),
		attribute.String(observability.AttrObservable, string(j.cfg.Observable)),
		attribute.String(observability.AttrInput, j.cfg.Input),
	))
	defer span.End()
	r.log = j.log.WithContext(ctx)

	events, partitions, err := r.open()
	if err != nil {
		observability.SetSpanError(ctx, err)
		return nil, err
	}
	r.log.Info("analysis started", logger.Fields(
		logger.FieldInput, j.cfg.Input,
		logger.FieldObservable, string(j.cfg.Observable),
		"partitions", partitions,
		"error_policy", string(j.cfg.ErrorPolicy),
	))

	outcomes, err := dataset.Collect(ctx, dataset.Map(events, r.measure),
		dataset.WithParallelism(j.cfg.Parallelism),
		dataset.WithLogger(r.log.WithComponent("dataset")),
		dataset.WithObserver(r.observe),
	)
	if err != nil {
		observability.SetSpanError(ctx, err)
		r.log.Error("analysis failed", logger.MergeWithError(logger.DurationFields("analysis", time.Since(start)), err))
		return nil, err
	}

	values := make([]int, 0, len(outcomes))
	for _, o := range outcomes {
		if !o.skipped {
			values = append(values, o.value)
		}
	}
	h, err := histogram.Uniform(histogram.Ints(values), j.cfg.Bins)
	if err != nil {
		observability.SetSpanError(ctx, err)
		return nil, err
	}

	report := &Report{
		RunID:      r.id,
		Input:      j.cfg.Input,
		Observable: j.cfg.Observable,
		Events:     len(values),
		Skipped:    int(r.skipped.Load()),
		Values:     values,
		Histogram:  h,
		Duration:   time.Since(start),
	}
	span.SetAttributes(
		attribute.Int(observability.AttrEvents, report.Events),
		attribute.Int(observability.AttrSkipped, report.Skipped),
	)
	r.log.Info("analysis finished", logger.Fields(
		logger.FieldEvents, report.Events,
		"skipped", report.Skipped,
		logger.FieldDuration, report.Duration.Milliseconds(),
	))
	return report, nil
}

// open returns the event dataset and its partition count.
func (r *run) open() (dataset.Dataset[source.Event], int, error) {
	if r.job.events != nil {
		return *r.job.events, r.job.events.NumPartitions(), nil
	}
	var opts []source.Option
	if r.job.cfg.ErrorPolicy == PolicySkip {
		opts = append(opts, source.WithDecodeErrorHandler(r.skip))
	}
	in, err := source.Open(r.job.cfg.Input, r.job.cfg.Partitions, opts...)
	if err != nil {
		return dataset.Dataset[source.Event]{}, 0, err
	}
	return in.Dataset(), in.NumPartitions(), nil
}

func (r *run) measure(ctx context.Context, ev source.Event) (outcome, error) {
	obs := r.job.cfg.Observable
	rec, err := record.Convert(ev)
	if err != nil {
		return r.fail(ctx, err)
	}
	m, err := obs.measure(r.job.sel, rec)
	if err != nil {
		return r.fail(ctx, err)
	}
	r.job.metrics.RecordEvents(ctx, string(obs), 1)
	if m.predicate != "" {
		r.job.metrics.RecordSelected(ctx, m.collection, m.predicate, m.value)
	}
	return outcome{value: m.value}, nil
}

// fail applies the error policy to a failed event.
func (r *run) fail(ctx context.Context, err error) (outcome, error) {
	if err := r.skip(ctx, err); err != nil {
		return outcome{}, err
	}
	return outcome{skipped: true}, nil
}

// skip drops a bad event under PolicySkip and returns err otherwise.
func (r *run) skip(ctx context.Context, err error) error {
	if r.job.cfg.ErrorPolicy != PolicySkip {
		return err
	}
	r.skipped.Add(1)
	reason := "unknown"
	if appErr, ok := errors.AsAppError(err); ok {
		reason = string(appErr.Code)
	}
	r.job.metrics.RecordSkipped(ctx, string(r.job.cfg.Observable), reason)

	fields := logger.MergeWithError(logger.Fields("reason", reason), err)
	if idx, ok := dataset.PartitionFromContext(ctx); ok {
		fields[logger.FieldPartition] = idx
	}
	r.log.Warn("event skipped", fields)
	return nil
}

func (r *run) observe(ctx context.Context, s dataset.PartitionStats) {
	status := "ok"
	if s.Err != nil {
		status = "error"
	}
	r.job.metrics.RecordPartition(ctx, status, s.Duration)
}

func errUnknownObservable(o Observable) error {
	return errors.InvalidConfig(fmt.Sprintf("unknown observable %q", o))
}
