package dataset

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/kbukum/monox/logger"
	"github.com/kbukum/monox/observability"
)

// PartitionStats describes one finished partition evaluation.
type PartitionStats struct {
	Index    int
	Count    int
	Duration time.Duration
	Err      error
}

// Option configures a terminal operation.
type Option func(*options)

type options struct {
	parallelism int
	log         *logger.Logger
	observers   []func(context.Context, PartitionStats)
}

// WithParallelism bounds how many partitions are evaluated at once.
// Zero or negative means one goroutine per partition.
func WithParallelism(n int) Option {
	return func(o *options) { o.parallelism = n }
}

// WithLogger sets the logger used for partition progress.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithObserver registers fn to be called after each partition finishes,
// from the goroutine that evaluated it.
func WithObserver(fn func(context.Context, PartitionStats)) Option {
	return func(o *options) { o.observers = append(o.observers, fn) }
}

func applyOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = logger.Get("dataset")
	}
	return o
}

// Collect evaluates every partition and returns all values. Values from one
// partition appear in their original order; no order across partitions is
// guaranteed.
func Collect[T any](ctx context.Context, d Dataset[T], opts ...Option) ([]T, error) {
	parts, err := CollectPartitions(ctx, d, opts...)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	out := make([]T, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out, nil
}

// CollectPartitions evaluates every partition and returns the values grouped
// by partition index.
func CollectPartitions[T any](ctx context.Context, d Dataset[T], opts ...Option) ([][]T, error) {
	o := applyOptions(opts)
	out := make([][]T, len(d.parts))
	err := run(ctx, d, o, observability.SpanCollect, func(i int, vals []T) {
		out[i] = vals
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Count evaluates the dataset and returns the number of values.
func Count[T any](ctx context.Context, d Dataset[T], opts ...Option) (int, error) {
	counted := Map(d, func(_ context.Context, _ T) (struct{}, error) { return struct{}{}, nil })
	parts, err := CollectPartitions(ctx, counted, opts...)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	return n, nil
}

// Reduce folds each partition with fn starting from init, then folds the
// partition results together with merge in partition index order.
func Reduce[T, R any](ctx context.Context, d Dataset[T], init R, fn func(R, T) R, merge func(R, R) R, opts ...Option) (R, error) {
	parts, err := CollectPartitions(ctx, d, opts...)
	if err != nil {
		var zero R
		return zero, err
	}
	acc := init
	for _, vals := range parts {
		partial := init
		for _, v := range vals {
			partial = fn(partial, v)
		}
		acc = merge(acc, partial)
	}
	return acc, nil
}

// run is the barrier shared by every terminal. It returns after all
// partitions finished or the first one failed and the rest were cancelled.
func run[T any](ctx context.Context, d Dataset[T], o *options, spanName string, sink func(int, []T)) error {
	ctx, span := observability.StartSpan(ctx, spanName)
	defer span.End()
	span.SetAttributes(attribute.Int(observability.AttrPartitions, len(d.parts)))

	g, gctx := errgroup.WithContext(ctx)
	if o.parallelism > 0 {
		g.SetLimit(o.parallelism)
	}
	start := time.Now()
	for _, p := range d.parts {
		p := p // per-iteration copy; module targets go1.21 loop semantics
		g.Go(func() error {
			began := time.Now()
			vals, err := drain(gctx, p)
			stats := PartitionStats{Index: p.index, Count: len(vals), Duration: time.Since(began), Err: err}
			for _, obs := range o.observers {
				obs(gctx, stats)
			}
			if err != nil {
				return fmt.Errorf("partition %d: %w", p.index, err)
			}
			o.log.Debug("partition finished", logger.Fields(
				logger.FieldPartition, p.index,
				"values", len(vals),
				logger.FieldDuration, stats.Duration.Milliseconds(),
			))
			sink(p.index, vals)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	o.log.Debug("dataset evaluated", logger.DurationFields(spanName, time.Since(start)))
	return nil
}

// drain pulls every value of one partition. Close errors are combined with
// any evaluation error.
func drain[T any](ctx context.Context, p Partition[T]) (vals []T, err error) {
	ctx = withPartition(ctx, p.index)
	it := p.open(ctx)
	defer func() {
		err = multierr.Append(err, it.Close())
	}()
	for {
		if err := ctx.Err(); err != nil {
			return vals, err
		}
		val, ok, err := it.Next(ctx)
		if err != nil {
			return vals, err
		}
		if !ok {
			return vals, nil
		}
		vals = append(vals, val)
	}
}
