package dataset

import "context"

// Map transforms each value using fn.
func Map[I, O any](d Dataset[I], fn func(context.Context, I) (O, error)) Dataset[O] {
	return derive(d, func(src Iterator[I]) Iterator[O] {
		return &mapIter[I, O]{source: src, fn: fn}
	})
}

// Filter keeps only values for which pred returns true.
func Filter[T any](d Dataset[T], pred func(context.Context, T) (bool, error)) Dataset[T] {
	return derive(d, func(src Iterator[T]) Iterator[T] {
		return &filterIter[T]{source: src, pred: pred}
	})
}

// FlatMap expands each value into zero or more values, in order.
func FlatMap[I, O any](d Dataset[I], fn func(context.Context, I) ([]O, error)) Dataset[O] {
	return derive(d, func(src Iterator[I]) Iterator[O] {
		return &flatMapIter[I, O]{source: src, fn: fn}
	})
}

// Tap calls fn as a side effect for each value and passes it through unchanged.
// fn may run concurrently for different partitions.
func Tap[T any](d Dataset[T], fn func(context.Context, T) error) Dataset[T] {
	return derive(d, func(src Iterator[T]) Iterator[T] {
		return &tapIter[T]{source: src, fn: fn}
	})
}

type mapIter[I, O any] struct {
	source Iterator[I]
	fn     func(context.Context, I) (O, error)
}

func (it *mapIter[I, O]) Next(ctx context.Context) (O, bool, error) {
	var zero O
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		return zero, false, err
	}
	out, err := it.fn(ctx, val)
	if err != nil {
		return zero, false, err
	}
	return out, true, nil
}

func (it *mapIter[I, O]) Close() error { return it.source.Close() }

type filterIter[T any] struct {
	source Iterator[T]
	pred   func(context.Context, T) (bool, error)
}

func (it *filterIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	for {
		val, ok, err := it.source.Next(ctx)
		if err != nil || !ok {
			return zero, false, err
		}
		keep, err := it.pred(ctx, val)
		if err != nil {
			return zero, false, err
		}
		if keep {
			return val, true, nil
		}
	}
}

func (it *filterIter[T]) Close() error { return it.source.Close() }

type flatMapIter[I, O any] struct {
	source  Iterator[I]
	fn      func(context.Context, I) ([]O, error)
	pending []O
}

func (it *flatMapIter[I, O]) Next(ctx context.Context) (O, bool, error) {
	var zero O
	for len(it.pending) == 0 {
		in, ok, err := it.source.Next(ctx)
		if err != nil || !ok {
			return zero, false, err
		}
		out, err := it.fn(ctx, in)
		if err != nil {
			return zero, false, err
		}
		it.pending = out
	}
	val := it.pending[0]
	it.pending = it.pending[1:]
	return val, true, nil
}

func (it *flatMapIter[I, O]) Close() error {
	it.pending = nil
	return it.source.Close()
}

type tapIter[T any] struct {
	source Iterator[T]
	fn     func(context.Context, T) error
}

func (it *tapIter[T]) Next(ctx context.Context) (T, bool, error) {
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		return val, ok, err
	}
	if err := it.fn(ctx, val); err != nil {
		var zero T
		return zero, false, err
	}
	return val, true, nil
}

func (it *tapIter[T]) Close() error { return it.source.Close() }
