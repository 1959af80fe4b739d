package dataset

import "context"

// Partition is one lazily opened slice of a Dataset.
type Partition[T any] struct {
	index int
	open  func(ctx context.Context) Iterator[T]
}

// Index returns the partition's position in its Dataset.
func (p Partition[T]) Index() int { return p.index }

// Open starts evaluating the partition. The caller must Close the iterator.
func (p Partition[T]) Open(ctx context.Context) Iterator[T] {
	return p.open(withPartition(ctx, p.index))
}

// Dataset is an unevaluated, partitioned collection of T.
// Values are immutable; every operator returns a new Dataset.
type Dataset[T any] struct {
	parts []Partition[T]
}

// FromSlice splits items into n contiguous partitions of near-equal size.
// n is clamped to [1, len(items)]; an empty slice yields one empty partition.
func FromSlice[T any](items []T, n int) Dataset[T] {
	if n > len(items) {
		n = len(items)
	}
	if n < 1 {
		n = 1
	}
	chunks := make([][]T, n)
	size, rem := len(items)/n, len(items)%n
	start := 0
	for i := range chunks {
		end := start + size
		if i < rem {
			end++
		}
		chunks[i] = items[start:end:end]
		start = end
	}
	return FromPartitions(chunks...)
}

// FromPartitions builds a Dataset with one partition per slice.
func FromPartitions[T any](parts ...[]T) Dataset[T] {
	factories := make([]func(ctx context.Context) Iterator[T], len(parts))
	for i, items := range parts {
		items := items
		factories[i] = func(_ context.Context) Iterator[T] {
			return SliceIterator(items)
		}
	}
	return FromIterators(factories...)
}

// FromIterators builds a Dataset whose partitions are produced by the given
// factories. A factory runs only when its partition is evaluated, and again
// on every evaluation.
func FromIterators[T any](factories ...func(ctx context.Context) Iterator[T]) Dataset[T] {
	parts := make([]Partition[T], len(factories))
	for i, f := range factories {
		parts[i] = Partition[T]{index: i, open: f}
	}
	return Dataset[T]{parts: parts}
}

// NumPartitions returns the number of partitions.
func (d Dataset[T]) NumPartitions() int { return len(d.parts) }

// Partitions returns the dataset's partitions in index order.
func (d Dataset[T]) Partitions() []Partition[T] {
	out := make([]Partition[T], len(d.parts))
	copy(out, d.parts)
	return out
}

// derive applies wrap to every partition's iterator, keeping the index.
func derive[I, O any](d Dataset[I], wrap func(src Iterator[I]) Iterator[O]) Dataset[O] {
	parts := make([]Partition[O], len(d.parts))
	for i, p := range d.parts {
		open := p.open
		parts[i] = Partition[O]{
			index: p.index,
			open: func(ctx context.Context) Iterator[O] {
				return wrap(open(ctx))
			},
		}
	}
	return Dataset[O]{parts: parts}
}

type partitionKey struct{}

func withPartition(ctx context.Context, index int) context.Context {
	return context.WithValue(ctx, partitionKey{}, index)
}

// PartitionFromContext returns the index of the partition being evaluated.
// Operator functions receive a context carrying it.
func PartitionFromContext(ctx context.Context) (int, bool) {
	i, ok := ctx.Value(partitionKey{}).(int)
	return i, ok
}

// Union concatenates the partitions of the given datasets, renumbering them.
func Union[T any](ds ...Dataset[T]) Dataset[T] {
	var parts []Partition[T]
	for _, d := range ds {
		for _, p := range d.parts {
			parts = append(parts, Partition[T]{index: len(parts), open: p.open})
		}
	}
	return Dataset[T]{parts: parts}
}
