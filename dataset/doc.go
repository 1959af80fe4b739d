// Package dataset provides a partitioned, lazily evaluated collection.
//
// A Dataset is a description: an ordered list of partitions plus the chain of
// transformations applied to each of them. Map, Filter, FlatMap and Tap only
// extend that description; nothing is read or computed until a terminal
// operation (Collect, CollectPartitions, Count, Reduce) runs the chain.
//
// Terminals are barriers. Every partition is evaluated concurrently, bounded
// by WithParallelism, and the call returns only after all of them finished.
// Element order within a partition is preserved. Order across partitions is
// not part of the contract: Collect concatenates partitions in index order
// today, but callers must not rely on it.
//
//	ds := dataset.FromSlice(events, 4)
//	counts := dataset.Map(ds, func(_ context.Context, e Event) (int, error) {
//		return len(e.Muons), nil
//	})
//	values, err := dataset.Collect(ctx, counts, dataset.WithParallelism(2))
//
// The first failing partition cancels the others; its error is returned
// wrapped with the partition index.
package dataset
