// Package source reads newline-delimited JSON event files into a partitioned
// dataset.
//
// Plain files are split into byte ranges, one per partition. A partition
// owns every line whose first byte lies inside its range, so each line is
// decoded exactly once however the ranges cut through it. Gzip-compressed
// files (".gz") are not splittable and always form a single partition.
//
// Nothing is opened until the dataset is evaluated.
package source
