package source

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/multierr"

	"github.com/kbukum/monox/dataset"
	"github.com/kbukum/monox/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Event is one decoded input line.
type Event = map[string]any

// Input is an opened event file description.
type Input struct {
	path       string
	size       int64
	compressed bool
	ranges     []byteRange
	onDecode   DecodeErrorHandler
}

// DecodeErrorHandler decides what happens to a line that is not valid JSON.
// Returning nil drops the line and reading continues; returning an error
// fails the partition with it.
type DecodeErrorHandler func(ctx context.Context, err error) error

// Option configures an Input.
type Option func(*Input)

// WithDecodeErrorHandler installs fn for malformed lines. Without a handler
// the first malformed line fails its partition.
func WithDecodeErrorHandler(fn DecodeErrorHandler) Option {
	return func(in *Input) { in.onDecode = fn }
}

type byteRange struct {
	start, end int64
}

// Open stats path and plans up to partitions byte ranges over it. The file
// itself is read only when the dataset is evaluated.
func Open(path string, partitions int, opts ...Option) (*Input, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.IO(path, err)
	}
	if info.IsDir() {
		return nil, errors.InvalidInput("input", path+" is a directory")
	}
	in := &Input{
		path:       path,
		size:       info.Size(),
		compressed: strings.HasSuffix(path, ".gz"),
	}
	for _, opt := range opts {
		opt(in)
	}
	if in.compressed {
		partitions = 1
	}
	in.ranges = split(in.size, partitions)
	return in, nil
}

// Path returns the input file path.
func (in *Input) Path() string { return in.path }

// Size returns the on-disk size in bytes.
func (in *Input) Size() int64 { return in.size }

// Compressed reports whether the input is gzip-compressed.
func (in *Input) Compressed() bool { return in.compressed }

// NumPartitions returns the number of planned partitions.
func (in *Input) NumPartitions() int { return len(in.ranges) }

// Dataset returns the lazily evaluated events of the file.
func (in *Input) Dataset() dataset.Dataset[Event] {
	factories := make([]func(context.Context) dataset.Iterator[Event], len(in.ranges))
	for i, r := range in.ranges {
		r := r
		factories[i] = func(_ context.Context) dataset.Iterator[Event] {
			return &lineIter{path: in.path, compressed: in.compressed, rng: r, onDecode: in.onDecode}
		}
	}
	return dataset.FromIterators(factories...)
}

// split cuts size bytes into n near-equal ranges, never more ranges than
// bytes and never fewer than one.
func split(size int64, n int) []byteRange {
	if int64(n) > size {
		n = int(size)
	}
	if n < 1 {
		n = 1
	}
	out := make([]byteRange, n)
	step := size / int64(n)
	for i := range out {
		out[i] = byteRange{start: int64(i) * step, end: int64(i+1) * step}
	}
	out[n-1].end = size
	return out
}

// lineIter decodes the lines owned by one byte range.
type lineIter struct {
	path       string
	compressed bool
	rng        byteRange
	onDecode   DecodeErrorHandler

	file   *os.File
	gz     *gzip.Reader
	reader *bufio.Reader
	pos    int64
	done   bool
}

func (it *lineIter) Next(ctx context.Context) (Event, bool, error) {
	if it.done {
		return nil, false, nil
	}
	if it.reader == nil {
		if err := it.open(); err != nil {
			it.done = true
			return nil, false, err
		}
		if it.done {
			return nil, false, nil
		}
	}
	for {
		// A compressed input is a single partition with no upper bound.
		if !it.compressed && it.pos >= it.rng.end {
			it.done = true
			return nil, false, nil
		}
		offset := it.pos
		line, err := it.reader.ReadBytes('\n')
		it.pos += int64(len(line))
		if err != nil && err != io.EOF {
			it.done = true
			return nil, false, errors.IO(it.path, err)
		}
		if err == io.EOF {
			it.done = true
			if len(line) == 0 {
				return nil, false, nil
			}
		}
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			if it.done {
				return nil, false, nil
			}
			continue
		}
		var ev Event
		if err := json.Unmarshal(line, &ev); err != nil {
			decodeErr := errors.Decode(it.path, offset, err)
			if it.onDecode == nil {
				it.done = true
				return nil, false, decodeErr
			}
			if herr := it.onDecode(ctx, decodeErr); herr != nil {
				it.done = true
				return nil, false, herr
			}
			if it.done {
				return nil, false, nil
			}
			continue
		}
		return ev, true, nil
	}
}

func (it *lineIter) open() error {
	f, err := os.Open(it.path)
	if err != nil {
		return errors.IO(it.path, err)
	}
	it.file = f
	if it.compressed {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return errors.Decode(it.path, 0, err)
		}
		it.gz = gz
		it.reader = bufio.NewReader(gz)
		return nil
	}
	if it.rng.start == 0 {
		it.reader = bufio.NewReader(f)
		return nil
	}
	// Start one byte early and drop everything through the next newline: the
	// line in progress at start belongs to the previous range, and a line
	// starting exactly at start is kept because the dropped byte is its
	// preceding newline.
	if _, err := f.Seek(it.rng.start-1, io.SeekStart); err != nil {
		return errors.IO(it.path, err)
	}
	it.reader = bufio.NewReader(f)
	skipped, err := it.reader.ReadBytes('\n')
	it.pos = it.rng.start - 1 + int64(len(skipped))
	if err == io.EOF {
		it.done = true
		return nil
	}
	if err != nil {
		return errors.IO(it.path, err)
	}
	return nil
}

func (it *lineIter) Close() error {
	var err error
	if it.gz != nil {
		err = multierr.Append(err, it.gz.Close())
	}
	if it.file != nil {
		err = multierr.Append(err, it.file.Close())
	}
	it.gz, it.file, it.reader = nil, nil, nil
	it.done = true
	return err
}
