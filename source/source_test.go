package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/gzip"

	"github.com/kbukum/monox/dataset"
	"github.com/kbukum/monox/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func eventLines(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		// Vary line lengths so range boundaries land mid-line.
		fmt.Fprintf(&b, `{"evt": %d, "Muon": [%s]}`+"\n", i, strings.Repeat(`{"pt": 1.5},`, i%4)+`{"pt": 2}`)
	}
	return b.String()
}

func collectIDs(t *testing.T, in *Input) []int {
	t.Helper()
	events, err := dataset.Collect(context.Background(), in.Dataset())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	ids := make([]int, 0, len(events))
	for _, ev := range events {
		ids = append(ids, int(ev["evt"].(float64)))
	}
	sort.Ints(ids)
	return ids
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestDataset_EveryLineReadOnce(t *testing.T) {
	path := writeFile(t, "events.jsons", eventLines(57))
	for _, parts := range []int{1, 2, 3, 8, 31, 1000} {
		t.Run(fmt.Sprintf("partitions=%d", parts), func(t *testing.T) {
			in, err := Open(path, parts)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(seq(57), collectIDs(t, in)); diff != "" {
				t.Errorf("ids (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDataset_NoTrailingNewlineAndBlankLines(t *testing.T) {
	path := writeFile(t, "events.jsons", "\n{\"evt\": 0}\n\n  \n{\"evt\": 1}\r\n{\"evt\": 2}")
	for _, parts := range []int{1, 2, 5} {
		in, err := Open(path, parts)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(seq(3), collectIDs(t, in)); diff != "" {
			t.Errorf("partitions=%d ids (-want +got):\n%s", parts, diff)
		}
	}
}

func TestDataset_LineStartingAtRangeBoundary(t *testing.T) {
	// Two 10-byte lines: the second range starts exactly at the second line.
	content := "{\"evt\":0}\n{\"evt\":1}\n"
	path := writeFile(t, "events.jsons", content)
	in, err := Open(path, 2)
	if err != nil {
		t.Fatal(err)
	}
	parts, err := dataset.CollectPartitions(context.Background(), in.Dataset())
	if err != nil {
		t.Fatal(err)
	}
	if len(parts[0]) != 1 || len(parts[1]) != 1 {
		t.Fatalf("expected one event per partition, got %d and %d", len(parts[0]), len(parts[1]))
	}
}

func TestDataset_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsons.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := gzip.NewWriter(f)
	if _, err := zw.Write([]byte(eventLines(20))); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	in, err := Open(path, 8)
	if err != nil {
		t.Fatal(err)
	}
	if !in.Compressed() || in.NumPartitions() != 1 {
		t.Fatalf("gzip input should be one partition, got %d", in.NumPartitions())
	}
	if diff := cmp.Diff(seq(20), collectIDs(t, in)); diff != "" {
		t.Errorf("ids (-want +got):\n%s", diff)
	}
}

func TestDataset_DecodeErrorCarriesOffset(t *testing.T) {
	path := writeFile(t, "events.jsons", "{\"evt\": 0}\n{broken\n")
	in, err := Open(path, 1)
	if err != nil {
		t.Fatal(err)
	}
	_, err = dataset.Collect(context.Background(), in.Dataset())
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeDecode {
		t.Fatalf("expected DECODE_ERROR, got %v", err)
	}
	if appErr.Details["offset"] != int64(11) {
		t.Errorf("expected offset 11, got %v", appErr.Details["offset"])
	}
}

func TestDataset_DecodeErrorHandler(t *testing.T) {
	content := "{\"evt\": 0}\n{broken\n{\"evt\": 1}\nnot json"
	path := writeFile(t, "events.jsons", content)

	var offsets []any
	in, err := Open(path, 1, WithDecodeErrorHandler(func(_ context.Context, err error) error {
		appErr, _ := errors.AsAppError(err)
		offsets = append(offsets, appErr.Details["offset"])
		return nil
	}))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{0, 1}, collectIDs(t, in)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{int64(11), int64(30)}, offsets); diff != "" {
		t.Errorf("offsets (-want +got):\n%s", diff)
	}

	stop := fmt.Errorf("too many bad lines")
	in, err = Open(path, 1, WithDecodeErrorHandler(func(context.Context, error) error { return stop }))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := dataset.Collect(context.Background(), in.Dataset()); err == nil || !strings.Contains(err.Error(), "too many bad lines") {
		t.Errorf("expected handler error, got %v", err)
	}
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.jsons"), 2)
	if !errors.HasCode(err, errors.ErrCodeIO) {
		t.Errorf("expected IO_ERROR, got %v", err)
	}
	_, err = Open(t.TempDir(), 2)
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT for a directory, got %v", err)
	}
}

func TestOpen_EmptyFile(t *testing.T) {
	in, err := Open(writeFile(t, "empty.jsons", ""), 4)
	if err != nil {
		t.Fatal(err)
	}
	if in.NumPartitions() != 1 {
		t.Errorf("expected one partition for an empty file, got %d", in.NumPartitions())
	}
	if n, err := dataset.Count(context.Background(), in.Dataset()); err != nil || n != 0 {
		t.Errorf("Count = %d, %v", n, err)
	}
}

func TestSplit(t *testing.T) {
	got := split(10, 3)
	want := []byteRange{{0, 3}, {3, 6}, {6, 10}}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(byteRange{})); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}
