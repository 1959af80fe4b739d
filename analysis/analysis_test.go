package analysis

import (
	"bytes"
	"context"
	stdjson "encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/kbukum/monox/dataset"
	"github.com/kbukum/monox/errors"
	"github.com/kbukum/monox/logger"
	"github.com/kbukum/monox/observability"
	"github.com/kbukum/monox/source"
)

func muon(pt float64, bits int) map[string]any {
	return map[string]any{
		"pogIDBits": float64(bits),
		"chHadIso":  1.0,
		"neuHadIso": 0.1,
		"gammaIso":  0.0,
		"puIso":     0.0,
		"pt":        pt,
	}
}

func jet(neuHadFrac, eta, mva float64) map[string]any {
	return map[string]any{
		"neuHadFrac": neuHadFrac,
		"neuEmFrac":  0.1,
		"nParticles": 5.0,
		"muonFrac":   0.1,
		"chHadFrac":  0.5,
		"nCharged":   3.0,
		"chEmFrac":   0.1,
		"eta":        eta,
		"mva":        mva,
	}
}

// goodEvents holds muon counts 2, 0, 1 (loose 1, 0, 1) and jet counts
// 0, 3, 1 (jet04 0, 1, 1).
func goodEvents() []source.Event {
	return []source.Event{
		{"Muon": []any{muon(10, 1), muon(5, 1)}, "AK4CHS": []any{}},
		{"Muon": []any{}, "AK4CHS": []any{jet(0.1, 1.0, 0), jet(0.995, 1.0, 0), jet(0.1, 2.6, -0.7)}},
		{"Muon": []any{muon(10, 1)}, "AK4CHS": []any{jet(0.1, -0.5, 0.3)}},
	}
}

func newJob(t *testing.T, cfg Config, events []source.Event, parts int, opts ...Option) *Job {
	t.Helper()
	opts = append([]Option{
		WithLogger(logger.NewNop()),
		WithEvents(dataset.FromSlice(events, parts)),
	}, opts...)
	job, err := NewJob(cfg, opts...)
	require.NoError(t, err)
	return job
}

func sortedValues(r *Report) []int {
	out := append([]int(nil), r.Values...)
	sort.Ints(out)
	return out
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	assert.Equal(t, DefaultInput, cfg.Input)
	assert.Positive(t, cfg.Partitions)
	assert.Equal(t, ObservableMuons, cfg.Observable)
	assert.Equal(t, PolicyAbort, cfg.ErrorPolicy)
	assert.Equal(t, DefaultBins, cfg.Bins)
	assert.Equal(t, OutputText, cfg.Output)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"observable", func(c *Config) { c.Observable = "electrons" }, "observable"},
		{"policy", func(c *Config) { c.ErrorPolicy = "retry" }, "error_policy"},
		{"output", func(c *Config) { c.Output = "yaml" }, "output"},
		{"parallelism", func(c *Config) { c.Parallelism = -1 }, "parallelism"},
		{"run id", func(c *Config) { c.RunID = "not-a-uuid" }, "run_id"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var cfg Config
			cfg.ApplyDefaults()
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidConfig))
			assert.Contains(t, err.Error(), tc.field)
		})
	}
}

func TestRun_Observables(t *testing.T) {
	tests := []struct {
		observable Observable
		want       []int
	}{
		{ObservableMuons, []int{0, 1, 2}},
		{ObservableLooseMuons, []int{0, 1, 1}},
		{ObservableJets, []int{0, 1, 3}},
		{ObservableJet04, []int{0, 1, 1}},
	}
	for _, tc := range tests {
		t.Run(string(tc.observable), func(t *testing.T) {
			job := newJob(t, Config{Observable: tc.observable}, goodEvents(), 2)
			report, err := job.Run(context.Background())
			require.NoError(t, err)

			assert.Equal(t, tc.want, sortedValues(report))
			assert.Equal(t, 3, report.Events)
			assert.Zero(t, report.Skipped)
			assert.Equal(t, tc.observable, report.Observable)
			assert.Equal(t, 3, report.Histogram.Total())
			assert.Len(t, report.Histogram.Counts, DefaultBins)
			_, err = uuid.Parse(report.RunID)
			assert.NoError(t, err)
		})
	}
}

func TestRun_PartitionCountDoesNotChangeResult(t *testing.T) {
	events := append(goodEvents(), goodEvents()...)
	var want []int
	for _, parts := range []int{1, 2, 3, 6} {
		job := newJob(t, Config{Observable: ObservableMuons, Parallelism: 2}, events, parts)
		report, err := job.Run(context.Background())
		require.NoError(t, err)
		got := sortedValues(report)
		if want == nil {
			want = got
			continue
		}
		assert.Equal(t, want, got, "partitions=%d", parts)
	}
}

func TestRun_AbortOnMissingField(t *testing.T) {
	events := append(goodEvents(), source.Event{"AK4CHS": []any{}})
	job := newJob(t, Config{Observable: ObservableMuons}, events, 2)

	_, err := job.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeMissingField), "got %v", err)
	assert.Contains(t, err.Error(), "partition 1")
}

func TestRun_SkipPolicy(t *testing.T) {
	events := append(goodEvents(),
		source.Event{"AK4CHS": []any{}},
		source.Event{"Muon": []any{map[string]any{"pogIDBits": 1.0}}},
	)
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "warn", Format: "json"}, "test", &buf)
	job := newJob(t, Config{Observable: ObservableLooseMuons, ErrorPolicy: PolicySkip}, events, 1, WithLogger(log))

	report, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, report.Events)
	assert.Equal(t, 2, report.Skipped)
	assert.Equal(t, []int{0, 1, 1}, sortedValues(report))

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, `"event skipped"`))
	assert.Contains(t, out, `"reason":"MISSING_FIELD"`)
	assert.Contains(t, out, `"partition":0`)
	assert.Contains(t, out, `"run_id":"`+report.RunID+`"`)
}

func TestRun_ConfiguredRunID(t *testing.T) {
	id := uuid.NewString()
	job := newJob(t, Config{RunID: id}, goodEvents(), 1)
	report, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, id, report.RunID)
}

func TestRun_EmptyInput(t *testing.T) {
	job := newJob(t, Config{}, nil, 4)
	report, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.Events)
	require.Len(t, report.Histogram.Edges, DefaultBins+1)
	assert.Equal(t, 0.0, report.Histogram.Edges[0])
	assert.Equal(t, 1.0, report.Histogram.Edges[DefaultBins])
	assert.Zero(t, report.Histogram.Total())
}

func TestRun_RecordsMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())
	metrics, err := observability.NewMetrics(mp.Meter("test"))
	require.NoError(t, err)

	job := newJob(t, Config{Observable: ObservableLooseMuons}, goodEvents(), 3, WithMetrics(metrics))
	_, err = job.Run(context.Background())
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	sums := map[string]int64{}
	partitions := uint64(0)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					sums[m.Name] += dp.Value
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					partitions += dp.Count
				}
			}
		}
	}
	assert.Equal(t, int64(3), sums["events.processed"])
	assert.Equal(t, int64(2), sums["objects.selected"])
	assert.Equal(t, uint64(3), partitions)
}

func writeInput(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bacon_valid.jsons")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600))
	return path
}

func TestRun_FromFile(t *testing.T) {
	path := writeInput(t,
		`{"Muon": [{"pt": 10}, {"pt": 20}], "AK4CHS": []}`,
		`{"Muon": [], "AK4CHS": []}`,
		`{broken`,
		`{"Muon": [{"pt": 3}], "AK4CHS": []}`,
	)

	t.Run("abort", func(t *testing.T) {
		job, err := NewJob(Config{Input: path, Partitions: 2}, WithLogger(logger.NewNop()))
		require.NoError(t, err)
		_, err = job.Run(context.Background())
		assert.True(t, errors.HasCode(err, errors.ErrCodeDecode), "got %v", err)
	})

	t.Run("skip", func(t *testing.T) {
		job, err := NewJob(Config{Input: path, Partitions: 2, ErrorPolicy: PolicySkip}, WithLogger(logger.NewNop()))
		require.NoError(t, err)
		report, err := job.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1, 2}, sortedValues(report))
		assert.Equal(t, 1, report.Skipped)
	})

	t.Run("missing file", func(t *testing.T) {
		job, err := NewJob(Config{Input: filepath.Join(t.TempDir(), "nope.jsons")}, WithLogger(logger.NewNop()))
		require.NoError(t, err)
		_, err = job.Run(context.Background())
		assert.True(t, errors.HasCode(err, errors.ErrCodeIO), "got %v", err)
	})
}

func TestNewJob_InvalidConfig(t *testing.T) {
	_, err := NewJob(Config{Observable: "taus"})
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidConfig))
}

func TestReport_Write(t *testing.T) {
	job := newJob(t, Config{Bins: 2}, goodEvents(), 1)
	report, err := job.Run(context.Background())
	require.NoError(t, err)

	var text bytes.Buffer
	require.NoError(t, report.Write(&text, OutputText))
	out := text.String()
	assert.Contains(t, out, report.RunID)
	assert.Contains(t, out, "muons")
	assert.Contains(t, out, "lower")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	// Bins [0,1) holds 1 value and [1,2] holds 2: the fuller bin gets the full bar.
	assert.True(t, strings.HasSuffix(lines[len(lines)-1], strings.Repeat("#", maxBar)), "last line %q", lines[len(lines)-1])
	assert.True(t, strings.HasSuffix(lines[len(lines)-2], strings.Repeat("#", maxBar/2)), "bin line %q", lines[len(lines)-2])

	var js bytes.Buffer
	require.NoError(t, report.Write(&js, OutputJSON))
	var decoded map[string]any
	require.NoError(t, stdjson.Unmarshal(js.Bytes(), &decoded))
	assert.Equal(t, report.RunID, decoded["run_id"])
	assert.Equal(t, "muons", decoded["observable"])
	assert.EqualValues(t, 3, decoded["events"])
	bins, ok := decoded["bins"].([]any)
	require.True(t, ok)
	assert.Len(t, bins, 2)

	err = report.Write(&js, "xml")
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidInput))
}
