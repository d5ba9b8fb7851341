package analysis

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bishalpaudel/EEG-muse/configs"
	"github.com/bishalpaudel/EEG-muse/internal/logging"
	"github.com/bishalpaudel/EEG-muse/pkg/bands"
)

func testConfig() *configs.Config {
	return &configs.Config{
		LogLevel: "error",
		EEG: configs.EEGConfig{
			SampleRate:    256,
			Channels:      4,
			WindowSeconds: 30,
			Bands:         bands.DefaultBands(),
		},
		Engine: configs.EngineConfig{
			Strategy:      "psd",
			SmoothingHz:   0.1,
			BandpassOrder: 3,
			LowpassOrder:  1,
			UpdateRate:    10,
		},
		Analysis: configs.AnalysisConfig{TrendWindow: 30},
		Stats:    configs.StatsConfig{OutlierSigma: 3.0, Significance: 0.05},
	}
}

// writeSineRecording writes a CSV recording of a single tone with the given
// per-channel amplitudes.
func writeSineRecording(t *testing.T, dir, name string, freq float64, amps [4]float64, seconds int) string {
	t.Helper()

	var sb strings.Builder
	sb.WriteString("TimeStamp,TP9,AF7,AF8,TP10\n")
	total := seconds * 256
	for s := 0; s < total; s++ {
		v := math.Sin(2 * math.Pi * freq * float64(s) / 256)
		sb.WriteString(fmt.Sprintf("%d,%g,%g,%g,%g\n",
			s, amps[0]*v, amps[1]*v, amps[2]*v, amps[3]*v))
	}

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0644))
	return path
}

func TestAnalyzeFile(t *testing.T) {
	dir := t.TempDir()
	path := writeSineRecording(t, dir, "alpha.csv", 10, [4]float64{50, 50, 50, 50}, 20)

	runner := NewRunner(testConfig(), logging.NewNopLogger())
	report, err := runner.AnalyzeFile(path)
	require.NoError(t, err)

	assert.Equal(t, 256, report.SampleRate)
	assert.Equal(t, 20*256, report.Samples)
	assert.InDelta(t, 20.0, report.DurationSeconds, 1e-9)
	assert.Equal(t, bands.AggregateAverage, report.Aggregation)

	// 1 s window hopping at 25.6 samples over 20 s gives 191 steps.
	require.Len(t, report.Trend, len(bands.DefaultBands()))
	for _, series := range report.Trend {
		assert.Len(t, series, 191)
	}

	var alphaSummary, betaSummary BandSummary
	for _, s := range report.Summary {
		switch s.Band.Name {
		case "Alpha":
			alphaSummary = s
		case "Beta":
			betaSummary = s
		}
	}
	assert.Greater(t, alphaSummary.Mean, betaSummary.Mean)
	// A stationary tone yields a near-constant trend, so the mean can sit a
	// ULP outside the observed extremes; allow that much slack.
	assert.LessOrEqual(t, alphaSummary.Min, alphaSummary.Mean+1e-9)
	assert.GreaterOrEqual(t, alphaSummary.Max, alphaSummary.Mean-1e-9)
}

func TestAnalyzeFileHemispheric(t *testing.T) {
	dir := t.TempDir()
	// Strong alpha on the left pair, weak on the right.
	path := writeSineRecording(t, dir, "lateral.csv", 10, [4]float64{50, 50, 5, 5}, 10)

	cfg := testConfig()
	cfg.Analysis.Hemispheric = true

	runner := NewRunner(cfg, logging.NewNopLogger())
	report, err := runner.AnalyzeFile(path)
	require.NoError(t, err)
	assert.Equal(t, bands.AggregateHemispheric, report.Aggregation)

	for _, s := range report.Summary {
		if s.Band.Name == "Alpha" {
			assert.Greater(t, s.Mean, 0.0)
		}
	}
}

func TestAnalyzeFileMissing(t *testing.T) {
	runner := NewRunner(testConfig(), logging.NewNopLogger())
	_, err := runner.AnalyzeFile(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestCompareFilesDetectsAlphaIncrease(t *testing.T) {
	dir := t.TempDir()
	pathA := writeSineRecording(t, dir, "a.csv", 10, [4]float64{10, 10, 10, 10}, 15)
	pathB := writeSineRecording(t, dir, "b.csv", 10, [4]float64{50, 50, 50, 50}, 15)

	runner := NewRunner(testConfig(), logging.NewNopLogger())
	report, err := runner.CompareFiles(pathA, pathB)
	require.NoError(t, err)

	assert.Equal(t, pathA, report.PathA)
	assert.Equal(t, pathB, report.PathB)
	require.Len(t, report.Results, len(bands.DefaultBands()))

	for _, result := range report.Results {
		if result.BandName != "Alpha" {
			continue
		}
		require.True(t, result.Valid)
		assert.Greater(t, result.MeanB, result.MeanA)
		assert.True(t, result.Significant)
		assert.Contains(t, result.Conclusion, "HIGHER")
	}
}

func TestCompareFilesIdenticalRecordings(t *testing.T) {
	dir := t.TempDir()
	path := writeSineRecording(t, dir, "same.csv", 10, [4]float64{20, 20, 20, 20}, 10)

	runner := NewRunner(testConfig(), logging.NewNopLogger())
	report, err := runner.CompareFiles(path, path)
	require.NoError(t, err)

	for _, result := range report.Results {
		if !result.Valid {
			continue
		}
		assert.False(t, result.Significant, "band %s", result.BandName)
	}
}
