package source

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bishalpaudel/EEG-muse/pkg/bands"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recording.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadRecordingNamedHeader(t *testing.T) {
	path := writeTempCSV(t, `TimeStamp,TP9,AF7,AF8,TP10
2026-01-01T00:00:00Z,1.0,2.0,3.0,4.0
2026-01-01T00:00:01Z,1.1,2.1,3.1,4.1
2026-01-01T00:00:02Z,1.2,2.2,3.2,4.2
`)

	rec, err := LoadRecording(path, 256, nil)
	require.NoError(t, err)

	assert.Equal(t, ChannelNames, rec.Channels)
	assert.Equal(t, 3, rec.Samples())
	assert.InDelta(t, 3.0/256.0, rec.Duration(), 1e-12)
	assert.Equal(t, []float64{1.0, 1.1, 1.2}, rec.Data[0])
	assert.Equal(t, []float64{4.0, 4.1, 4.2}, rec.Data[3])
}

func TestLoadRecordingReorderedHeader(t *testing.T) {
	// Named columns are matched by header, whatever their order.
	path := writeTempCSV(t, `TimeStamp,TP10,AF8,AF7,TP9
t0,4.0,3.0,2.0,1.0
t1,4.1,3.1,2.1,1.1
`)

	rec, err := LoadRecording(path, 256, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.0, 1.1}, rec.Data[0]) // TP9
	assert.Equal(t, []float64{4.0, 4.1}, rec.Data[3]) // TP10
}

func TestLoadRecordingPositionalFallback(t *testing.T) {
	// No recognizable channel names: columns 1-4 after the timestamp are
	// assumed to be TP9, AF7, AF8, TP10.
	path := writeTempCSV(t, `time,ch1,ch2,ch3,ch4
0.0,1.0,2.0,3.0,4.0
0.1,1.1,2.1,3.1,4.1
`)

	rec, err := LoadRecording(path, 256, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Samples())
	assert.Equal(t, []float64{2.0, 2.1}, rec.Data[1])
}

func TestLoadRecordingChannelSubset(t *testing.T) {
	path := writeTempCSV(t, `TimeStamp,TP9,AF7,AF8,TP10
t0,1.0,2.0,3.0,4.0
t1,1.1,2.1,3.1,4.1
`)

	rec, err := LoadRecording(path, 256, []string{"TP9", "TP10"})
	require.NoError(t, err)
	require.Len(t, rec.Data, 2)
	assert.Equal(t, []string{"TP9", "TP10"}, rec.Channels)
	assert.Equal(t, []float64{1.0, 1.1}, rec.Data[0])
	assert.Equal(t, []float64{4.0, 4.1}, rec.Data[1])
}

func TestLoadRecordingMissingChannel(t *testing.T) {
	path := writeTempCSV(t, `TimeStamp,TP9,AF7
t0,1.0,2.0
t1,1.1,2.1
`)

	_, err := LoadRecording(path, 256, nil)
	require.Error(t, err)

	var engineErr *bands.EngineError
	require.True(t, errors.As(err, &engineErr))
	assert.Equal(t, bands.ErrCodeMalformedInput, engineErr.Code)
}

func TestLoadRecordingBadSample(t *testing.T) {
	path := writeTempCSV(t, `TimeStamp,TP9,AF7,AF8,TP10
t0,1.0,oops,3.0,4.0
`)

	_, err := LoadRecording(path, 256, nil)
	require.Error(t, err)

	var engineErr *bands.EngineError
	require.True(t, errors.As(err, &engineErr))
	assert.Equal(t, bands.ErrCodeMalformedInput, engineErr.Code)
}

func TestLoadRecordingHeaderOnly(t *testing.T) {
	path := writeTempCSV(t, "TimeStamp,TP9,AF7,AF8,TP10\n")

	_, err := LoadRecording(path, 256, nil)
	require.Error(t, err)

	var engineErr *bands.EngineError
	require.True(t, errors.As(err, &engineErr))
	assert.Equal(t, bands.ErrCodeInsufficientData, engineErr.Code)
}

func TestLoadRecordingMissingFile(t *testing.T) {
	_, err := LoadRecording(filepath.Join(t.TempDir(), "nope.csv"), 256, nil)
	assert.Error(t, err)
}
