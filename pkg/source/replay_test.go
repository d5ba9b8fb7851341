package source

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecording(samples int) *Recording {
	data := make([][]float64, ChannelCount)
	for c := range data {
		data[c] = make([]float64, samples)
		for s := range data[c] {
			data[c][s] = float64(c*1000 + s)
		}
	}
	return &Recording{
		Path:       "test.csv",
		Channels:   ChannelNames,
		Data:       data,
		SampleRate: 256,
	}
}

func TestReplayDeliversAllFrames(t *testing.T) {
	rec := testRecording(64)
	src := NewReplaySource(rec, false)
	defer src.Close()

	assert.Equal(t, 256, src.SampleRate())
	assert.Equal(t, ChannelCount, src.Channels())

	var frames [][]float64
	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatal("replay did not finish in time")
		default:
		}

		chunk, err := src.PullChunk(500 * time.Millisecond)
		if err != nil {
			require.True(t, errors.Is(err, io.EOF))
			break
		}
		frames = append(frames, chunk.Frames...)
	}

	require.Len(t, frames, 64)
	// Frames arrive in order with the original channel layout.
	assert.Equal(t, []float64{0, 1000, 2000, 3000}, frames[0])
	assert.Equal(t, []float64{63, 1063, 2063, 3063}, frames[63])
}

func TestReplayLoopRestarts(t *testing.T) {
	rec := testRecording(32)
	src := NewReplaySource(rec, true)
	defer src.Close()

	var frames [][]float64
	deadline := time.After(5 * time.Second)
	for len(frames) < 64 {
		select {
		case <-deadline:
			t.Fatal("looped replay stalled")
		default:
		}

		chunk, err := src.PullChunk(500 * time.Millisecond)
		require.NoError(t, err)
		frames = append(frames, chunk.Frames...)
	}

	// The second pass repeats the first frame.
	assert.Equal(t, frames[0], frames[32])
}

func TestReplayCloseStopsPacing(t *testing.T) {
	rec := testRecording(256 * 10)
	src := NewReplaySource(rec, false)

	require.NoError(t, src.Close())

	// After Close the source reports EOF once the queue drains.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatal("closed source never reported EOF")
		default:
		}
		_, err := src.PullChunk(0)
		if err != nil {
			assert.True(t, errors.Is(err, io.EOF))
			return
		}
	}
}

func TestReplayTimeoutReturnsEmptyChunk(t *testing.T) {
	rec := testRecording(256)
	src := NewReplaySource(rec, false)
	defer src.Close()

	// The first paced chunk arrives after ~125 ms; a 1 ms wait is too short.
	chunk, err := src.PullChunk(time.Millisecond)
	require.NoError(t, err)
	assert.True(t, chunk.Empty())
}
