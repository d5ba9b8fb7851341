// Package source provides the acquisition side of the engine: the chunk
// source contract, a CSV recording loader, a paced replay source and a
// background recorder. The engine core only ever sees immutable sample
// chunks and a sample rate.
package source

import "time"

// ChannelCount is the fixed number of EEG channels per frame. Sources with
// extra channels (e.g. a right AUX electrode) truncate to the first four.
const ChannelCount = 4

// ChannelNames is the canonical sensor order.
var ChannelNames = []string{"TP9", "AF7", "AF8", "TP10"}

// Chunk is an ordered run of frames handed from a source to the engine.
// Chunks are immutable after PullChunk returns and must be processed in
// arrival order, exactly once.
type Chunk struct {
	// Frames holds one per-channel reading vector per sample.
	Frames [][]float64
	// Timestamps holds one arrival timestamp (seconds) per frame; may be nil
	// when the source does not timestamp samples.
	Timestamps []float64
}

// Empty reports whether the chunk carries no frames, which a source may
// legitimately return on any given tick.
func (c *Chunk) Empty() bool {
	return c == nil || len(c.Frames) == 0
}

// TruncateChannels drops channels beyond n from every frame in place.
// Recovery path for sources that deliver more channels than expected.
func (c *Chunk) TruncateChannels(n int) {
	for i, frame := range c.Frames {
		if len(frame) > n {
			c.Frames[i] = frame[:n]
		}
	}
}

// Average collapses each frame into the mean of its channels, the "global"
// scalar signal the envelope pipeline runs on.
func (c *Chunk) Average() []float64 {
	out := make([]float64, len(c.Frames))
	for i, frame := range c.Frames {
		sum := 0.0
		for _, v := range frame {
			sum += v
		}
		out[i] = sum / float64(len(frame))
	}
	return out
}

// ChunkSource is the acquisition contract the engine pulls from. The sample
// rate and channel count are fixed for the lifetime of the session.
type ChunkSource interface {
	// PullChunk returns whatever frames have arrived since the last call,
	// waiting at most timeout. An empty chunk is not an error.
	PullChunk(timeout time.Duration) (*Chunk, error)
	SampleRate() int
	Channels() int
	Close() error
}
