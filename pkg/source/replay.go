package source

import (
	"io"
	"sync"
	"time"
)

// replayChunkFrames is the number of frames pushed per pacing interval.
// Small enough to keep latency low, large enough to avoid timer churn
// (32 frames at 256 Hz is one chunk every 125 ms).
const replayChunkFrames = 32

// ReplaySource replays a loaded recording as a live chunk source, pacing
// frames at the recording's sample rate. With Loop enabled it restarts at
// the end so downstream consumers keep receiving data.
type ReplaySource struct {
	rec  *Recording
	loop bool

	chunks chan *Chunk
	done   chan struct{}
	wg     sync.WaitGroup

	closeOnce sync.Once
}

// NewReplaySource starts pacing the recording immediately.
func NewReplaySource(rec *Recording, loop bool) *ReplaySource {
	rs := &ReplaySource{
		rec:    rec,
		loop:   loop,
		chunks: make(chan *Chunk, 64),
		done:   make(chan struct{}),
	}
	rs.wg.Add(1)
	go rs.pace()
	return rs
}

// SampleRate returns the recording's sample rate.
func (rs *ReplaySource) SampleRate() int {
	return rs.rec.SampleRate
}

// Channels returns the recording's channel count.
func (rs *ReplaySource) Channels() int {
	return len(rs.rec.Data)
}

// PullChunk drains every chunk currently queued, waiting up to timeout for
// the first one. It returns an empty chunk on timeout and io.EOF once a
// non-looping replay is exhausted.
func (rs *ReplaySource) PullChunk(timeout time.Duration) (*Chunk, error) {
	merged := &Chunk{}

	first, ok := rs.waitChunk(timeout)
	if !ok {
		select {
		case <-rs.done:
			return nil, io.EOF
		default:
			return merged, nil
		}
	}
	merged.Frames = append(merged.Frames, first.Frames...)
	merged.Timestamps = append(merged.Timestamps, first.Timestamps...)

	for {
		select {
		case c := <-rs.chunks:
			merged.Frames = append(merged.Frames, c.Frames...)
			merged.Timestamps = append(merged.Timestamps, c.Timestamps...)
		default:
			return merged, nil
		}
	}
}

func (rs *ReplaySource) waitChunk(timeout time.Duration) (*Chunk, bool) {
	if timeout <= 0 {
		select {
		case c := <-rs.chunks:
			return c, true
		default:
			return nil, false
		}
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case c := <-rs.chunks:
		return c, true
	case <-timer.C:
		return nil, false
	}
}

// Close stops the pacing goroutine and waits for it to exit.
func (rs *ReplaySource) Close() error {
	rs.closeOnce.Do(func() {
		close(rs.done)
	})
	rs.wg.Wait()
	return nil
}

// pace emits replayChunkFrames-sized chunks at real-time rate until the
// recording ends (or forever when looping).
func (rs *ReplaySource) pace() {
	defer rs.wg.Done()

	interval := time.Duration(float64(replayChunkFrames) / float64(rs.rec.SampleRate) * float64(time.Second))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	idx := 0
	total := rs.rec.Samples()
	for {
		select {
		case <-rs.done:
			return
		case <-ticker.C:
		}

		if idx >= total {
			if !rs.loop {
				rs.closeOnce.Do(func() {
					close(rs.done)
				})
				return
			}
			idx = 0
		}

		end := min(idx+replayChunkFrames, total)
		chunk := &Chunk{
			Frames:     make([][]float64, 0, end-idx),
			Timestamps: make([]float64, 0, end-idx),
		}
		for s := idx; s < end; s++ {
			frame := make([]float64, len(rs.rec.Data))
			for c := range rs.rec.Data {
				frame[c] = rs.rec.Data[c][s]
			}
			chunk.Frames = append(chunk.Frames, frame)
			chunk.Timestamps = append(chunk.Timestamps, float64(s)/float64(rs.rec.SampleRate))
		}
		idx = end

		select {
		case rs.chunks <- chunk:
		case <-rs.done:
			return
		}
	}
}
