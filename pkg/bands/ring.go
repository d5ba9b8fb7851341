package bands

// Ring is a fixed-capacity circular buffer of scalar samples. Pushing N new
// values evicts the N oldest, so the buffer always holds the most recent
// capacity samples. A Ring is exclusively owned by one pipeline and is never
// accessed concurrently.
type Ring struct {
	data []float64
	head int // index of the oldest sample
}

// NewRing creates a zero-filled ring with the given capacity.
func NewRing(capacity int) *Ring {
	if capacity < 1 {
		panic("ring capacity must be positive")
	}
	return &Ring{data: make([]float64, capacity)}
}

// Capacity returns the fixed length of the buffer.
func (r *Ring) Capacity() int {
	return len(r.data)
}

// Push appends values in order, evicting the oldest. Pushing more values
// than the capacity keeps only the most recent ones.
func (r *Ring) Push(values []float64) {
	if len(values) >= len(r.data) {
		copy(r.data, values[len(values)-len(r.data):])
		r.head = 0
		return
	}
	for _, v := range values {
		r.data[r.head] = v
		r.head = (r.head + 1) % len(r.data)
	}
}

// Snapshot returns the buffer contents ordered oldest to newest. The result
// is a copy, safe for a consumer to read after the tick completes.
func (r *Ring) Snapshot() []float64 {
	out := make([]float64, len(r.data))
	n := copy(out, r.data[r.head:])
	copy(out[n:], r.data[:r.head])
	return out
}

// Last returns the most recent sample.
func (r *Ring) Last() float64 {
	idx := r.head - 1
	if idx < 0 {
		idx += len(r.data)
	}
	return r.data[idx]
}

// FrameRing is a fixed-capacity circular buffer of multi-channel frames,
// holding the raw history a windowed estimator reads from.
type FrameRing struct {
	rings []*Ring
}

// NewFrameRing creates a frame ring for the given channel count and
// per-channel capacity.
func NewFrameRing(channels, capacity int) *FrameRing {
	if channels < 1 {
		panic("frame ring needs at least one channel")
	}
	rings := make([]*Ring, channels)
	for i := range rings {
		rings[i] = NewRing(capacity)
	}
	return &FrameRing{rings: rings}
}

// Channels returns the channel count.
func (fr *FrameRing) Channels() int {
	return len(fr.rings)
}

// Capacity returns the per-channel capacity.
func (fr *FrameRing) Capacity() int {
	return fr.rings[0].Capacity()
}

// PushFrames appends frames (one per-channel vector per sample). Frames with
// more channels than the ring are truncated; frames with fewer are skipped.
func (fr *FrameRing) PushFrames(frames [][]float64) {
	for _, frame := range frames {
		if len(frame) < len(fr.rings) {
			continue
		}
		for c, ring := range fr.rings {
			ring.Push(frame[c : c+1])
		}
	}
}

// Window returns the most recent n samples per channel, channel-major and
// ordered oldest to newest. n is clamped to the capacity.
func (fr *FrameRing) Window(n int) [][]float64 {
	if n > fr.Capacity() {
		n = fr.Capacity()
	}
	out := make([][]float64, len(fr.rings))
	for c, ring := range fr.rings {
		snap := ring.Snapshot()
		out[c] = snap[len(snap)-n:]
	}
	return out
}
