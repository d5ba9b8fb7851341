package bands

import (
	"math"

	"github.com/bishalpaudel/EEG-muse/pkg/dsp"
)

// EnvelopeConfig parameterizes a continuous envelope pipeline.
type EnvelopeConfig struct {
	Bands         []Band
	SampleRate    float64
	SmoothingHz   float64 // lowpass cutoff of the envelope follower
	BandpassOrder int
	LowpassOrder  int
	BufferSize    int // display buffer length in samples
}

// bandChain is one bandpass -> rectify -> log-compress -> smooth chain.
type bandChain struct {
	band     Band
	isolate  *dsp.Filter
	smooth   *dsp.Filter
	envelope *Ring
}

// EnvelopePipeline converts one scalar signal stream into N smoothed
// non-negative activity curves, one per band. Filter state carries across
// chunks, so chunks must arrive in order and be processed exactly once.
type EnvelopePipeline struct {
	chains []*bandChain
}

// NewEnvelopePipeline designs the per-band filter chains. It fails with an
// InvalidDesignError when a band edge or the smoothing cutoff cannot be
// realized at the configured sample rate.
func NewEnvelopePipeline(cfg EnvelopeConfig) (*EnvelopePipeline, error) {
	chains := make([]*bandChain, 0, len(cfg.Bands))
	for _, band := range cfg.Bands {
		isolate, err := dsp.NewBandpassFilter(band.Low, band.High, cfg.SampleRate, cfg.BandpassOrder)
		if err != nil {
			return nil, NewEngineError(ErrCodeInvalidDesign, "bandpass design failed for band "+band.Name, err)
		}
		smooth, err := dsp.NewLowpassFilter(cfg.SmoothingHz, cfg.SampleRate, cfg.LowpassOrder)
		if err != nil {
			return nil, NewEngineError(ErrCodeInvalidDesign, "smoothing lowpass design failed", err)
		}
		chains = append(chains, &bandChain{
			band:     band,
			isolate:  isolate,
			smooth:   smooth,
			envelope: NewRing(cfg.BufferSize),
		})
	}
	return &EnvelopePipeline{chains: chains}, nil
}

// Bands returns the band table in pipeline order.
func (p *EnvelopePipeline) Bands() []Band {
	bands := make([]Band, len(p.chains))
	for i, c := range p.chains {
		bands[i] = c.band
	}
	return bands
}

// ProcessAndStore runs one scalar chunk through every band chain, appends
// the new envelope values to the fixed-length display buffers and returns a
// post-tick snapshot per band, oldest value first.
func (p *EnvelopePipeline) ProcessAndStore(chunk []float64) [][]float64 {
	snapshots := make([][]float64, len(p.chains))
	for i, chain := range p.chains {
		wave := chain.isolate.Process(chunk)
		// Full-wave rectify and log-compress; log1p bounds transient spikes
		// and never goes negative.
		for j, v := range wave {
			wave[j] = math.Log1p(math.Abs(v))
		}
		envelope := chain.smooth.Process(wave)
		chain.envelope.Push(envelope)
		snapshots[i] = chain.envelope.Snapshot()
	}
	return snapshots
}

// Latest returns the most recent envelope value per band.
func (p *EnvelopePipeline) Latest() []float64 {
	latest := make([]float64, len(p.chains))
	for i, chain := range p.chains {
		latest[i] = chain.envelope.Last()
	}
	return latest
}

// Reset restores every filter to its initial state and zeroes nothing else;
// used when the pipeline switches to a new stream or file.
func (p *EnvelopePipeline) Reset() {
	for _, chain := range p.chains {
		chain.isolate.Reset()
		chain.smooth.Reset()
	}
}
