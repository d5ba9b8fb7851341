// Package monitor drives the live band-power engine: a tick loop pulls
// whatever samples arrived since the last tick and runs them through the
// configured estimation strategy.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bishalpaudel/EEG-muse/configs"
	"github.com/bishalpaudel/EEG-muse/internal/logging"
	"github.com/bishalpaudel/EEG-muse/pkg/bands"
	"github.com/bishalpaudel/EEG-muse/pkg/source"
)

// Snapshot is a fully-formed post-tick view of the per-band display
// buffers, safe for a consumer to read while the next tick runs.
type Snapshot struct {
	Bands  []bands.Band `json:"bands"`
	Latest []float64    `json:"latest"`
	Series [][]float64  `json:"series"`
}

// Engine owns one processing pipeline over one chunk source. All mutable
// state (ring buffers, filter state) is exclusive to the engine and only
// touched from the tick loop; it is rebuilt, not reused, when the source
// changes.
type Engine struct {
	cfg    *configs.Config
	src    source.ChunkSource
	logger logging.Logger

	// envelope strategy
	envelope *bands.EnvelopePipeline

	// psd strategy
	raw       *bands.FrameRing
	estimator *bands.SpectralEstimator
	display   []*bands.Ring

	ticks int
	last  *Snapshot
}

// NewEngine builds the pipeline for the configured strategy. Filter design
// errors surface immediately; they are fatal to construction.
func NewEngine(cfg *configs.Config, src source.ChunkSource, logger logging.Logger) (*Engine, error) {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	e := &Engine{cfg: cfg, src: src, logger: logger}

	sampleRate := float64(cfg.EEG.SampleRate)
	switch cfg.Engine.Strategy {
	case "envelope":
		pipeline, err := bands.NewEnvelopePipeline(bands.EnvelopeConfig{
			Bands:         cfg.EEG.Bands,
			SampleRate:    sampleRate,
			SmoothingHz:   cfg.Engine.SmoothingHz,
			BandpassOrder: cfg.Engine.BandpassOrder,
			LowpassOrder:  cfg.Engine.LowpassOrder,
			BufferSize:    cfg.EEG.SampleRate * cfg.EEG.WindowSeconds,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build envelope pipeline: %w", err)
		}
		e.envelope = pipeline

	case "psd":
		// Two seconds of raw history so a full one-second analysis window is
		// always available once the stream warms up.
		e.raw = bands.NewFrameRing(source.ChannelCount, 2*cfg.EEG.SampleRate)
		e.estimator = bands.NewSpectralEstimator(bands.SpectralConfig{
			Bands:       cfg.EEG.Bands,
			SampleRate:  sampleRate,
			Aggregation: cfg.Aggregation(),
		})
		displayLen := int(float64(cfg.EEG.WindowSeconds) * cfg.Engine.UpdateRate)
		e.display = make([]*bands.Ring, len(cfg.EEG.Bands))
		for i := range e.display {
			e.display[i] = bands.NewRing(displayLen)
		}

	default:
		return nil, fmt.Errorf("unknown engine strategy %q", cfg.Engine.Strategy)
	}

	logger.Debug("Engine initialized", logging.Fields{
		"strategy":    cfg.Engine.Strategy,
		"sample_rate": cfg.EEG.SampleRate,
		"bands":       len(cfg.EEG.Bands),
		"update_rate": cfg.Engine.UpdateRate,
	})
	return e, nil
}

// Tick pulls pending samples and advances the pipeline once. It returns the
// post-tick snapshot, or nil when no data arrived. io.EOF from the source
// propagates to signal a finished replay.
func (e *Engine) Tick() (*Snapshot, error) {
	chunk, err := e.src.PullChunk(0)
	if err != nil {
		return nil, err
	}
	if chunk.Empty() {
		return nil, nil
	}
	chunk.TruncateChannels(source.ChannelCount)
	e.ticks++

	switch {
	case e.envelope != nil:
		series := e.envelope.ProcessAndStore(chunk.Average())
		e.last = &Snapshot{
			Bands:  e.envelope.Bands(),
			Latest: e.envelope.Latest(),
			Series: series,
		}
		return e.last, nil

	default:
		e.raw.PushFrames(chunk.Frames)
		powers := e.estimator.Estimate(e.raw.Window(e.cfg.EEG.SampleRate))
		for i, p := range powers {
			e.display[i].Push([]float64{p})
		}
		series := make([][]float64, len(e.display))
		for i, ring := range e.display {
			series[i] = ring.Snapshot()
		}
		e.last = &Snapshot{
			Bands:  e.estimator.Bands(),
			Latest: powers,
			Series: series,
		}
		return e.last, nil
	}
}

// Latest returns the most recent snapshot, or nil before the first
// data-bearing tick.
func (e *Engine) Latest() *Snapshot {
	return e.last
}

// Run ticks the engine at the configured update rate until the context ends,
// the optional duration elapses, or a replay source is exhausted.
func (e *Engine) Run(ctx context.Context, duration time.Duration) error {
	interval := time.Duration(float64(time.Second) / e.cfg.Engine.UpdateRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var deadline <-chan time.Time
	if duration > 0 {
		timer := time.NewTimer(duration)
		defer timer.Stop()
		deadline = timer.C
	}

	logEvery := int(e.cfg.Engine.UpdateRate)
	if logEvery < 1 {
		logEvery = 1
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline:
			return nil
		case <-ticker.C:
		}

		snapshot, err := e.Tick()
		if err != nil {
			if errors.Is(err, io.EOF) {
				e.logger.Info("Source exhausted, stopping engine")
				return nil
			}
			return fmt.Errorf("tick failed: %w", err)
		}
		if snapshot == nil {
			continue
		}

		if e.ticks%logEvery == 0 {
			fields := logging.Fields{}
			for i, b := range snapshot.Bands {
				fields[b.Name] = snapshot.Latest[i]
			}
			e.logger.Info("Band power", fields)
		}
	}
}
