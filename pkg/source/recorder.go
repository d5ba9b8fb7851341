package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/bishalpaudel/EEG-muse/internal/logging"
)

// Recorder captures a chunk source to an append-mode CSV file on its own
// goroutine so acquisition never blocks the caller. Rows accumulate in
// memory and flush periodically; the header is written only when the
// destination file does not exist yet.
type Recorder struct {
	source        ChunkSource
	path          string
	flushInterval time.Duration
	logger        logging.Logger

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewRecorder creates a recorder writing to path. A missing .csv extension
// is appended.
func NewRecorder(src ChunkSource, path string, flushInterval time.Duration, logger logging.Logger) *Recorder {
	if len(path) < 4 || path[len(path)-4:] != ".csv" {
		path += ".csv"
	}
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &Recorder{
		source:        src,
		path:          path,
		flushInterval: flushInterval,
		logger:        logger,
	}
}

// Path returns the destination file.
func (r *Recorder) Path() string {
	return r.path
}

// Start launches the capture loop. Calling Start on a running recorder is a
// no-op.
func (r *Recorder) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return
	}
	r.running = true
	r.stop = make(chan struct{})
	r.done = make(chan struct{})
	r.wg.Add(1)
	go r.loop()

	r.logger.Info("Recording started", logging.Fields{
		"path":           r.path,
		"flush_interval": r.flushInterval.Seconds(),
	})
}

// Stop ends the capture loop, waits for it, and flushes any buffered rows.
func (r *Recorder) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	close(r.stop)
	r.mu.Unlock()

	r.wg.Wait()
	r.logger.Info("Recording stopped", logging.Fields{"path": r.path})
}

// Done is closed once the capture loop exits, either on Stop or when the
// source is exhausted.
func (r *Recorder) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}

func (r *Recorder) loop() {
	defer r.wg.Done()
	defer close(r.done)

	var rows [][]string
	lastFlush := time.Now()

	flushAll := func() {
		if len(rows) > 0 {
			if err := r.flush(rows); err != nil {
				r.logger.Error(err, "Final flush failed", logging.Fields{"path": r.path})
			}
		}
	}

	for {
		select {
		case <-r.stop:
			flushAll()
			return
		default:
		}

		chunk, err := r.source.PullChunk(200 * time.Millisecond)
		if err != nil {
			if errors.Is(err, io.EOF) {
				r.logger.Info("Source exhausted, finishing capture", logging.Fields{"path": r.path})
				flushAll()
				return
			}
			r.logger.Error(err, "Recorder pull failed", logging.Fields{"path": r.path})
			continue
		}
		if !chunk.Empty() {
			chunk.TruncateChannels(ChannelCount)
			now := time.Now().Format(time.RFC3339Nano)
			for _, frame := range chunk.Frames {
				row := make([]string, 0, ChannelCount+1)
				row = append(row, now)
				for _, v := range frame {
					row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
				}
				rows = append(rows, row)
			}
		}

		if time.Since(lastFlush) > r.flushInterval && len(rows) > 0 {
			if err := r.flush(rows); err != nil {
				r.logger.Error(err, "Flush failed", logging.Fields{"path": r.path})
			} else {
				rows = rows[:0]
				lastFlush = time.Now()
			}
		}
	}
}

// flush appends rows to the destination, writing the header first when the
// file is new.
func (r *Recorder) flush(rows [][]string) error {
	_, statErr := os.Stat(r.path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open recording file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		header := append([]string{"TimeStamp"}, ChannelNames...)
		if err := w.Write(header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	w.Flush()
	return w.Error()
}
