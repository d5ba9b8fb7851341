package cmd

import (
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bishalpaudel/EEG-muse/internal/app"
	"github.com/bishalpaudel/EEG-muse/internal/logging"
	"github.com/bishalpaudel/EEG-muse/pkg/source"
)

var (
	replayLoop     bool
	replayDuration time.Duration
)

// replayCmd represents the replay command
var replayCmd = &cobra.Command{
	Use:   "replay [flags] <recording.csv>",
	Short: "Replay a recording at real-time pace",
	Long: `Pace a recording back out at its sample rate, logging chunk progress.

Useful as a smoke test of the replay path: the same source feeds the
monitor and record commands.

Examples:
  # Replay a session once
  eeg-muse replay recordings/session.csv

  # Loop for thirty seconds
  eeg-muse replay --loop --duration 30s recordings/session.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().BoolVar(&replayLoop, "loop", false,
		"restart from the beginning when the recording ends")
	replayCmd.Flags().DurationVar(&replayDuration, "duration", 0,
		"stop after this long (0 replays to the end)")
}

func runReplay(cmd *cobra.Command, args []string) error {
	appCtx, err := app.NewContext(outputFile, outputFormat, verbose, quiet)
	if err != nil {
		return err
	}

	rec, err := source.LoadRecording(args[0], appCtx.Config.EEG.SampleRate, nil)
	if err != nil {
		return fmt.Errorf("failed to load recording: %w", err)
	}

	src := source.NewReplaySource(rec, replayLoop)
	defer src.Close()

	appCtx.Logger.Info("Replay started", logging.Fields{
		"path":     args[0],
		"samples":  rec.Samples(),
		"duration": rec.Duration(),
		"loop":     replayLoop,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var deadline <-chan time.Time
	if replayDuration > 0 {
		timer := time.NewTimer(replayDuration)
		defer timer.Stop()
		deadline = timer.C
	}

	frames := 0
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-deadline:
			return nil
		case <-ticker.C:
		}

		chunk, err := src.PullChunk(0)
		if err != nil {
			if errors.Is(err, io.EOF) {
				appCtx.Logger.Info("Replay finished", logging.Fields{"frames": frames})
				return nil
			}
			return err
		}
		frames += len(chunk.Frames)
		appCtx.Logger.Info("Replaying", logging.Fields{
			"frames":  frames,
			"elapsed": float64(frames) / float64(rec.SampleRate),
		})
	}
}
