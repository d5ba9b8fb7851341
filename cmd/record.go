package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bishalpaudel/EEG-muse/internal/app"
	"github.com/bishalpaudel/EEG-muse/internal/logging"
	"github.com/bishalpaudel/EEG-muse/pkg/source"
)

var (
	recordInput    string
	recordDuration time.Duration
	recordLoop     bool
)

// recordCmd represents the record command
var recordCmd = &cobra.Command{
	Use:   "record [flags] <name>",
	Short: "Capture a source to a timestamped CSV recording",
	Long: `Capture a chunk source to recordings/<name>_<timestamp>.csv.

Rows buffer in memory and flush to the file every few seconds; the header
is written only once. Capture ends when the source is exhausted, the
duration elapses, or the process receives an interrupt.

Examples:
  # Re-capture a paced replay of an existing session
  eeg-muse record --input recordings/session.csv baseline

  # Capture exactly one minute of a looped replay
  eeg-muse record --input recordings/session.csv --loop --duration 1m warmup`,
	Args: cobra.ExactArgs(1),
	RunE: runRecord,
}

func init() {
	rootCmd.AddCommand(recordCmd)

	recordCmd.Flags().StringVar(&recordInput, "input", "",
		"recording to replay as the capture source (required)")
	recordCmd.Flags().DurationVar(&recordDuration, "duration", 0,
		"stop after this long (0 captures until the source ends)")
	recordCmd.Flags().BoolVar(&recordLoop, "loop", false,
		"restart the source replay from the beginning when it ends")

	recordCmd.MarkFlagRequired("input")
}

func runRecord(cmd *cobra.Command, args []string) error {
	appCtx, err := app.NewContext(outputFile, outputFormat, verbose, quiet)
	if err != nil {
		return err
	}

	rec, err := source.LoadRecording(recordInput, appCtx.Config.EEG.SampleRate, nil)
	if err != nil {
		return fmt.Errorf("failed to load input recording: %w", err)
	}

	dir := appCtx.Config.Recorder.Dir
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create recordings directory: %w", err)
	}
	name := fmt.Sprintf("%s_%s.csv", args[0], time.Now().Format("2006-01-02_15-04-05"))
	path := filepath.Join(dir, name)

	src := source.NewReplaySource(rec, recordLoop)
	defer src.Close()

	recorder := source.NewRecorder(src, path, appCtx.Config.Recorder.FlushInterval, appCtx.Logger)
	recorder.Start()
	defer recorder.Stop()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var deadline <-chan time.Time
	if recordDuration > 0 {
		timer := time.NewTimer(recordDuration)
		defer timer.Stop()
		deadline = timer.C
	}

	select {
	case <-ctx.Done():
	case <-deadline:
	case <-recorder.Done():
	}
	recorder.Stop()

	appCtx.Logger.Info("Capture complete", logging.Fields{"path": recorder.Path()})
	return appCtx.WriteOutput(map[string]string{"path": recorder.Path()})
}
