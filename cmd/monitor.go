package cmd

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bishalpaudel/EEG-muse/internal/app"
	"github.com/bishalpaudel/EEG-muse/internal/logging"
	"github.com/bishalpaudel/EEG-muse/internal/monitor"
	"github.com/bishalpaudel/EEG-muse/pkg/source"
)

var (
	monitorReplay      string
	monitorLoop        bool
	monitorDuration    time.Duration
	monitorStrategy    string
	monitorHemispheric bool
)

// monitorCmd represents the monitor command
var monitorCmd = &cobra.Command{
	Use:   "monitor [flags]",
	Short: "Stream live band power estimates",
	Long: `Run the live band power engine against a paced replay of a recording.

The engine ticks at the configured update rate, pulls whatever samples
arrived since the last tick, and logs a per-band snapshot once per second.
The final snapshot is written to the configured output when the run ends.

Examples:
  # Monitor a recording with the envelope follower
  eeg-muse monitor --replay recordings/session.csv

  # Loop the recording and stop after two minutes
  eeg-muse monitor --replay recordings/session.csv --loop --duration 2m

  # Windowed PSD refreshes with hemispheric aggregation
  eeg-muse monitor --replay recordings/session.csv --strategy psd --hemispheric`,
	Args: cobra.NoArgs,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)

	monitorCmd.Flags().StringVar(&monitorReplay, "replay", "",
		"recording to replay as the live source (required)")
	monitorCmd.Flags().BoolVar(&monitorLoop, "loop", false,
		"restart the replay from the beginning when it ends")
	monitorCmd.Flags().DurationVar(&monitorDuration, "duration", 0,
		"stop after this long (0 runs until the source ends)")
	monitorCmd.Flags().StringVar(&monitorStrategy, "strategy", "",
		"estimation strategy: envelope or psd (overrides config)")
	monitorCmd.Flags().BoolVar(&monitorHemispheric, "hemispheric", false,
		"report left-minus-right band power (psd strategy)")

	monitorCmd.MarkFlagRequired("replay")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	appCtx, err := app.NewContext(outputFile, outputFormat, verbose, quiet)
	if err != nil {
		return err
	}

	if monitorStrategy != "" {
		appCtx.Config.Engine.Strategy = monitorStrategy
	}
	if monitorHemispheric {
		appCtx.Config.Analysis.Hemispheric = true
	}

	rec, err := source.LoadRecording(monitorReplay, appCtx.Config.EEG.SampleRate, nil)
	if err != nil {
		return fmt.Errorf("failed to load replay recording: %w", err)
	}

	src := source.NewReplaySource(rec, monitorLoop)
	defer src.Close()

	engine, err := monitor.NewEngine(appCtx.Config, src, appCtx.Logger)
	if err != nil {
		return err
	}

	appCtx.Logger.Info("Monitoring started", logging.Fields{
		"replay":   monitorReplay,
		"strategy": appCtx.Config.Engine.Strategy,
		"duration": rec.Duration(),
		"loop":     monitorLoop,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := engine.Run(ctx, monitorDuration); err != nil && ctx.Err() == nil {
		return err
	}

	if snapshot := engine.Latest(); snapshot != nil {
		return appCtx.WriteOutput(snapshot)
	}
	return nil
}
