package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bishalpaudel/EEG-muse/internal/analysis"
	"github.com/bishalpaudel/EEG-muse/internal/app"
)

var (
	analyzeHemispheric bool
	analyzeTrendWindow int
	analyzeRawSeries   bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags] <recording.csv>",
	Short: "Compute band power trends for a recording",
	Long: `Sweep a one-second analysis window across a whole recording and report
the per-band power trend.

Each window is reduced to one log-power value per band with Welch's method;
the resulting series is smoothed with a centered moving average. Powers are
averaged over all channels unless --hemispheric is set, in which case the
left-minus-right difference is reported instead.

Examples:
  # Analyze a session and print the per-band summary as JSON
  eeg-muse analyze recordings/session.csv

  # Include the raw unsmoothed series in the output
  eeg-muse analyze --raw recordings/session.csv

  # Hemispheric laterality trend with a wider smoothing window
  eeg-muse analyze --hemispheric --trend-window 60 recordings/session.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().BoolVar(&analyzeHemispheric, "hemispheric", false,
		"report left-minus-right band power instead of the channel average")
	analyzeCmd.Flags().IntVar(&analyzeTrendWindow, "trend-window", 0,
		"moving-average window in steps (overrides config)")
	analyzeCmd.Flags().BoolVar(&analyzeRawSeries, "raw", false,
		"include the unsmoothed power series in the output")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	appCtx, err := app.NewContext(outputFile, outputFormat, verbose, quiet)
	if err != nil {
		return err
	}

	if analyzeHemispheric {
		appCtx.Config.Analysis.Hemispheric = true
	}
	if analyzeTrendWindow > 0 {
		appCtx.Config.Analysis.TrendWindow = analyzeTrendWindow
	}

	runner := analysis.NewRunner(appCtx.Config, appCtx.Logger)
	report, err := runner.AnalyzeFile(args[0])
	if err != nil {
		return err
	}

	if !analyzeRawSeries {
		report.Series = nil
	}
	return appCtx.WriteOutput(report)
}
