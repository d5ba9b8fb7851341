package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bishalpaudel/EEG-muse/internal/analysis"
	"github.com/bishalpaudel/EEG-muse/internal/app"
)

var (
	compareHemispheric  bool
	compareOutlierSigma float64
	compareSignificance float64
)

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare [flags] <recordingA.csv> <recordingB.csv>",
	Short: "Statistically compare two recordings band by band",
	Long: `Build the band power trend for both recordings and test, per band,
whether recording B differs significantly from recording A.

Each trend is cleaned with a z-score outlier cut before a Welch two-sample
t-test. A band with fewer than two analyzable points after cleaning is
reported as invalid rather than failing the whole comparison.

Examples:
  # Compare a baseline session against a later one
  eeg-muse compare recordings/baseline.csv recordings/followup.csv

  # Stricter significance level, looser outlier cut
  eeg-muse compare --significance 0.01 --outlier-sigma 4 a.csv b.csv`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().BoolVar(&compareHemispheric, "hemispheric", false,
		"compare left-minus-right band power instead of the channel average")
	compareCmd.Flags().Float64Var(&compareOutlierSigma, "outlier-sigma", 0,
		"z-score outlier threshold (overrides config)")
	compareCmd.Flags().Float64Var(&compareSignificance, "significance", 0,
		"p-value threshold for significance (overrides config)")
}

func runCompare(cmd *cobra.Command, args []string) error {
	appCtx, err := app.NewContext(outputFile, outputFormat, verbose, quiet)
	if err != nil {
		return err
	}

	if compareHemispheric {
		appCtx.Config.Analysis.Hemispheric = true
	}
	if compareOutlierSigma > 0 {
		appCtx.Config.Stats.OutlierSigma = compareOutlierSigma
	}
	if compareSignificance > 0 {
		appCtx.Config.Stats.Significance = compareSignificance
	}

	runner := analysis.NewRunner(appCtx.Config, appCtx.Logger)
	report, err := runner.CompareFiles(args[0], args[1])
	if err != nil {
		return err
	}
	return appCtx.WriteOutput(report)
}
