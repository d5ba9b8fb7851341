package configs

import (
	"time"

	"github.com/spf13/viper"
)

// SetDefaults sets default configuration values for all components
func SetDefaults(v *viper.Viper) {
	// EEG stream defaults (Muse headband)
	if !v.IsSet("eeg.sample_rate") {
		v.SetDefault("eeg.sample_rate", 256)
	}
	if !v.IsSet("eeg.channels") {
		v.SetDefault("eeg.channels", 4)
	}
	if !v.IsSet("eeg.window_seconds") {
		v.SetDefault("eeg.window_seconds", 30)
	}
	if !v.IsSet("eeg.bands") {
		v.SetDefault("eeg.bands", []map[string]any{
			{"name": "Delta", "low_hz": 0.5, "high_hz": 4.0},
			{"name": "Theta", "low_hz": 4.0, "high_hz": 8.0},
			{"name": "Alpha", "low_hz": 8.0, "high_hz": 13.0},
			{"name": "Beta", "low_hz": 13.0, "high_hz": 30.0},
			{"name": "Gamma", "low_hz": 30.0, "high_hz": 45.0},
		})
	}

	// Live engine defaults
	if !v.IsSet("engine.strategy") {
		v.SetDefault("engine.strategy", "envelope")
	}
	if !v.IsSet("engine.smoothing_hz") {
		v.SetDefault("engine.smoothing_hz", 0.1)
	}
	if !v.IsSet("engine.bandpass_order") {
		v.SetDefault("engine.bandpass_order", 3)
	}
	if !v.IsSet("engine.lowpass_order") {
		v.SetDefault("engine.lowpass_order", 1)
	}
	if !v.IsSet("engine.update_rate") {
		v.SetDefault("engine.update_rate", 10.0)
	}

	// Whole-file analysis defaults; zero window/step mean "derive from the
	// sample rate and update rate".
	if !v.IsSet("analysis.window_size") {
		v.SetDefault("analysis.window_size", 0)
	}
	if !v.IsSet("analysis.step_size") {
		v.SetDefault("analysis.step_size", 0.0)
	}
	if !v.IsSet("analysis.trend_window") {
		v.SetDefault("analysis.trend_window", 30)
	}
	if !v.IsSet("analysis.hemispheric") {
		v.SetDefault("analysis.hemispheric", false)
	}

	// Comparison defaults
	if !v.IsSet("stats.outlier_sigma") {
		v.SetDefault("stats.outlier_sigma", 3.0)
	}
	if !v.IsSet("stats.significance") {
		v.SetDefault("stats.significance", 0.05)
	}

	// Recorder defaults
	if !v.IsSet("recorder.flush_interval") {
		v.SetDefault("recorder.flush_interval", 3*time.Second)
	}
	if !v.IsSet("recorder.dir") {
		v.SetDefault("recorder.dir", "recordings")
	}
}
