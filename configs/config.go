package configs

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/bishalpaudel/EEG-muse/pkg/bands"
)

// Config represents the application configuration
type Config struct {
	// Application settings
	Verbose      bool   `mapstructure:"verbose"`
	LogLevel     string `mapstructure:"log_level"`
	OutputFormat string `mapstructure:"output_format"`

	// EEG stream configuration
	EEG EEGConfig `mapstructure:"eeg"`

	// Live engine configuration
	Engine EngineConfig `mapstructure:"engine"`

	// Whole-file analysis configuration
	Analysis AnalysisConfig `mapstructure:"analysis"`

	// Statistical comparison configuration
	Stats StatsConfig `mapstructure:"stats"`

	// Recorder configuration
	Recorder RecorderConfig `mapstructure:"recorder"`
}

// EEGConfig describes the signal the engine consumes
type EEGConfig struct {
	SampleRate    int          `mapstructure:"sample_rate"`
	Channels      int          `mapstructure:"channels"`
	WindowSeconds int          `mapstructure:"window_seconds"`
	Bands         []bands.Band `mapstructure:"bands"`
}

// EngineConfig contains live streaming engine settings
type EngineConfig struct {
	// Strategy selects the live estimation technique: "envelope" for the
	// continuous filter chain, "psd" for windowed Welch refreshes.
	Strategy      string  `mapstructure:"strategy"`
	SmoothingHz   float64 `mapstructure:"smoothing_hz"`
	BandpassOrder int     `mapstructure:"bandpass_order"`
	LowpassOrder  int     `mapstructure:"lowpass_order"`
	UpdateRate    float64 `mapstructure:"update_rate"`
}

// AnalysisConfig contains sliding-window trend settings
type AnalysisConfig struct {
	// WindowSize in samples; 0 means one second of samples.
	WindowSize int `mapstructure:"window_size"`
	// StepSize in samples; 0 means sample_rate / update_rate.
	StepSize    float64 `mapstructure:"step_size"`
	TrendWindow int     `mapstructure:"trend_window"`
	Hemispheric bool    `mapstructure:"hemispheric"`
}

// StatsConfig contains comparison thresholds
type StatsConfig struct {
	OutlierSigma float64 `mapstructure:"outlier_sigma"`
	Significance float64 `mapstructure:"significance"`
}

// RecorderConfig contains capture settings
type RecorderConfig struct {
	FlushInterval time.Duration `mapstructure:"flush_interval"`
	Dir           string        `mapstructure:"dir"`
}

// LoadConfig loads configuration from viper
func LoadConfig() (*Config, error) {
	config := &Config{}

	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	return config, nil
}

// ValidateConfig validates the configuration
func ValidateConfig(config *Config) error {
	if config.EEG.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive")
	}

	if config.EEG.Channels <= 0 {
		return fmt.Errorf("channel count must be positive")
	}

	if config.EEG.WindowSeconds <= 0 {
		return fmt.Errorf("window seconds must be positive")
	}

	if len(config.EEG.Bands) == 0 {
		return fmt.Errorf("at least one band must be configured")
	}

	nyquist := float64(config.EEG.SampleRate) / 2
	for _, b := range config.EEG.Bands {
		if b.Low <= 0 || b.High <= b.Low {
			return fmt.Errorf("band %s has invalid edges [%.2f, %.2f]", b.Name, b.Low, b.High)
		}
		if b.High >= nyquist {
			return fmt.Errorf("band %s upper edge %.2f Hz exceeds the Nyquist frequency", b.Name, b.High)
		}
	}

	if config.Engine.Strategy != "envelope" && config.Engine.Strategy != "psd" {
		return fmt.Errorf("engine strategy must be envelope or psd, got %q", config.Engine.Strategy)
	}

	if config.Engine.SmoothingHz <= 0 {
		return fmt.Errorf("smoothing cutoff must be positive")
	}

	if config.Engine.UpdateRate <= 0 {
		return fmt.Errorf("update rate must be positive")
	}

	if config.Stats.OutlierSigma <= 0 {
		return fmt.Errorf("outlier sigma must be positive")
	}

	if config.Stats.Significance <= 0 || config.Stats.Significance >= 1 {
		return fmt.Errorf("significance must be between 0 and 1")
	}

	return nil
}

// WindowSamples returns the analysis window in samples, defaulting to one
// second.
func (c *Config) WindowSamples() int {
	if c.Analysis.WindowSize > 0 {
		return c.Analysis.WindowSize
	}
	return c.EEG.SampleRate
}

// StepSamples returns the analysis hop in samples, defaulting to
// sample_rate / update_rate.
func (c *Config) StepSamples() float64 {
	if c.Analysis.StepSize > 0 {
		return c.Analysis.StepSize
	}
	return float64(c.EEG.SampleRate) / c.Engine.UpdateRate
}

// Aggregation returns the configured spectral aggregation mode.
func (c *Config) Aggregation() bands.Aggregation {
	if c.Analysis.Hemispheric {
		return bands.AggregateHemispheric
	}
	return bands.AggregateAverage
}
