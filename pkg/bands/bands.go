// Package bands turns raw multi-channel EEG chunks into per-band power and
// envelope series. It offers two interchangeable estimation strategies: a
// continuous filter-rectify-smooth envelope follower for low-latency
// streaming, and a windowed Welch PSD integrator for 1-second refreshes and
// whole-file trend analysis. Both share the same filter designs so the two
// modes stay numerically consistent.
package bands

// Band is a named frequency interval of interest. The set of bands is
// configuration shared read-only across every pipeline on a stream.
type Band struct {
	Name string  `json:"name" mapstructure:"name"`
	Low  float64 `json:"low_hz" mapstructure:"low_hz"`
	High float64 `json:"high_hz" mapstructure:"high_hz"`
}

// DefaultBands is the canonical five-band table for a 256 Hz EEG stream.
func DefaultBands() []Band {
	return []Band{
		{Name: "Delta", Low: 0.5, High: 4},
		{Name: "Theta", Low: 4, High: 8},
		{Name: "Alpha", Low: 8, High: 13},
		{Name: "Beta", Low: 13, High: 30},
		{Name: "Gamma", Low: 30, High: 45},
	}
}

// Names returns the band names in table order.
func Names(bands []Band) []string {
	names := make([]string, len(bands))
	for i, b := range bands {
		names[i] = b.Name
	}
	return names
}
