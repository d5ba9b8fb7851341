package source

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/bishalpaudel/EEG-muse/pkg/bands"
)

// Recording is a fully loaded EEG recording: the whole channel matrix read
// once, channel-major.
type Recording struct {
	Path       string
	Channels   []string    // channel names in data order
	Data       [][]float64 // [channel][sample]
	SampleRate int
}

// Samples returns the per-channel sample count.
func (r *Recording) Samples() int {
	if len(r.Data) == 0 {
		return 0
	}
	return len(r.Data[0])
}

// Duration returns the recording length in seconds.
func (r *Recording) Duration() float64 {
	return float64(r.Samples()) / float64(r.SampleRate)
}

// LoadRecording reads a recorded CSV file. Named channel columns (TP9, AF7,
// AF8, TP10) are matched by header; when the header carries no known names,
// columns 1-4 after the leading timestamp column are assumed to be those
// channels in that order. selected restricts loading to a subset of channel
// names; nil loads all four.
func LoadRecording(path string, sampleRate int, selected []string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open recording: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, bands.NewEngineError(bands.ErrCodeMalformedInput,
			fmt.Sprintf("failed to parse %s", path), err)
	}
	if len(rows) < 2 {
		return nil, bands.NewEngineError(bands.ErrCodeInsufficientData,
			fmt.Sprintf("recording %s has no data rows", path), nil)
	}

	if selected == nil {
		selected = ChannelNames
	}

	header := rows[0]
	columns, err := resolveColumns(header, selected, path)
	if err != nil {
		return nil, err
	}

	dataRows := rows[1:]
	rec := &Recording{
		Path:       path,
		Channels:   selected,
		Data:       make([][]float64, len(columns)),
		SampleRate: sampleRate,
	}
	for c := range rec.Data {
		rec.Data[c] = make([]float64, 0, len(dataRows))
	}

	for i, row := range dataRows {
		for c, col := range columns {
			if col >= len(row) {
				return nil, bands.NewEngineError(bands.ErrCodeMalformedInput,
					fmt.Sprintf("row %d of %s has %d columns, need %d", i+2, path, len(row), col+1), nil)
			}
			v, err := strconv.ParseFloat(row[col], 64)
			if err != nil {
				return nil, bands.NewEngineError(bands.ErrCodeMalformedInput,
					fmt.Sprintf("row %d of %s: bad sample %q", i+2, path, row[col]), err)
			}
			rec.Data[c] = append(rec.Data[c], v)
		}
	}
	return rec, nil
}

// resolveColumns maps the selected channel names to column indices, by
// header name when present and by fixed position otherwise.
func resolveColumns(header []string, selected []string, path string) ([]int, error) {
	byName := make(map[string]int, len(header))
	for i, name := range header {
		byName[name] = i
	}

	named := false
	for _, name := range ChannelNames {
		if _, ok := byName[name]; ok {
			named = true
			break
		}
	}

	columns := make([]int, 0, len(selected))
	for _, name := range selected {
		if named {
			col, ok := byName[name]
			if !ok {
				return nil, bands.NewEngineError(bands.ErrCodeMalformedInput,
					fmt.Sprintf("recording %s is missing channel column %s", path, name), nil)
			}
			columns = append(columns, col)
			continue
		}
		// Unnamed layout: timestamp first, then TP9, AF7, AF8, TP10.
		pos := -1
		for i, canonical := range ChannelNames {
			if canonical == name {
				pos = i + 1
				break
			}
		}
		if pos < 0 {
			return nil, bands.NewEngineError(bands.ErrCodeMalformedInput,
				fmt.Sprintf("recording %s has no column for channel %s", path, name), nil)
		}
		if pos >= len(header) {
			return nil, bands.NewEngineError(bands.ErrCodeMalformedInput,
				fmt.Sprintf("recording %s has too few columns for channel %s", path, name), nil)
		}
		columns = append(columns, pos)
	}
	return columns, nil
}
