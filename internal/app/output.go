package app

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Format renders data in the requested output format ("json" or "yaml").
// Unknown formats fall back to JSON.
func Format(data any, format string) ([]byte, error) {
	switch format {
	case "yaml":
		return yaml.Marshal(data)
	case "json", "":
		return marshalJSON(data)
	default:
		return marshalJSON(data)
	}
}

func marshalJSON(data any) ([]byte, error) {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json encoding failed: %w", err)
	}
	return append(out, '\n'), nil
}
