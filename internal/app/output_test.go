package app

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type sample struct {
	Name  string  `json:"name" yaml:"name"`
	Value float64 `json:"value" yaml:"value"`
}

func TestFormatJSON(t *testing.T) {
	out, err := Format(sample{Name: "Alpha", Value: 1.5}, "json")
	require.NoError(t, err)

	var decoded sample
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, sample{Name: "Alpha", Value: 1.5}, decoded)
	assert.Equal(t, byte('\n'), out[len(out)-1])
}

func TestFormatYAML(t *testing.T) {
	out, err := Format(sample{Name: "Beta", Value: 2.0}, "yaml")
	require.NoError(t, err)

	var decoded sample
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, sample{Name: "Beta", Value: 2.0}, decoded)
}

func TestFormatUnknownFallsBackToJSON(t *testing.T) {
	out, err := Format(sample{Name: "Theta"}, "xml")
	require.NoError(t, err)

	var decoded sample
	assert.NoError(t, json.Unmarshal(out, &decoded))
}
