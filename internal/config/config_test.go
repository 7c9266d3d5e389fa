package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 8, cfg.Ingest.Agents)
	assert.Equal(t, 200, cfg.Ingest.Steps)
	assert.Equal(t, "table", cfg.Query.Format)
}

func TestParsePartialDocumentKeepsDefaults(t *testing.T) {
	const doc = `
[ingest]
agents = 32
`
	cfg, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.Ingest.Agents)
	assert.Equal(t, 200, cfg.Ingest.Steps, "unset fields should keep Default()'s values")
	assert.Equal(t, 64, cfg.Ingest.Width)
}

func TestParseFullDocument(t *testing.T) {
	const doc = `
[ingest]
agents = 4
steps = 50
seed = 12345
width = 32
height = 32
spawn_x = 16
spawn_y = 16

[query]
radius = 3
format = "json"
`
	cfg, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Ingest.Agents)
	assert.Equal(t, uint32(12345), cfg.Ingest.Seed)
	assert.Equal(t, 3, cfg.Query.Radius)
	assert.Equal(t, "json", cfg.Query.Format)
}

func TestParseInvalidTOML(t *testing.T) {
	_, err := Parse(strings.NewReader("not = [valid"))
	assert.Error(t, err)
}
