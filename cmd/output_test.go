package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Loan69/ai-agent-prospection/internal/model"
)

func TestWriteOutput(t *testing.T) {
	v := model.AgentConfig{Zones: []string{"Lyon 1, France"}, Radius: 3000}

	var js bytes.Buffer
	require.NoError(t, writeOutput(&js, v, "json"))
	assert.Contains(t, js.String(), `"radius": 3000`)

	var ym bytes.Buffer
	require.NoError(t, writeOutput(&ym, v, "yaml"))
	assert.Contains(t, ym.String(), "radius: 3000")
	assert.Contains(t, ym.String(), "- Lyon 1, France")

	assert.Error(t, writeOutput(&bytes.Buffer{}, v, "csv"))
}
