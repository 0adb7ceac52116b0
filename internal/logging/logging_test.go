package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("WARN"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
}

func TestSetupFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(&buf, "warn")

	logger.Info().Msg("hidden")
	logger.Warn().Str("label", "nose").Msg("fell off mesh")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "fell off mesh")
	assert.Contains(t, out, "nose")
}
