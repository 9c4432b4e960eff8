package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in   string
		want zerolog.Level
	}{
		"debug":       {in: "debug", want: zerolog.DebugLevel},
		"mixed case":  {in: " Info ", want: zerolog.InfoLevel},
		"disabled":    {in: "disabled", want: zerolog.Disabled},
		"empty":       {in: "", want: zerolog.WarnLevel},
		"unknown":     {in: "loud", want: zerolog.WarnLevel},
		"error level": {in: "error", want: zerolog.ErrorLevel},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestLevelFromFlags(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		debug, verbose bool
		configured     string
		want           string
	}{
		"debug wins":        {debug: true, verbose: true, configured: "error", want: "debug"},
		"verbose":           {verbose: true, configured: "error", want: "info"},
		"configured":        {configured: "error", want: "error"},
		"nothing specified": {want: DefaultLevel},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, LevelFromFlags(tt.debug, tt.verbose, tt.configured))
		})
	}
}

func TestNew_FiltersByLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := New(Config{Level: "info", Output: &buf})

	log.Debug().Msg("hidden")
	log.Info().Str("target", "README.md").Msg("updated")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "updated", entry["message"])
	assert.Equal(t, "README.md", entry["target"])
	assert.Contains(t, entry, "time")
}

func TestNew_Pretty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := New(Config{Level: "debug", Pretty: true, Output: &buf})
	log.Debug().Str("section", "Features").Msg("section created")

	out := buf.String()
	assert.Contains(t, out, "section created")
	assert.Contains(t, out, "section=")
	assert.False(t, strings.HasPrefix(out, "{"), "console output is not JSON")
}
