package logging

import (
	"bytes"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	t.Cleanup(func() { Init(Config{Level: "info", Format: "json"}) })

	t.Run("should write structured json", func(t *testing.T) {
		var buf bytes.Buffer
		Init(Config{Level: "debug", Format: "json", Output: &buf})

		Warn().Str("token", "pork").Msg("search failed")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "warn", entry["level"])
		assert.Equal(t, "pork", entry["token"])
		assert.Equal(t, "search failed", entry["message"])
	})

	t.Run("should drop messages below the level", func(t *testing.T) {
		var buf bytes.Buffer
		Init(Config{Level: "error", Output: &buf})

		Info().Msg("hidden")
		Debug().Msg("hidden")
		assert.Empty(t, buf.String())
	})
}
