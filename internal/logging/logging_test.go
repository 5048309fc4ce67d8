package logging

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"", zerolog.InfoLevel},
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"off", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gecko.log")

	logger, closer := New(Config{Level: "info", Format: "json", Output: path})
	logger.Info().Int("items", 3).Msg("catalog loaded")
	logger.Debug().Msg("hidden")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"items":3`)
	assert.Contains(t, string(data), `"message":"catalog loaded"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestFromContext(t *testing.T) {
	nop := FromContext(context.Background())
	require.NotNil(t, nop)
	assert.Equal(t, zerolog.Disabled, nop.GetLevel())

	logger := zerolog.New(nil).Level(zerolog.WarnLevel)
	ctx := WithLogger(context.Background(), logger)
	assert.Equal(t, zerolog.WarnLevel, FromContext(ctx).GetLevel())
}
