package main

import (
	"bytes"
	"encoding/json"
	"os"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnv = []string{
	"FLOWCODE_RADIX", "FLOWCODE_HUMAN", "FLOWCODE_LENGTH", "FLOWCODE_WORKERS",
	"FLOWCODE_LIMIT", "FLOWCODE_VERIFY", "FLOWCODE_LOG_LEVEL", "FLOWCODE_LOG_FORMAT",
	"FLOWCODE_COLOR",
}

// clearEnv unsets every FLOWCODE_* variable and restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnv {
		if value, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, value) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		expected Config
	}{
		{
			name:    "default values",
			envVars: map[string]string{},
			expected: Config{
				Radix:         10,
				HumanReadable: true,
				Length:        7,
				Workers:       runtime.NumCPU(),
				LogLevel:      "info",
				LogFormat:     "text",
				Color:         "auto",
			},
		},
		{
			name: "valid configuration",
			envVars: map[string]string{
				"FLOWCODE_RADIX":      "16",
				"FLOWCODE_HUMAN":      "false",
				"FLOWCODE_LENGTH":     "4",
				"FLOWCODE_WORKERS":    "2",
				"FLOWCODE_LIMIT":      "5000",
				"FLOWCODE_VERIFY":     "true",
				"FLOWCODE_LOG_LEVEL":  "debug",
				"FLOWCODE_LOG_FORMAT": "json",
				"FLOWCODE_COLOR":      "off",
			},
			expected: Config{
				Radix:     16,
				Length:    4,
				Workers:   2,
				Limit:     5000,
				Verify:    true,
				LogLevel:  "debug",
				LogFormat: "json",
				Color:     "off",
			},
		},
		{
			name: "invalid numbers fall back",
			envVars: map[string]string{
				"FLOWCODE_RADIX":  "ten",
				"FLOWCODE_HUMAN":  "maybe",
				"FLOWCODE_LENGTH": "",
				"FLOWCODE_LIMIT":  "1e3",
			},
			expected: Config{
				Radix:         10,
				HumanReadable: true,
				Length:        7,
				Workers:       runtime.NumCPU(),
				LogLevel:      "info",
				LogFormat:     "text",
				Color:         "auto",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for key, value := range tt.envVars {
				os.Setenv(key, value)
			}

			assert.Equal(t, tt.expected, LoadConfig())
		})
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newLogger(Config{LogLevel: "warn", LogFormat: "JSON"}, &buf)
		logger.Info("dropped")
		logger.Warn("kept", "length", 3)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "kept", entry["msg"])
		assert.Equal(t, float64(3), entry["length"])
	})

	t.Run("text with bad level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newLogger(Config{LogLevel: "loud", LogFormat: "text"}, &buf)
		logger.Debug("dropped")
		logger.Info("kept")

		assert.NotContains(t, buf.String(), "dropped")
		assert.Contains(t, buf.String(), "msg=kept")
	})
}
