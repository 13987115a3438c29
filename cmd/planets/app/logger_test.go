package app

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/agentstation/planets/pkg/logging"
)

// TestDetermineLogLevel tests the log level precedence logic.
func TestDetermineLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected string
	}{
		{
			name:     "default level when no flags set",
			config:   &Config{},
			expected: "info",
		},
		{
			name:     "verbose flag sets debug",
			config:   &Config{Verbose: true},
			expected: "debug",
		},
		{
			name:     "quiet flag sets warn",
			config:   &Config{Quiet: true},
			expected: "warn",
		},
		{
			name:     "explicit log-level overrides verbose",
			config:   &Config{LogLevel: "error", Verbose: true},
			expected: "error",
		},
		{
			name:     "explicit log-level overrides quiet",
			config:   &Config{LogLevel: "trace", Quiet: true},
			expected: "trace",
		},
		{
			name:     "verbose and quiet resolves to quiet",
			config:   &Config{Verbose: true, Quiet: true},
			expected: "warn",
		},
		{
			name:     "invalid level falls back to info",
			config:   &Config{LogLevel: "loud"},
			expected: "info",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := determineLogLevel(tt.config); got != tt.expected {
				t.Errorf("determineLogLevel() = %q, want %q", got, tt.expected)
			}
		})
	}
}

// TestNewLogger verifies the built logger also becomes the default.
func TestNewLogger(t *testing.T) {
	original, level := *logging.Default(), zerolog.GlobalLevel()
	t.Cleanup(func() {
		logging.SetDefault(original)
		zerolog.SetGlobalLevel(level)
	})

	logger := NewLogger(&Config{LogLevel: "warn", LogFormat: "json", LogOutput: "discard"})

	if got := logger.GetLevel(); got != zerolog.WarnLevel {
		t.Errorf("NewLogger() level = %v, want %v", got, zerolog.WarnLevel)
	}
	if got := logging.Default().GetLevel(); got != zerolog.WarnLevel {
		t.Errorf("default logger level = %v, want %v", got, zerolog.WarnLevel)
	}
}
