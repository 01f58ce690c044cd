package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		wantLevel zerolog.Level
	}{
		{"default warn level", 0, zerolog.WarnLevel},
		{"info level", 1, zerolog.InfoLevel},
		{"debug level", 2, zerolog.DebugLevel},
		{"trace level", 3, zerolog.TraceLevel},
		{"high verbosity defaults to trace", 5, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logPath := filepath.Join(t.TempDir(), "state", "homesick.log")

			SetupLogger(tt.verbosity, logPath)

			assert.Equal(t, tt.wantLevel, zerolog.GlobalLevel())
			_, err := os.Stat(logPath)
			assert.NoError(t, err, "log file should be created")
		})
	}
}

func TestSetupLogger_DefaultFile(t *testing.T) {
	stateHome := t.TempDir()
	t.Setenv("XDG_STATE_HOME", stateHome)

	SetupLogger(0, "")

	_, err := os.Stat(filepath.Join(stateHome, "homesick", "homesick.log"))
	assert.NoError(t, err)
}

func TestSetupLogger_WritesRunID(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "homesick.log")
	SetupLogger(1, logPath)

	logger := GetLogger("test")
	logger.Info().Msg("hello")

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"run":"`)
	assert.Contains(t, string(content), `"component":"test"`)
}

func TestDefaultLogFile(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/custom/state")
	assert.Equal(t, "/custom/state/homesick/homesick.log", DefaultLogFile())

	t.Setenv("XDG_STATE_HOME", "")
	assert.Contains(t, DefaultLogFile(), filepath.Join(".local", "state", "homesick", "homesick.log"))
}

func TestLogOperationStart(t *testing.T) {
	done := LogOperationStart(GetLogger("test"), "symlink")
	assert.NotNil(t, done)
	done()
}
