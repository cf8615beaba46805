package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWithFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "wanderai.log")

	require.NoError(t, Init(Config{Level: "debug", File: logFile}))
	require.NotNil(t, Logger)
	assert.Equal(t, log.DebugLevel, Logger.GetLevel())

	Info("trip generated", "destination", "Paris")

	_, err := os.Stat(logFile)
	assert.NoError(t, err)
}

func TestInitStderrOnly(t *testing.T) {
	require.NoError(t, Init(Config{Level: "warn"}))
	require.NotNil(t, Logger)
	assert.Equal(t, log.WarnLevel, Logger.GetLevel())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, log.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, log.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, log.InfoLevel, ParseLevel(""))
	assert.Equal(t, log.InfoLevel, ParseLevel("verbose"))
}

func TestHelpersWithoutInit(t *testing.T) {
	Logger = nil

	Debug("debug")
	Info("info")
	Warn("warn")
	Error("error")
}
