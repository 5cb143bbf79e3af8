package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInit_LevelOverride(t *testing.T) {
	defer func() { Logger = nil }()

	require.NoError(t, Init("development", "warn"))
	assert.False(t, Get().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, Get().Core().Enabled(zapcore.WarnLevel))
}

func TestInit_ProductionDefaultsToInfo(t *testing.T) {
	defer func() { Logger = nil }()

	require.NoError(t, Init("production", ""))
	assert.False(t, Get().Core().Enabled(zapcore.DebugLevel))
	assert.True(t, Get().Core().Enabled(zapcore.InfoLevel))
}

func TestInit_InvalidLevel(t *testing.T) {
	defer func() { Logger = nil }()

	assert.Error(t, Init("development", "loud"))
}

func TestGet_Uninitialized(t *testing.T) {
	Logger = nil
	assert.NotNil(t, Get())
}
