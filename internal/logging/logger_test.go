package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewDevelopmentLogsDebug(t *testing.T) {
	logger, err := New(EnvDevelopment)
	require.NoError(t, err)
	require.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNewProductionSkipsDebug(t *testing.T) {
	logger, err := New(EnvProduction)
	require.NoError(t, err)
	require.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	require.True(t, logger.Core().Enabled(zapcore.InfoLevel))
}

func TestUnknownEnvFallsBackToDevelopment(t *testing.T) {
	logger := MustNew("staging")
	require.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}
