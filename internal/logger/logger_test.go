package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/vncsmyrnk/kupolls/internal/config"
)

func TestNew(t *testing.T) {
	logger, err := New(config.Logger{Level: "warn", AppName: "kupolls"}, false)
	require.NoError(t, err)

	core := logger.Desugar().Core()
	assert.False(t, core.Enabled(zapcore.InfoLevel))
	assert.True(t, core.Enabled(zapcore.WarnLevel))

	_, err = New(config.Logger{Level: "loud"}, true)
	assert.Error(t, err)
}
