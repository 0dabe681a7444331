package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG").Level())
	assert.Equal(t, zapcore.WarnLevel, ParseLevel(" warn ").Level())
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("verbose").Level())
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("").Level())
}

func TestInitLog(t *testing.T) {
	logger := InitLog(ParseLevel("error"))
	assert.NotNil(t, logger)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.ErrorLevel))
}
