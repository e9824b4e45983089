package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"employee-feedback/src/config"
)

func TestNewLevels(t *testing.T) {
	cases := []struct {
		cfg   config.LoggerConfig
		level zapcore.Level
	}{
		{config.LoggerConfig{Level: "debug", Encoding: "json"}, zapcore.DebugLevel},
		{config.LoggerConfig{Level: "WARN", Encoding: "console"}, zapcore.WarnLevel},
		{config.LoggerConfig{Level: "verbose", Encoding: "logfmt"}, zapcore.InfoLevel},
		{config.LoggerConfig{}, zapcore.InfoLevel},
	}
	for _, tc := range cases {
		l, err := New(tc.cfg)
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(tc.level), "level %s", tc.level)
		if tc.level > zapcore.DebugLevel {
			assert.False(t, l.Core().Enabled(tc.level-1))
		}
	}
}
