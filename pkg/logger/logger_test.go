package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"", zapcore.InfoLevel},
		{"debug", zapcore.DebugLevel},
		{" WARN ", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		got, err := parseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := parseLevel("loud")
	assert.Error(t, err)
}

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"dev", "prod", ""} {
		l, err := New(mode, "info")
		require.NoError(t, err, mode)
		l.With("mode", mode).Debug("not shown")
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Info("discarded", "k", "v")
	l.Sync()
}
