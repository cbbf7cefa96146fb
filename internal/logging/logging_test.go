package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level, format string
		enabled       zap.AtomicLevel
	}{
		{"debug", "console", zap.NewAtomicLevelAt(zap.DebugLevel)},
		{"INFO", "json", zap.NewAtomicLevelAt(zap.InfoLevel)},
		{"error", "", zap.NewAtomicLevelAt(zap.ErrorLevel)},
	}
	for _, tt := range tests {
		t.Run(tt.level+"/"+tt.format, func(t *testing.T) {
			log, err := New(tt.level, tt.format)
			require.NoError(t, err)
			require.NotNil(t, log)
			assert.Equal(t, tt.enabled.Level(), log.Level())
		})
	}
}

func TestNewErrors(t *testing.T) {
	_, err := New("loud", "console")
	require.Error(t, err)

	_, err = New("info", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown format "xml"`)
}

func TestVerbose(t *testing.T) {
	assert.Equal(t, "debug", Verbose("error", true))
	assert.Equal(t, "error", Verbose("error", false))
}
