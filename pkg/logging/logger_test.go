package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGetLogger(t *testing.T) {
	for _, level := range []string{LogLevelInfo, LogLevelDebug, LogLevelNone} {
		l, err := GetLogger(level)
		require.NoError(t, err)
		require.NotNil(t, l)
	}

	l, err := GetLogger("warn")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zap.InfoLevel))
	assert.True(t, l.Core().Enabled(zap.WarnLevel))

	_, err = GetLogger("no-such-level")
	require.Error(t, err)
}

func TestMustGetLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		_ = MustGetLogger(LogLevelDebug)
	})
	assert.Panics(t, func() {
		_ = MustGetLogger("no-such-level")
	})
}
