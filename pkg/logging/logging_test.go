package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	testCases := []struct {
		name          string
		level         string
		format        string
		expectedLevel zapcore.Level
		expectError   bool
	}{
		{"json info", "info", "json", zapcore.InfoLevel, false},
		{"default format", "warn", "", zapcore.WarnLevel, false},
		{"console debug", "DEBUG", "console", zapcore.DebugLevel, false},
		{"unknown level", "verbose", "json", 0, true},
		{"unknown format", "info", "xml", 0, true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			logger, err := New(testCase.level, testCase.format)
			if testCase.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(testCase.expectedLevel))
			if testCase.expectedLevel > zapcore.DebugLevel {
				assert.False(t, logger.Core().Enabled(testCase.expectedLevel-1))
			}
		})
	}
}
