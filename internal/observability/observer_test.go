package observability

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonathan/course-advisor/internal/matching"
	"github.com/jonathan/course-advisor/internal/recommend"
)

func TestLogObserver(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	o := NewLogObserver(zap.New(core))

	o.InstructorResolved("CS101", "Smith, John", matching.TierSwapped)
	o.InstructorSkipped("CS101", "Boom", &recommend.SkipError{Reason: recommend.SkipPanic, Cause: errors.New("nil map")})
	o.CourseSkipped("CS201", &recommend.SkipError{Reason: recommend.SkipLookupFailed, Cause: errors.New("timeout")})
	o.CourseAssembled("CS101", 2)

	entries := logs.All()
	require.Len(t, entries, 4)

	assert.Equal(t, "instructor resolved", entries[0].Message)
	assert.Equal(t, "swapped", entries[0].ContextMap()["tier"])

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "panic", entries[1].ContextMap()["reason"])
	assert.Equal(t, "Boom", entries[1].ContextMap()["instructor"])

	assert.Equal(t, "course skipped", entries[2].Message)
	assert.Equal(t, "timeout", entries[2].ContextMap()["error"])

	assert.Equal(t, int64(2), entries[3].ContextMap()["professors"])
}

func TestNewLogObserver_NilLogger(t *testing.T) {
	o := NewLogObserver(nil)
	assert.NotPanics(t, func() { o.CourseAssembled("CS101", 0) })
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		level   string
		dev     bool
		wantErr bool
		enabled zapcore.Level
	}{
		{"", false, false, zapcore.InfoLevel},
		{"debug", true, false, zapcore.DebugLevel},
		{"warn", false, false, zapcore.WarnLevel},
		{"loud", false, true, zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger, err := NewLogger(tt.level, tt.dev)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.enabled))
			assert.False(t, logger.Core().Enabled(tt.enabled-1))
		})
	}
}
