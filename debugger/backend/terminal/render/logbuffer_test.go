package render

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogBuffer_WrapsAndOrdersNewestFirst(t *testing.T) {
	lb := NewLogBuffer(3)
	for i, msg := range []string{"a", "b", "c", "d"} {
		lb.Add(LogEntry{Time: time.Unix(int64(i), 0), Level: slog.LevelInfo, Message: msg})
	}

	recent := lb.GetRecent(0, slog.LevelDebug)
	require.Len(t, recent, 3)
	assert.Equal(t, "d", recent[0].Message)
	assert.Equal(t, "c", recent[1].Message)
	assert.Equal(t, "b", recent[2].Message)

	assert.Len(t, lb.GetRecent(2, slog.LevelDebug), 2)

	lb.Clear()
	assert.Empty(t, lb.GetRecent(0, slog.LevelDebug))
}

func TestLogBuffer_FiltersByLevel(t *testing.T) {
	lb := NewLogBuffer(10)
	lb.Add(LogEntry{Level: slog.LevelDebug, Message: "debug"})
	lb.Add(LogEntry{Level: slog.LevelWarn, Message: "warn"})
	lb.Add(LogEntry{Level: slog.LevelInfo, Message: "info"})

	recent := lb.GetRecent(0, slog.LevelInfo)
	require.Len(t, recent, 2)
	assert.Equal(t, "info", recent[0].Message)
	assert.Equal(t, "warn", recent[1].Message)
}

func TestLogBufferHandler(t *testing.T) {
	lb := NewLogBuffer(10)
	var level slog.LevelVar
	level.Set(slog.LevelInfo)

	logger := slog.New(NewLogBufferHandler(lb, &level))
	logger.Debug("hidden")
	logger.Info("Phase changed", "from", "joint", "to", "succeeded")
	logger.With("run", "abc").WithGroup("vm").Warn("Fault", "pc", 4)

	recent := lb.GetRecent(0, slog.LevelDebug)
	require.Len(t, recent, 2)
	assert.Equal(t, "Fault run=abc vm.pc=4", recent[0].Message)
	assert.Equal(t, "Phase changed from=joint to=succeeded", recent[1].Message)

	level.Set(slog.LevelDebug)
	logger.Debug("shown")
	assert.Len(t, lb.GetRecent(0, slog.LevelDebug), 3)
}

func TestFormatLogEntry(t *testing.T) {
	entry := LogEntry{
		Time:    time.Date(2024, 1, 1, 13, 14, 15, 0, time.Local),
		Level:   slog.LevelWarn,
		Message: "careful",
	}
	assert.Equal(t, "13:14:15 [WRN] careful", FormatLogEntry(entry))
	assert.Equal(t, "DBG", LevelName(slog.LevelDebug))
	assert.Equal(t, "ERR", LevelName(slog.LevelError+4))
}
