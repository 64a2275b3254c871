package temporal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerAdapter(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	adapter := NewZapLoggerAdapter(zap.New(core))

	adapter.Debug("polling", "TaskQueue", "feed-migration")
	adapter.Info("started", "WorkflowID", "wf-1", "Attempt", 2)
	adapter.Warn("dangling", "Key")
	adapter.Error("failed", "Error", errors.New("boom"), 7, "seven")

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)

	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "feed-migration", entries[0].ContextMap()["TaskQueue"])
	assert.Equal(t, "temporal", entries[0].ContextMap()["component"])

	assert.Equal(t, "wf-1", entries[1].ContextMap()["WorkflowID"])
	assert.EqualValues(t, 2, entries[1].ContextMap()["Attempt"])

	assert.Contains(t, entries[2].ContextMap(), "Key")
	assert.Nil(t, entries[2].ContextMap()["Key"])

	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
	assert.Equal(t, "boom", entries[3].ContextMap()["Error"])
	assert.Equal(t, "seven", entries[3].ContextMap()["7"])
}

func TestZapLoggerAdapter_With(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	adapter := NewZapLoggerAdapter(zap.New(core))

	withLogger, ok := adapter.(log.WithLogger)
	require.True(t, ok)

	withLogger.With("Namespace", "default").Info("connected")
	adapter.Debug("filtered by level")

	entries := logs.AllUntimed()
	require.Len(t, entries, 1)
	assert.Equal(t, "default", entries[0].ContextMap()["Namespace"])
}
