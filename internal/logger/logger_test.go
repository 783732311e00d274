package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestGuard_RecoversPanic(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	Set(zap.New(core))
	defer Set(zap.NewNop())

	ok := Guard("test", func() { panic("boom") }, "chat_id", "c1")
	assert.False(t, ok)
	assert.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "skipped item after panic", entry.Message)
	assert.Equal(t, "c1", entry.ContextMap()["chat_id"])
}

func TestGuard_PassesThrough(t *testing.T) {
	ran := false
	assert.True(t, Guard("test", func() { ran = true }))
	assert.True(t, ran)
}

func TestL_DefaultIsNop(t *testing.T) {
	assert.NotNil(t, L())
}
