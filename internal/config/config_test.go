package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("QMVVM_STORE_DIR", "")
	t.Setenv("QMVVM_IN_MEMORY", "")
	t.Setenv("QMVVM_UNDO_LIMIT", "")

	cfg := Load()
	assert.True(t, cfg.InMemory, "no store dir must force in-memory storage")
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 0, cfg.UndoLimit)
	assert.False(t, cfg.Bridge)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("QMVVM_STORE_DIR", "/tmp/qmvvm")
	t.Setenv("QMVVM_IN_MEMORY", "0")
	t.Setenv("QMVVM_UNDO_LIMIT", "25")
	t.Setenv("QMVVM_BRIDGE", "true")
	t.Setenv("QMVVM_LOG_LEVEL", "debug")

	cfg := Load()
	assert.Equal(t, "/tmp/qmvvm", cfg.StoreDir)
	assert.False(t, cfg.InMemory)
	assert.Equal(t, 25, cfg.UndoLimit)
	assert.True(t, cfg.Bridge)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadBadUndoLimit(t *testing.T) {
	t.Setenv("QMVVM_UNDO_LIMIT", "many")
	assert.Equal(t, 0, Load().UndoLimit)

	t.Setenv("QMVVM_UNDO_LIMIT", "-3")
	assert.Equal(t, 0, Load().UndoLimit)
}
