package docrag

import (
	"testing"

	"github.com/poiesic/docrag/ai/mock"
	"github.com/poiesic/docrag/core"
	"github.com/poiesic/docrag/vectorstore/chroma"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServiceWiresDefaults(t *testing.T) {
	service, err := NewService(nil)
	require.NoError(t, err)
	defer service.Close()

	assert.NotNil(t, service.Pipeline())
	assert.NotNil(t, service.Responder())
	assert.Equal(t, core.JobIdle, service.Tracker().Current())
}

func TestNewServiceCustomEmbedder(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()

	service, err := NewService(cfg, WithEmbedder(mock.NewEmbedder()))
	require.NoError(t, err)
	defer service.Close()
}

func TestNewServiceConfigFaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Chroma = chroma.Config{}
	_, err := NewService(cfg)
	assert.Error(t, err, "incomplete chroma config is fatal at wiring time")

	cfg = DefaultConfig()
	cfg.WindowSize = 100
	cfg.Overlap = 100
	_, err = NewService(cfg)
	assert.Error(t, err, "overlap >= window is fatal at wiring time")

	cfg = DefaultConfig()
	cfg.DataDir = ""
	_, err = NewService(cfg)
	assert.Error(t, err)
}

func TestNewServiceWatcher(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()

	service, err := NewService(cfg)
	require.NoError(t, err)
	defer service.Close()

	watcher, err := service.NewWatcher()
	require.NoError(t, err)
	assert.NoError(t, watcher.Close())
}
