package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://localhost:5001/embed", cfg.EmbeddingURL)
	assert.Equal(t, "llama2:latest", cfg.ChatModel)
	assert.InDelta(t, 0.7, cfg.Temperature, 0.0001)
}

func TestConfigOptions(t *testing.T) {
	cfg := NewConfig(
		WithEmbeddingURL("http://embedder:9000/embed"),
		WithEmbeddingModel("text-embedding-3-small"),
		WithChatHost("http://ollama:11434/"),
		WithChatModel("mistral"),
		WithTemperature(0.2),
	)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "http://embedder:9000/embed", cfg.EmbeddingURL)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
	// Normalize strips the trailing slash during Validate.
	assert.Equal(t, "http://ollama:11434", cfg.ChatHost)
	assert.Equal(t, "mistral", cfg.ChatModel)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"missing embedding url", func(c *Config) { c.EmbeddingURL = "" }, ErrEmbeddingURLRequired},
		{"missing chat host", func(c *Config) { c.ChatHost = "" }, ErrChatHostRequired},
		{"missing chat model", func(c *Config) { c.ChatModel = "" }, ErrChatModelRequired},
		{"temperature too high", func(c *Config) { c.Temperature = 2.5 }, ErrInvalidTemperature},
		{"temperature negative", func(c *Config) { c.Temperature = -0.1 }, ErrInvalidTemperature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.wantErr)
		})
	}
}
