package mock

import (
	"context"

	"github.com/poiesic/docrag/ai"
)

// ChatModel is a test double for ai.ChatModel.
type ChatModel struct {
	// ChatFunc is called by Chat if set. If nil, Reply is returned.
	ChatFunc func(ctx context.Context, messages []ai.Message) (string, error)

	// Reply is the canned response used when ChatFunc is nil.
	Reply string

	// LastMessages holds the message list from the most recent call.
	LastMessages []ai.Message

	callCount int
}

// NewChatModel creates a mock chat model returning the given reply.
func NewChatModel(reply string) *ChatModel {
	return &ChatModel{Reply: reply}
}

// Chat records the messages and returns the configured reply.
func (m *ChatModel) Chat(ctx context.Context, messages []ai.Message) (string, error) {
	m.callCount++
	m.LastMessages = messages

	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, messages)
	}
	return m.Reply, nil
}

// CallCount returns the number of Chat calls.
func (m *ChatModel) CallCount() int {
	return m.callCount
}

// Provider bundles mock services behind the ai.Provider interface.
type Provider struct {
	Emb  ai.Embedder
	Chat ai.ChatModel
}

// Embedder returns the mock embedding service.
func (p *Provider) Embedder() ai.Embedder { return p.Emb }

// ChatModel returns the mock chat service.
func (p *Provider) ChatModel() ai.ChatModel { return p.Chat }

// Close is a no-op.
func (p *Provider) Close() error { return nil }
