// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package remote

import (
	"context"
	"log/slog"

	"github.com/poiesic/docrag/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// Chat implements ai.ChatModel against an Ollama-compatible chat service.
type Chat struct {
	client      llms.Model
	temperature float64
	logger      *slog.Logger
}

// newChat is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newChat(config *ai.Config) (*Chat, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := ollama.New(
		ollama.WithServerURL(config.ChatHost),
		ollama.WithModel(config.ChatModel),
	)
	if err != nil {
		return nil, err
	}

	return &Chat{
		client:      client,
		temperature: config.Temperature,
		logger:      slog.Default().With("component", "ollama-chat"),
	}, nil
}

// NewChat creates a chat model using the provided configuration.
//
// Returns ai.ChatModel interface to enforce abstraction.
func NewChat(config *ai.Config) (ai.ChatModel, error) {
	return newChat(config)
}

// Chat sends the message list to the model and returns the reply text.
func (c *Chat) Chat(ctx context.Context, messages []ai.Message) (string, error) {
	c.logger.Debug("sending chat request", "messages", len(messages))

	content := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		role := llms.ChatMessageTypeHuman
		if m.Role == ai.RoleSystem {
			role = llms.ChatMessageTypeSystem
		}
		content = append(content, llms.MessageContent{
			Role:  role,
			Parts: []llms.ContentPart{llms.TextPart(m.Content)},
		})
	}

	response, err := c.client.GenerateContent(ctx, content, llms.WithTemperature(c.temperature))
	if err != nil {
		c.logger.Error("chat completion failed", "err", err)
		return "", err
	}

	if len(response.Choices) == 0 {
		return "", ai.ErrNoReply
	}

	return response.Choices[0].Content, nil
}
