// Package ai wraps the Gemini client for the assistant chat endpoint.
package ai

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/wallasnipe/wallasnipe/internal/config"
)

// ErrDisabled is returned when no API key was configured at startup.
var ErrDisabled = errors.New("chat is not configured")

type Chat struct {
	client *genai.Client
	cfg    config.ChatConfig
}

// New builds the chat client. A missing API key is not an error: the client
// is constructed disabled and every StreamChat call returns ErrDisabled, so
// the rest of the service runs without chat.
func New(ctx context.Context, cfg config.ChatConfig) (*Chat, error) {
	if cfg.APIKey == "" {
		return &Chat{cfg: cfg}, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Chat{client: client, cfg: cfg}, nil
}

// Enabled reports whether an API key was configured.
func (c *Chat) Enabled() bool {
	return c != nil && c.client != nil
}

// StreamChat sends one user message and forwards each generated text chunk
// to out as it arrives. out returning an error aborts the stream.
func (c *Chat) StreamChat(ctx context.Context, message string, out func(chunk string) error) error {
	if !c.Enabled() {
		return ErrDisabled
	}

	genCfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(c.cfg.SystemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr[float32](c.cfg.Temperature),
	}

	for resp, err := range c.client.Models.GenerateContentStream(ctx, c.cfg.Model, genai.Text(message), genCfg) {
		if err != nil {
			return fmt.Errorf("generate content: %w", err)
		}
		chunk := resp.Text()
		if chunk == "" {
			continue
		}
		if err := out(chunk); err != nil {
			return err
		}
	}
	return nil
}
