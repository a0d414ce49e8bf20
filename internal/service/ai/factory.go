package ai

import (
	"context"
	"fmt"

	"github.com/citizenconnect/gujarat-guide/backend/internal/config"
)

// NewModelClient builds the client for the configured provider.
func NewModelClient(ctx context.Context, cfg config.AIConfig) (ModelClient, error) {
	switch cfg.Provider {
	case config.ProviderArk:
		chatModel, err := cfg.Ark.NewChatModel(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create chat model: %w", err)
		}
		return NewArkClient(ctx, chatModel)
	case config.ProviderGemini:
		return NewGeminiClient(ctx, cfg.Gemini)
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}

// OfflineClient answers every prompt with an error so that callers receive
// the fallback text while no provider is configured.
func OfflineClient() ModelClient {
	return StaticClient{Err: fmt.Errorf("no AI provider configured")}
}
