package llm

import (
	"context"
	"fmt"
)

// NewProvider constructs the concrete provider for a provider name.
// API keys come from resolved configuration, never from ambient env vars.
func NewProvider(ctx context.Context, providerName, apiKey string) (Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("no API key configured for provider '%s'", providerName)
	}

	switch providerName {
	case "gemini":
		return NewGeminiProvider(ctx, apiKey)
	case "openai":
		return NewOpenAIProvider(apiKey), nil
	case "anthropic":
		return NewAnthropicProvider(apiKey), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", providerName)
	}
}
