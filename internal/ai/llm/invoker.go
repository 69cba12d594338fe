// Package llm invokes a generative model with a prompt and an output schema
// and decodes the structured reply.
package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-ai/internal/ai"
	"github.com/adanyl0v/go-todo-ai/internal/ai/prompt"
	"github.com/adanyl0v/go-todo-ai/internal/config"
)

// Provider identifies the model backend.
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderOllama    Provider = "ollama"
	ProviderAnthropic Provider = "anthropic"
)

const DefaultOllamaURL = "http://localhost:11434"

// Invoker sends one prompt to a model and decodes the schema-conformant reply
// into out. It makes a single attempt; errors wrap one of ai.ErrModelAuth,
// ai.ErrModelQuota, ai.ErrModelUnavailable or ai.ErrModelResponse whenever
// the failure can be classified.
type Invoker interface {
	Invoke(ctx context.Context, spec prompt.Spec, out any) error
}

// ValidateProvider checks if the given provider string is supported.
func ValidateProvider(p string) (Provider, error) {
	switch Provider(p) {
	case ProviderGemini, ProviderOpenAI, ProviderOllama, ProviderAnthropic:
		return Provider(p), nil
	default:
		return "", fmt.Errorf("unsupported provider: %s", p)
	}
}

// New builds the invoker for cfg.Provider.
func New(ctx context.Context, logger zerolog.Logger, cfg config.AIConfig) (Invoker, error) {
	provider, err := ValidateProvider(cfg.Provider)
	if err != nil {
		return nil, err
	}

	if provider == ProviderGemini {
		g, err := NewGeminiInvoker(ctx, logger, cfg)
		if err != nil {
			return nil, err
		}
		return g, nil
	}

	cm, err := NewChatModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s chat model: %w", provider, err)
	}
	return NewChatInvoker(logger, provider, cm, cfg), nil
}

// decode checks raw against the schema's required fields and unmarshals it.
func decode(spec prompt.Spec, raw []byte, out any) error {
	if spec.Schema != nil {
		if err := spec.Schema.CheckRequired(raw); err != nil {
			return fmt.Errorf("%w: %s: %w", ai.ErrModelResponse, spec.Name, err)
		}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s: %w", ai.ErrModelResponse, spec.Name, err)
	}
	return nil
}
