package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-ai/internal/ai"
	"github.com/adanyl0v/go-todo-ai/internal/ai/prompt"
	"github.com/adanyl0v/go-todo-ai/internal/config"
)

const chatSystemPrompt = `You are a structured data extraction engine.
Respond with a single JSON object and nothing else: no markdown fences, no commentary.
The object must conform to this JSON Schema:
%s`

// NewChatModel creates the eino chat model for the OpenAI, Ollama and
// Anthropic providers.
func NewChatModel(ctx context.Context, cfg config.AIConfig) (model.BaseChatModel, error) {
	switch Provider(cfg.Provider) {
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, errors.New("OpenAI API key is required")
		}
		return openai.NewChatModel(ctx, &openai.ChatModelConfig{
			Model:   cfg.Model,
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
		})

	case ProviderOllama:
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = DefaultOllamaURL
		}
		return ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
			BaseURL: baseURL,
			Model:   cfg.Model,
		})

	case ProviderAnthropic:
		if cfg.APIKey == "" {
			return nil, errors.New("anthropic API key is required")
		}
		return claude.NewChatModel(ctx, &claude.Config{
			APIKey:    cfg.APIKey,
			Model:     cfg.Model,
			MaxTokens: int(cfg.MaxOutputTokens),
		})

	default:
		return nil, fmt.Errorf("unsupported chat provider: %s (supported: openai, ollama, anthropic)", cfg.Provider)
	}
}

// ChatInvoker drives a general chat model. The schema travels in the system
// message and the reply is extracted from free text.
type ChatInvoker struct {
	logger      zerolog.Logger
	provider    Provider
	model       model.BaseChatModel
	temperature float32
	maxTokens   int
}

func NewChatInvoker(logger zerolog.Logger, provider Provider, cm model.BaseChatModel, cfg config.AIConfig) *ChatInvoker {
	return &ChatInvoker{
		logger:      logger,
		provider:    provider,
		model:       cm,
		temperature: cfg.Temperature,
		maxTokens:   int(cfg.MaxOutputTokens),
	}
}

func (c *ChatInvoker) Invoke(ctx context.Context, spec prompt.Spec, out any) error {
	messages := []*schema.Message{
		schema.SystemMessage(fmt.Sprintf(chatSystemPrompt, spec.Schema.String())),
		schema.UserMessage(spec.Prompt),
	}

	opts := []model.Option{model.WithTemperature(c.temperature)}
	if c.maxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(c.maxTokens))
	}

	started := time.Now()
	resp, err := c.model.Generate(ctx, messages, opts...)
	if err != nil {
		c.logger.Debug().
			Err(err).
			Str("spec", spec.Name).
			Str("provider", string(c.provider)).
			Msg("chat model request failed")
		return Classify(err)
	}

	c.logger.Debug().
		Str("spec", spec.Name).
		Str("provider", string(c.provider)).
		Dur("latency", time.Since(started)).
		Int("response_length", len(resp.Content)).
		Msg("chat model responded")

	raw, err := ExtractJSON(resp.Content)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ai.ErrModelResponse, spec.Name, err)
	}
	return decode(spec, raw, out)
}
