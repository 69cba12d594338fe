package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/adanyl0v/go-todo-ai/internal/ai"
	"github.com/adanyl0v/go-todo-ai/internal/ai/prompt"
	"github.com/adanyl0v/go-todo-ai/internal/config"
)

// GeminiInvoker uses the Gemini API's native structured output: the schema is
// sent as ResponseSchema and the reply is plain JSON.
type GeminiInvoker struct {
	logger          zerolog.Logger
	client          *genai.Client
	model           string
	temperature     float32
	maxOutputTokens int32
}

func NewGeminiInvoker(ctx context.Context, logger zerolog.Logger, cfg config.AIConfig) (*GeminiInvoker, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiInvoker{
		logger:          logger,
		client:          client,
		model:           cfg.Model,
		temperature:     cfg.Temperature,
		maxOutputTokens: cfg.MaxOutputTokens,
	}, nil
}

func (g *GeminiInvoker) Invoke(ctx context.Context, spec prompt.Spec, out any) error {
	started := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(spec.Prompt), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(g.temperature),
		MaxOutputTokens:  g.maxOutputTokens,
		ResponseMIMEType: "application/json",
		ResponseSchema:   toGenaiSchema(spec.Schema),
	})
	if err != nil {
		g.logger.Debug().
			Err(err).
			Str("spec", spec.Name).
			Str("model", g.model).
			Msg("gemini request failed")
		return Classify(err)
	}

	text := resp.Text()
	g.logger.Debug().
		Str("spec", spec.Name).
		Str("model", g.model).
		Dur("latency", time.Since(started)).
		Int("response_length", len(text)).
		Msg("gemini responded")

	if text == "" {
		return fmt.Errorf("%w: %s: empty response", ai.ErrModelResponse, spec.Name)
	}
	return decode(spec, []byte(text), out)
}

var genaiTypes = map[prompt.Type]genai.Type{
	prompt.TypeObject: genai.TypeObject,
	prompt.TypeArray:  genai.TypeArray,
	prompt.TypeString: genai.TypeString,
}

func toGenaiSchema(s *prompt.Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Type:             genaiTypes[s.Type],
		Description:      s.Description,
		Format:           s.Format,
		Enum:             s.Enum,
		Items:            toGenaiSchema(s.Items),
		Required:         s.Required,
		PropertyOrdering: s.Order,
	}
	if s.Nullable {
		out.Nullable = genai.Ptr(true)
	}
	if s.MinItems > 0 {
		out.MinItems = genai.Ptr(int64(s.MinItems))
	}
	if s.MaxItems > 0 {
		out.MaxItems = genai.Ptr(int64(s.MaxItems))
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
	}
	return out
}
