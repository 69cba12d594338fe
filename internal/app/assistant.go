package app

import (
	"context"

	"github.com/adanyl0v/go-todo-ai/internal/ai/llm"
	"github.com/adanyl0v/go-todo-ai/internal/ai/prompt"
	"github.com/adanyl0v/go-todo-ai/internal/config"
	"github.com/adanyl0v/go-todo-ai/internal/services"
)

var globalAssistant services.AssistantService

// MustInitAssistant builds the model invoker for the configured provider and
// the pipeline orchestrator on top of it.
func MustInitAssistant() {
	cfg := config.Global().AI

	invoker, err := llm.New(context.Background(), componentLogger("llm"), cfg)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("provider", cfg.Provider).
			Msg("failed to create model invoker")
		panic(err)
	}

	globalAssistant = services.NewAssistantService(
		componentLogger("assistant"),
		invoker,
		prompt.NewBuilder(cfg.ResponseLanguage),
	)
	globalLogger.Info().
		Str("provider", cfg.Provider).
		Str("model", cfg.Model).
		Msg("initialized assistant")
}

func Assistant() services.AssistantService {
	return globalAssistant
}
