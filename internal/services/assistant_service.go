package services

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-ai/internal/ai"
	"github.com/adanyl0v/go-todo-ai/internal/ai/llm"
	"github.com/adanyl0v/go-todo-ai/internal/ai/postprocess"
	"github.com/adanyl0v/go-todo-ai/internal/ai/prompt"
	"github.com/adanyl0v/go-todo-ai/internal/ai/sanitize"
	"github.com/adanyl0v/go-todo-ai/internal/ai/stats"
	"github.com/adanyl0v/go-todo-ai/internal/models"
)

type assistantServiceImpl struct {
	logger  zerolog.Logger
	invoker llm.Invoker
	prompts *prompt.Builder
}

func NewAssistantService(
	logger zerolog.Logger,
	invoker llm.Invoker,
	prompts *prompt.Builder,
) AssistantService {
	return &assistantServiceImpl{
		logger:  logger,
		invoker: invoker,
		prompts: prompts,
	}
}

func (s *assistantServiceImpl) ParseTodo(ctx context.Context, params ParseTodoParams) (_ *models.ParsedTodo, err error) {
	defer s.recoverStage(prompt.SpecParseTodo, &err)

	if err = sanitize.Validate(params.Text); err != nil {
		s.logger.Debug().
			Err(err).
			Msg("rejected text to parse")
		return nil, err
	}

	text := sanitize.Normalize(params.Text)
	if utf8.RuneCountInString(text) < sanitize.MinLength {
		err = ai.NewInputError("text must be at least %d characters", sanitize.MinLength)
		s.logger.Debug().
			Err(err).
			Msg("rejected normalized text")
		return nil, err
	}

	spec := s.prompts.BuildParse(text, params.Now)

	var raw postprocess.RawTodo
	if err = s.invoke(ctx, spec, &raw); err != nil {
		return nil, err
	}

	parsed := postprocess.ParsedTodo(raw, params.Now)
	s.logger.Debug().
		Str("title", parsed.Title).
		Str("priority", string(parsed.Priority)).
		Bool("has_due_at", parsed.DueAt != nil).
		Msg("parsed todo")

	s.logger.Info().
		Msg("parsed todo")
	return &parsed, nil
}

func (s *assistantServiceImpl) SummarizeTodos(ctx context.Context, params SummarizeTodosParams) (_ *models.TodoSummary, err error) {
	defer s.recoverStage(prompt.SpecSummarizeTodos, &err)

	if !params.Period.Valid() {
		return nil, ai.NewInputError("period must be one of: today, week")
	}
	switch n := len(params.Todos); {
	case n < ai.MinSummaryTodos:
		return nil, ai.ErrEmptyInput
	case n > ai.MaxSummaryTodos:
		s.logger.Debug().
			Int("count", n).
			Msg("rejected todos to summarize")
		return nil, ai.ErrTooManyItems
	}

	periodStats := stats.Compute(params.Todos, params.Now)
	s.logger.Debug().
		Int("total", periodStats.Total).
		Int("completed", periodStats.Completed).
		Int("overdue", periodStats.Overdue).
		Str("period", string(params.Period)).
		Msg("computed todo stats")

	spec := s.prompts.BuildSummary(periodStats, params.Period)

	var summary models.TodoSummary
	if err = s.invoke(ctx, spec, &summary); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int("count", len(params.Todos)).
		Str("period", string(params.Period)).
		Msg("summarized todos")
	return &summary, nil
}

func (s *assistantServiceImpl) invoke(ctx context.Context, spec prompt.Spec, out any) error {
	started := time.Now()
	err := s.invoker.Invoke(ctx, spec, out)
	if err != nil {
		// Full upstream detail stays at debug level.
		s.logger.Debug().
			Err(err).
			Str("spec", spec.Name).
			Dur("elapsed", time.Since(started)).
			Msg("model invocation failed")

		s.logger.Error().
			Str("spec", spec.Name).
			Str("kind", ai.Kind(err)).
			Msg("failed to invoke model")
		return err
	}
	s.logger.Debug().
		Str("spec", spec.Name).
		Dur("elapsed", time.Since(started)).
		Msg("invoked model")
	return nil
}

func (s *assistantServiceImpl) recoverStage(stage string, errp *error) {
	if r := recover(); r != nil {
		s.logger.Error().
			Str("stage", stage).
			Interface("panic", r).
			Msg("failed to run pipeline")
		*errp = fmt.Errorf("%w: %s: %v", ai.ErrPipeline, stage, r)
	}
}
