package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-todo-ai/internal/ai"
	"github.com/adanyl0v/go-todo-ai/internal/models"
	"github.com/adanyl0v/go-todo-ai/internal/services"
)

type parseTodoRequest struct {
	Text                 string `json:"text" binding:"required"`
	CurrentLocalDateTime string `json:"currentLocalDateTime" binding:"required,localdatetime"`
	Timezone             string `json:"timezone" binding:"omitempty,timezone"`
}

func (h *handlerImpl) HandleParseTodo(c *gin.Context) {
	var req parseTodoRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind request body")
		abort(c, newBindingError(errInvalidRequestBody, err))
		return
	}

	now, apiErr, ok := h.resolveNow(req.CurrentLocalDateTime, req.Timezone)
	if !ok {
		abort(c, apiErr)
		return
	}

	parsed, err := h.assistant.ParseTodo(c, services.ParseTodoParams{
		Text: req.Text,
		Now:  now,
	})
	if err != nil {
		h.logger.Error().
			Str("kind", ai.Kind(err)).
			Msg("failed to parse todo")
		abort(c, newAssistantError(err))
		return
	}

	c.JSON(http.StatusOK, parsed)
}

type summaryTodoItem struct {
	Title     string          `json:"title" binding:"required"`
	Completed bool            `json:"completed"`
	DueAt     *time.Time      `json:"due_at"`
	Priority  models.Priority `json:"priority" binding:"required,oneof=high medium low"`
	Category  *string         `json:"category"`
	CreatedAt time.Time       `json:"created_at"`
}

type summarizeTodosRequest struct {
	// Empty and oversized lists reach the assistant, which owns the
	// user-facing messages for them.
	Todos                []summaryTodoItem `json:"todos" binding:"required,dive"`
	Period               models.Period     `json:"period" binding:"required,oneof=today week"`
	CurrentLocalDateTime string            `json:"currentLocalDateTime" binding:"required,localdatetime"`
	Timezone             string            `json:"timezone" binding:"omitempty,timezone"`
}

func (h *handlerImpl) HandleSummarizeTodos(c *gin.Context) {
	var req summarizeTodosRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind request body")
		abort(c, newBindingError(errInvalidRequestBody, err))
		return
	}

	now, apiErr, ok := h.resolveNow(req.CurrentLocalDateTime, req.Timezone)
	if !ok {
		abort(c, apiErr)
		return
	}

	todos := make([]models.TodoSummaryInput, len(req.Todos))
	for i, item := range req.Todos {
		todos[i] = models.TodoSummaryInput(item)
	}

	h.summarize(c, todos, req.Period, now)
}

type summarizeStoredTodosQuery struct {
	Period               models.Period `form:"period" binding:"required,oneof=today week"`
	CurrentLocalDateTime string        `form:"currentLocalDateTime" binding:"required,localdatetime"`
	Timezone             string        `form:"timezone" binding:"omitempty,timezone"`
}

// HandleSummarizeStoredTodos summarizes the caller's own todos as kept in
// storage, at most ai.MaxSummaryTodos of them ordered by due date.
func (h *handlerImpl) HandleSummarizeStoredTodos(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}

	var query summarizeStoredTodosQuery
	err := c.ShouldBindQuery(&query)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind query")
		abort(c, newBindingError(errInvalidQuery, err))
		return
	}

	now, apiErr, ok := h.resolveNow(query.CurrentLocalDateTime, query.Timezone)
	if !ok {
		abort(c, apiErr)
		return
	}

	stored, err := h.todos.ListTodos(c, userID, services.TodoFilter{
		SortBy:    services.SortByDueAt,
		Ascending: true,
		Limit:     ai.MaxSummaryTodos,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to list todos")
		abort(c, newTodoError(err))
		return
	}

	todos := make([]models.TodoSummaryInput, len(stored))
	for i, todo := range stored {
		todos[i] = todo.SummaryInput()
	}

	h.summarize(c, todos, query.Period, now)
}

func (h *handlerImpl) summarize(c *gin.Context, todos []models.TodoSummaryInput, period models.Period, now time.Time) {
	summary, err := h.assistant.SummarizeTodos(c, services.SummarizeTodosParams{
		Todos:  todos,
		Period: period,
		Now:    now,
	})
	if err != nil {
		h.logger.Error().
			Str("kind", ai.Kind(err)).
			Msg("failed to summarize todos")
		abort(c, newAssistantError(err))
		return
	}

	c.JSON(http.StatusOK, summary)
}

// resolveNow reads the client's wall-clock time in the requested location,
// or in the default location when timezone is empty.
func (h *handlerImpl) resolveNow(localDateTime, timezone string) (time.Time, apiError, bool) {
	loc := h.defaultLocation
	if timezone != "" {
		var err error
		loc, err = time.LoadLocation(timezone)
		if err != nil {
			h.logger.Error().
				Err(err).
				Str("timezone", timezone).
				Msg("failed to load location")
			return time.Time{}, newBadRequestError(errInvalidTimezone.Error()), false
		}
	}

	now, err := models.ParseLocalDateTime(localDateTime, loc)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to parse current local date time")
		return time.Time{}, newBadRequestError(errInvalidRequestBody.Error()), false
	}
	return now, apiError{}, true
}
