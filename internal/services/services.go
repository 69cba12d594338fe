package services

import (
	"context"
	"errors"
	"time"

	"github.com/adanyl0v/go-todo-ai/internal/models"
)

var (
	ErrTodoNotFound = errors.New("todo not found")
	ErrInvalidTodo  = errors.New("invalid todo")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

type AssistantService interface {
	// ParseTodo turns free-form text into a structured todo relative to
	// params.Now. The result is not stored.
	//
	// It returns an error matching ai.ErrInvalidInput when the text is
	// rejected by the sanitizer, and one of the ai.ErrModel* errors when
	// the model call fails.
	ParseTodo(ctx context.Context, params ParseTodoParams) (*models.ParsedTodo, error)

	// SummarizeTodos aggregates params.Todos and asks the model for a
	// narrative summary of params.Period.
	//
	// It returns ai.ErrEmptyInput for an empty collection and
	// ai.ErrTooManyItems when there are more than ai.MaxSummaryTodos.
	SummarizeTodos(ctx context.Context, params SummarizeTodosParams) (*models.TodoSummary, error)
}

type TodoService interface {
	CreateTodo(ctx context.Context, params CreateTodoParams) (*models.Todo, error)

	// GetTodo returns ErrTodoNotFound if the todo doesn't exist or belongs
	// to another user.
	GetTodo(ctx context.Context, userID, todoID string) (*models.Todo, error)

	// ListTodos returns the user's todos matching filter. An empty result is
	// not an error.
	ListTodos(ctx context.Context, userID string, filter TodoFilter) ([]*models.Todo, error)

	// UpdateTodo changes the non-nil fields of params.
	UpdateTodo(ctx context.Context, params UpdateTodoParams) (*models.Todo, error)

	// SetTodoCompleted sets the completion flag and keeps completed_at in
	// step with it.
	SetTodoCompleted(ctx context.Context, userID, todoID string, completed bool) (*models.Todo, error)

	DeleteTodo(ctx context.Context, userID, todoID string) error
}

type AuthService interface {
	// VerifyAccessToken checks an access token issued by the identity
	// provider and returns its subject, the user ID.
	//
	// It returns ErrTokenExpired for expired tokens and ErrInvalidToken
	// for every other verification failure.
	VerifyAccessToken(token string) (string, error)
}

type ParseTodoParams struct {
	Text string
	// Now is the client's local wall-clock time in the client's location.
	Now time.Time
}

type SummarizeTodosParams struct {
	Todos  []models.TodoSummaryInput
	Period models.Period
	Now    time.Time
}

type CreateTodoParams struct {
	UserID      string
	Title       string
	Description *string
	DueAt       *time.Time
	Priority    models.Priority
	Category    *string
}

type UpdateTodoParams struct {
	ID          string
	UserID      string
	Title       *string
	Description *string
	DueAt       *time.Time
	Priority    *models.Priority
	Category    *string
}

type SortField string

const (
	SortByCreatedAt SortField = "created_at"
	SortByDueAt     SortField = "due_at"
	SortByPriority  SortField = "priority"
	SortByTitle     SortField = "title"
)

const (
	DefaultTodoLimit = 50
	MaxTodoLimit     = 200
)

type TodoFilter struct {
	Completed *bool
	Priority  *models.Priority
	Category  *string
	// Search matches title and description case-insensitively.
	Search  string
	DueFrom *time.Time
	DueTo   *time.Time
	// Overdue keeps incomplete todos due before Now.
	Overdue bool
	Now     time.Time

	SortBy    SortField
	Ascending bool
	Limit     int
	Offset    int
}
