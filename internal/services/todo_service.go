package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-ai/internal/models"
)

const todoColumns = `id,
       user_id,
       title,
       description,
       due_at,
       priority,
       category,
       completed,
       completed_at,
       created_at,
       updated_at`

type todoServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewTodoService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) TodoService {
	return &todoServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *todoServiceImpl) CreateTodo(ctx context.Context, params CreateTodoParams) (*models.Todo, error) {
	id, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate todo id")
		return nil, err
	}

	priority := params.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	now := time.Now()
	todo := &models.Todo{
		ID:          id.String(),
		UserID:      params.UserID,
		Title:       params.Title,
		Description: params.Description,
		DueAt:       params.DueAt,
		Priority:    priority,
		Category:    params.Category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	const insertTodoQuery = `
INSERT INTO todos (id,
                   user_id,
                   title,
                   description,
                   due_at,
                   priority,
                   category,
                   completed,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, $8, $9)
`
	_, err = s.pgPool.Exec(
		ctx,
		insertTodoQuery,
		todo.ID,
		todo.UserID,
		todo.Title,
		todo.Description,
		todo.DueAt,
		todo.Priority,
		todo.Category,
		todo.CreatedAt,
		todo.UpdatedAt,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", todo.UserID).
			Msg("failed to insert todo")
		return nil, mapTodoError(err)
	}
	s.logger.Debug().
		Str("todo_id", todo.ID).
		Msg("inserted todo")

	s.logger.Info().
		Str("todo_id", todo.ID).
		Str("user_id", todo.UserID).
		Msg("created todo")
	return todo, nil
}

func (s *todoServiceImpl) GetTodo(ctx context.Context, userID, todoID string) (*models.Todo, error) {
	const selectTodoQuery = `
SELECT ` + todoColumns + `
FROM todos
WHERE id = $1 AND user_id = $2
`
	todo, err := scanTodo(s.pgPool.QueryRow(ctx, selectTodoQuery, todoID, userID))
	if err != nil {
		err = mapTodoError(err)
		if errors.Is(err, ErrTodoNotFound) {
			s.logger.Error().
				Str("todo_id", todoID).
				Str("user_id", userID).
				Msg("todo not found")
			return nil, err
		}

		s.logger.Error().
			Err(err).
			Str("todo_id", todoID).
			Msg("failed to select todo")
		return nil, err
	}
	s.logger.Debug().
		Str("todo_id", todoID).
		Msg("selected todo")
	return todo, nil
}

func (s *todoServiceImpl) ListTodos(ctx context.Context, userID string, filter TodoFilter) ([]*models.Todo, error) {
	query, args := buildListQuery(userID, filter)
	rows, err := s.pgPool.Query(ctx, query, args...)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select todos")
		return nil, err
	}
	defer rows.Close()

	todos := make([]*models.Todo, 0)
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan todo")
			return nil, err
		}
		todos = append(todos, todo)
	}

	if err = rows.Err(); err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(todos)).
		Str("user_id", userID).
		Msg("selected todos")
	return todos, nil
}

func (s *todoServiceImpl) UpdateTodo(ctx context.Context, params UpdateTodoParams) (*models.Todo, error) {
	const updateTodoQuery = `
UPDATE todos
SET title = COALESCE($1, title),
    description = COALESCE($2, description),
    due_at = COALESCE($3, due_at),
    priority = COALESCE($4, priority),
    category = COALESCE($5, category),
    updated_at = $6
WHERE id = $7 AND user_id = $8
RETURNING ` + todoColumns + `
`
	todo, err := scanTodo(s.pgPool.QueryRow(
		ctx,
		updateTodoQuery,
		params.Title,
		params.Description,
		params.DueAt,
		params.Priority,
		params.Category,
		time.Now(),
		params.ID,
		params.UserID,
	))
	if err != nil {
		err = mapTodoError(err)
		s.logger.Error().
			Err(err).
			Str("todo_id", params.ID).
			Str("user_id", params.UserID).
			Msg("failed to update todo")
		return nil, err
	}
	s.logger.Debug().
		Str("todo_id", todo.ID).
		Msg("updated todo")

	s.logger.Info().
		Str("todo_id", todo.ID).
		Str("user_id", todo.UserID).
		Msg("updated todo")
	return todo, nil
}

func (s *todoServiceImpl) SetTodoCompleted(ctx context.Context, userID, todoID string, completed bool) (*models.Todo, error) {
	const updateTodoCompletedQuery = `
UPDATE todos
SET completed = $1,
    completed_at = CASE WHEN $1 THEN COALESCE(completed_at, $2) END,
    updated_at = $2
WHERE id = $3 AND user_id = $4
RETURNING ` + todoColumns + `
`
	todo, err := scanTodo(s.pgPool.QueryRow(
		ctx,
		updateTodoCompletedQuery,
		completed,
		time.Now(),
		todoID,
		userID,
	))
	if err != nil {
		err = mapTodoError(err)
		s.logger.Error().
			Err(err).
			Str("todo_id", todoID).
			Str("user_id", userID).
			Msg("failed to update todo completion")
		return nil, err
	}

	s.logger.Info().
		Str("todo_id", todoID).
		Bool("completed", completed).
		Msg("updated todo completion")
	return todo, nil
}

func (s *todoServiceImpl) DeleteTodo(ctx context.Context, userID, todoID string) error {
	const deleteTodoQuery = `
DELETE FROM todos
WHERE id = $1 AND user_id = $2
`
	tag, err := s.pgPool.Exec(ctx, deleteTodoQuery, todoID, userID)
	if err != nil {
		err = mapTodoError(err)
		if errors.Is(err, ErrTodoNotFound) {
			return err
		}

		s.logger.Error().
			Err(err).
			Str("todo_id", todoID).
			Msg("failed to delete todo")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Error().
			Str("todo_id", todoID).
			Str("user_id", userID).
			Msg("todo not found")
		return ErrTodoNotFound
	}

	s.logger.Info().
		Str("todo_id", todoID).
		Str("user_id", userID).
		Msg("deleted todo")
	return nil
}

func scanTodo(row pgx.Row) (*models.Todo, error) {
	todo := &models.Todo{}
	err := row.Scan(
		&todo.ID,
		&todo.UserID,
		&todo.Title,
		&todo.Description,
		&todo.DueAt,
		&todo.Priority,
		&todo.Category,
		&todo.Completed,
		&todo.CompletedAt,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return todo, nil
}

func mapTodoError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrTodoNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.InvalidTextRepresentation:
			// Malformed uuid in the id parameter.
			return ErrTodoNotFound
		case pgerrcode.CheckViolation, pgerrcode.StringDataRightTruncationDataException:
			return fmt.Errorf("%w: %s", ErrInvalidTodo, pgErr.ConstraintName)
		}
	}
	return err
}

var sortColumns = map[SortField]string{
	SortByCreatedAt: "created_at",
	SortByDueAt:     "due_at",
	SortByPriority:  "CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END",
	SortByTitle:     "title",
}

// buildListQuery renders the select for ListTodos. Only values travel as
// arguments; column names come from sortColumns.
func buildListQuery(userID string, filter TodoFilter) (string, []any) {
	args := []any{userID}
	conds := []string{"user_id = $1"}
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Completed != nil {
		conds = append(conds, "completed = "+arg(*filter.Completed))
	}
	if filter.Priority != nil {
		conds = append(conds, "priority = "+arg(string(*filter.Priority)))
	}
	if filter.Category != nil {
		conds = append(conds, "category = "+arg(*filter.Category))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		p := arg("%" + escapeLike(search) + "%")
		conds = append(conds, fmt.Sprintf("(title ILIKE %s OR description ILIKE %s)", p, p))
	}
	if filter.DueFrom != nil {
		conds = append(conds, "due_at >= "+arg(*filter.DueFrom))
	}
	if filter.DueTo != nil {
		conds = append(conds, "due_at <= "+arg(*filter.DueTo))
	}
	if filter.Overdue {
		now := filter.Now
		if now.IsZero() {
			now = time.Now()
		}
		conds = append(conds, "NOT completed AND due_at < "+arg(now))
	}

	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = sortColumns[SortByCreatedAt]
	}
	order := "DESC"
	if filter.Ascending {
		order = "ASC"
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultTodoLimit
	}
	limit = min(limit, MaxTodoLimit)
	offset := max(filter.Offset, 0)

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(todoColumns)
	b.WriteString("\nFROM todos\nWHERE ")
	b.WriteString(strings.Join(conds, "\n  AND "))
	fmt.Fprintf(&b, "\nORDER BY %s %s NULLS LAST, id %s", column, order, order)
	fmt.Fprintf(&b, "\nLIMIT %s OFFSET %s", arg(limit), arg(offset))
	return b.String(), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
