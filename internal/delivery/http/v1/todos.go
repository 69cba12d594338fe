package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-todo-ai/internal/models"
	"github.com/adanyl0v/go-todo-ai/internal/services"
)

type getTodoResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description *string         `json:"description"`
	DueAt       *time.Time      `json:"due_at"`
	Priority    models.Priority `json:"priority"`
	Category    *string         `json:"category"`
	Completed   bool            `json:"completed"`
	CompletedAt *time.Time      `json:"completed_at"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func newGetTodoResponse(todo *models.Todo) getTodoResponse {
	return getTodoResponse{
		ID:          todo.ID,
		Title:       todo.Title,
		Description: todo.Description,
		DueAt:       todo.DueAt,
		Priority:    todo.Priority,
		Category:    todo.Category,
		Completed:   todo.Completed,
		CompletedAt: todo.CompletedAt,
		CreatedAt:   todo.CreatedAt,
		UpdatedAt:   todo.UpdatedAt,
	}
}

type createTodoRequest struct {
	Title       string          `json:"title" binding:"required,max=100"`
	Description *string         `json:"description" binding:"omitempty,max=2000"`
	DueAt       *time.Time      `json:"due_at"`
	Priority    models.Priority `json:"priority" binding:"omitempty,oneof=high medium low"`
	Category    *string         `json:"category" binding:"omitempty,max=50"`
}

func (h *handlerImpl) HandleCreateTodo(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}

	var req createTodoRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind request body")
		abort(c, newBindingError(errInvalidRequestBody, err))
		return
	}

	todo, err := h.todos.CreateTodo(c, services.CreateTodoParams{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		DueAt:       req.DueAt,
		Priority:    req.Priority,
		Category:    req.Category,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create todo")
		abort(c, newTodoError(err))
		return
	}

	c.JSON(http.StatusCreated, newGetTodoResponse(todo))
}

type listTodosQuery struct {
	Completed *bool      `form:"completed"`
	Priority  string     `form:"priority" binding:"omitempty,oneof=high medium low"`
	Category  string     `form:"category" binding:"max=50"`
	Search    string     `form:"search" binding:"max=100"`
	DueFrom   *time.Time `form:"due_from"`
	DueTo     *time.Time `form:"due_to"`
	Overdue   bool       `form:"overdue"`
	SortBy    string     `form:"sort_by" binding:"omitempty,oneof=created_at due_at priority title"`
	Order     string     `form:"order" binding:"omitempty,oneof=asc desc"`
	Limit     int        `form:"limit" binding:"omitempty,min=1,max=200"`
	Offset    int        `form:"offset" binding:"omitempty,min=0"`
}

func (q listTodosQuery) filter() services.TodoFilter {
	filter := services.TodoFilter{
		Completed: q.Completed,
		Search:    q.Search,
		DueFrom:   q.DueFrom,
		DueTo:     q.DueTo,
		Overdue:   q.Overdue,
		Now:       time.Now(),
		SortBy:    services.SortField(q.SortBy),
		Ascending: q.Order == "asc",
		Limit:     q.Limit,
		Offset:    q.Offset,
	}
	if q.Priority != "" {
		priority := models.Priority(q.Priority)
		filter.Priority = &priority
	}
	if q.Category != "" {
		category := q.Category
		filter.Category = &category
	}
	return filter
}

func (h *handlerImpl) HandleListTodos(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}

	var query listTodosQuery
	err := c.ShouldBindQuery(&query)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind query")
		abort(c, newBindingError(errInvalidQuery, err))
		return
	}

	todos, err := h.todos.ListTodos(c, userID, query.filter())
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list todos")
		abort(c, newTodoError(err))
		return
	}

	response := make([]getTodoResponse, 0, len(todos))
	for _, todo := range todos {
		response = append(response, newGetTodoResponse(todo))
	}
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleGetTodo(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}

	todo, err := h.todos.GetTodo(c, userID, c.Param("id"))
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get todo")
		abort(c, newTodoError(err))
		return
	}

	c.JSON(http.StatusOK, newGetTodoResponse(todo))
}

type updateTodoRequest struct {
	Title       *string          `json:"title" binding:"omitempty,min=1,max=100"`
	Description *string          `json:"description" binding:"omitempty,max=2000"`
	DueAt       *time.Time       `json:"due_at"`
	Priority    *models.Priority `json:"priority" binding:"omitempty,oneof=high medium low"`
	Category    *string          `json:"category" binding:"omitempty,max=50"`
}

func (h *handlerImpl) HandleUpdateTodo(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}

	var req updateTodoRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind request body")
		abort(c, newBindingError(errInvalidRequestBody, err))
		return
	}

	todo, err := h.todos.UpdateTodo(c, services.UpdateTodoParams{
		ID:          c.Param("id"),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		DueAt:       req.DueAt,
		Priority:    req.Priority,
		Category:    req.Category,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to update todo")
		abort(c, newTodoError(err))
		return
	}

	c.JSON(http.StatusOK, newGetTodoResponse(todo))
}

type setTodoCompletedRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

func (h *handlerImpl) HandleSetTodoCompleted(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}

	var req setTodoCompletedRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind request body")
		abort(c, newBindingError(errInvalidRequestBody, err))
		return
	}

	todo, err := h.todos.SetTodoCompleted(c, userID, c.Param("id"), *req.Completed)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to set todo completion")
		abort(c, newTodoError(err))
		return
	}

	c.JSON(http.StatusOK, newGetTodoResponse(todo))
}

func (h *handlerImpl) HandleDeleteTodo(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}

	err := h.todos.DeleteTodo(c, userID, c.Param("id"))
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to delete todo")
		abort(c, newTodoError(err))
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
