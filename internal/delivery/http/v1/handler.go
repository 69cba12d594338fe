package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-ai/internal/services"
)

type Handler interface {
	HandleRequestLogger(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)
	HandleHealth(c *gin.Context)

	HandleParseTodo(c *gin.Context)
	HandleSummarizeTodos(c *gin.Context)
	HandleSummarizeStoredTodos(c *gin.Context)

	HandleCreateTodo(c *gin.Context)
	HandleListTodos(c *gin.Context)
	HandleGetTodo(c *gin.Context)
	HandleUpdateTodo(c *gin.Context)
	HandleSetTodoCompleted(c *gin.Context)
	HandleDeleteTodo(c *gin.Context)
}

type handlerImpl struct {
	logger    zerolog.Logger
	auth      services.AuthService
	todos     services.TodoService
	assistant services.AssistantService
	// defaultLocation applies to requests without a timezone field.
	defaultLocation *time.Location
}

func New(
	logger zerolog.Logger,
	authService services.AuthService,
	todoService services.TodoService,
	assistantService services.AssistantService,
	defaultLocation *time.Location,
) Handler {
	if defaultLocation == nil {
		defaultLocation = time.Local
	}
	return &handlerImpl{
		logger:          logger,
		auth:            authService,
		todos:           todoService,
		assistant:       assistantService,
		defaultLocation: defaultLocation,
	}
}

// RegisterRoutes mounts every v1 route on router.
func RegisterRoutes(router gin.IRouter, h Handler) {
	router.GET("/healthz", h.HandleHealth)

	api := router.Group("/api/v1", h.HandleAuthMiddleware)

	aiRouter := api.Group("/ai")
	aiRouter.POST("/parse", h.HandleParseTodo)
	aiRouter.POST("/summarize", h.HandleSummarizeTodos)

	todosRouter := api.Group("/todos")
	todosRouter.GET("/summary", h.HandleSummarizeStoredTodos)
	todosRouter.GET("", h.HandleListTodos)
	todosRouter.POST("", h.HandleCreateTodo)
	todosRouter.GET("/:id", h.HandleGetTodo)
	todosRouter.PATCH("/:id", h.HandleUpdateTodo)
	todosRouter.PUT("/:id/completed", h.HandleSetTodoCompleted)
	todosRouter.DELETE("/:id", h.HandleDeleteTodo)
}
