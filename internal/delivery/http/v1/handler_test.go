package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/go-todo-ai/internal/ai"
	"github.com/adanyl0v/go-todo-ai/internal/ai/prompt"
	"github.com/adanyl0v/go-todo-ai/internal/models"
	"github.com/adanyl0v/go-todo-ai/internal/services"
)

var kst = time.FixedZone("KST", 9*60*60)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuthService struct{}

func (fakeAuthService) VerifyAccessToken(token string) (string, error) {
	switch token {
	case "valid":
		return "user-1", nil
	case "expired":
		return "", fmt.Errorf("%w: exp", services.ErrTokenExpired)
	default:
		return "", fmt.Errorf("%w: signature", services.ErrInvalidToken)
	}
}

type fakeInvoker struct {
	reply string
	err   error
	calls int
}

func (f *fakeInvoker) Invoke(_ context.Context, _ prompt.Spec, out any) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.reply), out)
}

type fakeTodoService struct {
	todos      map[string]*models.Todo
	lastFilter services.TodoFilter
	created    services.CreateTodoParams
}

func newFakeTodoService(todos ...*models.Todo) *fakeTodoService {
	f := &fakeTodoService{todos: map[string]*models.Todo{}}
	for _, todo := range todos {
		f.todos[todo.ID] = todo
	}
	return f
}

func (f *fakeTodoService) lookup(userID, todoID string) (*models.Todo, error) {
	todo, ok := f.todos[todoID]
	if !ok || todo.UserID != userID {
		return nil, services.ErrTodoNotFound
	}
	return todo, nil
}

func (f *fakeTodoService) CreateTodo(_ context.Context, params services.CreateTodoParams) (*models.Todo, error) {
	f.created = params
	todo := &models.Todo{
		ID:          "todo-new",
		UserID:      params.UserID,
		Title:       params.Title,
		Description: params.Description,
		DueAt:       params.DueAt,
		Priority:    params.Priority,
		Category:    params.Category,
	}
	f.todos[todo.ID] = todo
	return todo, nil
}

func (f *fakeTodoService) GetTodo(_ context.Context, userID, todoID string) (*models.Todo, error) {
	return f.lookup(userID, todoID)
}

func (f *fakeTodoService) ListTodos(_ context.Context, userID string, filter services.TodoFilter) ([]*models.Todo, error) {
	f.lastFilter = filter
	var out []*models.Todo
	for _, todo := range f.todos {
		if todo.UserID == userID {
			out = append(out, todo)
		}
	}
	return out, nil
}

func (f *fakeTodoService) UpdateTodo(_ context.Context, params services.UpdateTodoParams) (*models.Todo, error) {
	todo, err := f.lookup(params.UserID, params.ID)
	if err != nil {
		return nil, err
	}
	if params.Title != nil {
		todo.Title = *params.Title
	}
	return todo, nil
}

func (f *fakeTodoService) SetTodoCompleted(_ context.Context, userID, todoID string, completed bool) (*models.Todo, error) {
	todo, err := f.lookup(userID, todoID)
	if err != nil {
		return nil, err
	}
	todo.Completed = completed
	return todo, nil
}

func (f *fakeTodoService) DeleteTodo(_ context.Context, userID, todoID string) error {
	if _, err := f.lookup(userID, todoID); err != nil {
		return err
	}
	delete(f.todos, todoID)
	return nil
}

func newTestRouter(t *testing.T, inv *fakeInvoker, todos services.TodoService) *gin.Engine {
	t.Helper()
	require.NoError(t, RegisterValidators())

	assistant := services.NewAssistantService(zerolog.Nop(), inv, prompt.NewBuilder("Korean"))
	h := New(zerolog.Nop(), fakeAuthService{}, todos, assistant, kst)

	router := gin.New()
	router.Use(h.HandleRequestLogger)
	RegisterRoutes(router, h)
	return router
}

func doRequest(router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func summaryItems(n int) []map[string]any {
	items := make([]map[string]any, n)
	for i := range items {
		items[i] = map[string]any{
			"title":      fmt.Sprintf("todo %d", i),
			"completed":  i%2 == 0,
			"due_at":     "2026-02-17T18:00:00+09:00",
			"priority":   "medium",
			"category":   nil,
			"created_at": "2026-02-16T09:00:00+09:00",
		}
	}
	return items
}

func TestHandleParseTodo(t *testing.T) {
	inv := &fakeInvoker{
		reply: `{"title":"회의 준비","due_at":"2026-02-18T15:00","priority":"medium","category":"work","description":null}`,
	}
	router := newTestRouter(t, inv, newFakeTodoService())

	w := doRequest(router, http.MethodPost, "/api/v1/ai/parse", "valid", map[string]any{
		"text":                 "내일 오후 3시까지 회의 준비",
		"currentLocalDateTime": "2026-02-17T09:00",
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	var got models.ParsedTodo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "회의 준비", got.Title)
	require.NotNil(t, got.DueAt)
	assert.Equal(t, "2026-02-18T15:00", *got.DueAt)
	assert.Equal(t, models.PriorityMedium, got.Priority)
	assert.JSONEq(t,
		`{"title":"회의 준비","due_at":"2026-02-18T15:00","priority":"medium","category":"work","description":null}`,
		w.Body.String())
}

func TestHandleParseTodo_BadRequests(t *testing.T) {
	tests := []struct {
		name     string
		body     map[string]any
		contains string
	}{
		{"missing text", map[string]any{"currentLocalDateTime": "2026-02-17T09:00"}, "text"},
		{"missing time", map[string]any{"text": "회의 준비"}, "currentLocalDateTime"},
		{"malformed time", map[string]any{"text": "회의 준비", "currentLocalDateTime": "2026-02-17 09:00"}, "localdatetime"},
		{"unknown timezone", map[string]any{"text": "회의 준비", "currentLocalDateTime": "2026-02-17T09:00", "timezone": "Mars/Olympus"}, "timezone"},
		{"dangerous text", map[string]any{"text": "<b>회의</b>", "currentLocalDateTime": "2026-02-17T09:00"}, "not allowed"},
		{"one character", map[string]any{"text": "회", "currentLocalDateTime": "2026-02-17T09:00"}, "at least 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &fakeInvoker{}
			router := newTestRouter(t, inv, newFakeTodoService())

			w := doRequest(router, http.MethodPost, "/api/v1/ai/parse", "valid", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, errorMessage(t, w), tt.contains)
			assert.Zero(t, inv.calls)
		})
	}
}

func TestHandleSummarizeTodos(t *testing.T) {
	inv := &fakeInvoker{
		reply: `{"summary":"오늘 할 일이 많습니다","urgentTasks":["todo 1"],"insights":["a","b"],"recommendations":["c","d"]}`,
	}
	router := newTestRouter(t, inv, newFakeTodoService())

	w := doRequest(router, http.MethodPost, "/api/v1/ai/summarize", "valid", map[string]any{
		"todos":                summaryItems(3),
		"period":               "today",
		"currentLocalDateTime": "2026-02-17T09:00",
		"timezone":             "Asia/Seoul",
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got models.TodoSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "오늘 할 일이 많습니다", got.Summary)
	assert.Equal(t, []string{"todo 1"}, got.UrgentTasks)
	assert.Equal(t, 1, inv.calls)
}

func TestHandleSummarizeTodos_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]any
		invokerErr error
		wantStatus int
		wantError  string
	}{
		{
			name:       "empty todos",
			body:       map[string]any{"todos": []any{}, "period": "week", "currentLocalDateTime": "2026-02-17T09:00"},
			wantStatus: http.StatusBadRequest,
			wantError:  "no todos to analyze",
		},
		{
			name:       "too many todos",
			body:       map[string]any{"todos": summaryItems(201), "period": "week", "currentLocalDateTime": "2026-02-17T09:00"},
			wantStatus: http.StatusBadRequest,
			wantError:  ai.ErrTooManyItems.Error(),
		},
		{
			name:       "unknown period",
			body:       map[string]any{"todos": summaryItems(1), "period": "month", "currentLocalDateTime": "2026-02-17T09:00"},
			wantStatus: http.StatusBadRequest,
			wantError:  "period",
		},
		{
			name:       "todos missing",
			body:       map[string]any{"period": "week", "currentLocalDateTime": "2026-02-17T09:00"},
			wantStatus: http.StatusBadRequest,
			wantError:  "todos",
		},
		{
			name:       "quota exhausted",
			body:       map[string]any{"todos": summaryItems(2), "period": "week", "currentLocalDateTime": "2026-02-17T09:00"},
			invokerErr: fmt.Errorf("%w: RESOURCE_EXHAUSTED", ai.ErrModelQuota),
			wantStatus: http.StatusTooManyRequests,
			wantError:  errModelQuota.Error(),
		},
		{
			name:       "bad api key",
			body:       map[string]any{"todos": summaryItems(2), "period": "week", "currentLocalDateTime": "2026-02-17T09:00"},
			invokerErr: fmt.Errorf("%w: API key not valid", ai.ErrModelAuth),
			wantStatus: http.StatusInternalServerError,
			wantError:  errAnalysisFailed.Error(),
		},
		{
			name:       "malformed model output",
			body:       map[string]any{"todos": summaryItems(2), "period": "week", "currentLocalDateTime": "2026-02-17T09:00"},
			invokerErr: fmt.Errorf("%w: missing summary", ai.ErrModelResponse),
			wantStatus: http.StatusInternalServerError,
			wantError:  errAnalysisFailed.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, &fakeInvoker{err: tt.invokerErr}, newFakeTodoService())

			w := doRequest(router, http.MethodPost, "/api/v1/ai/summarize", "valid", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, errorMessage(t, w), tt.wantError)
		})
	}
}

func TestHandleSummarizeStoredTodos(t *testing.T) {
	due := time.Date(2026, time.February, 17, 18, 0, 0, 0, kst)
	todos := newFakeTodoService(
		&models.Todo{ID: "1", UserID: "user-1", Title: "write report", DueAt: &due, Priority: models.PriorityHigh},
		&models.Todo{ID: "2", UserID: "someone-else", Title: "hidden", Priority: models.PriorityLow},
	)
	inv := &fakeInvoker{reply: `{"summary":"s","urgentTasks":["write report"],"insights":["a","b"],"recommendations":["c","d"]}`}
	router := newTestRouter(t, inv, todos)

	w := doRequest(router, http.MethodGet, "/api/v1/todos/summary?period=today&currentLocalDateTime=2026-02-17T09:00", "valid", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, services.SortByDueAt, todos.lastFilter.SortBy)
	assert.Equal(t, ai.MaxSummaryTodos, todos.lastFilter.Limit)
	assert.Equal(t, 1, inv.calls)
}

func TestHandleSummarizeStoredTodos_NoTodos(t *testing.T) {
	router := newTestRouter(t, &fakeInvoker{}, newFakeTodoService())

	w := doRequest(router, http.MethodGet, "/api/v1/todos/summary?period=week&currentLocalDateTime=2026-02-17T09:00", "valid", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "no todos to analyze", errorMessage(t, w))
}

func TestHandleAuthMiddleware(t *testing.T) {
	router := newTestRouter(t, &fakeInvoker{}, newFakeTodoService())

	tests := []struct {
		name      string
		token     string
		wantError string
	}{
		{"missing", "", "authorization header required"},
		{"expired", "expired", services.ErrTokenExpired.Error()},
		{"invalid", "forged", services.ErrInvalidToken.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, http.MethodGet, "/api/v1/todos", tt.token, nil)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.wantError, errorMessage(t, w))
		})
	}
}

func TestHandleHealth(t *testing.T) {
	router := newTestRouter(t, &fakeInvoker{}, newFakeTodoService())

	w := doRequest(router, http.MethodGet, "/healthz", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestTodoHandlers(t *testing.T) {
	todos := newFakeTodoService(&models.Todo{ID: "1", UserID: "user-1", Title: "buy milk", Priority: models.PriorityLow})
	router := newTestRouter(t, &fakeInvoker{}, todos)

	t.Run("create", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/api/v1/todos", "valid", map[string]any{
			"title":    "회의 준비",
			"due_at":   "2026-02-18T15:00:00+09:00",
			"priority": "high",
		})

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, "user-1", todos.created.UserID)
		assert.Equal(t, models.PriorityHigh, todos.created.Priority)
		require.NotNil(t, todos.created.DueAt)
	})

	t.Run("create rejects long title", func(t *testing.T) {
		long := make([]rune, models.MaxTitleLength+1)
		for i := range long {
			long[i] = '가'
		}
		w := doRequest(router, http.MethodPost, "/api/v1/todos", "valid", map[string]any{"title": string(long)})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, errorMessage(t, w), "title")
	})

	t.Run("list with filter", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/v1/todos?completed=false&priority=high&sort_by=priority&order=asc&limit=10&search=milk", "valid", nil)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.NotNil(t, todos.lastFilter.Completed)
		assert.False(t, *todos.lastFilter.Completed)
		require.NotNil(t, todos.lastFilter.Priority)
		assert.Equal(t, models.PriorityHigh, *todos.lastFilter.Priority)
		assert.Equal(t, services.SortByPriority, todos.lastFilter.SortBy)
		assert.True(t, todos.lastFilter.Ascending)
		assert.Equal(t, 10, todos.lastFilter.Limit)
		assert.Equal(t, "milk", todos.lastFilter.Search)
	})

	t.Run("list rejects oversized limit", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/v1/todos?limit=500", "valid", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("get", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/v1/todos/1", "valid", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var got getTodoResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "buy milk", got.Title)
	})

	t.Run("get missing", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/v1/todos/404", "valid", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, services.ErrTodoNotFound.Error(), errorMessage(t, w))
	})

	t.Run("update", func(t *testing.T) {
		w := doRequest(router, http.MethodPatch, "/api/v1/todos/1", "valid", map[string]any{"title": "buy oat milk"})

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "buy oat milk", todos.todos["1"].Title)
	})

	t.Run("complete", func(t *testing.T) {
		w := doRequest(router, http.MethodPut, "/api/v1/todos/1/completed", "valid", map[string]any{"completed": true})

		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, todos.todos["1"].Completed)
	})

	t.Run("complete requires flag", func(t *testing.T) {
		w := doRequest(router, http.MethodPut, "/api/v1/todos/1/completed", "valid", map[string]any{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		w := doRequest(router, http.MethodDelete, "/api/v1/todos/1", "valid", nil)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.NotContains(t, todos.todos, "1")
	})
}
