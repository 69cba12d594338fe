package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/adanyl0v/go-todo-ai/internal/ai"
	"github.com/adanyl0v/go-todo-ai/internal/services"
)

var (
	errInvalidRequestBody = errors.New("invalid request body")
	errInvalidQuery       = errors.New("invalid query parameters")
	errInvalidTimezone    = errors.New("invalid timezone")
	errModelQuota         = errors.New("AI usage limit reached, please try again later")
	errAnalysisFailed     = errors.New("AI analysis failed, please try again")
)

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, gin.H{"error": err.Message})
}

func newStatusTextError(status int) apiError {
	return newAPIError(status, http.StatusText(status))
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func newUnauthorizedError(message string) apiError {
	return newAPIError(http.StatusUnauthorized, message)
}

func newNotFoundError(message string) apiError {
	return newAPIError(http.StatusNotFound, message)
}

func newTooManyRequestsError(message string) apiError {
	return newAPIError(http.StatusTooManyRequests, message)
}

func newInternalServerError(message string) apiError {
	return newAPIError(http.StatusInternalServerError, message)
}

// newBindingError names the first field that failed validation.
func newBindingError(base error, err error) apiError {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fe := validationErrs[0]
		return newBadRequestError(fmt.Sprintf("%s: field %q failed on the %q rule", base, fe.Field(), fe.Tag()))
	}
	return newBadRequestError(base.Error())
}

// newAssistantError maps pipeline failures onto the public error contract:
// input problems are reported verbatim, quota exhaustion is retryable and
// everything else is an opaque server error.
func newAssistantError(err error) apiError {
	var inputErr *ai.InputError
	switch {
	case errors.As(err, &inputErr):
		return newBadRequestError(inputErr.Reason)
	case errors.Is(err, ai.ErrModelQuota):
		return newTooManyRequestsError(errModelQuota.Error())
	default:
		return newInternalServerError(errAnalysisFailed.Error())
	}
}

func newTodoError(err error) apiError {
	switch {
	case errors.Is(err, services.ErrTodoNotFound):
		return newNotFoundError(services.ErrTodoNotFound.Error())
	case errors.Is(err, services.ErrInvalidTodo):
		return newBadRequestError(services.ErrInvalidTodo.Error())
	default:
		return newStatusTextError(http.StatusInternalServerError)
	}
}
