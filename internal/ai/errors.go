// Package ai holds the error taxonomy shared by the parsing and
// summarization pipelines.
package ai

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput matches every *InputError.
	ErrInvalidInput = errors.New("invalid input")

	// ErrModelAuth is returned when the model provider rejects the API key.
	ErrModelAuth = errors.New("model authentication failed")

	// ErrModelQuota is returned when the provider reports quota or rate-limit
	// exhaustion.
	ErrModelQuota = errors.New("model quota exceeded")

	// ErrModelUnavailable is returned for unknown models and connectivity
	// failures.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrModelResponse is returned when the reply does not fit the requested
	// schema.
	ErrModelResponse = errors.New("malformed model response")

	// ErrPipeline is returned when a pipeline stage fails unexpectedly.
	ErrPipeline = errors.New("pipeline failed")
)

// Limits on summarization input.
const (
	MinSummaryTodos = 1
	MaxSummaryTodos = 200
)

var (
	ErrEmptyInput   error = &InputError{Reason: "no todos to analyze"}
	ErrTooManyItems error = &InputError{Reason: fmt.Sprintf("too many todos: at most %d can be analyzed at once", MaxSummaryTodos)}
)

// InputError is a validation failure whose Reason is safe to show to the user.
type InputError struct {
	Reason string
}

func NewInputError(format string, args ...any) *InputError {
	return &InputError{Reason: fmt.Sprintf(format, args...)}
}

func (e *InputError) Error() string {
	return e.Reason
}

func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Kind names the class of err for log fields.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrModelAuth):
		return "model_auth"
	case errors.Is(err, ErrModelQuota):
		return "model_quota"
	case errors.Is(err, ErrModelUnavailable):
		return "model_unavailable"
	case errors.Is(err, ErrModelResponse):
		return "model_response"
	case errors.Is(err, ErrPipeline):
		return "pipeline"
	default:
		return "unknown"
	}
}
