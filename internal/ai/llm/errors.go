package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/adanyl0v/go-todo-ai/internal/ai"
)

// Classify translates a model client error into the ai error taxonomy.
// Structured status codes are preferred; message inspection is the fallback
// for clients that only return text. Errors that match nothing are wrapped
// unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{ai.ErrModelAuth, ai.ErrModelQuota, ai.ErrModelUnavailable, ai.ErrModelResponse} {
		if errors.Is(err, known) {
			return err
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", ai.ErrModelUnavailable, err)
	}

	if code, status, ok := apiStatus(err); ok {
		if class := classifyStatus(code, status); class != nil {
			return fmt.Errorf("%w: %w", class, err)
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %w", ai.ErrModelUnavailable, err)
	}

	if class := classifyMessage(err.Error()); class != nil {
		return fmt.Errorf("%w: %w", class, err)
	}
	return fmt.Errorf("model request failed: %w", err)
}

func apiStatus(err error) (int, string, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, apiErr.Status, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, apiErrPtr.Status, true
	}
	return 0, "", false
}

func classifyStatus(code int, status string) error {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden ||
		status == "UNAUTHENTICATED" || status == "PERMISSION_DENIED":
		return ai.ErrModelAuth
	case code == http.StatusTooManyRequests || status == "RESOURCE_EXHAUSTED":
		return ai.ErrModelQuota
	case code == http.StatusNotFound || code >= http.StatusInternalServerError ||
		status == "NOT_FOUND" || status == "UNAVAILABLE":
		return ai.ErrModelUnavailable
	}
	return nil
}

var (
	authMarkers        = []string{"api key", "api_key", "unauthorized", "unauthenticated", "permission denied", "invalid x-api-key", "status code: 401", "status code: 403"}
	quotaMarkers       = []string{"quota", "rate limit", "rate_limit", "too many requests", "resource_exhausted", "status code: 429"}
	unavailableMarkers = []string{"model not found", "not_found", "connection refused", "no such host", "timeout", "unavailable", "overloaded", "status code: 5"}
)

func classifyMessage(msg string) error {
	msg = strings.ToLower(msg)
	switch {
	case containsAny(msg, authMarkers):
		return ai.ErrModelAuth
	case containsAny(msg, quotaMarkers):
		return ai.ErrModelQuota
	case containsAny(msg, unavailableMarkers):
		return ai.ErrModelUnavailable
	}
	return nil
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
