package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrUnauthorized = errors.New("backend: unauthorized")
	ErrForbidden    = errors.New("backend: forbidden")
	ErrNotFound     = errors.New("backend: not found")
	ErrConflict     = errors.New("backend: conflict")
	ErrBadRequest   = errors.New("backend: bad request")
	ErrUnavailable  = errors.New("backend: unavailable")
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
	Method  string
	Path    string
	Body    []byte
}

func newAPIError(method, path string, status int, body []byte) *APIError {
	return &APIError{
		Status:  status,
		Message: extractMessage(body),
		Method:  method,
		Path:    path,
		Body:    body,
	}
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend %s %s: %d: %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("backend %s %s: %d", e.Method, e.Path, e.Status)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrConflict:
		return e.Status == http.StatusConflict
	case ErrBadRequest:
		return e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity
	case ErrUnavailable:
		return e.Status >= 500
	}
	return false
}

// StatusOf returns the backend status for err, 502 for transport failures
// and 0 for nil.
func StatusOf(err error) int {
	if err == nil {
		return 0
	}
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Status
	}
	return http.StatusBadGateway
}

// MessageOf returns the backend's own message, or "" when it sent none.
func MessageOf(err error) string {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return ""
}

// extractMessage understands {"message"}, {"error"} and {"detail"} bodies,
// and falls back to short plain-text bodies.
func extractMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "{") {
		var m struct {
			Message string `json:"message"`
			Error   string `json:"error"`
			Detail  string `json:"detail"`
		}
		if err := json.Unmarshal(body, &m); err == nil {
			switch {
			case m.Message != "":
				return m.Message
			case m.Detail != "":
				return m.Detail
			case m.Error != "":
				return m.Error
			}
		}
		return ""
	}
	if strings.HasPrefix(trimmed, "<") || len(trimmed) > 300 {
		return ""
	}
	return trimmed
}
