package apperr

import (
	"errors"
	"net/http"

	"github.com/5w1tchy/oku-storefront/internal/backend"
)

// FromBackend maps a backend client error to a Problem. The backend's own
// message is passed through as the detail; transport failures become 502.
func FromBackend(err error) (Problem, bool) {
	if err == nil {
		return Problem{}, false
	}
	var apiErr *backend.APIError
	if !errors.As(err, &apiErr) {
		if errors.Is(err, backend.ErrUnavailable) {
			return Problem{Status: http.StatusBadGateway, Title: "Backend unavailable", Retryable: true}, true
		}
		return Problem{}, false
	}

	p := Problem{Status: apiErr.Status, Detail: apiErr.Message}
	switch {
	case apiErr.Status == http.StatusUnauthorized:
		p.Title = "Unauthorized"
	case apiErr.Status == http.StatusForbidden:
		p.Title = "Forbidden"
	case apiErr.Status == http.StatusNotFound:
		p.Title = "Not Found"
	case apiErr.Status == http.StatusConflict:
		p.Title = "Conflict"
	case apiErr.Status >= 500:
		// Upstream failure is our gateway problem, not the caller's
		p.Status = http.StatusBadGateway
		p.Title = "Backend error"
		p.Retryable = true
	case apiErr.Status >= 400:
		p.Title = "Bad Request"
	default:
		p.Status = http.StatusBadGateway
		p.Title = "Unexpected backend response"
	}
	return p, true
}

// HandleError writes err as a Problem: backend errors, then database errors,
// then a generic 500. Returns false for a nil error.
func HandleError(w http.ResponseWriter, r *http.Request, err error, fallbackTitle string) bool {
	if err == nil {
		return false
	}
	if p, ok := FromBackend(err); ok {
		Write(w, r, p)
		return true
	}
	return HandleDBError(w, r, err, fallbackTitle)
}
