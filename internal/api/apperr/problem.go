package apperr

import (
	"encoding/json"
	"net/http"

	"github.com/5w1tchy/oku-storefront/internal/api/middlewares"
)

type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"` // unique, fk, not_null, check, invalid, too_long
	Message string `json:"message"`
}

// Problem is an RFC 7807 body for the JSON endpoints. Instance defaults to
// the request path and RequestID to the id the RequestID middleware set.
type Problem struct {
	Type        string       `json:"type,omitempty"`
	Title       string       `json:"title"`
	Status      int          `json:"status"`
	Detail      string       `json:"detail,omitempty"`
	Instance    string       `json:"instance,omitempty"`
	RequestID   string       `json:"request_id,omitempty"`
	FieldErrors []FieldError `json:"field_errors,omitempty"`
	Retryable   bool         `json:"retryable,omitempty"`
}

func Write(w http.ResponseWriter, r *http.Request, p Problem) {
	if p.Status == 0 {
		p.Status = http.StatusInternalServerError
	}
	if p.Instance == "" && r != nil {
		p.Instance = r.URL.Path
	}
	if p.RequestID == "" && r != nil {
		p.RequestID = middlewares.GetRequestID(r)
	}
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}
