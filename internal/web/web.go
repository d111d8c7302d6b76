// Package web renders the server-side pages. Each page template is parsed
// together with layout.html once at startup.
package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/5w1tchy/oku-storefront/internal/api/apperr"
	"github.com/5w1tchy/oku-storefront/internal/api/middlewares"
	"github.com/5w1tchy/oku-storefront/internal/backend"
	"github.com/5w1tchy/oku-storefront/internal/i18n"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const layoutFile = "templates/layout.html"

type Renderer struct {
	pages map[string]*template.Template
	log   *zap.Logger
}

func New(log *zap.Logger) (*Renderer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	rd := &Renderer{pages: make(map[string]*template.Template, len(files)), log: log}
	for _, f := range files {
		if f == layoutFile {
			continue
		}
		name := strings.TrimSuffix(path.Base(f), ".html")
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, layoutFile, f)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", f, err)
		}
		rd.pages[name] = t
	}
	return rd, nil
}

// Render executes page name inside the layout. The page is buffered so a
// template error still produces a clean 500.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	rd.render(w, r, status, name, data, "")
}

// RenderError is Render with an inline localized message above the page body.
func (rd *Renderer) RenderError(w http.ResponseWriter, r *http.Request, status int, name string, data any, msgKey string) {
	rd.render(w, r, status, name, data, msgKey)
}

func (rd *Renderer) render(w http.ResponseWriter, r *http.Request, status int, name string, data any, msgKey string) {
	t, ok := rd.pages[name]
	if !ok {
		rd.log.Error("unknown template", zap.String("template", name))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	v := newView(r, data)
	if msgKey != "" {
		v.Error = v.T(msgKey)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", v); err != nil {
		rd.log.Error("render failed", zap.String("template", name), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Static serves the embedded /static/ assets.
func Static() http.Handler {
	sub, _ := fs.Sub(staticFS, "static")
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// ErrorPage describes the generic error screen.
type ErrorPage struct {
	Status    int
	Message   string
	LoginLink bool
}

// Problem renders the generic error page with a localized message.
func (rd *Renderer) Problem(w http.ResponseWriter, r *http.Request, status int, msgKey string) {
	loc := i18n.For(r)
	rd.Render(w, r, status, "error", ErrorPage{Status: status, Message: loc.T(msgKey)})
}

// SessionExpired is the 403 screen that offers a fresh login.
func (rd *Renderer) SessionExpired(w http.ResponseWriter, r *http.Request) {
	loc := i18n.For(r)
	rd.Render(w, r, http.StatusForbidden, "error", ErrorPage{
		Status:    http.StatusForbidden,
		Message:   loc.T(i18n.MsgSessionExpired),
		LoginLink: true,
	})
}

// Fail logs a backend or ledger failure and renders the matching error page.
// 401 and 403 become the session-expired page. Ledger errors take the
// status apperr.FromPG assigns to their SQLSTATE.
func (rd *Renderer) Fail(w http.ResponseWriter, r *http.Request, err error) {
	status := backend.StatusOf(err)
	fields := []zap.Field{
		zap.String("path", r.URL.Path),
		zap.String("request_id", middlewares.GetRequestID(r)),
		zap.Int("backend_status", status),
		zap.Error(err),
	}
	if p, ok := apperr.FromPG(err); ok {
		rd.log.Error("ledger query failed", append(fields, zap.Int("status", p.Status), zap.Bool("retryable", p.Retryable))...)
		rd.Problem(w, r, p.Status, i18n.MsgSomethingWrong)
		return
	}
	switch {
	case errors.Is(err, backend.ErrUnauthorized), errors.Is(err, backend.ErrForbidden):
		rd.log.Info("backend refused session", fields...)
		rd.SessionExpired(w, r)
	case errors.Is(err, backend.ErrNotFound):
		rd.log.Debug("backend not found", fields...)
		rd.Problem(w, r, http.StatusNotFound, i18n.MsgNotFound)
	default:
		rd.log.Error("backend request failed", fields...)
		rd.Problem(w, r, http.StatusBadGateway, i18n.MsgSomethingWrong)
	}
}
