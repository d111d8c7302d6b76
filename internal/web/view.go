package web

import (
	"fmt"
	"html/template"
	"net/http"
	"slices"
	"strings"

	"github.com/5w1tchy/oku-storefront/internal/api/middlewares"
	"github.com/5w1tchy/oku-storefront/internal/backend"
	"github.com/5w1tchy/oku-storefront/internal/i18n"
	"github.com/5w1tchy/oku-storefront/internal/session"
	"github.com/5w1tchy/oku-storefront/internal/storefront"
)

// View is the root value every template receives.
type View struct {
	Lang    string
	Path    string
	Session session.Session
	CSRF    string
	Error   string
	Data    any

	loc *i18n.Localizer
}

func newView(r *http.Request, data any) View {
	loc := i18n.For(r)
	return View{
		Lang:    loc.Lang(),
		Path:    r.URL.Path,
		Session: middlewares.SessionFrom(r.Context()),
		CSRF:    middlewares.CSRFToken(r.Context()),
		Data:    data,
		loc:     loc,
	}
}

func (v View) T(key string, args ...any) string { return v.loc.T(key, args...) }

func (v View) Date(t backend.FlexTime) string { return storefront.FormatDate(v.loc, t) }

// CSRFField is the hidden input every POST form carries.
func (v View) CSRFField() template.HTML {
	return template.HTML(`<input type="hidden" name="csrf_token" value="` + template.HTMLEscapeString(v.CSRF) + `">`)
}

func (v View) IsAdmin() bool   { return v.Session.Is(backend.RoleAdmin) }
func (v View) IsManager() bool { return v.Session.Is(backend.RoleManager) }

var funcs = template.FuncMap{
	"money": func(f float64) string { return fmt.Sprintf("%.2f", f) },
	"deref": func(p *float64) float64 {
		if p == nil {
			return 0
		}
		return *p
	},
	"derefBool": func(p *bool) bool { return p != nil && *p },
	"lower":     strings.ToLower,
	"status":    func(s backend.OrderStatus) string { return strings.ReplaceAll(string(s), "_", " ") },
	"add":       func(a, b int) int { return a + b },
	"has":       slices.Contains[[]int64, int64],
}
