package routeguard_test

import (
	"testing"

	"github.com/5w1tchy/oku-storefront/internal/routeguard"
	"github.com/stretchr/testify/assert"
)

func TestBypass(t *testing.T) {
	for _, p := range []string{"/_next/static/x.js", "/static/app.css", "/api/public/books", "/favicon.ico", "/books/cover.png"} {
		assert.True(t, routeguard.Bypass(p), p)
	}
	for _, p := range []string{"/", "/profile", "/admin/books", "/books/12"} {
		assert.False(t, routeguard.Bypass(p), p)
	}
}

func TestClassify(t *testing.T) {
	tests := map[string]routeguard.Class{
		"/":               routeguard.Public,
		"/books":          routeguard.Public,
		"/about":          routeguard.Public,
		"/profile":        routeguard.Protected,
		"/profile/orders": routeguard.Protected,
		"/cart":           routeguard.Protected,
		"/wishlist":       routeguard.Protected,
		"/login":          routeguard.AuthOnly,
		"/register":       routeguard.AuthOnly,
		"/admin":          routeguard.Admin,
		"/administrator":  routeguard.Admin,
		"/manager/orders": routeguard.Manager,
	}
	for path, want := range tests {
		assert.Equal(t, want, routeguard.Classify(path), path)
	}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name, path, token, role string
		redirect                string
		clear                   bool
	}{
		{"profile without token goes to login", "/profile", "", "", "/login", true},
		{"cart without token keeps role out too", "/cart", "", "USER", "/login", true},
		{"profile with token", "/profile", "t", "USER", "", false},
		{"admin as manager", "/admin", "t", "MANAGER", "/", false},
		{"admin without token", "/admin/books", "", "ADMIN", "/", false},
		{"admin as admin", "/admin", "t", "ADMIN", "", false},
		{"manager as admin", "/manager", "t", "ADMIN", "/", false},
		{"manager as manager", "/manager", "t", "MANAGER", "", false},
		{"login as admin", "/login", "t", "ADMIN", "/admin", false},
		{"login as manager", "/login", "t", "MANAGER", "/manager", false},
		{"register as user", "/register", "t", "USER", "/profile", false},
		{"register with unknown role", "/register", "t", "", "/profile", false},
		{"login anonymous", "/login", "", "", "", false},
		{"public", "/books/3", "", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := routeguard.Decide(tt.path, tt.token, tt.role)
			assert.Equal(t, tt.redirect, d.Redirect)
			assert.Equal(t, tt.clear, d.ClearAuth)
			assert.Equal(t, tt.redirect == "", d.Allowed())
		})
	}
}
