// Package routeguard decides, from the token and role cookies alone,
// whether a page request may proceed or must be redirected.
package routeguard

import "strings"

type Class int

const (
	Public Class = iota
	AuthOnly
	Protected
	Admin
	Manager
)

func (c Class) String() string {
	switch c {
	case AuthOnly:
		return "auth-only"
	case Protected:
		return "protected"
	case Admin:
		return "admin"
	case Manager:
		return "manager"
	}
	return "public"
}

var (
	protectedPrefixes = []string{"/profile", "/cart", "/wishlist"}
	authOnlyPrefixes  = []string{"/login", "/register"}
	bypassPrefixes    = []string{"/_next", "/static", "/api"}
)

// Bypass reports paths the guard never looks at: assets, the API proxy
// and anything that looks like a file.
func Bypass(path string) bool {
	for _, p := range bypassPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return strings.Contains(path, ".")
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Classify uses plain prefix matching, so "/cartography" counts as protected.
func Classify(path string) Class {
	switch {
	case hasAnyPrefix(path, protectedPrefixes):
		return Protected
	case hasAnyPrefix(path, authOnlyPrefixes):
		return AuthOnly
	case strings.HasPrefix(path, "/admin"):
		return Admin
	case strings.HasPrefix(path, "/manager"):
		return Manager
	}
	return Public
}

// Decision is empty when the request may proceed.
type Decision struct {
	Class     Class
	Redirect  string
	ClearAuth bool
}

func (d Decision) Allowed() bool { return d.Redirect == "" }

// Home is where a signed-in user of the given role lands.
func Home(role string) string {
	switch role {
	case "ADMIN":
		return "/admin"
	case "MANAGER":
		return "/manager"
	}
	return "/profile"
}

func Decide(path, token, role string) Decision {
	c := Classify(path)
	d := Decision{Class: c}
	hasToken := token != ""
	switch {
	case c == Protected && !hasToken:
		d.Redirect = "/login"
		d.ClearAuth = true
	case c == AuthOnly && hasToken:
		d.Redirect = Home(role)
	case c == Admin && (!hasToken || role != "ADMIN"):
		d.Redirect = "/"
	case c == Manager && (!hasToken || role != "MANAGER"):
		d.Redirect = "/"
	}
	return d
}
