// Package session owns the storefront cookies: the backend token, the role,
// and the small warm-start mirrors of the user, cart and wishlist.
package session

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"github.com/5w1tchy/oku-storefront/internal/backend"
	jwtutil "github.com/5w1tchy/oku-storefront/internal/security/jwt"
)

const (
	TokenCookie    = "token"
	RoleCookie     = "role"
	UserCookie     = "user"
	CartCookie     = "cart"
	WishlistCookie = "wishlist"

	maxMirrorItems = 100
)

// Session is what one request knows about its caller.
type Session struct {
	Token string
	Role  backend.Role
	// Verified is set when the token signature was checked.
	Verified bool
}

func (s Session) LoggedIn() bool { return s.Token != "" }

func (s Session) Is(role backend.Role) bool { return s.LoggedIn() && s.Role == role }

type Manager struct {
	ttl      time.Duration
	secure   bool
	verifier *jwtutil.Verifier
}

// NewManager takes a nil verifier for trust-on-read mode.
func NewManager(ttl time.Duration, secure bool, v *jwtutil.Verifier) *Manager {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Manager{ttl: ttl, secure: secure, verifier: v}
}

// Read resolves the caller from cookies. In verified mode an invalid token
// reads as no token, and the role comes from the token when it carries one.
func (m *Manager) Read(r *http.Request) Session {
	s := Session{Token: cookieValue(r, TokenCookie), Role: backend.Role(cookieValue(r, RoleCookie))}
	if m.verifier == nil || s.Token == "" {
		return s
	}
	claims, err := m.verifier.Parse(s.Token)
	if err != nil {
		return Session{}
	}
	s.Verified = true
	if claims.Role != "" {
		s.Role = backend.Role(claims.Role)
	}
	return s
}

func (m *Manager) SetAuth(w http.ResponseWriter, token string, role backend.Role) {
	m.set(w, TokenCookie, token)
	if role != "" {
		m.set(w, RoleCookie, string(role))
	}
}

// ClearAuth drops token and role.
func (m *Manager) ClearAuth(w http.ResponseWriter) {
	m.expire(w, TokenCookie)
	m.expire(w, RoleCookie)
}

// Clear drops everything the storefront set, used on logout.
func (m *Manager) Clear(w http.ResponseWriter) {
	m.ClearAuth(w)
	m.expire(w, UserCookie)
	m.expire(w, CartCookie)
	m.expire(w, WishlistCookie)
}

func (m *Manager) set(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(m.ttl / time.Second),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) expire(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

// ---------- mirrors ----------

// UserMirror is the profile subset kept for rendering the header.
type UserMirror struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

type CartMirrorItem struct {
	BookID   int64 `json:"b"`
	Quantity int   `json:"q"`
}

func (m *Manager) SetUser(w http.ResponseWriter, p backend.Profile) {
	m.setJSON(w, UserCookie, UserMirror{Email: p.Email, Username: p.Username})
}

func (m *Manager) User(r *http.Request) (UserMirror, bool) {
	var u UserMirror
	ok := readJSON(r, UserCookie, &u)
	return u, ok
}

func (m *Manager) SetCart(w http.ResponseWriter, items []backend.CartItem) {
	out := make([]CartMirrorItem, 0, min(len(items), maxMirrorItems))
	for _, it := range items {
		if len(out) == maxMirrorItems {
			break
		}
		out = append(out, CartMirrorItem{BookID: it.BookID, Quantity: it.Quantity})
	}
	m.setJSON(w, CartCookie, out)
}

func (m *Manager) Cart(r *http.Request) []CartMirrorItem {
	var items []CartMirrorItem
	readJSON(r, CartCookie, &items)
	return items
}

func (m *Manager) SetWishlist(w http.ResponseWriter, bookIDs []int64) {
	if len(bookIDs) > maxMirrorItems {
		bookIDs = bookIDs[:maxMirrorItems]
	}
	m.setJSON(w, WishlistCookie, bookIDs)
}

func (m *Manager) Wishlist(r *http.Request) []int64 {
	var ids []int64
	readJSON(r, WishlistCookie, &ids)
	return ids
}

// AddWishlistID appends id unless it is already present.
func AddWishlistID(ids []int64, id int64) []int64 {
	if slices.Contains(ids, id) {
		return ids
	}
	return append(ids, id)
}

func RemoveWishlistID(ids []int64, id int64) []int64 {
	return slices.DeleteFunc(slices.Clone(ids), func(v int64) bool { return v == id })
}

func (m *Manager) setJSON(w http.ResponseWriter, name string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	m.set(w, name, base64.RawURLEncoding.EncodeToString(b))
}

func readJSON(r *http.Request, name string, v any) bool {
	raw := cookieValue(r, name)
	if raw == "" {
		return false
	}
	b, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return false
	}
	return json.Unmarshal(b, v) == nil
}
