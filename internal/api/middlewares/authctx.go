package middlewares

import (
	"context"

	"github.com/5w1tchy/oku-storefront/internal/session"
)

const sessionKey ctxKey = 1

func WithSession(ctx context.Context, s session.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// SessionFrom returns the session the guard resolved, or an anonymous one.
func SessionFrom(ctx context.Context) session.Session {
	s, _ := ctx.Value(sessionKey).(session.Session)
	return s
}
