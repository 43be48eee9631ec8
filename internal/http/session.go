package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/watchhaven/internal/logger"
	"github.com/fjod/watchhaven/internal/session"
	"go.uber.org/zap"
)

const SessionHeader = "X-Session-ID"

type sessionKey struct{}

type SessionOptions struct {
	CookieName string
	Secure     bool
	TTL        time.Duration
}

// SessionMiddleware resolves the visitor's session id from the cookie or the
// X-Session-ID header, minting a new one when neither carries a valid id.
// The cookie is rewritten on every response so its expiry slides.
func SessionMiddleware(opts SessionOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := requestSessionID(r, opts.CookieName)
			if id == "" {
				id = session.NewID()
			}

			http.SetCookie(w, &http.Cookie{
				Name:     opts.CookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int(opts.TTL.Seconds()),
				HttpOnly: true,
				Secure:   opts.Secure,
				SameSite: http.SameSiteLaxMode,
			})
			w.Header().Set(SessionHeader, id)

			ctx := context.WithValue(r.Context(), sessionKey{}, id)
			ctx = logger.With(ctx, zap.String("session_id", id))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func requestSessionID(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && session.ValidID(c.Value) {
		return c.Value
	}
	if h := r.Header.Get(SessionHeader); session.ValidID(h) {
		return h
	}
	return ""
}

func sessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}
