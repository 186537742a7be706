package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"movemate-admin/internal/auth"
)

const clientCookie = "movemate_client"

type contextKey string

const (
	ctxClientID contextKey = "client_id"
	ctxSession  contextKey = "session"
)

func clientIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxClientID).(string)
	return v
}

func sessionFromContext(ctx context.Context) *auth.Session {
	v, _ := ctx.Value(ctxSession).(*auth.Session)
	return v
}

// loggingMiddleware logs every request with its status. 5xx are logged at
// error level and 4xx at warn.
func loggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			level := slog.LevelInfo
			if status >= 500 {
				level = slog.LevelError
			} else if status >= 400 {
				level = slog.LevelWarn
			}

			logger.Log(r.Context(), level, "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
				"bytes", ww.BytesWritten(),
				"request_id", chimw.GetReqID(r.Context()),
				"client_id", clientIDFromContext(r.Context()),
			)
		})
	}
}

// clientMiddleware attaches the browser's client id, issuing a fresh one in
// a signed cookie when the request carries none or an invalid one.
func (s *Server) clientMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var clientID string
		if c, err := r.Cookie(clientCookie); err == nil {
			if id, err := s.signer.parse(c.Value); err == nil {
				clientID = id
			} else {
				s.logger.Debug("rejecting client cookie", "error", err)
			}
		}

		if clientID == "" {
			clientID = uuid.NewString()
			now := time.Now()
			token, err := s.signer.sign(clientID, now)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "internal", "failed to issue client id")
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     clientCookie,
				Value:    token,
				Path:     "/",
				Expires:  now.Add(clientTokenExpiry),
				HttpOnly: true,
				Secure:   s.cfg.CookieSecure,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), ctxClientID, clientID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionMiddleware resolves the client's auth session.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.sessions.get(r.Context(), clientIDFromContext(r.Context()))
		if err != nil {
			s.logger.Error("session lookup failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal", "session unavailable")
			return
		}
		ctx := context.WithValue(r.Context(), ctxSession, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireLogin sends clients without a resolved user to the login page.
func requireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFromContext(r.Context())
		if sess == nil || sess.CurrentUser() == nil {
			http.Redirect(w, r, "/admin-login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
