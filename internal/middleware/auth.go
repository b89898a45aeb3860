package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/2beens/fitdash/internal/session"
	"github.com/2beens/fitdash/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=auth_mocks_test.go -package=middleware_test

type sessionGetter interface {
	Get(ctx context.Context, id string) (*session.Session, error)
}

type AuthMiddlewareHandler struct {
	sessions             sessionGetter
	onStale              func(sessionID string)
	onExpire             []func(s *session.Session)
	allowedPaths         map[string]bool
	allowedPathsPrefixes []string
}

// NewAuthMiddlewareHandler creates the session check. Every loaded session gets
// the onExpire hooks attached, so a forced logout anywhere down the chain tears
// it down. onStale, if set, gets the ids of expired or unknown sessions.
func NewAuthMiddlewareHandler(
	sessions sessionGetter,
	onStale func(sessionID string),
	onExpire ...func(s *session.Session),
) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		sessions: sessions,
		onStale:  onStale,
		onExpire: onExpire,
		allowedPaths: map[string]bool{
			"/":        true,
			"/version": true,
			"/status":  true,
			"/myip":    true,

			// auth handler:
			"/auth/login":               true,
			"/auth/2fa":                 true,
			"/auth/register":            true,
			"/auth/verify-email":        true,
			"/auth/resend-verification": true,
			"/auth/password/forgot":     true,
			"/auth/password/reset":      true,
		},
		allowedPathsPrefixes: []string{
			"/calendar/",
		},
	}
}

func (h *AuthMiddlewareHandler) pathIsAlwaysAllowed(path string) bool {
	if h.allowedPaths[path] {
		return true
	}
	for _, prefix := range h.allowedPathsPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// SessionToken reads the dashboard session id from the Authorization header.
func SessionToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, PUT, DELETE, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if h.pathIsAlwaysAllowed(r.URL.Path) {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			token := SessionToken(r)
			if token == "" {
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "missing-auth-token")
				return
			}

			sess, err := h.sessions.Get(ctx, token)
			if err != nil {
				if errors.Is(err, session.ErrSessionNotFound) || errors.Is(err, session.ErrSessionExpired) {
					log.Tracef("[invalid token] [auth middleware] unauthorized => %s: %s", r.URL.Path, err)
					span.SetStatus(codes.Error, "not-logged")
					if h.onStale != nil {
						h.onStale(token)
					}
				} else {
					log.Errorf("[failed session check] => %s: %s", r.URL.Path, err)
					span.SetStatus(codes.Error, "check-logged-err")
					span.RecordError(err)
				}
				http.Error(w, "no can do", http.StatusUnauthorized)
				return
			}

			for _, hook := range h.onExpire {
				sess.OnExpire(hook)
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(session.NewContext(ctx, sess)))
		})
	}
}
