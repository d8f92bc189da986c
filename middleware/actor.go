package middleware

import (
	"net/http"
	"strings"

	"gitea.com/go-chi/session"

	"github.com/cargoflow/cargoflow/actorctx"
	"github.com/cargoflow/cargoflow/repositories"
)

// LoadActor resolves the session user and attaches the acting principal,
// with client IP and user agent, to the request context. Requests without a
// session pass through with request metadata only; audit events they cause
// are recorded as system actions.
func LoadActor(userRepo repositories.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := actorctx.Actor{
				IPAddress: clientIP(r),
				UserAgent: r.UserAgent(),
			}

			sess := session.GetSession(r)
			if userID, ok := sess.Get("user_id").(int64); ok {
				user, err := userRepo.GetByID(r.Context(), userID)
				if err == nil && user.IsActive {
					actor.UserID = user.ID
					actor.Email = user.Email
					actor.Role = user.Role
					actor.Site = user.Site
				}
			}

			ctx := actorctx.WithActor(r.Context(), actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// clientIP extracts the client address, preferring proxy headers over the
// socket peer.
func clientIP(r *http.Request) string {
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		ips := strings.Split(forwarded, ",")
		return strings.TrimSpace(ips[0])
	}

	realIP := r.Header.Get("X-Real-IP")
	if realIP != "" {
		return realIP
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
