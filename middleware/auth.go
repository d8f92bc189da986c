package middleware

import (
	"fmt"
	"net/http"

	"gitea.com/go-chi/session"

	"github.com/cargoflow/cargoflow/actorctx"
)

// RequireAuth ensures the request carries an authenticated session that
// still resolves to an active account. The session key alone is not enough:
// the account may have been deactivated or deleted since login, and such a
// request must not fall through as an anonymous principal. API clients get
// a JSON 401 instead of a redirect. Must be mounted after LoadActor.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.GetSession(r)
		if sess.Get("user_id") == nil {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !actorctx.FromContext(r.Context()).Known() {
			sess.Delete("user_id")
			writeError(w, http.StatusUnauthorized, "session no longer valid")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireRole ensures the acting user holds one of the given roles. Must be
// mounted after RequireAuth and LoadActor.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := actorctx.FromContext(r.Context())
			for _, role := range roles {
				if actor.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeError(w, http.StatusForbidden, "insufficient role")
		})
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"status":"error","message":%q}`, message)
}
