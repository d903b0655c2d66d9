package middleware

import (
	"net/http"
	"strings"

	"glow/internal/auth"
	"glow/internal/httputil"
)

// publicPaths are reachable without a token: health checks and the guest
// chat endpoint (guests are metered by the quota ledger, not by auth).
var publicPaths = map[string]bool{
	"/health":             true,
	"/api/guest/messages": true,
}

// Auth validates the Bearer token on protected routes and stores the
// caller's user id in the request context.
func Auth(verifier auth.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, httputil.WithUserID(r, claims.GetUserID()))
		})
	}
}
