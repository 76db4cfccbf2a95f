package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"docmind/internal/auth"
	"docmind/internal/httputil"
)

// Auth extracts the bearer token, verifies it, and places the user id on the
// request context. Unauthenticated requests get a 401 problem response.
func Auth(verifier auth.TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(r.Context(), token)
			if err != nil {
				logger.Debug("rejected request", "path", r.URL.Path, "error", err)
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := httputil.WithUserID(r.Context(), claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
