package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"dataroom/internal/auth"
	"dataroom/internal/domain"
	"dataroom/internal/httputil"
)

// AuthMiddleware resolves the caller from an optional bearer token.
// No Authorization header means an anonymous request; a header that does not
// verify is rejected with 401. No access decision is made here.
func AuthMiddleware(verifier auth.JWTVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || strings.TrimSpace(token) == "" {
				httputil.RespondHTTPError(w, &domain.UnauthorizedError{Message: "authorization header must be a bearer token"})
				return
			}

			claims, err := verifier.VerifyToken(strings.TrimSpace(token))
			if err != nil {
				logger.Debug("bearer token rejected",
					"path", r.URL.Path,
					"error", err,
				)
				httputil.RespondHTTPError(w, &domain.UnauthorizedError{Message: "invalid or expired token"})
				return
			}

			next.ServeHTTP(w, httputil.WithUserID(r, claims.GetUserID()))
		})
	}
}
