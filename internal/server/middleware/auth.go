package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/docsync/internal/server/handlers"
	"github.com/iudanet/docsync/internal/server/jwt"
)

// AuthMiddleware создает middleware для проверки JWT токена.
// The username from a valid token is stored in the request context.
func AuthMiddleware(logger *slog.Logger, tokens *jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("Missing Authorization header", "path", r.URL.Path)
				handlers.WriteError(w, http.StatusUnauthorized, "missing token")
				return
			}

			// Ожидаем формат: "Bearer <token>"
			scheme, token, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				logger.Warn("Invalid Authorization header format")
				handlers.WriteError(w, http.StatusUnauthorized, "invalid token format")
				return
			}

			claims, err := tokens.ValidateToken(token)
			if err != nil {
				logger.Warn("Invalid access token", "error", err)
				handlers.WriteError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			logger.Debug("User authenticated", "username", claims.Username)

			next.ServeHTTP(w, r.WithContext(handlers.WithUsername(r.Context(), claims.Username)))
		})
	}
}
