package middleware

import (
	"errors"
	"net/http"
	"strings"

	"token-auth/internal/usecase"
	"token-auth/pkg/utils"

	"go.uber.org/zap"
)

// AuthToken resolves the bearer token to its user and session and stores
// both on the request context.
func AuthToken(validator *usecase.TokenValidator, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)

			principal, err := validator.Resolve(r.Context(), token)
			if err != nil {
				var authErr *usecase.Error
				if errors.As(err, &authErr) {
					logger.Warn("Token rejected",
						zap.String("path", r.URL.Path),
						zap.String("reason", err.Error()))
				} else {
					logger.Error("Failed to resolve token", zap.Error(err))
				}
				utils.ResponseError(w, err)
				return
			}

			ctx := utils.SetAuthContext(r.Context(), principal.User, principal.Session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Permit rejects callers the gate does not allow to perform action.
// It must run after AuthToken.
func Permit(action usecase.Action, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, _ := utils.GetUserFromContext(r.Context())

			if err := usecase.Authorize(user, action); err != nil {
				fields := []zap.Field{
					zap.String("action", string(action)),
					zap.String("path", r.URL.Path),
				}
				if user != nil {
					fields = append(fields, zap.String("user_id", user.ID.String()))
				}
				logger.Warn("Action forbidden", fields...)
				utils.ResponseError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken returns the credential of an "Authorization: Bearer <token>"
// header, or "" when there is none.
func bearerToken(r *http.Request) string {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
