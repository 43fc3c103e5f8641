package wire

import (
	"token-auth/internal/adaptor"
	"token-auth/internal/usecase"
	"token-auth/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireUser configures the administrator-only user listing
func wireUser(r chi.Router, userHandler *adaptor.UserHandler, log *zap.Logger) {
	r.With(middleware.Permit(usecase.ActionListUsers, log)).
		Get("/protected/users", userHandler.ListUsers) // GET /api/v1/protected/users?page=1&per_page=10
}
