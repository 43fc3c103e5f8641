package wire

import (
	"token-auth/internal/adaptor"
	"token-auth/internal/usecase"
	"token-auth/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireSession(r chi.Router, sessionHandler *adaptor.SessionHandler, log *zap.Logger) {
	// scope is decided by the service: admins see all, members their own
	r.Get("/session-activities", sessionHandler.List)

	r.With(middleware.Permit(usecase.ActionRevokeUserSessions, log)).
		Delete("/users/{id}/sessions", sessionHandler.RevokeUser)
}
