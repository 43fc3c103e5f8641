package adaptor

import (
	"net/http"

	"token-auth/internal/usecase"
	"token-auth/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type SessionHandler struct {
	service usecase.SessionService
	log     *zap.Logger
}

func NewSessionHandler(service usecase.SessionService, log *zap.Logger) *SessionHandler {
	return &SessionHandler{
		service: service,
		log:     log,
	}
}

// List handles GET /api/v1/session-activities
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.service.ListSessions(r.Context(), principal(r), paginationFromQuery(r))
	if err != nil {
		respondError(w, h.log, err, "list sessions")
		return
	}

	utils.ResponseCollection(w, "Sessions retrieved successfully", sessions.Data, sessions.Pagination)
}

// RevokeUser handles DELETE /api/v1/users/{id}/sessions (admin only)
func (h *SessionHandler) RevokeUser(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.RevokeUserSessions(r.Context(), principal(r), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.log, err, "revoke sessions")
		return
	}

	utils.ResponseSuccess(w, "Sessions revoked", resp)
}
