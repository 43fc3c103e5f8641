package adaptor

import (
	"net/http"

	"token-auth/internal/usecase"
	"token-auth/pkg/utils"

	"go.uber.org/zap"
)

type UserHandler struct {
	service usecase.UserService
	log     *zap.Logger
}

func NewUserHandler(service usecase.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log,
	}
}

// ListUsers handles GET /api/v1/protected/users (admin only)
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context(), paginationFromQuery(r))
	if err != nil {
		respondError(w, h.log, err, "list users")
		return
	}

	utils.ResponseCollection(w, "Users retrieved successfully", users.Data, users.Pagination)
}
