package adaptor

import (
	"errors"
	"net/http"
	"strconv"

	"token-auth/internal/dto/request"
	"token-auth/internal/usecase"
	"token-auth/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth    *AuthHandler
	User    *UserHandler
	Session *SessionHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(service.Auth, log),
		User:    NewUserHandler(service.User, log),
		Session: NewSessionHandler(service.Session, log),
	}
}

// respondError logs err at a level matching its kind and writes it.
func respondError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var ue *usecase.Error
	if errors.As(err, &ue) {
		log.Warn(operation+" failed",
			zap.Int("status", ue.StatusCode()),
			zap.String("code", ue.ErrorCode()))
	} else {
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
	}
	utils.ResponseError(w, err)
}

// principal rebuilds the authenticated caller set by middleware.AuthToken.
func principal(r *http.Request) *usecase.Principal {
	user, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		return nil
	}
	session, _ := utils.GetSessionFromContext(r.Context())
	return &usecase.Principal{User: user, Session: session}
}

// paginationFromQuery reads page and per_page, falling back to 1 and 10.
func paginationFromQuery(r *http.Request) *request.PaginatedRequest {
	query := r.URL.Query()
	return &request.PaginatedRequest{
		Page:    parseInt(query.Get("page"), 1),
		PerPage: parseInt(query.Get("per_page"), 10),
	}
}

func parseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil || result < 1 {
		return defaultValue
	}

	return result
}
