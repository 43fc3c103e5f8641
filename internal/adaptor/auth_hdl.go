package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"token-auth/internal/dto/request"
	"token-auth/internal/usecase"
	"token-auth/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log,
	}
}

// Login handles POST /token/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := decodeBody(r, &req, func(form map[string][]string) {
		req.Email = first(form["email"])
		req.Password = first(form["password"])
	}); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body")
		return
	}

	req.UserAgent = r.UserAgent()
	req.IPAddress = utils.ClientIP(r)

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		respondError(w, h.log, err, "login")
		return
	}

	utils.ResponseCreated(w, resp)
}

// Refresh handles POST /token/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req request.RefreshRequest
	if err := decodeBody(r, &req, func(form map[string][]string) {
		req.Refresh = first(form["refresh"])
	}); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body")
		return
	}

	resp, err := h.service.Refresh(r.Context(), &req)
	if err != nil {
		respondError(w, h.log, err, "refresh")
		return
	}

	utils.WriteJSON(w, http.StatusOK, resp)
}

// Logout handles DELETE and POST /token/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context(), principal(r)); err != nil {
		respondError(w, h.log, err, "logout")
		return
	}

	utils.ResponseNoContent(w)
}

// decodeBody fills dst from a JSON body, or calls fromForm for form posts.
// An empty body leaves dst untouched.
func decodeBody(r *http.Request, dst any, fromForm func(map[string][]string)) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(1 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return err
		}
		fromForm(r.PostForm)
		return nil
	}

	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
