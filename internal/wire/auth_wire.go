package wire

import (
	"net/http"

	"token-auth/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, authenticate func(http.Handler) http.Handler) {
	r.Route("/token", func(r chi.Router) {
		// public
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)

		// logout accepts both verbs
		r.With(authenticate).Delete("/logout", authHandler.Logout)
		r.With(authenticate).Post("/logout", authHandler.Logout)
	})
}
