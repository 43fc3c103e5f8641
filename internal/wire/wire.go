package wire

import (
	"net/http"

	"token-auth/internal/adaptor"
	"token-auth/internal/data/repository"
	"token-auth/internal/usecase"
	"token-auth/pkg/middleware"
	"token-auth/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the router and the services behind it
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and routes on top of repo.
func Wiring(repo *repository.Repository, config *utils.Config, clock utils.Clock, logger *zap.Logger) *App {
	service := usecase.NewService(repo, config, clock, logger)
	handler := adaptor.NewHandler(service, logger)

	return &App{
		Router:  setupRouter(handler, service, logger),
		Service: service,
	}
}

// Close stops background work started by Wiring.
func (a *App) Close() {
	a.Service.Close()
}

func setupRouter(handler *adaptor.Handler, service *usecase.Service, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))

	authenticate := middleware.AuthToken(service.Validator, logger)

	wireAuth(r, handler.Auth, authenticate)

	// everything under /api/v1 needs a live session
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(authenticate)
		wireUser(r, handler.User, logger)
		wireSession(r, handler.Session, logger)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseSuccess(w, "OK", nil)
	})

	return r
}
