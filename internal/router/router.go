package router

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/splittally/tally-backend/internal/handlers"
	"github.com/splittally/tally-backend/internal/middleware"
)

func NewRouter(deps *handlers.Deps, webhookSecret string, log *slog.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(middleware.NewLoggerMiddleware(log).LoggerMiddleware)

	wh := handlers.NewWebhookHandlers(deps)
	auth := middleware.NewMiddleware(webhookSecret, deps.ResponseHandler)

	r.Get("/", wh.Health)
	r.Route("/webhook", func(r chi.Router) {
		r.Get("/", wh.Health)
		r.With(auth.WebhookAuth).Post("/", wh.Receive)
	})
	return r
}
