package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"printify/internal/api"
	"printify/internal/events"
	"printify/internal/webhook"
	"printify/pkg/config"
)

type Dependencies struct {
	Cfg    config.Config
	Store  events.Store
	Logger *zap.Logger
}

func NewRouter(deps Dependencies) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(api.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	eventHandlers := events.Handlers{Store: deps.Store}
	webhookHandler := webhook.Handler{
		Secret: deps.Cfg.Printify.WebhookSecret,
		Store:  deps.Store,
	}

	// v1
	r.Route("/v1", func(r chi.Router) {
		// Printify deliveries, authenticated by signature.
		r.Post("/webhooks/printify", webhookHandler.ServeHTTP)

		// Read APIs for dashboards and ops tooling.
		r.Group(func(r chi.Router) {
			r.Use(api.CORSMiddleware(api.CORSOptions{
				AllowedOrigins: deps.Cfg.AllowedOrigins,
				AllowedMethods: []string{http.MethodGet, http.MethodOptions},
				AllowedHeaders: []string{"Authorization", "Content-Type"},
				MaxAgeSeconds:  600,
			}))
			r.Use(api.AdminAuth(deps.Cfg.AdminToken))

			// Group middleware only runs on matched routes, so preflights need
			// their own. CORSMiddleware answers them before AdminAuth.
			r.Options("/events", preflight)
			r.Options("/orders/{orderID}", preflight)

			r.Get("/events", eventHandlers.List)
			r.Get("/orders/{orderID}", eventHandlers.Order)
		})
	})

	return r
}

func preflight(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
