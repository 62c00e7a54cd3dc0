package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrJamesThe3rd/comanda/internal/http/client"
	"github.com/MrJamesThe3rd/comanda/internal/http/maintenance"
	"github.com/MrJamesThe3rd/comanda/internal/http/revenue"
	"github.com/MrJamesThe3rd/comanda/internal/http/ticket"
)

func New(
	allowedOrigins []string,
	ticketsV1 *ticket.Handler,
	clientsV1 *client.Handler,
	revenueV1 *revenue.Handler,
	maintenanceV1 *maintenance.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/tickets", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			ticketsV1.Routes(r)
		})

		r.Route("/clients", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			clientsV1.Routes(r)
		})

		r.Route("/revenue", revenueV1.Routes)

		r.Route("/maintenance", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			maintenanceV1.Routes(r)
		})
	})

	return router
}
