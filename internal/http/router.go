package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/salesboard/internal/http/export"
	"github.com/MrJamesThe3rd/salesboard/internal/http/seed"
	"github.com/MrJamesThe3rd/salesboard/internal/http/transaction"
)

func New(
	allowedOrigins []string,
	transactionsV1 *transaction.Handler,
	exportV1 *export.Handler,
	seedV1 *seed.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Route("/api", func(r chi.Router) {
		transactionsV1.Routes(r)
		r.Route("/export", exportV1.Routes)

		if seedV1 != nil {
			r.Route("/seed", seedV1.Routes)
		}
	})

	return router
}
