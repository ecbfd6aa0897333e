package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/billed/internal/http/auth"
	"github.com/MrJamesThe3rd/billed/internal/http/bill"
	"github.com/MrJamesThe3rd/billed/internal/http/export"
	"github.com/MrJamesThe3rd/billed/internal/http/proof"
	"github.com/MrJamesThe3rd/billed/internal/user"
)

func New(
	authV1 *auth.Handler,
	billsV1 *bill.Handler,
	exportV1 *export.Handler,
	proofs *proof.Handler,
	tokens *user.Tokens,
	allowedOrigins []string,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			authV1.Routes(r)
		})

		r.Route("/bills", func(r chi.Router) {
			r.Use(auth.Middleware(tokens))
			billsV1.Routes(r)
		})

		r.Route("/export", func(r chi.Router) {
			r.Use(auth.Middleware(tokens))
			exportV1.Routes(r)
		})
	})

	router.Route("/public", proofs.Routes)

	return router
}
