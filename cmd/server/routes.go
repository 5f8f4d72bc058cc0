package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func (app *Application) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(
		app.recoverer,
		app.requestID,
		app.logRequests,
		chimw.NoCache,
	)

	r.Get("/healthz", app.healthHandler)
	r.Method(http.MethodGet, "/metrics", app.Metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", app.categoriesHandler)
		r.Get("/products", app.productsHandler)
		r.Get("/products/{id}", app.productHandler)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", app.viewCartHandler)
			r.Post("/add", app.addToCartHandler)
			r.Post("/update", app.updateCartHandler)
			r.Post("/remove", app.removeFromCartHandler)
			r.Post("/reset", app.resetCartHandler)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", app.beginCheckoutHandler)
			r.Post("/back", app.checkoutBackHandler)
			r.Post("/details", app.detailsHandler)
			r.Post("/pay", app.payHandler)
			r.Post("/result", app.paymentResultHandler)
		})
	})

	return r
}
