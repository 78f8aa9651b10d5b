package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter wires the storefront API routes.
func NewRouter(cart *CartHandler, checkout *CheckoutHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(SessionMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cart.GetCart)
			r.Post("/items", cart.AddItem)
			r.Put("/items/{variantID}", cart.UpdateQuantity)
			r.Delete("/items/{variantID}", cart.RemoveItem)
			r.Post("/discount", cart.ApplyDiscount)
			r.Delete("/discount", cart.RemoveDiscount)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/quote", checkout.PreviewQuote)
			r.Get("/state", checkout.GetState)
			r.Post("/address", checkout.SubmitAddress)
			r.Post("/back", checkout.EditAddress)
			r.Post("/payment", checkout.ConfirmPayment)
		})
	})

	return r
}
