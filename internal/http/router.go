package httpapi

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter mounts the API and, when publicDir exists, the static frontend.
func NewRouter(h *Handler, publicDir string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/products", h.ListProducts)
		r.Get("/products/{id}", h.GetProduct)
		r.Post("/checkout", h.Checkout)
	})

	if info, err := os.Stat(publicDir); err == nil && info.IsDir() {
		r.Handle("/*", http.FileServer(http.Dir(publicDir)))
	}

	return r
}
