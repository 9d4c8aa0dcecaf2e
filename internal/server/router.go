package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// routes builds the HTTP router.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	h := &handlers{store: s.store, metrics: s.metrics}

	r.Use(middleware.RequestID)
	if s.cfg.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger)
	r.Use(s.metrics.Instrument)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		if s.cfg.RateLimit > 0 {
			r.Use(NewRateLimiter(s.cfg.RateLimit, s.cfg.Burst).Middleware)
		}

		r.Get("/categories", h.listCategories)

		r.Route("/markets", func(r chi.Router) {
			r.Get("/category/{id}", h.listVenues)
			r.Get("/{id}", h.getVenue)
		})

		r.Post("/coupons/{id}", h.redeemCoupon)
	})

	return r
}
