package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
)

// GetRouter initialises a new http router and applies all routes
func GetRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	return applyRoutes(r, h)
}

func applyRoutes(r chi.Router, h *Handler) chi.Router {
	r.Get("/healthz", h.getHealth)
	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/sheets/parse-link", h.parseLink)

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.getOrders)
			r.Get("/cached", h.getCachedOrders)
			r.Get("/export", h.exportOrders)
			r.Put("/{rowId}", h.updateOrder)
			r.Get("/{rowId}/message", h.getOrderMessage)
		})

		r.Route("/stats", func(r chi.Router) {
			r.Get("/daily", h.getDailyStats)
			r.Get("/summary", h.getSummary)
		})
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.WithFields(log.Fields{
			"request": middleware.GetReqID(r.Context()),
			"method":  r.Method,
			"path":    r.URL.Path,
			"status":  ww.Status(),
			"took":    time.Since(start),
		}).Debug("Handled request")
	})
}
