package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/georgemunganga/shophub/internal/session"
)

// RouteRegistrar is implemented by every module handler.
type RouteRegistrar interface {
	RegisterRoutes(r chi.Router)
}

// Deps holds what the router needs besides the module handlers.
type Deps struct {
	Log      logrus.FieldLogger
	Sessions *session.Codec
	Registry *prometheus.Registry
}

// NewRouter builds the HTTP router. Module routes live behind the session
// middleware; /healthz and /metrics do not need a session.
func NewRouter(deps Deps, handlers ...RouteRegistrar) (http.Handler, error) {
	m, err := newMetrics(deps.Registry)
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(deps.Log))
	router.Use(middleware.Recoverer)
	router.Use(m.middleware)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))

	router.Group(func(r chi.Router) {
		r.Use(deps.Sessions.Middleware(deps.Log))
		for _, h := range handlers {
			h.RegisterRoutes(r)
		}
	})
	return router, nil
}
