// Package proxy implements the HTTP surface of the caching proxy: route
// wiring, the cache gate, the persistence stage and the terminal error
// handler.
package proxy

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/holonet/swapi-proxy/pkg/cache"
	"github.com/holonet/swapi-proxy/pkg/logging"
	"github.com/holonet/swapi-proxy/pkg/upstream"
)

// resourceTypes are the upstream entity collections exposed under /api.
var resourceTypes = []string{"films", "people", "planets", "species", "starships", "vehicles"}

// Server routes requests through the cache gate and fetch pipeline.
type Server struct {
	router  *chi.Mux
	store   cache.Store
	fetcher *upstream.Fetcher
	apiHost string
	logger  zerolog.Logger
}

// Options configure a Server. All fields are required except
// Development.
type Options struct {
	Store   cache.Store
	Fetcher *upstream.Fetcher

	// APIHost is the upstream base URL, used to synthesize collection
	// URLs for depagination and aggregate gathering.
	APIHost string

	// Development turns on per-request logging.
	Development bool
}

// New builds a Server with all routes wired.
func New(opts Options) *Server {
	s := &Server{
		store:   opts.Store,
		fetcher: opts.Fetcher,
		apiHost: opts.APIHost,
		logger:  logging.NewLogger("server"),
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if opts.Development {
		r.Use(chimw.Logger)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		for _, resource := range resourceTypes {
			r.Route("/"+resource, func(r chi.Router) {
				r.Get("/", s.handleCollection)
				r.Get("/{id}", s.handleResource)
			})
		}
		r.Get("/query/common-words", s.handleCommonWords)
		r.Get("/query/common-heros", s.handleCommonHeroes)
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
