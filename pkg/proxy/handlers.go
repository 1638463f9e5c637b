package proxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/holonet/swapi-proxy/pkg/cache"
	"github.com/holonet/swapi-proxy/pkg/query"
	"github.com/holonet/swapi-proxy/pkg/upstream"
)

// serveFromCache is the cache gate: on a hit it responds with the
// stored body verbatim and reports true, short-circuiting the request.
// A store failure is fatal (reported true with a 500 written); it is
// never treated as a miss.
func (s *Server) serveFromCache(w http.ResponseWriter, r *http.Request, key string) bool {
	s.logger.Debug().Str("key", key).Msg("checking cache")

	cached, err := s.store.Get(r.Context(), key)
	switch {
	case err == nil:
		s.logger.Info().Str("key", key).Msg("cache hit")
		writeJSONString(w, cached)
		return true
	case errors.Is(err, cache.ErrCacheMiss):
		return false
	default:
		writeError(w, s.logger, fmt.Errorf("cache lookup for %s: %w", key, err))
		return true
	}
}

// persist writes each pipeline resource into the cache, only if its key
// is still absent: a concurrent request may have populated it since the
// gate's initial check. The response has already been sent, so failures
// are logged rather than surfaced.
func (s *Server) persist(ctx context.Context, resources []Resource) {
	for _, res := range resources {
		value, err := marshalValue(res.Value)
		if err != nil {
			s.logger.Error().Err(err).Str("key", res.Key).Msg("serializing resource for cache failed")
			continue
		}
		s.logger.Info().Str("key", res.Key).Msg("persisting resource")
		if err := s.store.Set(ctx, res.Key, value, false); err != nil {
			s.logger.Error().Err(err).Str("key", res.Key).Msg("persisting resource failed")
		}
	}
}

// handleResource proxies a single upstream entity.
func (s *Server) handleResource(w http.ResponseWriter, r *http.Request) {
	key := cache.RequestKey(r)
	if s.serveFromCache(w, r, key) {
		return
	}

	body, err := s.fetcher.FetchResource(r.Context(), key)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	writeJSONString(w, string(body))
	s.persist(r.Context(), []Resource{{Key: key, Value: body}})
}

// handleCollection serves a collection endpoint. A request carrying
// query parameters passes through as one upstream fetch; the bare
// collection path is depaginated in full.
func (s *Server) handleCollection(w http.ResponseWriter, r *http.Request) {
	key := cache.RequestKey(r)
	if s.serveFromCache(w, r, key) {
		return
	}

	if r.URL.RawQuery != "" {
		body, err := s.fetcher.FetchResource(r.Context(), key)
		if err != nil {
			writeError(w, s.logger, err)
			return
		}
		writeJSONString(w, string(body))
		s.persist(r.Context(), []Resource{{Key: key, Value: body}})
		return
	}

	collection, err := s.fetcher.Depaginate(r.Context(), s.apiHost+r.URL.Path)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	if !s.writeJSON(w, collection) {
		return
	}
	s.persist(r.Context(), []Resource{{Key: key, Value: collection}})
}

// handleCommonWords serves the word-frequency aggregate over all films.
func (s *Server) handleCommonWords(w http.ResponseWriter, r *http.Request) {
	key := cache.RequestKey(r)
	if s.serveFromCache(w, r, key) {
		return
	}

	gathered, err := s.fetcher.Gather(r.Context(), []string{s.apiHost + "/api/films"})
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	films, ok := findCollection(gathered, "/api/films")
	if !ok {
		writeError(w, s.logger, &Error{
			StatusCode: http.StatusInternalServerError,
			Message:    "can't find films resources for common words query",
		})
		return
	}

	words, err := query.CommonWords(films)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	if !s.writeJSON(w, words) {
		return
	}
	s.persist(r.Context(), []Resource{{Key: key, Value: words}})
}

// handleCommonHeroes serves the hero cross-reference aggregate over
// films and people.
func (s *Server) handleCommonHeroes(w http.ResponseWriter, r *http.Request) {
	key := cache.RequestKey(r)
	if s.serveFromCache(w, r, key) {
		return
	}

	gathered, err := s.fetcher.Gather(r.Context(), []string{
		s.apiHost + "/api/films",
		s.apiHost + "/api/people",
	})
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	if len(gathered) < 2 {
		writeError(w, s.logger, &Error{
			StatusCode: http.StatusInternalServerError,
			Message:    "can't find all resources for querying common heros",
		})
		return
	}

	// The gather runs concurrently, so collections are identified by
	// key, never by slice position.
	films, filmsOK := findCollection(gathered, "/api/films")
	people, peopleOK := findCollection(gathered, "/api/people")
	if !filmsOK || !peopleOK {
		writeError(w, s.logger, &Error{
			StatusCode: http.StatusInternalServerError,
			Message:    "can't find all resources for querying common heros",
		})
		return
	}

	heroes, err := query.CommonHeroes(films, people)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	if !s.writeJSON(w, heroes) {
		return
	}
	s.persist(r.Context(), []Resource{{Key: key, Value: heroes}})
}

func findCollection(gathered []upstream.KeyedCollection, key string) (upstream.Collection, bool) {
	for _, kc := range gathered {
		if kc.Key == key {
			return kc.Collection, true
		}
	}
	return upstream.Collection{}, false
}

func writeJSONString(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, body)
}

// writeJSON marshals and sends v, reporting false when serialization
// failed and an error response was written instead.
func (s *Server) writeJSON(w http.ResponseWriter, v any) bool {
	body, err := json.Marshal(v)
	if err != nil {
		writeError(w, s.logger, fmt.Errorf("serialize response: %w", err))
		return false
	}
	writeJSONString(w, string(body))
	return true
}
