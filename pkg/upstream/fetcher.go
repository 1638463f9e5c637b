// Package upstream fetches resources from the proxied API, resolves
// pagination cursor chains into single unpaginated collections, and
// caches every page it walks along the way.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/holonet/swapi-proxy/pkg/cache"
	"github.com/holonet/swapi-proxy/pkg/logging"
	"github.com/holonet/swapi-proxy/pkg/rewrite"
)

// defaultTimeout bounds every upstream call; a hung upstream must not
// block a request task forever.
const defaultTimeout = 30 * time.Second

// Fetcher performs upstream GETs with host rewriting and per-page
// caching. A single Fetcher is shared by all request tasks.
type Fetcher struct {
	httpClient *http.Client
	store      cache.Store
	rewriter   *rewrite.Rewriter
	host       string
	logger     zerolog.Logger
}

// New creates a Fetcher for the upstream API at host.
func New(host string, store cache.Store, rewriter *rewrite.Rewriter) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		store:    store,
		rewriter: rewriter,
		host:     host,
		logger:   logging.NewLogger("upstream"),
	}
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (f *Fetcher) SetHTTPClient(client *http.Client) {
	f.httpClient = client
}

// FetchResource fetches a single upstream resource addressed by the
// inbound request's canonical path (including any query string) and
// rewrites embedded host references. Non-success upstream status is
// fatal and carries the failing URL; it is not retried.
func (f *Fetcher) FetchResource(ctx context.Context, canonicalPath string) (json.RawMessage, error) {
	url := f.host + canonicalPath
	f.logger.Info().Str("url", url).Msg("fetching data from upstream")

	body, status, err := f.get(ctx, url)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &StatusError{URL: url, StatusCode: status}
	}

	return f.rewriter.ToExternal(body), nil
}

// Depaginate walks the page cursor chain of the collection endpoint at
// collectionURL, starting from page 1, and returns one collection
// holding every page's results in upstream order. Each page is looked
// up in the cache first; pages fetched from upstream are cached under
// their cursor key so later walks of the same collection resume from
// cache. Concurrent depaginations of one collection converge on the
// same page keys.
func (f *Fetcher) Depaginate(ctx context.Context, collectionURL string) (Collection, error) {
	cursor := collectionURL + "/?page=1"
	var results []json.RawMessage

	for cursor != "" {
		key := cache.CursorKey(cursor, f.host)

		cached, err := f.store.Get(ctx, key)
		switch {
		case err == nil:
			f.logger.Info().Str("key", key).Msg("page already cached, appending results")
			pagesDepaginated.WithLabelValues("cache").Inc()

			var page Collection
			if err := json.Unmarshal([]byte(cached), &page); err != nil {
				return Collection{}, fmt.Errorf("parse cached page %s: %w", key, err)
			}
			results = append(results, page.Results...)

			// Cached pages hold externally rewritten links, so the
			// next cursor must be converted back to upstream form.
			if page.Next == nil {
				cursor = ""
			} else {
				cursor = f.rewriter.ToUpstream(*page.Next)
			}

		case errors.Is(err, cache.ErrCacheMiss):
			f.logger.Info().Str("url", cursor).Msg("fetching page from upstream")

			body, status, err := f.get(ctx, cursor)
			if err != nil {
				return Collection{}, err
			}
			if status != http.StatusOK {
				return Collection{}, &StatusError{URL: cursor, StatusCode: status}
			}
			pagesDepaginated.WithLabelValues("upstream").Inc()

			// The next cursor comes from the raw upstream payload,
			// before any rewriting.
			var upstreamPage Collection
			if err := json.Unmarshal(body, &upstreamPage); err != nil {
				return Collection{}, fmt.Errorf("parse page %s: %w", cursor, err)
			}

			rewritten := f.rewriter.ToExternal(body)
			var page Collection
			if err := json.Unmarshal(rewritten, &page); err != nil {
				return Collection{}, fmt.Errorf("parse rewritten page %s: %w", cursor, err)
			}

			// The miss above already proved the key absent, so the
			// write skips the redundant existence check.
			if err := f.store.Set(ctx, key, string(rewritten), true); err != nil {
				return Collection{}, err
			}

			results = append(results, page.Results...)

			if upstreamPage.Next == nil {
				cursor = ""
			} else {
				cursor = *upstreamPage.Next
			}

		default:
			// Store unreachable is not a miss; fail the request.
			return Collection{}, fmt.Errorf("cache lookup for %s: %w", key, err)
		}
	}

	return Collection{Count: len(results), Results: results}, nil
}

// Gather depaginates every collection URL concurrently and returns the
// results keyed by each URL's host-stripped form. All fetches complete
// before Gather returns; the first failure aborts the batch and its
// partial results are discarded.
func (f *Fetcher) Gather(ctx context.Context, urls []string) ([]KeyedCollection, error) {
	gathered := make([]KeyedCollection, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	for i, url := range urls {
		g.Go(func() error {
			f.logger.Info().Str("url", url).Msg("gathering collection")
			collection, err := f.Depaginate(gctx, url)
			if err != nil {
				return err
			}
			gathered[i] = KeyedCollection{
				Key:        cache.CursorKey(url, f.host),
				Collection: collection,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return gathered, nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := f.httpClient.Do(req)
	upstreamRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		upstreamRequestsTotal.WithLabelValues("network_error").Inc()
		return nil, 0, fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()
	upstreamRequestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response from %s: %w", url, err)
	}

	return body, resp.StatusCode, nil
}
