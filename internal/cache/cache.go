// Package cache keeps TMDB result pages so repeated searches (paging back,
// retyping a term) are answered without a network round trip.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/llehouerou/reel/internal/tmdb"
)

const (
	// DefaultTTL is how long a cached page stays valid.
	DefaultTTL = 24 * time.Hour
	// DefaultFetchTimeout bounds a shared upstream fetch once it no longer
	// follows any caller's context.
	DefaultFetchTimeout = time.Minute
)

// Searcher is the upstream search the cache sits in front of.
type Searcher interface {
	Search(ctx context.Context, kind tmdb.Kind, term string, page int) (tmdb.ResultPage, error)
}

// Backend stores serialized result pages.
type Backend interface {
	Get(ctx context.Context, key string) (tmdb.ResultPage, bool, error)
	Set(ctx context.Context, key string, page tmdb.ResultPage, ttl time.Duration) error
	Close() error
}

// Gateway answers searches from Backend, falling back to the upstream
// Searcher on a miss. Only successful pages are stored. Backend failures
// are logged and never fail a search.
//
// Identical searches in flight share one upstream fetch. The fetch is not
// canceled with the caller that started it; each caller stops waiting when
// its own context is done.
type Gateway struct {
	next      Searcher
	backend   Backend
	ttl       time.Duration
	timeout   time.Duration
	namespace string
	log       zerolog.Logger
	group     singleflight.Group
}

// Options configures a Gateway.
type Options struct {
	TTL time.Duration
	// FetchTimeout bounds a shared upstream fetch (default: DefaultFetchTimeout).
	FetchTimeout time.Duration
	// Namespace separates pages fetched with different upstream settings,
	// such as the response language.
	Namespace string
	Logger    *zerolog.Logger
}

// New wraps next with backend.
func New(next Searcher, backend Backend, opts Options) *Gateway {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	timeout := opts.FetchTimeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = opts.Logger.With().Str("component", "cache").Logger()
	}
	return &Gateway{
		next:      next,
		backend:   backend,
		ttl:       ttl,
		timeout:   timeout,
		namespace: opts.Namespace,
		log:       log,
	}
}

// Key returns the cache key of a search. Terms differing only in case or
// whitespace share a key, so distinct committed terms such as "dune" and
// "Dune " read and write the same entry and join the same fetch. Sharing
// is intended.
func (g *Gateway) Key(kind tmdb.Kind, term string, page int) string {
	term = strings.Join(strings.Fields(strings.ToLower(term)), " ")
	if page < 1 {
		page = 1
	}
	return fmt.Sprintf("%s|%s|%d|%s", g.namespace, kind, page, term)
}

// Search implements Searcher.
func (g *Gateway) Search(ctx context.Context, kind tmdb.Kind, term string, page int) (tmdb.ResultPage, error) {
	key := g.Key(kind, term, page)

	if cached, ok, err := g.backend.Get(ctx, key); err != nil {
		g.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	} else if ok {
		g.log.Debug().Str("key", key).Msg("cache hit")
		return cached, nil
	}

	// Identical searches in flight share one upstream call, detached from
	// the caller that happened to start it.
	fetchCtx := context.WithoutCancel(ctx)
	ch := g.group.DoChan(key, func() (any, error) {
		ctx, cancel := context.WithTimeout(fetchCtx, g.timeout)
		defer cancel()

		result, err := g.next.Search(ctx, kind, term, page)
		if err != nil {
			return nil, err
		}
		if err := g.backend.Set(ctx, key, result, g.ttl); err != nil {
			g.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
		return result, nil
	})

	select {
	case <-ctx.Done():
		return tmdb.ResultPage{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return tmdb.ResultPage{}, res.Err
		}
		return res.Val.(tmdb.ResultPage), nil
	}
}

// Close closes the backend.
func (g *Gateway) Close() error {
	return g.backend.Close()
}
