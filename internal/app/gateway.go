package app

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/llehouerou/reel/internal/cache"
	"github.com/llehouerou/reel/internal/config"
	"github.com/llehouerou/reel/internal/searchctl"
	"github.com/llehouerou/reel/internal/tmdb"
)

// Catalog is the TMDB client plus the search path the UI uses, which may
// go through the page cache.
type Catalog struct {
	Client *tmdb.Client
	Search searchctl.Gateway

	cache *cache.Gateway
}

// CatalogOptions configures NewCatalog.
type CatalogOptions struct {
	// NoCache bypasses the configured cache backend.
	NoCache bool
	// DB backs the sqlite cache. It is required for that backend only.
	DB     *sql.DB
	Logger *zerolog.Logger
}

// NewCatalog builds the TMDB client from cfg and puts the configured cache
// backend in front of it.
func NewCatalog(ctx context.Context, cfg *config.Config, opts CatalogOptions) (*Catalog, error) {
	client := tmdb.NewClient(tmdb.Config{
		APIKey:       cfg.TMDB.APIKey,
		BaseURL:      cfg.TMDB.BaseURL,
		ImageBaseURL: cfg.TMDB.ImageBaseURL,
		Language:     cfg.TMDB.Language,
		IncludeAdult: cfg.TMDB.IncludeAdult,
		Timeout:      cfg.TMDB.Timeout,
	})
	c := &Catalog{Client: client, Search: client}

	cacheCfg := cfg.GetCacheConfig()
	if opts.NoCache || cacheCfg.Backend == "none" {
		return c, nil
	}

	backend, err := openBackend(ctx, cacheCfg, opts.DB)
	if err != nil {
		return nil, err
	}
	c.cache = cache.New(client, backend, cache.Options{
		TTL:       cacheCfg.TTL,
		Namespace: client.Language(),
		Logger:    opts.Logger,
	})
	c.Search = c.cache
	return c, nil
}

func openBackend(ctx context.Context, cfg config.CacheConfig, db *sql.DB) (cache.Backend, error) {
	switch cfg.Backend {
	case "redis":
		return cache.NewRedis(ctx, cfg.RedisURL)
	case "sqlite":
		if db == nil {
			return nil, errors.New("sqlite cache needs the session database")
		}
		return cache.NewSQLite(db)
	}
	return nil, errors.Errorf("unknown cache backend %q", cfg.Backend)
}

// Close releases the cache backend, if any.
func (c *Catalog) Close() error {
	if c.cache == nil {
		return nil
	}
	return c.cache.Close()
}
