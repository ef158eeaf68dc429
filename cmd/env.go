// Package cmd holds the command line entry points.
package cmd

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/llehouerou/reel/internal/app"
	"github.com/llehouerou/reel/internal/config"
	"github.com/llehouerou/reel/internal/errmsg"
	"github.com/llehouerou/reel/internal/logging"
	"github.com/llehouerou/reel/internal/state"
	"github.com/llehouerou/reel/internal/tmdb"
)

// ErrNoAPIKey is returned when no TMDB API key is configured.
var ErrNoAPIKey = errors.New("no TMDB API key: set tmdb.api_key in config.toml or TMDB_API_KEY")

// GlobalFlags are accepted by every command.
func GlobalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "Configuration file path (default: ~/.config/reel/config.toml, then ./config.toml)",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn or error",
		},
		&cli.BoolFlag{
			Name:  "no-cache",
			Usage: "Always query TMDB, bypassing the page cache",
		},
	}
}

// env is everything a command needs, opened from the global flags.
type env struct {
	cfg     *config.Config
	log     zerolog.Logger
	state   *state.Manager
	catalog *app.Catalog
	closers []io.Closer
}

func openEnv(ctx context.Context, c *cli.Command) (*env, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, errors.Wrap(err, string(errmsg.OpConfigLoad))
	}
	if !cfg.HasTMDBConfig() {
		return nil, ErrNoAPIKey
	}

	e := &env{cfg: cfg}

	logCfg := cfg.GetLogConfig()
	level := logCfg.Level
	if c.IsSet("log-level") {
		level = c.String("log-level")
	}
	logger, logFile, err := logging.Open(logCfg.File, level)
	if err != nil {
		return nil, errors.Wrap(err, string(errmsg.OpLogOpen))
	}
	e.log = logger
	e.closers = append(e.closers, logFile)

	e.state, err = state.Open()
	if err != nil {
		e.Close()
		return nil, errors.Wrap(err, string(errmsg.OpStateOpen))
	}
	e.state.SetLogger(e.log)
	e.closers = append(e.closers, e.state)

	e.catalog, err = app.NewCatalog(ctx, cfg, app.CatalogOptions{
		NoCache: c.Bool("no-cache"),
		DB:      e.state.DB(),
		Logger:  &e.log,
	})
	if err != nil {
		e.Close()
		return nil, errors.Wrap(err, string(errmsg.OpCacheOpen))
	}
	e.closers = append(e.closers, e.catalog)

	e.log.Debug().
		Str("cache", cfg.GetCacheConfig().Backend).
		Bool("no_cache", c.Bool("no-cache")).
		Msg("started")
	return e, nil
}

// Close releases resources in reverse opening order.
func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i].Close(); err != nil {
			e.log.Warn().Err(err).Msg("close failed")
		}
	}
	e.closers = nil
}

// kindFlag resolves the --kind flag, falling back to def when unset.
func kindFlag(c *cli.Command, def tmdb.Kind) (tmdb.Kind, bool, error) {
	if !c.IsSet("kind") {
		return def, false, nil
	}
	kind, ok := tmdb.ParseKind(c.String("kind"))
	if !ok {
		return def, false, errors.Errorf("invalid kind %q: want movie or tv", c.String("kind"))
	}
	return kind, true, nil
}

func kindFlagDef() cli.Flag {
	return &cli.StringFlag{
		Name:  "kind",
		Usage: "Catalog to search: movie or tv",
	}
}
