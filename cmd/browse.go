package cmd

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/llehouerou/reel/internal/app"
	"github.com/llehouerou/reel/internal/tmdb"
)

// BrowseFlags are the flags of the interactive browser, which is the root
// command's action.
func BrowseFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "kind",
			Usage: "Catalog shown on start: movie or tv",
			Local: true,
		},
		&cli.StringFlag{
			Name:  "query",
			Usage: "Search this term on start instead of restoring the last session",
			Local: true,
		},
	}
}

// Browse runs the interactive search screen.
func Browse(ctx context.Context, c *cli.Command) error {
	e, err := openEnv(ctx, c)
	if err != nil {
		return err
	}
	defer e.Close()

	searchCfg := e.cfg.GetSearchConfig()
	def, _ := tmdb.ParseKind(searchCfg.DefaultKind)
	kind, kindSet, err := kindFlag(c, def)
	if err != nil {
		return err
	}

	model := app.New(e.catalog.Search, e.state, app.Options{
		QuietWindow: searchCfg.Debounce,
		Kind:        kind,
		KindSet:     kindSet,
		Query:       c.String("query"),
		Restore:     *searchCfg.Restore,
		Logger:      &e.log,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
