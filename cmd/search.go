package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"

	"github.com/llehouerou/reel/internal/tmdb"
)

// SearchCommand creates the search command.
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Print one page of search results",
		ArgsUsage: "<term>",
		Flags: []cli.Flag{
			kindFlagDef(),
			&cli.IntFlag{
				Name:  "page",
				Usage: "Result page (1-based)",
				Value: 1,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			term := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if term == "" {
				return errors.New("search: missing term")
			}
			kind, _, err := kindFlag(c, tmdb.KindMovie)
			if err != nil {
				return err
			}

			e, err := openEnv(ctx, c)
			if err != nil {
				return err
			}
			defer e.Close()

			return searchOnce(ctx, os.Stdout, e.catalog.Search, kind, term, c.Int("page"))
		},
	}
}

type searcher interface {
	Search(ctx context.Context, kind tmdb.Kind, term string, page int) (tmdb.ResultPage, error)
}

func searchOnce(ctx context.Context, w io.Writer, s searcher, kind tmdb.Kind, term string, page int) error {
	result, err := s.Search(ctx, kind, term, max(page, 1))
	if err != nil {
		return errors.Wrapf(err, "search %s", kind.Label())
	}
	writeResults(w, kind, term, result)
	return nil
}

func writeResults(w io.Writer, kind tmdb.Kind, term string, result tmdb.ResultPage) {
	if len(result.Items) == 0 {
		fmt.Fprintf(w, "No %s results for %q\n", kindNoun(kind), term)
		return
	}
	fmt.Fprintf(w, "%s matching %q: %s\n\n", kind.Label(), term, pageSummary(result))
	for _, item := range result.Items {
		fmt.Fprintln(w, resultLine(item))
	}
}

func kindNoun(kind tmdb.Kind) string {
	if kind == tmdb.KindTV {
		return "TV"
	}
	return "movie"
}
