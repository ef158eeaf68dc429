package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"

	"github.com/llehouerou/reel/internal/errmsg"
	"github.com/llehouerou/reel/internal/tmdb"
)

// DetailCommand creates the detail command.
func DetailCommand() *cli.Command {
	return &cli.Command{
		Name:      "detail",
		Usage:     "Print the full record of a movie or TV show",
		ArgsUsage: "<tmdb id>",
		Flags: []cli.Flag{
			kindFlagDef(),
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := strconv.ParseInt(c.Args().First(), 10, 64)
			if err != nil || id <= 0 {
				return errors.Errorf("detail: invalid id %q", c.Args().First())
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

			return showDetail(ctx, os.Stdout, e.catalog.Client, kind, id)
		},
	}
}

type imageLinker interface {
	ImageURL(path *string) string
}

type detailFetcher interface {
	imageLinker
	FetchDetail(ctx context.Context, kind tmdb.Kind, id int64) (*tmdb.Detail, error)
}

func showDetail(ctx context.Context, w io.Writer, f detailFetcher, kind tmdb.Kind, id int64) error {
	d, err := f.FetchDetail(ctx, kind, id)
	if err != nil {
		return errors.New(errmsg.FormatWith(errmsg.OpDetailFetch, fmt.Sprintf("%s %d", kind, id), err))
	}
	writeDetail(w, f, d)
	return nil
}

func writeDetail(w io.Writer, images imageLinker, d *tmdb.Detail) {
	fmt.Fprintln(w, detailHeading(d))
	if d.Tagline != nil && *d.Tagline != "" {
		fmt.Fprintf(w, "%q\n", *d.Tagline)
	}
	fmt.Fprintln(w)

	var facts []string
	if len(d.Genres) > 0 {
		names := make([]string, len(d.Genres))
		for i, g := range d.Genres {
			names[i] = g.Name
		}
		facts = append(facts, "Genres:  "+strings.Join(names, ", "))
	}
	switch d.Kind {
	case tmdb.KindTV:
		if d.NumberOfSeasons > 0 {
			facts = append(facts, fmt.Sprintf("Seasons: %d (%d episodes)", d.NumberOfSeasons, d.NumberOfEpisodes))
		}
	default:
		if d.Runtime > 0 {
			facts = append(facts, "Runtime: "+runtimeLabel(d.Runtime))
		}
	}
	if d.VoteCount > 0 {
		facts = append(facts, fmt.Sprintf("Rating:  %s", ratingLabel(d.VoteAverage, d.VoteCount)))
	}
	if d.PosterPath != nil {
		facts = append(facts, "Poster:  "+images.ImageURL(d.PosterPath))
	}
	if d.Homepage != nil && *d.Homepage != "" {
		facts = append(facts, "Web:     "+*d.Homepage)
	}
	for _, f := range facts {
		fmt.Fprintln(w, f)
	}

	if d.Overview != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, wrap(d.Overview))
	}
}
