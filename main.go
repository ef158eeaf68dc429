package main

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/llehouerou/reel/cmd"
)

func main() {
	app := &cli.Command{
		Name:  "reel",
		Usage: "Search movies and TV shows on TMDB as you type",
		Flags: slices.Concat(cmd.GlobalFlags(), cmd.BrowseFlags()),
		Commands: []*cli.Command{
			cmd.SearchCommand(),
			cmd.DetailCommand(),
		},
		Action: cmd.Browse,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
