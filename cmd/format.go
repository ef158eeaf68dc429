package cmd

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/llehouerou/reel/internal/tmdb"
)

const (
	lineWidth  = 72
	titleWidth = 48
)

func pageSummary(result tmdb.ResultPage) string {
	count := humanize.Comma(int64(result.TotalResults)) + " results"
	if result.TotalResults == 1 {
		count = "1 result"
	}
	return fmt.Sprintf("%s, page %d of %d", count, result.Page, max(result.TotalPages, 1))
}

// resultLine renders "id  title (year)  rating" with the title column
// padded to a fixed display width.
func resultLine(item tmdb.Item) string {
	title := item.DisplayTitle()
	if y := item.Year(); y > 0 {
		title += " (" + strconv.Itoa(y) + ")"
	}
	title = runewidth.FillRight(runewidth.Truncate(title, titleWidth, "…"), titleWidth)

	rating := ""
	if item.VoteAverage > 0 {
		rating = fmt.Sprintf("★ %.1f", item.VoteAverage)
	}
	return fmt.Sprintf("%8d  %s  %s", item.ID, title, rating)
}

func detailHeading(d *tmdb.Detail) string {
	date := d.ReleaseDate
	if d.Kind == tmdb.KindTV {
		date = d.FirstAirDate
	}
	if len(date) >= 4 {
		return fmt.Sprintf("%s (%s)", d.DisplayTitle(), date[:4])
	}
	return d.DisplayTitle()
}

func runtimeLabel(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}

func ratingLabel(average float64, votes int) string {
	return fmt.Sprintf("%.1f/10 from %s votes", average, humanize.Comma(int64(votes)))
}

func wrap(text string) string {
	return lipgloss.NewStyle().Width(lineWidth).Render(text)
}
