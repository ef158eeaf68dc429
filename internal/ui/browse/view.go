package browse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/llehouerou/reel/internal/keymap"
	"github.com/llehouerou/reel/internal/tmdb"
	"github.com/llehouerou/reel/internal/ui/styles"
)

const (
	// chromeHeight is every line that is not a result row: header, input,
	// status, two separators, overview, pager and one line of help.
	chromeHeight = 8

	// maxDots is the page count above which the pager shows "n/total".
	maxDots = 10
)

func (m *Model) View() string {
	t := styles.T()
	width := max(m.Width(), 20)

	lines := []string{
		m.renderHeader(),
		m.renderInput(),
		m.renderStatus(),
		t.S().Separator.Render(strings.Repeat("─", width)),
	}
	lines = append(lines, m.renderResults(width)...)
	lines = append(lines,
		t.S().Separator.Render(strings.Repeat("─", width)),
		m.renderOverview(width),
		m.renderPager(),
		m.renderHelp(),
	)
	return strings.Join(lines, "\n")
}

func (m *Model) renderHeader() string {
	t := styles.T()
	tabs := make([]string, 0, 2)
	for _, kind := range []tmdb.Kind{tmdb.KindMovie, tmdb.KindTV} {
		if kind == m.ctl.Kind() {
			tabs = append(tabs, t.S().TabActive.Render(kind.Label()))
		} else {
			tabs = append(tabs, t.S().TabInactive.Render(kind.Label()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, t.Banner("reel"), "  ", strings.Join(tabs, ""))
}

func (m *Model) renderInput() string {
	view := m.input.View()
	if m.state.Loading {
		view += " " + m.spinner.View()
	}
	return view
}

func (m *Model) renderStatus() string {
	t := styles.T()
	st := m.state

	switch {
	case st.HasError():
		return t.S().Error.Render(st.Error)
	case st.Loading && len(st.Results) == 0:
		return t.S().Muted.Render("Searching…")
	case st.NoMatches():
		return t.S().Muted.Render(fmt.Sprintf("No results for %q", strings.TrimSpace(m.ctl.LastCommitted())))
	case len(st.Results) > 0:
		return t.S().Muted.Render(fmt.Sprintf("%s · page %d of %d",
			countLabel(st.TotalResults), max(st.Page, 1), max(st.TotalPages, 1)))
	}

	if m.ctl.Kind() == tmdb.KindTV {
		return t.S().Subtle.Render("Type to search TV shows")
	}
	return t.S().Subtle.Render("Type to search movies")
}

// renderResults always returns listHeight lines so the footer stays put.
func (m *Model) renderResults(width int) []string {
	height := m.listHeight()
	lines := make([]string, 0, height)

	start, end := m.cursor.VisibleRange(len(m.state.Results), height)
	for i := start; i < end; i++ {
		lines = append(lines, m.renderItem(m.state.Results[i], width, i == m.cursor.Pos()))
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return lines
}

func (m *Model) renderItem(item tmdb.Item, width int, selected bool) string {
	t := styles.T()

	year := ""
	if y := item.Year(); y > 0 {
		year = " (" + strconv.Itoa(y) + ")"
	}
	rating := ""
	if item.VoteAverage > 0 {
		rating = fmt.Sprintf("★ %.1f", item.VoteAverage)
	}

	titleWidth := max(width-2-runewidth.StringWidth(year)-runewidth.StringWidth(rating)-1, 1)
	title := runewidth.Truncate(item.DisplayTitle(), titleWidth, "…")
	pad := max(width-2-runewidth.StringWidth(title)-runewidth.StringWidth(year)-runewidth.StringWidth(rating), 1)

	marker := "  "
	titleStyle := t.S().Base
	if selected {
		marker = lipgloss.NewStyle().Foreground(t.Primary).Render("› ")
		titleStyle = t.S().Cursor.Bold(true)
	}

	return marker +
		titleStyle.Render(title) +
		t.S().Muted.Render(year) +
		strings.Repeat(" ", pad) +
		lipgloss.NewStyle().Foreground(t.RatingColor(item.VoteAverage)).Render(rating)
}

func (m *Model) renderOverview(width int) string {
	item, ok := m.Selected()
	if !ok || item.Overview == "" {
		return ""
	}
	overview := strings.Join(strings.Fields(item.Overview), " ")
	return styles.T().S().Subtle.Render(runewidth.Truncate(overview, width, "…"))
}

func (m *Model) renderPager() string {
	if len(m.state.Results) == 0 || m.state.TotalPages <= 1 {
		return ""
	}
	return m.pager.View()
}

var helpContexts = []string{"search", "results", "global"}

func (m *Model) renderHelp() string {
	if !m.showHelp {
		return m.help.ShortHelpView(keymap.HelpBindings(keymap.ByContext("global")))
	}
	groups := make([][]key.Binding, 0, len(helpContexts))
	for _, ctx := range helpContexts {
		groups = append(groups, keymap.HelpBindings(keymap.ByContext(ctx)))
	}
	return m.help.FullHelpView(groups)
}

// helpHeight is the number of lines renderHelp takes.
func (m *Model) helpHeight() int {
	if !m.showHelp {
		return 1
	}
	lines := 1
	for _, ctx := range helpContexts {
		lines = max(lines, len(keymap.ByContext(ctx)))
	}
	return lines
}

// countLabel formats a result count as "1 result" or "1,234 results".
func countLabel(n int) string {
	if n == 1 {
		return "1 result"
	}
	return humanize.Comma(int64(n)) + " results"
}
