package searchctl

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultQuietWindow is how long the search text must stay unchanged before
// it is committed.
const DefaultQuietWindow = 300 * time.Millisecond

// debouncer turns a stream of edits into committed terms.
// Each edit bumps version and schedules a tick for that version; only the
// tick of the latest edit can commit, and only if the text differs from the
// last committed term.
type debouncer struct {
	quiet     time.Duration
	version   int
	pending   string
	last      string
	committed bool
}

func (d *debouncer) push(text string) tea.Cmd {
	d.version++
	d.pending = text
	version := d.version
	return tea.Tick(d.quiet, func(time.Time) tea.Msg {
		return IntentTimeoutMsg{Version: version}
	})
}

// settle returns the term to commit for an elapsed quiet window, if any.
func (d *debouncer) settle(version int) (string, bool) {
	if version != d.version {
		return "", false
	}
	if d.committed && d.pending == d.last {
		return "", false
	}
	d.last = d.pending
	d.committed = true
	return d.last, true
}

// forget drops the last committed term so the next settle always commits.
func (d *debouncer) forget() {
	d.last = ""
	d.committed = false
}
