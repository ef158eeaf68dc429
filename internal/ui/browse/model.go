// Package browse is the search screen: a search field, a Movies/TV switch
// and one page of results at a time.
package browse

import (
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/llehouerou/reel/internal/keymap"
	"github.com/llehouerou/reel/internal/searchctl"
	"github.com/llehouerou/reel/internal/tmdb"
	"github.com/llehouerou/reel/internal/ui"
	listcursor "github.com/llehouerou/reel/internal/ui/cursor"
	"github.com/llehouerou/reel/internal/ui/styles"
)

const scrollMargin = 2

// Options configures the search screen.
type Options struct {
	QuietWindow time.Duration
	Kind        tmdb.Kind
	Logger      *zerolog.Logger
	// OnSession is called whenever the kind or the committed term changes.
	OnSession func(kind tmdb.Kind, term string)
}

// Model is the search screen.
type Model struct {
	ui.Base

	ctl   *searchctl.Controller
	state searchctl.State
	keys  *keymap.Resolver

	input   textinput.Model
	spinner spinner.Model
	pager   paginator.Model
	help    help.Model
	cursor  listcursor.Cursor

	showHelp  bool
	spinning  bool
	startSpin bool

	onSession   func(kind tmdb.Kind, term string)
	sessionKind tmdb.Kind
	sessionTerm string
}

// New creates the search screen over gw.
func New(gw searchctl.Gateway, opts Options) *Model {
	t := styles.T()

	input := textinput.New()
	input.Placeholder = "Search titles…"
	input.Prompt = "› "
	input.PromptStyle = t.S().Title
	input.CharLimit = 200
	input.Cursor.SetMode(cursor.CursorStatic)
	input.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = t.S().Muted

	pager := paginator.New()
	pager.Type = paginator.Dots
	pager.ActiveDot = t.S().Title.Render("•")
	pager.InactiveDot = t.S().Subtle.Render("•")

	m := &Model{
		keys:        keymap.Default(),
		input:       input,
		spinner:     sp,
		pager:       pager,
		help:        help.New(),
		cursor:      listcursor.New(scrollMargin),
		onSession:   opts.OnSession,
		sessionKind: opts.Kind,
	}
	m.ctl = searchctl.New(gw, searchctl.Config{
		QuietWindow: opts.QuietWindow,
		Kind:        opts.Kind,
		Sink:        searchctl.SinkFunc(m.publish),
		Logger:      opts.Logger,
	})
	return m
}

// Controller exposes the search controller driving this screen.
func (m *Model) Controller() *searchctl.Controller {
	return m.ctl
}

// State returns the last published search state.
func (m *Model) State() searchctl.State {
	return m.state
}

// Selected returns the highlighted result.
func (m *Model) Selected() (tmdb.Item, bool) {
	if len(m.state.Results) == 0 {
		return tmdb.Item{}, false
	}
	return m.state.Results[m.cursor.Pos()], true
}

func (m *Model) Init() tea.Cmd {
	return nil
}

// Restore puts a previous session back: kind and term, with the term
// searched as if it had just been typed.
func (m *Model) Restore(kind tmdb.Kind, term string) tea.Cmd {
	m.input.SetValue(term)
	m.input.CursorEnd()
	m.sessionKind, m.sessionTerm = kind, term
	return m.ctl.Restore(kind, term)
}

// SetSize sets the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.Base.SetSize(width, height)
	m.input.Width = max(width-6, 10)
	m.help.Width = width
	m.cursor.Fit(len(m.state.Results), m.listHeight())
}

func (m *Model) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd = m.handleKey(msg)
	case spinner.TickMsg:
		if !m.spinning {
			return nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
	case searchctl.IntentTimeoutMsg, searchctl.ResultMsg:
		cmd = m.ctl.Update(msg)
	default:
		m.input, cmd = m.input.Update(msg)
	}
	return tea.Batch(cmd, m.spinCmd())
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	action := m.keys.ResolveKey(msg)

	if m.cursor.HandleAction(action, len(m.state.Results), m.listHeight()) {
		return nil
	}

	//nolint:exhaustive // remaining keys go to the search field
	switch action {
	case keymap.ActionHelp:
		m.showHelp = !m.showHelp
		m.cursor.Fit(len(m.state.Results), m.listHeight())
		return nil
	case keymap.ActionClearSearch:
		if m.input.Value() == "" {
			return nil
		}
		m.input.SetValue("")
		return m.ctl.OnSearchTextChanged("")
	case keymap.ActionToggleKind:
		if m.ctl.Kind() == tmdb.KindMovie {
			return m.toggleKind(1)
		}
		return m.toggleKind(0)
	case keymap.ActionKindMovie:
		return m.toggleKind(0)
	case keymap.ActionKindTV:
		return m.toggleKind(1)
	case keymap.ActionNextPage:
		return m.ctl.NextPage()
	case keymap.ActionPrevPage:
		return m.ctl.PrevPage()
	case keymap.ActionQuit:
		return nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		return tea.Batch(cmd, m.ctl.OnSearchTextChanged(after))
	}
	return cmd
}

func (m *Model) toggleKind(index int) tea.Cmd {
	cmd := m.ctl.OnKindToggled(index)
	m.input.SetValue(m.ctl.Text())
	return cmd
}

// publish receives every state change from the controller.
func (m *Model) publish(st searchctl.State) {
	if st.Loading && !m.spinning {
		m.spinning = true
		m.startSpin = true
	}
	if !st.Loading {
		m.spinning = false
	}
	if !st.Loading && !sameResults(m.state, st) {
		m.cursor.Reset()
	}
	m.state = st
	m.cursor.Fit(len(st.Results), m.listHeight())

	m.pager.TotalPages = max(st.TotalPages, 1)
	m.pager.Page = max(m.ctl.Page()-1, 0)
	if m.pager.TotalPages > maxDots {
		m.pager.Type = paginator.Arabic
	} else {
		m.pager.Type = paginator.Dots
	}

	m.saveSession()
}

func (m *Model) saveSession() {
	kind, term := m.ctl.Kind(), m.ctl.LastCommitted()
	if kind == m.sessionKind && term == m.sessionTerm {
		return
	}
	m.sessionKind, m.sessionTerm = kind, term
	if m.onSession != nil {
		m.onSession(kind, term)
	}
}

// spinCmd starts the spinner once per loading period.
func (m *Model) spinCmd() tea.Cmd {
	if !m.startSpin {
		return nil
	}
	m.startSpin = false
	return m.spinner.Tick
}

func (m *Model) listHeight() int {
	return max(m.Height()-chromeHeight-m.helpHeight()+1, 1)
}

func sameResults(a, b searchctl.State) bool {
	if len(a.Results) != len(b.Results) || a.Page != b.Page {
		return false
	}
	for i := range a.Results {
		if a.Results[i].ID != b.Results[i].ID {
			return false
		}
	}
	return true
}
