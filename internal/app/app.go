// Package app is the root Bubble Tea model: it hosts the search screen and
// connects it to session persistence.
package app

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/llehouerou/reel/internal/errmsg"
	"github.com/llehouerou/reel/internal/keymap"
	"github.com/llehouerou/reel/internal/searchctl"
	"github.com/llehouerou/reel/internal/state"
	"github.com/llehouerou/reel/internal/tmdb"
	"github.com/llehouerou/reel/internal/ui/browse"
)

// Options selects what the first screen shows.
type Options struct {
	QuietWindow time.Duration
	Kind        tmdb.Kind
	// KindSet means Kind was chosen explicitly and wins over the session.
	KindSet bool
	// Query is searched on start. When empty and Restore is set, the last
	// session's term is used instead.
	Query   string
	Restore bool
	Logger  *zerolog.Logger
}

// Model is the root application model.
type Model struct {
	Browse   *browse.Model
	StateMgr state.Interface
	ErrorMsg string
	Width    int
	Height   int

	keys    *keymap.Resolver
	initCmd tea.Cmd
}

// New creates the application model.
func New(gw searchctl.Gateway, stateMgr state.Interface, opts Options) Model {
	m := Model{
		StateMgr: stateMgr,
		keys:     keymap.Default(),
	}

	kind, term := opts.Kind, opts.Query
	if opts.Restore && strings.TrimSpace(term) == "" {
		session, err := stateMgr.GetSession()
		switch {
		case err != nil:
			m.ErrorMsg = errmsg.Format(errmsg.OpSessionLoad, err)
		case session != nil:
			if saved, ok := tmdb.ParseKind(session.Kind); ok && !opts.KindSet {
				kind = saved
			}
			term = session.Term
		}
	}

	m.Browse = browse.New(gw, browse.Options{
		QuietWindow: opts.QuietWindow,
		Kind:        kind,
		Logger:      opts.Logger,
		OnSession:   m.saveSession,
	})
	if strings.TrimSpace(term) != "" {
		m.initCmd = m.Browse.Restore(kind, term)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Browse.Init(), m.initCmd)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.resizeBrowse()
		return m, nil
	case tea.KeyMsg:
		if m.keys.ResolveKey(msg) == keymap.ActionQuit {
			return m, tea.Quit
		}
	}
	return m, m.Browse.Update(msg)
}

func (m *Model) resizeBrowse() {
	height := m.Height
	if m.ErrorMsg != "" {
		height--
	}
	m.Browse.SetSize(m.Width, height)
}
