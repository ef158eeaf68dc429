// Package searchctl implements the incremental search pipeline: debounced
// search text, cancellable paginated fetches for movies or TV, and the UI
// state that always follows the latest user intent.
//
// All methods must be called from the Bubble Tea event loop. The only work
// done elsewhere is the gateway call inside the returned tea.Cmd, whose
// result comes back as a ResultMsg and is applied through Update.
package searchctl

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/llehouerou/reel/internal/errmsg"
	"github.com/llehouerou/reel/internal/tmdb"
)

// Gateway is the remote catalog search used by the controller.
type Gateway interface {
	Search(ctx context.Context, kind tmdb.Kind, term string, page int) (tmdb.ResultPage, error)
}

// Config holds controller settings. Zero values fall back to defaults.
type Config struct {
	QuietWindow time.Duration
	Kind        tmdb.Kind
	Sink        Sink
	Logger      *zerolog.Logger
}

// Controller owns the search session: current kind, page, committed term
// and the State published to the view.
type Controller struct {
	gateway  Gateway
	sink     Sink
	log      zerolog.Logger
	debounce debouncer

	kind  tmdb.Kind
	page  int
	text  string
	state State

	// generation identifies the latest RunSearch; results carrying an older
	// generation are dropped.
	generation int
	cancel     context.CancelFunc
}

// New creates a controller searching gw.
func New(gw Gateway, cfg Config) *Controller {
	quiet := cfg.QuietWindow
	if quiet <= 0 {
		quiet = DefaultQuietWindow
	}
	sink := cfg.Sink
	if sink == nil {
		sink = nopSink{}
	}
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = cfg.Logger.With().Str("component", "search").Logger()
	}
	return &Controller{
		gateway:  gw,
		sink:     sink,
		log:      log,
		debounce: debouncer{quiet: quiet},
		kind:     cfg.Kind,
		page:     1,
	}
}

// State returns the current search state.
func (c *Controller) State() State { return c.state }

// Kind returns the active result kind.
func (c *Controller) Kind() tmdb.Kind { return c.kind }

// Page returns the 1-based page of the current (or in-flight) search.
func (c *Controller) Page() int { return c.page }

// Text returns the search text as last reported by the view.
func (c *Controller) Text() string { return c.text }

// LastCommitted returns the last term that passed debouncing.
func (c *Controller) LastCommitted() string { return c.debounce.last }

// OnSearchTextChanged feeds one edit of the search field into the pipeline.
func (c *Controller) OnSearchTextChanged(text string) tea.Cmd {
	c.text = text
	return c.debounce.push(text)
}

// OnPageChanged moves to the page at a 0-based index.
func (c *Controller) OnPageChanged(index int) tea.Cmd {
	return c.GoToPage(index)
}

// OnKindToggled switches kind by index: 0 is movies, 1 is TV.
func (c *Controller) OnKindToggled(index int) tea.Cmd {
	switch index {
	case 0:
		return c.SetKind(tmdb.KindMovie)
	case 1:
		return c.SetKind(tmdb.KindTV)
	}
	return nil
}

// Restore seeds the session from a previous run: the kind is applied
// directly and the term goes through the debounced pipeline as if typed.
func (c *Controller) Restore(kind tmdb.Kind, term string) tea.Cmd {
	c.kind = kind
	return c.OnSearchTextChanged(term)
}

// Update applies pipeline messages. Other messages are ignored.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case IntentTimeoutMsg:
		return c.handleIntentTimeout(msg)
	case ResultMsg:
		c.handleResult(msg)
	}
	return nil
}

func (c *Controller) handleIntentTimeout(msg IntentTimeoutMsg) tea.Cmd {
	term, ok := c.debounce.settle(msg.Version)
	if !ok {
		return nil
	}
	c.page = 1
	return c.RunSearch(term, c.kind, 1)
}

// RunSearch starts a search, superseding any search still in flight.
// A blank term resets the state synchronously without calling the gateway.
func (c *Controller) RunSearch(term string, kind tmdb.Kind, page int) tea.Cmd {
	c.supersede()
	if page < 1 {
		page = 1
	}
	c.page = page

	if strings.TrimSpace(term) == "" {
		c.state = State{Outcome: OutcomeReset}
		c.publish()
		return nil
	}

	c.state.Loading = true
	c.publish()

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	return searchCmd(ctx, c.gateway, c.generation, kind, term, page)
}

// GoToPage re-runs the last committed term at a 0-based page index,
// bypassing the debounce.
func (c *Controller) GoToPage(index int) tea.Cmd {
	return c.RunSearch(c.debounce.last, c.kind, max(index+1, 1))
}

// NextPage advances one page when there is one.
func (c *Controller) NextPage() tea.Cmd {
	if strings.TrimSpace(c.debounce.last) == "" {
		return nil
	}
	if c.state.TotalPages > 0 && c.page >= c.state.TotalPages {
		return nil
	}
	return c.GoToPage(c.page)
}

// PrevPage goes back one page when not on the first.
func (c *Controller) PrevPage() tea.Cmd {
	if strings.TrimSpace(c.debounce.last) == "" || c.page <= 1 {
		return nil
	}
	return c.GoToPage(c.page - 2)
}

// SetKind switches the catalog. Results, text and page are reset, any
// fetch in flight is dropped, and an empty edit is fed to the pipeline so
// the debounced stream settles like a cleared search field.
func (c *Controller) SetKind(kind tmdb.Kind) tea.Cmd {
	c.kind = kind
	c.supersede()
	c.text = ""
	c.page = 1
	c.debounce.forget()
	c.state = State{Outcome: OutcomeReset}
	c.publish()
	return c.OnSearchTextChanged("")
}

func (c *Controller) handleResult(msg ResultMsg) {
	if msg.Generation != c.generation {
		c.log.Debug().
			Int("generation", msg.Generation).
			Int("current", c.generation).
			Str("term", msg.Term).
			Msg("discarding stale search result")
		return
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	if msg.Err != nil {
		c.log.Error().
			Err(msg.Err).
			Str("kind", msg.Kind.String()).
			Str("term", msg.Term).
			Int("page", msg.Page).
			Msg("search failed")
		c.state = State{
			Error:           errmsg.SearchFailed,
			Page:            msg.Page,
			SearchAttempted: true,
			Outcome:         OutcomeFailure,
		}
		c.publish()
		return
	}

	page := msg.Result.Page
	if page < 1 {
		page = msg.Page
	}
	c.state = State{
		Results:         msg.Result.Items,
		TotalResults:    msg.Result.TotalResults,
		TotalPages:      msg.Result.TotalPages,
		Page:            page,
		SearchAttempted: true,
		Outcome:         OutcomeSuccess,
	}
	c.publish()
}

// supersede invalidates the search in flight, if any.
func (c *Controller) supersede() {
	c.generation++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Controller) publish() {
	c.sink.Publish(c.state)
}

func searchCmd(ctx context.Context, gw Gateway, generation int, kind tmdb.Kind, term string, page int) tea.Cmd {
	return func() tea.Msg {
		result, err := gw.Search(ctx, kind, term, page)
		return ResultMsg{
			Generation: generation,
			Kind:       kind,
			Term:       term,
			Page:       page,
			Result:     result,
			Err:        err,
		}
	}
}
