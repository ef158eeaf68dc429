package searchctl

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/reel/internal/errmsg"
	"github.com/llehouerou/reel/internal/tmdb"
)

type searchCall struct {
	ctx  context.Context
	kind tmdb.Kind
	term string
	page int
}

// fakeGateway answers from canned pages. Commands are executed by the test
// itself, so no locking is needed.
type fakeGateway struct {
	calls []searchCall
	pages map[string]tmdb.ResultPage
	errs  map[string]error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		pages: make(map[string]tmdb.ResultPage),
		errs:  make(map[string]error),
	}
}

func (g *fakeGateway) Search(ctx context.Context, kind tmdb.Kind, term string, page int) (tmdb.ResultPage, error) {
	g.calls = append(g.calls, searchCall{ctx: ctx, kind: kind, term: term, page: page})
	if err, ok := g.errs[term]; ok {
		return tmdb.ResultPage{}, err
	}
	return g.pages[term], nil
}

type recordingSink struct {
	states []State
}

func (s *recordingSink) Publish(st State) {
	s.states = append(s.states, st)
}

func newController(gw Gateway) (*Controller, *recordingSink) {
	sink := &recordingSink{}
	c := New(gw, Config{QuietWindow: time.Millisecond, Sink: sink})
	return c, sink
}

func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd, "expected a command")
	return cmd()
}

// typeAndSettle feeds text and lets its quiet window elapse, returning the
// search command (nil when nothing was committed or the term was blank).
func typeAndSettle(t *testing.T, c *Controller, text string) tea.Cmd {
	t.Helper()
	tick := c.OnSearchTextChanged(text)
	return c.Update(runCmd(t, tick))
}

func items(ids ...int64) []tmdb.Item {
	out := make([]tmdb.Item, 0, len(ids))
	for _, id := range ids {
		out = append(out, tmdb.Item{ID: id, Title: "item"})
	}
	return out
}

func TestController_SuccessfulSearch(t *testing.T) {
	gw := newFakeGateway()
	gw.pages["dune"] = tmdb.ResultPage{Items: items(1), Page: 1, TotalResults: 42, TotalPages: 3}
	c, sink := newController(gw)

	cmd := typeAndSettle(t, c, "dune")
	require.NotNil(t, cmd)

	st := c.State()
	assert.True(t, st.Loading, "loading is set before the gateway answers")
	assert.Empty(t, gw.calls, "gateway runs inside the command")

	c.Update(runCmd(t, cmd))

	require.Len(t, gw.calls, 1)
	assert.Equal(t, searchCall{ctx: gw.calls[0].ctx, kind: tmdb.KindMovie, term: "dune", page: 1}, gw.calls[0])

	st = c.State()
	assert.False(t, st.Loading)
	assert.Empty(t, st.Error)
	assert.Equal(t, items(1), st.Results)
	assert.Equal(t, 42, st.TotalResults)
	assert.Equal(t, 3, st.TotalPages)
	assert.True(t, st.SearchAttempted)
	assert.Equal(t, OutcomeSuccess, st.Outcome)

	require.Len(t, sink.states, 2, "one publish for loading, one for the result")
	assert.True(t, sink.states[0].Loading)
	assert.False(t, sink.states[1].Loading)
}

func TestController_LoadingKeepsPreviousResults(t *testing.T) {
	gw := newFakeGateway()
	gw.pages["dune"] = tmdb.ResultPage{Items: items(1, 2), Page: 1, TotalResults: 2, TotalPages: 1}
	c, _ := newController(gw)

	c.Update(runCmd(t, typeAndSettle(t, c, "dune")))

	cmd := typeAndSettle(t, c, "dune part two")
	require.NotNil(t, cmd)

	st := c.State()
	assert.True(t, st.Loading)
	assert.Equal(t, items(1, 2), st.Results)
	assert.Equal(t, 2, st.TotalResults)
}

func TestController_DebounceOnlyLastIntentCommits(t *testing.T) {
	gw := newFakeGateway()
	c, sink := newController(gw)

	ticks := []tea.Cmd{
		c.OnSearchTextChanged("d"),
		c.OnSearchTextChanged("du"),
		c.OnSearchTextChanged("dun"),
		c.OnSearchTextChanged("dune"),
	}

	// Earlier ticks fire but are superseded.
	for _, tick := range ticks[:3] {
		assert.Nil(t, c.Update(runCmd(t, tick)))
	}
	assert.Empty(t, sink.states)
	assert.Empty(t, c.LastCommitted())

	cmd := c.Update(runCmd(t, ticks[3]))
	require.NotNil(t, cmd)
	assert.Equal(t, "dune", c.LastCommitted())

	c.Update(runCmd(t, cmd))
	require.Len(t, gw.calls, 1)
	assert.Equal(t, "dune", gw.calls[0].term)
}

func TestController_DebounceWaitsForQuietWindow(t *testing.T) {
	c := New(newFakeGateway(), Config{QuietWindow: 30 * time.Millisecond})

	tick := c.OnSearchTextChanged("dune")
	start := time.Now()
	msg := tick()
	assert.GreaterOrEqual(t, time.Since(start), 25*time.Millisecond)

	timeout, ok := msg.(IntentTimeoutMsg)
	require.True(t, ok, "expected IntentTimeoutMsg, got %T", msg)
	assert.Equal(t, 1, timeout.Version)
}

func TestController_DefaultQuietWindow(t *testing.T) {
	c := New(newFakeGateway(), Config{})
	assert.Equal(t, DefaultQuietWindow, c.debounce.quiet)
	assert.Equal(t, 300*time.Millisecond, DefaultQuietWindow)
}

func TestController_DuplicateCommitIsSuppressed(t *testing.T) {
	gw := newFakeGateway()
	c, _ := newController(gw)

	c.Update(runCmd(t, typeAndSettle(t, c, "dune")))
	require.Len(t, gw.calls, 1)

	// Typing away and back within one window leaves the committed term unchanged.
	c.OnSearchTextChanged("dune ")
	assert.Nil(t, typeAndSettle(t, c, "dune"))
	assert.Len(t, gw.calls, 1)
}

func TestController_EmptyTermResets(t *testing.T) {
	for _, term := range []string{"", "   ", "\t"} {
		t.Run("term="+term, func(t *testing.T) {
			gw := newFakeGateway()
			gw.pages["dune"] = tmdb.ResultPage{Items: items(1), Page: 1, TotalResults: 1, TotalPages: 1}
			c, sink := newController(gw)
			c.Update(runCmd(t, typeAndSettle(t, c, "dune")))
			sink.states = nil

			cmd := c.RunSearch(term, tmdb.KindMovie, 3)
			assert.Nil(t, cmd, "blank term never reaches the gateway")
			assert.Len(t, gw.calls, 1)

			st := c.State()
			assert.False(t, st.Loading)
			assert.Empty(t, st.Error)
			assert.Empty(t, st.Results)
			assert.Zero(t, st.TotalResults)
			assert.False(t, st.SearchAttempted)
			assert.Equal(t, OutcomeReset, st.Outcome)
			require.Len(t, sink.states, 1, "reset is published synchronously")
		})
	}
}

func TestController_BlankTermIsStillCommitted(t *testing.T) {
	gw := newFakeGateway()
	gw.pages["dune"] = tmdb.ResultPage{Items: items(1), Page: 1, TotalResults: 1, TotalPages: 1}
	c, _ := newController(gw)
	c.Update(runCmd(t, typeAndSettle(t, c, "dune")))

	assert.Nil(t, typeAndSettle(t, c, "  "))
	assert.Equal(t, "  ", c.LastCommitted())
	assert.Equal(t, OutcomeReset, c.State().Outcome)
	assert.Empty(t, c.State().Results)
}

func TestController_LaterSearchWinsRegardlessOfOrder(t *testing.T) {
	orders := map[string][]int{
		"stale answers last":  {1, 0},
		"stale answers first": {0, 1},
	}
	for name, order := range orders {
		t.Run(name, func(t *testing.T) {
			gw := newFakeGateway()
			gw.pages["dune"] = tmdb.ResultPage{Items: items(1), Page: 1, TotalResults: 1, TotalPages: 1}
			gw.pages["dune part two"] = tmdb.ResultPage{Items: items(2, 3), Page: 1, TotalResults: 2, TotalPages: 1}
			c, _ := newController(gw)

			cmds := []tea.Cmd{
				typeAndSettle(t, c, "dune"),
				typeAndSettle(t, c, "dune part two"),
			}
			msgs := make([]tea.Msg, 2)
			for _, i := range order {
				msgs[i] = runCmd(t, cmds[i])
			}
			for _, i := range order {
				c.Update(msgs[i])
			}

			st := c.State()
			assert.False(t, st.Loading)
			assert.Equal(t, items(2, 3), st.Results)
			assert.Equal(t, 2, st.TotalResults)
		})
	}
}

func TestController_StaleFailureIsIgnored(t *testing.T) {
	gw := newFakeGateway()
	gw.errs["dune"] = errors.New("connection reset")
	c, sink := newController(gw)

	stale := typeAndSettle(t, c, "dune")
	current := typeAndSettle(t, c, "dune part two")
	require.NotNil(t, stale)
	require.NotNil(t, current)

	published := len(sink.states)
	c.Update(runCmd(t, stale))

	assert.Len(t, sink.states, published, "stale result must not publish")
	st := c.State()
	assert.True(t, st.Loading, "stale result must not touch loading")
	assert.Empty(t, st.Error)
}

func TestController_SupersededRequestIsCanceled(t *testing.T) {
	gw := newFakeGateway()
	c, _ := newController(gw)

	first := typeAndSettle(t, c, "dune")
	runCmd(t, first)
	require.Len(t, gw.calls, 1)
	require.NoError(t, gw.calls[0].ctx.Err())

	typeAndSettle(t, c, "avatar")
	assert.ErrorIs(t, gw.calls[0].ctx.Err(), context.Canceled)
}

func TestController_FailureMapsToStableMessage(t *testing.T) {
	causes := []error{
		errors.New("dial tcp: connection refused"),
		context.DeadlineExceeded,
		&tmdb.StatusError{Code: 500},
		errors.New("decode response: unexpected EOF"),
	}
	for _, cause := range causes {
		t.Run(cause.Error(), func(t *testing.T) {
			gw := newFakeGateway()
			gw.errs["dune"] = cause
			c, _ := newController(gw)

			c.Update(runCmd(t, typeAndSettle(t, c, "dune")))

			st := c.State()
			assert.False(t, st.Loading)
			assert.Equal(t, errmsg.SearchFailed, st.Error)
			assert.True(t, st.HasError())
			assert.Empty(t, st.Results)
			assert.Zero(t, st.TotalResults)
			assert.True(t, st.SearchAttempted)
			assert.Equal(t, OutcomeFailure, st.Outcome)
		})
	}
}

func TestController_ErrorClearsOnNextSuccess(t *testing.T) {
	gw := newFakeGateway()
	gw.errs["dune"] = errors.New("boom")
	gw.pages["avatar"] = tmdb.ResultPage{Items: items(7), Page: 1, TotalResults: 1, TotalPages: 1}
	c, _ := newController(gw)

	c.Update(runCmd(t, typeAndSettle(t, c, "dune")))
	require.True(t, c.State().HasError())

	c.Update(runCmd(t, typeAndSettle(t, c, "avatar")))
	assert.False(t, c.State().HasError())
	assert.Equal(t, items(7), c.State().Results)
}

func TestController_NewTermResetsPage(t *testing.T) {
	gw := newFakeGateway()
	gw.pages["dune"] = tmdb.ResultPage{Items: items(1), Page: 1, TotalResults: 60, TotalPages: 3}
	c, _ := newController(gw)

	c.Update(runCmd(t, typeAndSettle(t, c, "dune")))
	c.Update(runCmd(t, c.GoToPage(2)))
	require.Equal(t, 3, c.Page())

	cmd := typeAndSettle(t, c, "avatar")
	assert.Equal(t, 1, c.Page())
	c.Update(runCmd(t, cmd))
	last := gw.calls[len(gw.calls)-1]
	assert.Equal(t, "avatar", last.term)
	assert.Equal(t, 1, last.page)
}

func TestController_GoToPageUsesLastCommittedTerm(t *testing.T) {
	gw := newFakeGateway()
	gw.pages["avatar"] = tmdb.ResultPage{Items: items(5), Page: 2, TotalResults: 40, TotalPages: 2}
	c, _ := newController(gw)

	c.Update(runCmd(t, c.SetKind(tmdb.KindTV)))
	c.Update(runCmd(t, typeAndSettle(t, c, "avatar")))
	gw.calls = nil

	// Text still being typed does not affect pagination.
	c.OnSearchTextChanged("avatar: the last")

	cmd := c.OnPageChanged(1)
	assert.Equal(t, 2, c.Page())
	assert.True(t, c.State().Loading)

	c.Update(runCmd(t, cmd))
	require.Len(t, gw.calls, 1)
	assert.Equal(t, tmdb.KindTV, gw.calls[0].kind)
	assert.Equal(t, "avatar", gw.calls[0].term)
	assert.Equal(t, 2, gw.calls[0].page)
	assert.Equal(t, 2, c.State().Page)
}

func TestController_GoToPageWithoutTermResets(t *testing.T) {
	gw := newFakeGateway()
	c, _ := newController(gw)

	assert.Nil(t, c.GoToPage(4))
	assert.Empty(t, gw.calls)
	assert.Equal(t, OutcomeReset, c.State().Outcome)
}

func TestController_GoToPageClampsNegativeIndex(t *testing.T) {
	gw := newFakeGateway()
	c, _ := newController(gw)
	c.Update(runCmd(t, typeAndSettle(t, c, "dune")))

	c.Update(runCmd(t, c.GoToPage(-3)))
	assert.Equal(t, 1, gw.calls[len(gw.calls)-1].page)
}

func TestController_NextPrevPage(t *testing.T) {
	gw := newFakeGateway()
	gw.pages["dune"] = tmdb.ResultPage{Items: items(1), Page: 1, TotalResults: 40, TotalPages: 2}
	c, _ := newController(gw)

	assert.Nil(t, c.NextPage(), "nothing committed yet")
	assert.Nil(t, c.PrevPage())

	c.Update(runCmd(t, typeAndSettle(t, c, "dune")))
	assert.Nil(t, c.PrevPage(), "already on the first page")

	c.Update(runCmd(t, c.NextPage()))
	assert.Equal(t, 2, c.Page())
	assert.Equal(t, 2, gw.calls[len(gw.calls)-1].page)

	assert.Nil(t, c.NextPage(), "already on the last page")

	c.Update(runCmd(t, c.PrevPage()))
	assert.Equal(t, 1, c.Page())
}

func TestController_SetKindIsolatesState(t *testing.T) {
	gw := newFakeGateway()
	gw.pages["dune"] = tmdb.ResultPage{Items: items(1), Page: 1, TotalResults: 60, TotalPages: 3}
	c, _ := newController(gw)

	c.Update(runCmd(t, typeAndSettle(t, c, "dune")))
	c.Update(runCmd(t, c.GoToPage(1)))
	inFlight := c.GoToPage(2)
	require.NotNil(t, inFlight)

	tick := c.SetKind(tmdb.KindTV)
	require.NotNil(t, tick, "an empty edit is re-emitted")

	st := c.State()
	assert.Equal(t, tmdb.KindTV, c.Kind())
	assert.Empty(t, c.Text())
	assert.Equal(t, 1, c.Page())
	assert.False(t, st.Loading)
	assert.Empty(t, st.Results)
	assert.Zero(t, st.TotalResults)
	assert.False(t, st.SearchAttempted)

	// The movie fetch finishing after the switch changes nothing.
	c.Update(runCmd(t, inFlight))
	assert.Empty(t, c.State().Results)
	assert.False(t, c.State().SearchAttempted)

	// The re-emitted empty edit settles into the reset state.
	assert.Nil(t, c.Update(runCmd(t, tick)))
	assert.Equal(t, OutcomeReset, c.State().Outcome)
}

func TestController_SetKindRearmsSameTerm(t *testing.T) {
	gw := newFakeGateway()
	c, _ := newController(gw)

	c.Update(runCmd(t, typeAndSettle(t, c, "dune")))
	c.SetKind(tmdb.KindTV)

	// Same text typed again before the reset edit settles still searches TV.
	cmd := typeAndSettle(t, c, "dune")
	require.NotNil(t, cmd)
	c.Update(runCmd(t, cmd))

	last := gw.calls[len(gw.calls)-1]
	assert.Equal(t, tmdb.KindTV, last.kind)
	assert.Equal(t, "dune", last.term)
}

func TestController_OnKindToggled(t *testing.T) {
	c, _ := newController(newFakeGateway())

	require.NotNil(t, c.OnKindToggled(1))
	assert.Equal(t, tmdb.KindTV, c.Kind())

	require.NotNil(t, c.OnKindToggled(0))
	assert.Equal(t, tmdb.KindMovie, c.Kind())

	assert.Nil(t, c.OnKindToggled(2))
	assert.Equal(t, tmdb.KindMovie, c.Kind())
}

func TestController_Restore(t *testing.T) {
	gw := newFakeGateway()
	c, _ := newController(gw)

	tick := c.Restore(tmdb.KindTV, "severance")
	assert.Equal(t, "severance", c.Text())

	c.Update(runCmd(t, c.Update(runCmd(t, tick))))
	require.Len(t, gw.calls, 1)
	assert.Equal(t, tmdb.KindTV, gw.calls[0].kind)
	assert.Equal(t, "severance", gw.calls[0].term)
}

func TestController_IgnoresUnknownMessages(t *testing.T) {
	c, sink := newController(newFakeGateway())
	assert.Nil(t, c.Update(tea.WindowSizeMsg{Width: 80, Height: 24}))
	assert.Empty(t, sink.states)
}

func TestState_NoMatches(t *testing.T) {
	assert.True(t, State{Outcome: OutcomeSuccess}.NoMatches())
	assert.False(t, State{Outcome: OutcomeReset}.NoMatches())
	assert.False(t, State{Outcome: OutcomeSuccess, Results: items(1)}.NoMatches())
}
