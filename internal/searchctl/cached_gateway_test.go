package searchctl

import (
	"context"
	"database/sql"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/llehouerou/reel/internal/cache"
	"github.com/llehouerou/reel/internal/tmdb"
)

// gatedSearcher blocks every search until release is closed and honors
// cancellation of the context it is given.
type gatedSearcher struct {
	calls   atomic.Int32
	release chan struct{}
}

func (s *gatedSearcher) Search(ctx context.Context, _ tmdb.Kind, _ string, page int) (tmdb.ResultPage, error) {
	s.calls.Add(1)
	select {
	case <-s.release:
	case <-ctx.Done():
		return tmdb.ResultPage{}, ctx.Err()
	}
	return tmdb.ResultPage{Items: items(438631, 841), Page: page, TotalResults: 2, TotalPages: 1}, nil
}

func newCachedGateway(t *testing.T, upstream cache.Searcher) *cache.Gateway {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	backend, err := cache.NewSQLite(db)
	require.NoError(t, err)
	return cache.New(upstream, backend, cache.Options{})
}

func runAsync(cmd tea.Cmd) <-chan tea.Msg {
	out := make(chan tea.Msg, 1)
	go func() { out <- cmd() }()
	return out
}

func receive(t *testing.T, ch <-chan tea.Msg) tea.Msg {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(time.Second):
		t.Fatal("search command did not return")
		return nil
	}
}

func TestController_RepeatedPageThroughCacheGetsResults(t *testing.T) {
	upstream := &gatedSearcher{release: make(chan struct{})}
	c, _ := newController(newCachedGateway(t, upstream))

	first := runAsync(typeAndSettle(t, c, "dune"))
	require.Eventually(t, func() bool { return upstream.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	// Asking for the page that is already loading supersedes the first fetch.
	second := runAsync(c.GoToPage(0))
	c.Update(receive(t, first))
	assert.True(t, c.State().Loading)

	time.Sleep(20 * time.Millisecond)
	close(upstream.release)
	c.Update(receive(t, second))

	st := c.State()
	assert.False(t, st.Loading)
	assert.Empty(t, st.Error)
	assert.Equal(t, OutcomeSuccess, st.Outcome)
	assert.Len(t, st.Results, 2)
	assert.Equal(t, int32(1), upstream.calls.Load())
}

func TestController_CaseVariantThroughCacheGetsResults(t *testing.T) {
	upstream := &gatedSearcher{release: make(chan struct{})}
	c, _ := newController(newCachedGateway(t, upstream))

	first := runAsync(typeAndSettle(t, c, "dune"))
	require.Eventually(t, func() bool { return upstream.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	second := runAsync(typeAndSettle(t, c, "Dune"))
	c.Update(receive(t, first))

	time.Sleep(20 * time.Millisecond)
	close(upstream.release)
	c.Update(receive(t, second))

	st := c.State()
	assert.Equal(t, OutcomeSuccess, st.Outcome)
	assert.Empty(t, st.Error)
	assert.Len(t, st.Results, 2)
	assert.Equal(t, "Dune", c.LastCommitted())
}
