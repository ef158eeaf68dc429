package app

import (
	"github.com/llehouerou/reel/internal/state"
	"github.com/llehouerou/reel/internal/tmdb"
)

// saveSession persists the kind and committed term for the next start.
func (m Model) saveSession(kind tmdb.Kind, term string) {
	m.StateMgr.SaveSession(state.SessionState{
		Kind: kind.String(),
		Term: term,
	})
}
