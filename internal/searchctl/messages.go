package searchctl

import "github.com/llehouerou/reel/internal/tmdb"

// IntentTimeoutMsg is sent once the quiet window after an edit elapses.
// Version identifies the edit; older versions are ignored.
type IntentTimeoutMsg struct {
	Version int
}

// ResultMsg carries the outcome of a gateway call back to the event loop.
// Generation is compared with the controller's current generation before
// anything is applied.
type ResultMsg struct {
	Generation int
	Kind       tmdb.Kind
	Term       string
	Page       int
	Result     tmdb.ResultPage
	Err        error
}
