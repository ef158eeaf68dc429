package searchctl

import "github.com/llehouerou/reel/internal/tmdb"

// Outcome tags how the current State came to be.
type Outcome int

const (
	OutcomeNone    Outcome = iota // Nothing searched yet
	OutcomeReset                  // Empty term or kind switch cleared the results
	OutcomeSuccess                // Last fetch returned a page
	OutcomeFailure                // Last fetch failed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeReset:
		return "reset"
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	case OutcomeNone:
		return "none"
	}
	return "unknown"
}

// State is the search projection read by the presentation layer.
//
// While Loading is true, Results and Error still describe the previous
// completed fetch.
type State struct {
	Loading         bool
	Error           string // User-facing message, "" when there is none
	Results         []tmdb.Item
	TotalResults    int
	TotalPages      int
	Page            int // Page the Results belong to (0 when there are none)
	SearchAttempted bool
	Outcome         Outcome
}

// HasError reports whether the last fetch failed.
func (s State) HasError() bool {
	return s.Error != ""
}

// NoMatches reports a completed search that found nothing, as opposed to a
// cleared search.
func (s State) NoMatches() bool {
	return s.Outcome == OutcomeSuccess && len(s.Results) == 0
}

// Sink receives every State change, synchronously, right after it happens.
type Sink interface {
	Publish(State)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(State)

// Publish implements Sink.
func (f SinkFunc) Publish(s State) { f(s) }

type nopSink struct{}

func (nopSink) Publish(State) {}
