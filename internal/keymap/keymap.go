package keymap

import "github.com/charmbracelet/bubbles/key"

// Binding describes a single key binding.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "search", "results"
}

// All contains all key bindings. Keys that print a character are avoided
// since the search field always has focus.
var All = []Binding{
	// Global
	{ActionQuit, []string{"ctrl+c"}, "Quit", "global"},
	{ActionHelp, []string{"f1"}, "Toggle help", "global"},

	// Search field
	{ActionClearSearch, []string{"esc"}, "Clear search", "search"},
	{ActionToggleKind, []string{"tab", "shift+tab"}, "Movies/TV", "search"},
	{ActionKindMovie, []string{"alt+1"}, "Movies", "search"},
	{ActionKindTV, []string{"alt+2"}, "TV", "search"},

	// Results
	{ActionMoveUp, []string{"up", "ctrl+p"}, "Move up", "results"},
	{ActionMoveDown, []string{"down", "ctrl+n"}, "Move down", "results"},
	{ActionPrevPage, []string{"pgup", "ctrl+left"}, "Previous page", "results"},
	{ActionNextPage, []string{"pgdown", "ctrl+right"}, "Next page", "results"},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range All {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}

// HelpBindings converts bindings to bubbles key bindings for the help view.
// The first key of each binding is the one shown.
func HelpBindings(bindings []Binding) []key.Binding {
	result := make([]key.Binding, 0, len(bindings))
	for _, b := range bindings {
		if len(b.Keys) == 0 {
			continue
		}
		result = append(result, key.NewBinding(
			key.WithKeys(b.Keys...),
			key.WithHelp(b.Keys[0], b.Description),
		))
	}
	return result
}
