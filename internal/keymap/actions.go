// Package keymap defines key bindings and action dispatch for the application.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit Action = "quit"
	ActionHelp Action = "help"

	// Search field
	ActionClearSearch Action = "clear_search"

	// Kind switching
	ActionToggleKind Action = "toggle_kind"
	ActionKindMovie  Action = "kind_movie"
	ActionKindTV     Action = "kind_tv"

	// Pagination
	ActionNextPage Action = "next_page"
	ActionPrevPage Action = "prev_page"

	// Result list navigation
	ActionMoveUp   Action = "move_up"
	ActionMoveDown Action = "move_down"
)
