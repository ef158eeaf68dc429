// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// SearchFailed is shown for every failed catalog search. The underlying cause
// goes to the diagnostics log only.
const SearchFailed = "search failed, please retry"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Startup
	OpConfigLoad Op = "load configuration"
	OpLogOpen    Op = "open log file"
	OpStateOpen  Op = "open session store"
	OpCacheOpen  Op = "open search cache"

	// Session
	OpSessionLoad Op = "load last session"
	OpSessionSave Op = "save session"

	// Catalog
	OpDetailFetch Op = "fetch details"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
