// Package cursor tracks the selected row and scroll offset of a result list.
package cursor

import "github.com/llehouerou/reel/internal/keymap"

// Cursor manages cursor position and scroll offset for a scrollable list.
// The list length and viewport height are passed to methods rather than
// stored, since each new result page changes them.
type Cursor struct {
	pos    int // Current cursor position (0-indexed)
	offset int // First visible item index
	margin int // Items to keep visible above/below the cursor
}

// New creates a new Cursor with the specified scroll margin.
func New(margin int) Cursor {
	return Cursor{margin: margin}
}

// Pos returns the current cursor position.
func (c Cursor) Pos() int {
	return c.pos
}

// Offset returns the current scroll offset.
func (c Cursor) Offset() int {
	return c.offset
}

// Move moves the cursor by delta within a list of listLen items.
// If listLen is 0, this is a no-op.
func (c *Cursor) Move(delta, listLen, height int) {
	if listLen == 0 {
		return
	}
	c.pos = clamp(c.pos+delta, listLen-1)
	c.ensureVisible(listLen, height)
}

// JumpEnd moves the cursor to the last item.
func (c *Cursor) JumpEnd(listLen, height int) {
	c.Move(listLen, listLen, height)
}

// Reset moves the cursor back to the first item.
func (c *Cursor) Reset() {
	c.pos = 0
	c.offset = 0
}

// Fit keeps the cursor valid after the list changed length.
func (c *Cursor) Fit(listLen, height int) {
	if listLen == 0 {
		c.Reset()
		return
	}
	c.pos = clamp(c.pos, listLen-1)
	c.ensureVisible(listLen, height)
}

func (c *Cursor) ensureVisible(listLen, height int) {
	if height <= 0 || listLen == 0 {
		return
	}

	margin := min(c.margin, (height-1)/2)

	// Scroll up: cursor too close to top
	if c.pos < c.offset+margin {
		c.offset = max(c.pos-margin, 0)
	}

	// Scroll down: cursor too close to bottom
	if c.pos >= c.offset+height-margin {
		c.offset = c.pos - height + margin + 1
	}

	c.offset = clamp(c.offset, max(listLen-height, 0))
}

// VisibleRange returns the range of visible indices [start, end).
func (c Cursor) VisibleRange(listLen, height int) (start, end int) {
	if listLen == 0 || height <= 0 {
		return 0, 0
	}
	return c.offset, min(c.offset+height, listLen)
}

// HandleAction applies list navigation actions and reports whether the
// action was one of them.
func (c *Cursor) HandleAction(action keymap.Action, listLen, height int) bool {
	//nolint:exhaustive // only list navigation is handled here
	switch action {
	case keymap.ActionMoveDown:
		c.Move(1, listLen, height)
		return true
	case keymap.ActionMoveUp:
		c.Move(-1, listLen, height)
		return true
	}
	return false
}

func clamp(v, maxVal int) int {
	if v < 0 {
		return 0
	}
	if v > maxVal {
		return maxVal
	}
	return v
}
