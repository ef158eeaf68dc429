package testutil

import (
	tea "github.com/charmbracelet/bubbletea"
)

// maxDrainSteps bounds Drain so self-rescheduling commands cannot loop forever.
const maxDrainSteps = 200

// Component is a pointer-receiver UI model driven by the harness.
type Component interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string
	SetSize(width, height int)
}

// Harness wraps a component for testing, providing helpers to simulate
// user interactions and run the commands they produce.
type Harness struct {
	c    Component
	cmds []tea.Cmd
}

// NewHarness creates a harness and captures the component's init command.
func NewHarness(c Component) *Harness {
	h := &Harness{c: c}
	if cmd := c.Init(); cmd != nil {
		h.cmds = append(h.cmds, cmd)
	}
	return h
}

// SetSize sets the component dimensions.
func (h *Harness) SetSize(width, height int) {
	h.c.SetSize(width, height)
}

// View returns the rendered view with ANSI codes removed.
func (h *Harness) View() string {
	return StripANSI(h.c.View())
}

// ViewContains checks if any line of the view contains substr.
func (h *Harness) ViewContains(substr string) bool {
	return ContainsLine(h.View(), substr)
}

// SendMsg sends any message and returns the resulting command.
func (h *Harness) SendMsg(msg tea.Msg) tea.Cmd {
	cmd := h.c.Update(msg)
	if cmd != nil {
		h.cmds = append(h.cmds, cmd)
	}
	return cmd
}

// SendKey simulates typing the runes of key as a single key press.
func (h *Harness) SendKey(key string) tea.Cmd {
	return h.SendMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
}

// SendSpecialKey sends a special key (enter, escape, tab, etc.).
func (h *Harness) SendSpecialKey(keyType tea.KeyType) tea.Cmd {
	return h.SendMsg(tea.KeyMsg{Type: keyType})
}

// SendAltKey sends alt+key.
func (h *Harness) SendAltKey(key string) tea.Cmd {
	return h.SendMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key), Alt: true})
}

// Type sends one key press per rune and batches the resulting commands.
func (h *Harness) Type(text string) tea.Cmd {
	var cmds []tea.Cmd
	for _, r := range text {
		cmds = append(cmds, h.SendKey(string(r)))
	}
	return tea.Batch(cmds...)
}

// Commands returns all commands collected since creation or last ClearCommands.
func (h *Harness) Commands() []tea.Cmd {
	return h.cmds
}

// ClearCommands clears the collected commands.
func (h *Harness) ClearCommands() {
	h.cmds = nil
}

// Drain runs cmd and feeds every resulting message accepted by keep back
// into the component, following batches and the commands those messages
// return. A nil keep accepts everything.
func (h *Harness) Drain(cmd tea.Cmd, keep func(tea.Msg) bool) {
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0 && steps < maxDrainSteps; steps++ {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			if keep != nil && !keep(msg) {
				continue
			}
			if follow := h.SendMsg(msg); follow != nil {
				queue = append(queue, follow)
			}
		}
	}
}

// ExecuteCmd runs a command and returns the resulting message.
func ExecuteCmd(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}
