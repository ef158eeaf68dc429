package testutil

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestStripANSI(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no ansi codes", "hello world", "hello world"},
		{"with color codes", "\x1b[31mred\x1b[0m text", "red text"},
		{"with multiple codes", "\x1b[1;32mbold green\x1b[0m", "bold green"},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripANSI(tt.input); got != tt.want {
				t.Errorf("StripANSI(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	if got := NormalizeWhitespace("  hello \t\n  world "); got != "hello world" {
		t.Errorf("NormalizeWhitespace = %q", got)
	}
}

func TestMeasureWidth(t *testing.T) {
	if got := MeasureWidth("\x1b[31m千と千尋\x1b[0m"); got != 8 {
		t.Errorf("MeasureWidth = %d, want 8", got)
	}
}

func TestFindLine(t *testing.T) {
	output := "line one\nline two\nline three"

	if got := FindLine(output, "two"); got != "line two" {
		t.Errorf("FindLine = %q, want %q", got, "line two")
	}
	if ContainsLine(output, "four") {
		t.Error("should not find 'four' in output")
	}
}

func TestSplitLines(t *testing.T) {
	lines := SplitLines("a\nb\n\n  \n")
	if len(lines) != 2 {
		t.Errorf("SplitLines returned %d lines, want 2: %q", len(lines), lines)
	}
}

type pingMsg int

// counter replies to each pingMsg below 3 with the next one.
type counter struct {
	seen []int
	keys []string
}

func (c *counter) Init() tea.Cmd { return nil }

func (c *counter) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case pingMsg:
		c.seen = append(c.seen, int(msg))
		if msg < 3 {
			return func() tea.Msg { return msg + 1 }
		}
	case tea.KeyMsg:
		c.keys = append(c.keys, msg.String())
	}
	return nil
}

func (c *counter) View() string           { return "\x1b[1mcounter\x1b[0m" }
func (c *counter) SetSize(width, height int) {}

func TestHarness_DrainFollowsReplies(t *testing.T) {
	c := &counter{}
	h := NewHarness(c)

	h.Drain(tea.Batch(
		func() tea.Msg { return pingMsg(1) },
		func() tea.Msg { return "ignored" },
	), func(msg tea.Msg) bool {
		_, ok := msg.(pingMsg)
		return ok
	})

	if len(c.seen) != 3 || c.seen[2] != 3 {
		t.Errorf("seen = %v, want [1 2 3]", c.seen)
	}
}

func TestHarness_TypeAndView(t *testing.T) {
	c := &counter{}
	h := NewHarness(c)

	h.Type("ab")
	h.SendAltKey("1")
	h.SendSpecialKey(tea.KeyTab)

	want := []string{"a", "b", "alt+1", "tab"}
	if len(c.keys) != len(want) {
		t.Fatalf("keys = %v, want %v", c.keys, want)
	}
	for i := range want {
		if c.keys[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, c.keys[i], want[i])
		}
	}
	if !h.ViewContains("counter") {
		t.Error("view should contain stripped content")
	}
}
