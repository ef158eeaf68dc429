package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// Banner renders text in bold with a horizontal gradient from the primary
// to the secondary color.
func (t *Theme) Banner(text string) string {
	var clusters []string
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		clusters = append(clusters, gr.Str())
	}

	switch len(clusters) {
	case 0:
		return ""
	case 1:
		return lipgloss.NewStyle().Foreground(t.Primary).Bold(true).Render(text)
	}

	from, to := toColorful(t.Primary), toColorful(t.Secondary)
	var b strings.Builder
	for i, cluster := range clusters {
		c := from.BlendHcl(to, float64(i)/float64(len(clusters)-1)).Clamped()
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Hex())).
			Bold(true).
			Render(cluster))
	}
	return b.String()
}

// RatingColor maps a 0-10 vote average onto the error to success range.
func (t *Theme) RatingColor(vote float64) lipgloss.Color {
	vote = min(max(vote, 0), 10)
	c := toColorful(t.Error).BlendHcl(toColorful(t.Success), vote/10).Clamped()
	return lipgloss.Color(c.Hex())
}

// toColorful converts a hex lipgloss color. ANSI colors fall back to gray.
func toColorful(c lipgloss.Color) colorful.Color {
	if col, err := colorful.Hex(string(c)); err == nil {
		return col
	}
	return colorful.Color{R: 0.5, G: 0.5, B: 0.5}
}
