package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/kotoba-lab/questcore/internal/ui/theme"
)

// ProgressBar is a one-line horizontal bar.
type ProgressBar struct {
	Label   string
	Current int
	Total   int
	Width   int // bar cells, excluding label and counts
}

// Percent returns Current/Total clamped to [0, 1].
func (p ProgressBar) Percent() float64 {
	if p.Total <= 0 {
		return 0
	}
	f := float64(p.Current) / float64(p.Total)
	return min(max(f, 0), 1)
}

// View renders the bar followed by "current/total".
func (p ProgressBar) View() string {
	width := p.Width
	if width < 4 {
		width = 4
	}
	filled := int(float64(width) * p.Percent())
	empty := width - filled

	var b strings.Builder
	if p.Label != "" {
		b.WriteString(theme.Body.Render(p.Label))
		b.WriteString("  ")
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Render(strings.Repeat("█", filled)))
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", empty)))
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("  %d/%d", p.Current, p.Total)))
	return b.String()
}
