package theme

import (
	"charm.land/lipgloss/v2"

	"github.com/kotoba-lab/questcore/internal/scoring"
)

// Palette
var (
	Primary   = lipgloss.Color("#6366F1") // Indigo
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC")
	TextDim   = lipgloss.Color("#94A3B8")
	Border    = lipgloss.Color("#334155")
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Notice = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)
)

// Card frames a block of output.
var Card = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Border).
	Padding(0, 1)

// Answer feedback
var (
	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Done = lipgloss.NewStyle().
		Foreground(Success)

	Pending = lipgloss.NewStyle().
		Foreground(Text)
)

var rankColors = map[scoring.Rank]string{
	scoring.RankS: "#F59E0B",
	scoring.RankA: "#EC4899",
	scoring.RankB: "#6366F1",
	scoring.RankC: "#14B8A6",
	scoring.RankD: "#94A3B8",
}

// Rank renders a rank letter in its color.
func Rank(r scoring.Rank) string {
	c, ok := rankColors[r]
	if !ok {
		c = "#94A3B8"
	}
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(c)).
		Render(string(r))
}

// Mark renders a check or a cross.
func Mark(ok bool) string {
	if ok {
		return Correct.Render("○")
	}
	return Incorrect.Render("×")
}
