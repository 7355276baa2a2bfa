package output

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme holds the palette and styles used for terminal output.
type Theme struct {
	Accent  lipgloss.Color
	Muted   lipgloss.Color
	Error   lipgloss.Color
	Warning lipgloss.Color
	Success lipgloss.Color

	OK        lipgloss.Style
	Info      lipgloss.Style
	Warn      lipgloss.Style
	Err       lipgloss.Style
	Status    lipgloss.Style
	Highlight lipgloss.Style
}

// NewTheme builds the default theme on r, so styles degrade to plain text when r
// is not writing to a color terminal.
func NewTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Accent:  lipgloss.Color("#61AFEF"),
		Muted:   lipgloss.Color("#5C6370"),
		Error:   lipgloss.Color("#E06C75"),
		Warning: lipgloss.Color("#E5C07B"),
		Success: lipgloss.Color("#98C379"),
	}

	t.OK = r.NewStyle().Foreground(t.Success).Bold(true)
	t.Info = r.NewStyle().Foreground(t.Accent)
	t.Warn = r.NewStyle().Foreground(t.Warning).Bold(true)
	t.Err = r.NewStyle().Foreground(t.Error).Bold(true)
	t.Status = r.NewStyle().Foreground(t.blend(t.Muted, t.Accent, 0.35))
	t.Highlight = r.NewStyle().Foreground(t.Error).Bold(true).Underline(true)
	return t
}

// blend interpolates between two palette colors in Lab space.
func (t Theme) blend(a, b lipgloss.Color, ratio float64) lipgloss.Color {
	c1, err := colorful.Hex(string(a))
	if err != nil {
		return a
	}
	c2, err := colorful.Hex(string(b))
	if err != nil {
		return a
	}
	return lipgloss.Color(c1.BlendLab(c2, ratio).Hex())
}
