package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles is the lipgloss style set the live view renders with, derived
// from the current Theme so cycling themes restyles every panel.
type Styles struct {
	Canvas     lipgloss.Style
	StatsPanel lipgloss.Style
	Header     lipgloss.Style
	Label      lipgloss.Style
	Value      lipgloss.Style
	Graph      lipgloss.Style
	Running    lipgloss.Style
	Paused     lipgloss.Style
	Help       lipgloss.Style
}

// NewStyles builds the style set for a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Canvas: lipgloss.NewStyle().Padding(1, 2).Foreground(t.Text),
		StatsPanel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(1, 2).
			Width(40),
		Header:  lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1),
		Label:   lipgloss.NewStyle().Foreground(t.Muted).Width(14),
		Value:   lipgloss.NewStyle().Foreground(t.Text),
		Graph:   lipgloss.NewStyle().Foreground(t.Secondary).Padding(1, 0),
		Running: lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		Paused:  lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		Help:    lipgloss.NewStyle().Foreground(t.Muted).MarginTop(2),
	}
}

// ProgressBar renders the simulated-time progress of a run.
func ProgressBar(t Theme, percent float64, width int) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return lipgloss.NewStyle().Foreground(t.Accent).Render(bar)
}

// SparklineChart renders a mini inline trace of values, coloured by the
// current theme: high samples in the success colour, mid in warning,
// low in error, so a tension spike reads at a glance.
func SparklineChart(t Theme, values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	rng := max - min
	if rng == 0 {
		rng = 1
	}

	step := len(values) / width
	if step < 1 {
		step = 1
	}

	high := lipgloss.NewStyle().Foreground(t.Success)
	mid := lipgloss.NewStyle().Foreground(t.Warning)
	low := lipgloss.NewStyle().Foreground(t.Error)

	var result strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		v := values[i*step]
		norm := (v - min) / rng
		idx := int(norm * float64(len(chars)-1))
		if idx >= len(chars) {
			idx = len(chars) - 1
		}
		if idx < 0 {
			idx = 0
		}

		c := string(chars[idx])
		switch {
		case norm > 0.7:
			result.WriteString(high.Render(c))
		case norm > 0.3:
			result.WriteString(mid.Render(c))
		default:
			result.WriteString(low.Render(c))
		}
	}
	return result.String()
}
