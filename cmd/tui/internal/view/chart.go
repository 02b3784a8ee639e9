package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const barWidth = 40

var barStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

// Bar is one labelled value of a horizontal bar chart.
type Bar struct {
	Label string
	Value int
}

// RenderBars draws bars scaled so the largest value spans width cells.
// A non-zero value always gets at least one cell.
func RenderBars(bars []Bar, width int) string {
	if len(bars) == 0 {
		return lipgloss.NewStyle().Faint(true).Render("no data")
	}

	labelWidth, maxValue := 0, 0
	for _, b := range bars {
		labelWidth = max(labelWidth, lipgloss.Width(b.Label))
		maxValue = max(maxValue, b.Value)
	}

	lines := make([]string, len(bars))
	for i, b := range bars {
		cells := 0
		if maxValue > 0 {
			cells = b.Value * width / maxValue
		}

		if b.Value > 0 && cells == 0 {
			cells = 1
		}

		lines[i] = fmt.Sprintf("%-*s %s %d",
			labelWidth, b.Label, barStyle.Render(strings.Repeat("█", cells)), b.Value)
	}

	return strings.Join(lines, "\n")
}
