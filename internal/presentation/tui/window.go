package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	windowStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#f59e0b")).
			Padding(0, 1).
			Align(lipgloss.Center)

	rotorNameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	letterStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#fbbf24"))
)

// RotorWindow draws the machine's windows: one box per rotor, leftmost first,
// labelled with the rotor's numeral and showing the letter in its window.
func RotorWindow(rotors []int, positions string) string {
	letters := []rune(positions)
	boxes := make([]string, 0, len(rotors))
	for i, id := range rotors {
		letter := "?"
		if i < len(letters) {
			letter = string(letters[i])
		}
		name := roman[id]
		if name == "" {
			name = "?"
		}
		boxes = append(boxes, windowStyle.Render(
			lipgloss.JoinVertical(lipgloss.Center, rotorNameStyle.Render(name), letterStyle.Render(letter)),
		))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}
