package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/japaniel/yomideck/pkg/pipeline"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5F87FF")).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	boldStyle = lipgloss.NewStyle().Bold(true)

	checkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	progressStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(0, 1)
)

// renderChapters lists written decks and omitted chapters in chapter order.
func renderChapters(res *pipeline.Result) string {
	type line struct {
		ordinal string
		text    string
	}
	var lines []line
	for _, d := range res.Decks {
		lines = append(lines, line{d.Ordinal, fmt.Sprintf("  %s %s (%s new words)",
			checkStyle.Render("✓"), d.Name, boldStyle.Render(fmt.Sprint(len(d.Notes))))})
	}
	for _, o := range res.Omitted {
		lines = append(lines, line{o.Ordinal, dimStyle.Render(fmt.Sprintf("  - %s (No new words)", o.Name))})
	}
	// Ordinals share a width, except past the padding, so compare by length first.
	for i := 1; i < len(lines); i++ {
		for j := i; j > 0 && ordinalLess(lines[j].ordinal, lines[j-1].ordinal); j-- {
			lines[j], lines[j-1] = lines[j-1], lines[j]
		}
	}

	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l.text)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func ordinalLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

func renderSuccess(path string, res *pipeline.Result) string {
	body := fmt.Sprintf("%s\nSaved %d decks / %d notes to: %s\nImport this file, and Anki will organize the folders automatically.",
		checkStyle.Bold(true).Render("Success!"), len(res.Decks), res.Notes(), path)
	return successStyle.Render(body)
}
