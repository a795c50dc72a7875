package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	promptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFAA00"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)
)

var errPromptCanceled = errors.New("canceled")

type promptStep int

const (
	stepPath promptStep = iota
	stepParticles
	stepDone
)

type promptAnswer struct {
	path      string
	particles bool
}

type promptModel struct {
	step     promptStep
	input    textinput.Model
	answer   promptAnswer
	problem  string
	canceled bool
	// exists reports whether the entered path points at a file.
	exists func(string) bool
}

func newPromptModel(particles bool) promptModel {
	ti := textinput.New()
	ti.Placeholder = "/path/to/book.epub"
	ti.Focus()
	ti.Width = 60
	return promptModel{
		input:  ti,
		answer: promptAnswer{particles: particles},
		exists: func(p string) bool {
			st, err := os.Stat(p)
			return err == nil && !st.IsDir()
		},
	}
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.canceled = true
		return m, tea.Quit
	}

	switch m.step {
	case stepPath:
		if key.Type == tea.KeyEnter {
			// Paths pasted from a file manager often come quoted.
			p := strings.Trim(strings.TrimSpace(m.input.Value()), `"'`)
			if p == "" || !m.exists(p) {
				m.problem = "File not found!"
				return m, nil
			}
			m.answer.path = p
			m.problem = ""
			m.step = stepParticles
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case stepParticles:
		switch strings.ToLower(key.String()) {
		case "y":
			m.answer.particles = true
		case "n":
			m.answer.particles = false
		case "enter":
		default:
			return m, nil
		}
		m.step = stepDone
		return m, tea.Quit
	}
	return m, nil
}

func (m promptModel) View() string {
	var sb strings.Builder
	switch m.step {
	case stepPath:
		sb.WriteString(promptStyle.Render("Paste .epub Book Path") + "\n")
		sb.WriteString(m.input.View() + "\n")
		if m.problem != "" {
			sb.WriteString(errorStyle.Render(m.problem) + "\n")
		}
		sb.WriteString(hintStyle.Render("enter to confirm, esc to quit") + "\n")
	case stepParticles:
		def := "y/N"
		if m.answer.particles {
			def = "Y/n"
		}
		fmt.Fprintf(&sb, "%s %s\n", promptStyle.Render("Include particles/grammar?"), hintStyle.Render("["+def+"]"))
	}
	return sb.String()
}

// askBook asks for the book path and the particle toggle.
func askBook(in io.Reader, out io.Writer, particles bool) (promptAnswer, error) {
	final, err := tea.NewProgram(newPromptModel(particles), tea.WithInput(in), tea.WithOutput(out)).Run()
	if err != nil {
		return promptAnswer{}, fmt.Errorf("prompt: %w", err)
	}
	m := final.(promptModel)
	if m.canceled || m.step != stepDone {
		return promptAnswer{}, errPromptCanceled
	}
	return m.answer, nil
}
