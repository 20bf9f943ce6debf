package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type notePromptModel struct {
	input     textinput.Model
	value     string
	done      bool
	canceled  bool
	errorText string
}

func newNotePromptModel() notePromptModel {
	ti := textinput.New()
	ti.Placeholder = "Reviewed the release checklist"
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 70

	return notePromptModel{input: ti}
}

func (m notePromptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m notePromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			m.canceled = true
			m.done = true
			return m, tea.Quit
		case "enter":
			value := strings.TrimSpace(m.input.Value())
			if value == "" {
				m.errorText = "Note cannot be empty."
				return m, nil
			}
			m.value = value
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m notePromptModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(titleStyle.Render("What did you work on?"))
	b.WriteString("\n\n")
	b.WriteString(inputStyle.Render(m.input.View()))
	b.WriteString("\n\n")
	if m.errorText != "" {
		b.WriteString(errorStyle.Render("  " + m.errorText))
		b.WriteString("\n\n")
	}
	b.WriteString(dimStyle.Render("enter: save • esc: cancel"))
	b.WriteString("\n")
	return b.String()
}

// RunNotePrompt asks for a note message interactively.
func RunNotePrompt() (string, error) {
	finalModel, err := tea.NewProgram(newNotePromptModel()).Run()
	if err != nil {
		return "", err
	}
	result := finalModel.(notePromptModel)
	if result.canceled {
		return "", fmt.Errorf("note %w", ErrCanceled)
	}
	return result.value, nil
}
