package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrCanceled is returned when the user quits a prompt.
var ErrCanceled = errors.New("canceled")

// RepoSelectModel lets the user pick which discovered repositories to track.
// Every repository starts selected.
type RepoSelectModel struct {
	paths    []string
	cursor   int
	selected []bool
	height   int

	done     bool
	canceled bool
}

func NewRepoSelectModel(paths []string) RepoSelectModel {
	selected := make([]bool, len(paths))
	for i := range selected {
		selected[i] = true
	}
	return RepoSelectModel{paths: paths, selected: selected}
}

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Space key.Binding
	Enter key.Binding
	Quit  key.Binding
	All   key.Binding
	None  key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "move up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "move down"),
	),
	Space: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "toggle"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "confirm"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q/esc", "quit"),
	),
	All: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "select all"),
	),
	None: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "select none"),
	),
}

func (m RepoSelectModel) Init() tea.Cmd {
	return nil
}

func (m RepoSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.canceled = true
			m.done = true
			return m, tea.Quit

		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}

		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.paths)-1 {
				m.cursor++
			}

		case key.Matches(msg, keys.Space):
			if len(m.paths) > 0 {
				m.selected[m.cursor] = !m.selected[m.cursor]
			}

		case key.Matches(msg, keys.All):
			for i := range m.selected {
				m.selected[i] = true
			}

		case key.Matches(msg, keys.None):
			for i := range m.selected {
				m.selected[i] = false
			}

		case key.Matches(msg, keys.Enter):
			m.done = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// visibleRange keeps the cursor on screen when the list is taller than the
// terminal.
func (m RepoSelectModel) visibleRange() (int, int) {
	rows := m.height - 8
	if m.height == 0 || rows >= len(m.paths) || rows < 1 {
		return 0, len(m.paths)
	}
	start := max(m.cursor-rows/2, 0)
	end := min(start+rows, len(m.paths))
	return end - rows, end
}

func (m RepoSelectModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Select repositories to track"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("%d of %d selected", m.count(), len(m.paths))))
	b.WriteString("\n\n")

	start, end := m.visibleRange()
	for i := start; i < end; i++ {
		cursor := "  "
		if m.cursor == i {
			cursor = "▸ "
		}

		checkbox := uncheckedStyle.Render("[ ]")
		if m.selected[i] {
			checkbox = checkedStyle.Render("[✓]")
		}

		line := fmt.Sprintf("%s%s %s", cursor, checkbox, m.paths[i])
		if m.cursor == i {
			b.WriteString(selectedItemStyle.Render(line))
		} else {
			b.WriteString(itemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("↑/↓: navigate • space: toggle • a: all • n: none • enter: confirm • q: cancel"))
	return b.String()
}

func (m RepoSelectModel) count() int {
	n := 0
	for _, s := range m.selected {
		if s {
			n++
		}
	}
	return n
}

// Selected returns the chosen paths in their original order.
func (m RepoSelectModel) Selected() []string {
	out := make([]string, 0, m.count())
	for i, p := range m.paths {
		if m.selected[i] {
			out = append(out, p)
		}
	}
	return out
}

func (m RepoSelectModel) Canceled() bool {
	return m.canceled
}

// RunRepoSelection runs the interactive repository picker.
func RunRepoSelection(paths []string) ([]string, error) {
	finalModel, err := tea.NewProgram(NewRepoSelectModel(paths)).Run()
	if err != nil {
		return nil, err
	}

	result := finalModel.(RepoSelectModel)
	if result.Canceled() {
		return nil, fmt.Errorf("repository selection %w", ErrCanceled)
	}
	return result.Selected(), nil
}
