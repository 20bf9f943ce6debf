package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ishaan812/yestergit/internal/timeline"
)

const timeLayout = "02/01 15:04"

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Padding(0, 1)

	hashStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)

	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// Row is one rendered line of the report.
type Row struct {
	Time    string
	Kind    string
	Source  string
	Message string
	Hash    string
}

// Rows formats events for display in local time.
func Rows(events []timeline.Event) []Row {
	rows := make([]Row, 0, len(events))
	for _, e := range events {
		switch ev := e.(type) {
		case timeline.CommitEvent:
			rows = append(rows, Row{
				Time:    ev.Time().Local().Format(timeLayout),
				Kind:    "Git",
				Source:  ev.Repo,
				Message: ev.Commit.Message,
				Hash:    ev.Commit.ShortHash,
			})
		case timeline.NoteEvent:
			rows = append(rows, Row{
				Time:    ev.Time().Local().Format(timeLayout),
				Kind:    "Note",
				Source:  "-",
				Message: ev.Note.Message,
				Hash:    "-",
			})
		default:
			panic(fmt.Sprintf("report: unhandled event type %T", e))
		}
	}
	return rows
}

// RenderTable writes events as a bordered table.
func RenderTable(w io.Writer, events []timeline.Event) error {
	rows := Rows(events)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("Time", "Type", "Source / Repo", "Message", "Hash").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 1 && row >= 0 && row < len(rows) && rows[row].Kind == "Note":
				return noteStyle
			case col == 4:
				return hashStyle
			default:
				return cellStyle
			}
		})

	for _, r := range rows {
		t.Row(r.Time, r.Kind, r.Source, oneLine(r.Message), r.Hash)
	}

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
