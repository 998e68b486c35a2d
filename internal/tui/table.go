package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/cusrr/internal/ui"
)

const maxColumnWidth = 40

// Table is a scrollable read-only table view.
type Table struct {
	title string
	table table.Model
}

func NewTable(title string, headers []string, rows [][]string) Table {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	trows := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		for i, c := range r {
			if i < len(widths) && lipgloss.Width(c) > widths[i] {
				widths[i] = min(lipgloss.Width(c), maxColumnWidth)
			}
		}
		trows = append(trows, table.Row(r))
	}
	cols := make([]table.Column, len(headers))
	for i, h := range headers {
		cols[i] = table.Column{Title: h, Width: widths[i]}
	}

	_, h := widthHeight()
	t := table.New(
		table.WithColumns(cols),
		table.WithRows(trows),
		table.WithFocused(true),
		table.WithHeight(max(min(len(trows)+2, h-6), 4)),
	)
	th := ui.Current()
	s := table.DefaultStyles()
	s.Header = s.Header.BorderStyle(th.Border).BorderForeground(th.BorderColor).BorderBottom(true).Bold(true)
	s.Selected = th.Selected
	t.SetStyles(s)
	return Table{title: title, table: t}
}

// SelectedRow returns the highlighted row, or nil for an empty table.
func (t Table) SelectedRow() []string { return t.table.SelectedRow() }

func (t Table) Init() tea.Cmd { return nil }

func (t Table) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		t.table.SetHeight(max(msg.Height-6, 3))
		return t, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return t, tea.Quit
		}
	}
	var cmd tea.Cmd
	t.table, cmd = t.table.Update(msg)
	return t, cmd
}

func (t Table) View() string {
	th := ui.Current()
	return ui.Panel([]string{
		th.Title.Render(t.title),
		"",
		t.table.View(),
		th.Help.Render("↑/↓ move · q quit"),
	})
}

// RunTable shows rows until the user quits.
func RunTable(ctx context.Context, title string, headers []string, rows [][]string) error {
	_, err := tea.NewProgram(NewTable(title, headers, rows), tea.WithContext(ctx), tea.WithAltScreen()).Run()
	return err
}
