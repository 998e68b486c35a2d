package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles styles + symbols + box border.
// All UI helpers pull from `current`.
type Theme struct {
	Name                                          string
	Title, Muted, Accent, Success, Error, Pending lipgloss.Style
	Selected, DoneText, Help                      lipgloss.Style
	BoxUnchecked, BoxChecked                      string
	Border                                        lipgloss.Border
	BorderColor                                   lipgloss.TerminalColor
	SymDone, SymPending                           string
}

// Themes lists the selectable theme names.
var Themes = []string{"classic", "neon", "mono"}

var current = build("classic")

// SetTheme switches the theme; unknown names fall back to classic.
func SetTheme(name string) Theme {
	current = build(name)
	return current
}

// Expose what renderers need
func Current() Theme { return current }

func build(name string) Theme {
	s := lipgloss.NewStyle
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "neon":
		return Theme{
			Name:    "neon",
			Title:   s().Bold(true).Foreground(lipgloss.Color("13")),
			Muted:   s().Foreground(lipgloss.Color("8")),
			Accent:  s().Foreground(lipgloss.Color("14")),
			Success: s().Foreground(lipgloss.Color("10")),
			Error:   s().Foreground(lipgloss.Color("9")).Bold(true),
			Pending: s().Foreground(lipgloss.Color("11")),

			Selected: s().Bold(true).Foreground(lipgloss.Color("13")),
			DoneText: s().Faint(true).Strikethrough(true),
			Help:     s().Faint(true),

			BoxUnchecked: "◻", BoxChecked: "◼",
			Border:      lipgloss.RoundedBorder(),
			BorderColor: lipgloss.Color("13"),
			SymDone:     "✔", SymPending: "•",
		}
	case "mono":
		return Theme{
			Name:    "mono",
			Title:   s().Bold(true),
			Muted:   s(),
			Accent:  s(),
			Success: s(),
			Error:   s().Bold(true),
			Pending: s(),

			Selected: s().Reverse(true),
			DoneText: s(),
			Help:     s(),

			BoxUnchecked: "[ ]", BoxChecked: "[x]",
			Border:      lipgloss.ASCIIBorder(),
			BorderColor: lipgloss.NoColor{},
			SymDone:     "x", SymPending: "-",
		}
	default: // classic
		return Theme{
			Name:    "classic",
			Title:   s().Bold(true),
			Muted:   s().Faint(true),
			Accent:  s().Foreground(lipgloss.Color("12")),
			Success: s().Foreground(lipgloss.Color("42")),
			Error:   s().Foreground(lipgloss.Color("9")).Bold(true),
			Pending: s().Foreground(lipgloss.Color("214")),

			Selected: s().Bold(true).Reverse(true),
			DoneText: s().Faint(true).Strikethrough(true),
			Help:     s().Faint(true),

			BoxUnchecked: "☐", BoxChecked: "☑",
			Border:      lipgloss.RoundedBorder(),
			BorderColor: lipgloss.Color("8"),
			SymDone:     "✔", SymPending: "•",
		}
	}
}
