package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

const (
	symCheck = "✔"
	symCross = "✖"
	ellipsis = "…"
)

// SetNoColor drops every color and text attribute from rendered output.
func SetNoColor(disable bool) {
	if disable {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

func OK(w io.Writer, msg string)   { fmt.Fprintln(w, current.Success.Render(symCheck+" "+msg)) }
func Fail(w io.Writer, msg string) { fmt.Fprintln(w, current.Error.Render(symCross+" "+msg)) }

// Truncate cuts s to width visible cells, keeping escape sequences intact.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, ellipsis)
}
