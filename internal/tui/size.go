package tui

import (
	"os"

	"golang.org/x/term"
)

// portable terminal size
func widthHeight() (int, int) {
	w, h := 80, 24
	if tw, th, err := term.GetSize(int(os.Stdout.Fd())); err == nil && tw > 0 && th > 0 {
		w, h = tw, th
	}
	return w, h
}
