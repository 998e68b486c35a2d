// Package statuslist is a filterable two-group list of items with a
// todo/done status, a progress summary, and an optimistic status toggle.
//
// The same component backs every list screen; per-screen differences live
// in Config rather than in separate implementations.
package statuslist

import (
	"strings"

	"github.com/idilsaglam/cusrr/internal/model"
)

// Config parameterizes one list screen.
type Config struct {
	Title string

	// Group headings.
	PendingLabel string
	DoneLabel    string

	// Toggle glyphs.
	PendingIcon string
	DoneIcon    string

	// Paths on the backend. Collection is listed on load, Completed (with a
	// {user_id} placeholder) marks finished items, Item (with {id}) receives
	// status updates. Empty Completed or Item disables that step. The
	// conference backend only learns completion from submitted grades, so
	// Item is empty unless configured.
	Collection string
	Completed  string
	Item       string

	// SummaryWidth caps the summary shown under a title.
	SummaryWidth int
}

// DefaultConfig is the abstract grader screen.
func DefaultConfig() Config {
	return Config{
		Title:        "Abstract grader",
		PendingLabel: "To grade",
		DoneLabel:    "Completed",
		PendingIcon:  "○",
		DoneIcon:     "✔",
		Collection:   "/api/v1/presentations",
		Completed:    "/api/v1/abstractgrades/completed/{user_id}",
		SummaryWidth: 120,
	}
}

// Label returns the group heading for s.
func (c Config) Label(s model.Status) string {
	if s == model.StatusDone {
		return c.DoneLabel
	}
	return c.PendingLabel
}

// Icon returns the toggle glyph for s.
func (c Config) Icon(s model.Status) string {
	if s == model.StatusDone {
		return c.DoneIcon
	}
	return c.PendingIcon
}

func expand(path, key, value string) string {
	return strings.ReplaceAll(path, "{"+key+"}", value)
}
