package model

import (
	"fmt"
	"strings"
)

// Status is the two-state lifecycle of a list item.
type Status string

const (
	StatusTodo Status = "todo"
	StatusDone Status = "done"
)

// Toggled returns the other status. Anything that is not done toggles to done.
func (s Status) Toggled() Status {
	if s == StatusDone {
		return StatusTodo
	}
	return StatusDone
}

func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusTodo:
		return StatusTodo, nil
	case StatusDone:
		return StatusDone, nil
	}
	return "", fmt.Errorf("unknown status %q (want todo|done)", s)
}

// Item is a unit shown in a filterable status list.
// ID is assigned by the remote collection and never changes.
type Item struct {
	ID       string   `json:"id" yaml:"id"`
	Title    string   `json:"title" yaml:"title"`
	Status   Status   `json:"status" yaml:"status"`
	Category string   `json:"category,omitempty" yaml:"category,omitempty"`
	Summary  string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	Authors  []string `json:"authors,omitempty" yaml:"authors,omitempty"`
}

func (it Item) Done() bool { return it.Status == StatusDone }
