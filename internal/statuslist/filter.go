package statuslist

import (
	"fmt"
	"strings"

	"github.com/idilsaglam/cusrr/internal/model"
)

// StatusFilter restricts visibility by status; StatusAll matches everything.
type StatusFilter string

const (
	StatusAll  StatusFilter = "all"
	StatusTodo StatusFilter = StatusFilter(model.StatusTodo)
	StatusDone StatusFilter = StatusFilter(model.StatusDone)
)

func ParseStatusFilter(s string) (StatusFilter, error) {
	switch f := StatusFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case "", StatusAll:
		return StatusAll, nil
	case StatusTodo, StatusDone:
		return f, nil
	}
	return "", fmt.Errorf("unknown status filter %q (want all|todo|done)", s)
}

// Next cycles all → todo → done → all.
func (f StatusFilter) Next() StatusFilter {
	switch f {
	case StatusAll, "":
		return StatusTodo
	case StatusTodo:
		return StatusDone
	}
	return StatusAll
}

// Filter is the predicate set. The zero value matches every item.
// Predicates are combined with AND and never touch item status.
type Filter struct {
	query    string
	status   StatusFilter
	category string
}

func NewFilter(query string, status StatusFilter, category string) Filter {
	var f Filter
	f = f.WithQuery(query)
	f = f.WithStatus(status)
	return f.WithCategory(category)
}

func (f Filter) WithQuery(q string) Filter {
	f.query = strings.ToLower(strings.TrimSpace(q))
	return f
}

func (f Filter) WithStatus(s StatusFilter) Filter {
	if s == "" {
		s = StatusAll
	}
	f.status = s
	return f
}

func (f Filter) WithCategory(c string) Filter {
	f.category = strings.TrimSpace(c)
	return f
}

func (f Filter) Query() string { return f.query }

func (f Filter) Status() StatusFilter {
	if f.status == "" {
		return StatusAll
	}
	return f.status
}

func (f Filter) Category() string { return f.category }

// Active reports whether any predicate narrows the list.
func (f Filter) Active() bool {
	return f.query != "" || f.Status() != StatusAll || f.category != ""
}

func (f Filter) Match(it model.Item) bool {
	return f.matchStatus(it) && f.matchCategory(it) && f.matchQuery(it)
}

func (f Filter) matchQuery(it model.Item) bool {
	if f.query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(it.Title), f.query) {
		return true
	}
	if it.Category != "" && strings.Contains(strings.ToLower(it.Category), f.query) {
		return true
	}
	for _, a := range it.Authors {
		if strings.Contains(strings.ToLower(a), f.query) {
			return true
		}
	}
	return false
}

func (f Filter) matchStatus(it model.Item) bool {
	s := f.Status()
	return s == StatusAll || StatusFilter(it.Status) == s
}

func (f Filter) matchCategory(it model.Item) bool {
	return f.category == "" || strings.EqualFold(f.category, it.Category)
}
