package statuslist

import (
	"fmt"

	"github.com/idilsaglam/cusrr/internal/model"
)

// Progress counts finished items over the whole, unfiltered set.
type Progress struct {
	Done  int
	Total int
}

// Percent is round(100*done/total), half away from zero, and 0 for an
// empty set.
func (p Progress) Percent() int {
	if p.Total <= 0 {
		return 0
	}
	return (200*p.Done + p.Total) / (2 * p.Total)
}

func (p Progress) String() string {
	return fmt.Sprintf("%d%% complete · %d/%d", p.Percent(), p.Done, p.Total)
}

// Row is one item with its visibility under the current filter.
type Row struct {
	model.Item
	Visible bool
}

// View is a projection of the item set: every item lands in exactly one
// group by status, store order is preserved, and filters only toggle
// Visible.
type View struct {
	Pending  []Row
	Done     []Row
	Progress Progress
}

// Render is pure; the same inputs always give the same View.
func Render(items []model.Item, f Filter) View {
	var v View
	for _, it := range items {
		row := Row{Item: it, Visible: f.Match(it)}
		if it.Status == model.StatusDone {
			v.Done = append(v.Done, row)
			v.Progress.Done++
		} else {
			v.Pending = append(v.Pending, row)
		}
	}
	v.Progress.Total = len(items)
	return v
}

// Visible returns the visible rows, pending group first.
func (v View) Visible() []model.Item {
	var out []model.Item
	for _, group := range [][]Row{v.Pending, v.Done} {
		for _, r := range group {
			if r.Visible {
				out = append(out, r.Item)
			}
		}
	}
	return out
}

// VisibleCount returns how many rows of group are visible.
func VisibleCount(group []Row) int {
	n := 0
	for _, r := range group {
		if r.Visible {
			n++
		}
	}
	return n
}
