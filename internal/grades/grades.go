// Package grades joins the presentation and abstract grade averages into
// one dashboard table.
package grades

import (
	"sort"
	"strconv"

	"github.com/idilsaglam/cusrr/internal/model"
)

// Missing is shown for absent numbers.
const Missing = "—"

// Row is one presentation on the dashboard.
type Row struct {
	PresentationID  int      `json:"presentation_id" yaml:"presentation_id"`
	Title           string   `json:"presentation_title" yaml:"presentation_title"`
	Average         *float64 `json:"average_score" yaml:"average_score"`
	AbstractAverage *float64 `json:"average_abstract_score" yaml:"average_abstract_score"`
	NumGrades       int      `json:"num_grades" yaml:"num_grades"`
	NumAbstract     int      `json:"num_abstract_grades" yaml:"num_abstract_grades"`
}

// Merge joins the two average lists by presentation id. Presentations
// that only have abstract grades still get a row. Rows are ordered by
// average grade, highest first, with ungraded rows last.
func Merge(gradeAvgs, abstractAvgs []model.AverageGrade) []Row {
	byID := map[int]*Row{}
	var order []int
	row := func(id int) *Row {
		if r, ok := byID[id]; ok {
			return r
		}
		r := &Row{PresentationID: id}
		byID[id] = r
		order = append(order, id)
		return r
	}

	for _, g := range gradeAvgs {
		r := row(g.PresentationID)
		r.Title = model.Deref(g.PresentationTitle)
		r.Average = g.AverageScore
		r.NumGrades = g.NumGrades
	}
	for _, g := range abstractAvgs {
		r := row(g.PresentationID)
		if r.Title == "" {
			r.Title = model.Deref(g.PresentationTitle)
		}
		r.AbstractAverage = g.AverageScore
		r.NumAbstract = g.NumGrades
	}

	out := make([]Row, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Average, out[j].Average
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return *a > *b
	})
	return out
}

// Cells renders the row for a table: title, average, abstract average,
// grade count, abstract grade count.
func (r Row) Cells() []string {
	title := r.Title
	if title == "" {
		title = Missing
	}
	return []string{
		title,
		Score(r.Average),
		Score(r.AbstractAverage),
		strconv.Itoa(r.NumGrades),
		strconv.Itoa(r.NumAbstract),
	}
}

// Columns are the table headings matching Cells.
var Columns = []string{"Presentation", "Average Grade", "Average Abstract Grade", "Number of Grades", "Number of Abstract Grades"}

// Score formats an average with two decimals, or Missing.
func Score(f *float64) string {
	if f == nil {
		return Missing
	}
	return strconv.FormatFloat(*f, 'f', 2, 64)
}
