package form

import (
	"context"
	"errors"
	"strings"

	"github.com/idilsaglam/cusrr/internal/apperr"
)

// State is where a modal is in its cycle.
type State int

const (
	Closed State = iota
	Open
	Submitted
)

func (s State) String() string {
	switch s {
	case Open:
		return "open"
	case Submitted:
		return "submitted"
	}
	return "closed"
}

var (
	ErrNotOpen        = errors.New("form is not open")
	ErrAlreadyPending = errors.New("form already submitted")
)

// SubmitFunc persists the edited values.
type SubmitFunc func(ctx context.Context, v Values) error

// Modal runs closed → open → submitted → closed. A failed submission goes
// back to open with Err set, so the editor keeps the user's input and
// shows the failure inline.
type Modal struct {
	Title  string
	Fields []Field

	state  State
	values Values
	Err    error
}

// Field describes one editable input.
type Field struct {
	Key         string
	Label       string
	Placeholder string
	// Options, when set, restrict the value to one of their values
	// (compared ignoring case) or empty.
	Options []Option
}

// Option is one choice in a select-style field.
type Option struct {
	Value string
	Label string
}

// Check validates value against the field's options.
func (f Field) Check(value string) error {
	if len(f.Options) == 0 || value == "" {
		return nil
	}
	for _, o := range f.Options {
		if strings.EqualFold(o.Value, value) {
			return nil
		}
	}
	return apperr.Invalid(f.Key, "must be one of "+f.Choices())
}

// Choices lists the non-empty options as "value (label)", or just the
// value when both read the same.
func (f Field) Choices() string {
	parts := make([]string, 0, len(f.Options))
	for _, o := range f.Options {
		if o.Value == "" {
			continue
		}
		if o.Label == "" || o.Label == o.Value {
			parts = append(parts, o.Value)
			continue
		}
		parts = append(parts, o.Value+" ("+o.Label+")")
	}
	return strings.Join(parts, ", ")
}

func choices(values []string) []Option {
	out := make([]Option, 0, len(values))
	for _, v := range values {
		out = append(out, Option{Value: v, Label: v})
	}
	return out
}

func (m *Modal) State() State { return m.state }

// Values returns the live values; callers edit them in place while open.
func (m *Modal) Values() Values { return m.values }

// Open fills the form and clears any previous alert.
func (m *Modal) Open(v Values) {
	m.values = v.Clone()
	for _, f := range m.Fields {
		if _, ok := m.values[f.Key]; !ok {
			m.values[f.Key] = ""
		}
	}
	m.Err = nil
	m.state = Open
}

// Set changes one field while open.
func (m *Modal) Set(key, value string) error {
	if m.state != Open {
		return ErrNotOpen
	}
	m.values[key] = value
	return nil
}

// Begin moves an open form to submitted and hands back the values to send.
// Call Finish with the outcome. A value outside its field's options keeps
// the form open with Err set.
func (m *Modal) Begin() (Values, error) {
	switch m.state {
	case Open:
	case Submitted:
		return nil, ErrAlreadyPending
	default:
		return nil, ErrNotOpen
	}
	for _, f := range m.Fields {
		if err := f.Check(strings.TrimSpace(m.values[f.Key])); err != nil {
			m.Err = err
			return nil, err
		}
	}
	m.state = Submitted
	m.Err = nil
	return m.values.Clone(), nil
}

// Finish closes the form on success, or reopens it with the error.
func (m *Modal) Finish(err error) {
	if m.state != Submitted {
		return
	}
	if err != nil {
		m.Err = err
		m.state = Open
		return
	}
	m.state = Closed
}

// Submit is Begin, submit, Finish in one call.
func (m *Modal) Submit(ctx context.Context, submit SubmitFunc) error {
	v, err := m.Begin()
	if err != nil {
		return err
	}
	err = submit(ctx, v)
	m.Finish(err)
	return err
}

// Cancel closes the form without submitting.
func (m *Modal) Cancel() {
	m.state = Closed
	m.Err = nil
}
