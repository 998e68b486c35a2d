package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/cusrr/internal/form"
	"github.com/idilsaglam/cusrr/internal/log"
	"github.com/idilsaglam/cusrr/internal/ui"
)

// editDoneMsg carries the outcome of a submission.
type editDoneMsg struct{ err error }

// Edit is a form.Modal rendered as a column of text inputs. It can run on
// its own (RunEdit) or inside another view.
type Edit struct {
	ctx    context.Context
	modal  *form.Modal
	submit form.SubmitFunc
	inputs []textinput.Model
	focus  int
	saved  bool
	width  int
}

// NewEdit opens m with v.
func NewEdit(ctx context.Context, m *form.Modal, v form.Values, submit form.SubmitFunc) Edit {
	m.Open(v)
	w, _ := widthHeight()
	e := Edit{ctx: ctx, modal: m, submit: submit, width: w}
	for _, f := range m.Fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = f.Placeholder
		ti.SetValue(m.Values()[f.Key])
		ti.CursorEnd()
		e.inputs = append(e.inputs, ti)
	}
	if len(e.inputs) > 0 {
		e.inputs[0].Focus()
	}
	return e
}

// Closed reports whether the form was saved or cancelled.
func (e Edit) Closed() bool { return e.modal.State() == form.Closed }

// Saved reports whether the form closed after a successful submission.
func (e Edit) Saved() bool { return e.saved }

func (e Edit) Init() tea.Cmd { return textinput.Blink }

func (e Edit) Update(msg tea.Msg) (Edit, tea.Cmd) {
	switch msg := msg.(type) {
	case editDoneMsg:
		e.modal.Finish(msg.err)
		if msg.err != nil {
			log.Warn().Err(msg.err).Str("form", e.modal.Title).Msg("submit failed")
			return e, nil
		}
		e.saved = true
		return e, nil
	case tea.WindowSizeMsg:
		e.width = msg.Width
		return e, nil
	case tea.KeyMsg:
		if e.modal.State() != form.Open {
			return e, nil
		}
		switch msg.String() {
		case "esc":
			e.modal.Cancel()
			return e, nil
		case "tab", "down":
			return e, e.setFocus(e.focus + 1)
		case "shift+tab", "up":
			return e, e.setFocus(e.focus - 1)
		case "enter":
			if e.focus < len(e.inputs)-1 {
				return e, e.setFocus(e.focus + 1)
			}
			return e.begin()
		case "ctrl+s":
			return e.begin()
		}
	}
	if len(e.inputs) == 0 {
		return e, nil
	}
	var cmd tea.Cmd
	e.inputs[e.focus], cmd = e.inputs[e.focus].Update(msg)
	return e, cmd
}

func (e *Edit) setFocus(i int) tea.Cmd {
	n := len(e.inputs)
	if n == 0 {
		return nil
	}
	i = (i%n + n) % n
	e.inputs[e.focus].Blur()
	e.focus = i
	return e.inputs[i].Focus()
}

func (e Edit) begin() (Edit, tea.Cmd) {
	values := e.modal.Values()
	for i, f := range e.modal.Fields {
		values[f.Key] = strings.TrimSpace(e.inputs[i].Value())
	}
	v, err := e.modal.Begin()
	if err != nil {
		log.Debug().Err(err).Str("form", e.modal.Title).Msg("submit blocked")
		return e, nil
	}
	ctx, submit := e.ctx, e.submit
	return e, func() tea.Msg { return editDoneMsg{err: submit(ctx, v)} }
}

func (e Edit) View() string {
	t := ui.Current()
	labelW := 0
	for _, f := range e.modal.Fields {
		if len(f.Label) > labelW {
			labelW = len(f.Label)
		}
	}
	var b strings.Builder
	b.WriteString(t.Title.Render(e.modal.Title))
	b.WriteString("\n\n")
	for i, f := range e.modal.Fields {
		label := fmt.Sprintf("%-*s", labelW, f.Label)
		if i == e.focus {
			label = t.Accent.Render(label)
		} else {
			label = t.Muted.Render(label)
		}
		b.WriteString(label + "  " + e.inputs[i].View() + "\n")
		if i == e.focus && len(f.Options) > 0 {
			b.WriteString(optionLines(f, labelW+2, max(e.width-6, 40)))
		}
	}
	b.WriteString("\n")
	switch {
	case e.modal.State() == form.Submitted:
		b.WriteString(t.Muted.Render("Saving…"))
	case e.modal.Err != nil:
		b.WriteString(t.Error.Render(ui.Truncate(e.modal.Err.Error(), max(e.width-6, 20))))
	default:
		b.WriteString(t.Help.Render("tab next · enter save · esc cancel"))
	}
	return b.String()
}

const maxOptionLines = 8

// optionLines lists the choices of f under its input, one per line.
func optionLines(f form.Field, indent, width int) string {
	t := ui.Current()
	pad := strings.Repeat(" ", indent)
	var b strings.Builder
	for i, o := range f.Options {
		if i == maxOptionLines {
			b.WriteString(pad + t.Muted.Render(fmt.Sprintf("… %d more", len(f.Options)-i)) + "\n")
			break
		}
		line := o.Label
		if o.Value != o.Label {
			value := o.Value
			if value == "" {
				value = "(empty)"
			}
			line = fmt.Sprintf("%-7s %s", value, o.Label)
		}
		b.WriteString(pad + t.Muted.Render(ui.Truncate(line, width-indent)) + "\n")
	}
	return b.String()
}

// editProgram runs an Edit as a full program and quits once it closes.
type editProgram struct{ Edit }

func (p editProgram) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyCtrlC {
		p.modal.Cancel()
		return p, tea.Quit
	}
	e, cmd := p.Edit.Update(msg)
	p.Edit = e
	if e.Closed() {
		return p, tea.Quit
	}
	return p, cmd
}

func (p editProgram) View() string { return ui.Panel([]string{p.Edit.View()}) }

// RunEdit shows the form until it is saved or cancelled and reports
// whether it was saved.
func RunEdit(ctx context.Context, m *form.Modal, v form.Values, submit form.SubmitFunc) (bool, error) {
	p := tea.NewProgram(editProgram{NewEdit(ctx, m, v, submit)}, tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	fm, ok := final.(editProgram)
	return ok && fm.Saved(), nil
}
