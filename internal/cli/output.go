package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/cusrr/internal/form"
	"github.com/idilsaglam/cusrr/internal/tui"
	"github.com/idilsaglam/cusrr/internal/ui"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// emit writes v as JSON or YAML, or runs human for the table format.
func (a *app) emit(v any, human func() error) error {
	switch a.format {
	case formatJSON:
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(a.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return human()
}

// table shows rows in the scrollable view on a terminal, or prints them.
func (a *app) table(ctx context.Context, title string, headers []string, rows [][]string) error {
	if a.interactive() {
		return tui.RunTable(ctx, title, headers, rows)
	}
	th := ui.Current()
	t := table.New().
		Border(th.Border).
		BorderStyle(th.Muted).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(a.out, t.String())
	return nil
}

// edit applies --set overrides, or opens the form on a terminal.
func (a *app) edit(ctx context.Context, m *form.Modal, v form.Values, sets []string, submit form.SubmitFunc) error {
	if len(sets) > 0 || !a.interactive() {
		if len(sets) == 0 {
			return usageErr{errors.New(setUsage(m, v))}
		}
		if err := v.Apply(sets); err != nil {
			return err
		}
		m.Open(v)
		if err := m.Submit(ctx, submit); err != nil {
			return err
		}
		ui.OK(a.out, "saved")
		return nil
	}
	saved, err := tui.RunEdit(ctx, m, v, submit)
	if err != nil {
		return err
	}
	a.closed(saved, "saved")
	return nil
}

// setUsage names the editable keys and the choices of option fields.
func setUsage(m *form.Modal, v form.Values) string {
	var b strings.Builder
	fmt.Fprintf(&b, "nothing to change; pass --set key=value (keys: %s)", strings.Join(v.Keys(), ", "))
	for _, f := range m.Fields {
		if c := f.Choices(); c != "" {
			fmt.Fprintf(&b, "\n  %s: %s", f.Key, c)
		}
	}
	return b.String()
}

func (a *app) closed(saved bool, msg string) {
	if saved {
		ui.OK(a.out, msg)
		return
	}
	fmt.Fprintln(a.out, ui.Current().Muted.Render("cancelled"))
}

func parseID(what, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, usagef("%s: not an id: %s", what, s)
	}
	return n, nil
}

func requireYes(yes bool, what string) error {
	if !yes {
		return usagef("refusing to delete %s without --yes", what)
	}
	return nil
}
