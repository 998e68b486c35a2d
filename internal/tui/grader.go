// Package tui holds the interactive Bubble Tea views.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/cusrr/internal/form"
	"github.com/idilsaglam/cusrr/internal/log"
	"github.com/idilsaglam/cusrr/internal/model"
	"github.com/idilsaglam/cusrr/internal/statuslist"
	"github.com/idilsaglam/cusrr/internal/store/jsonstore"
	"github.com/idilsaglam/cusrr/internal/ui"
)

// ScoreFunc submits a grade for the item with the given id.
type ScoreFunc func(ctx context.Context, id string, s form.Scores) error

// GraderOptions wires a Grader. Score and SavePrefs are optional.
type GraderOptions struct {
	Context   context.Context
	Board     *statuslist.Board
	Source    statuslist.Source
	Score     ScoreFunc
	Prefs     jsonstore.Prefs
	SavePrefs func(jsonstore.Prefs) error
}

type inputMode int

const (
	modeNone inputMode = iota
	modeQuery
	modeCategory
)

type (
	loadedMsg struct {
		items []model.Item
		err   error
	}
	persistedMsg struct {
		change statuslist.Change
		err    error
	}
	prefsSavedMsg struct{ err error }
)

// Grader is the two-group status board: pending items above, done items
// below, a progress bar on top.
type Grader struct {
	ctx       context.Context
	board     *statuslist.Board
	src       statuslist.Source
	score     ScoreFunc
	prefs     jsonstore.Prefs
	savePrefs func(jsonstore.Prefs) error

	keys  keyMap
	help  help.Model
	spin  spinner.Model
	input textinput.Model
	mode  inputMode

	scoring *Edit
	scoreID string

	cursor  int
	loading bool
	loadErr error
	notice  string
	width   int
	height  int
}

func NewGrader(o GraderOptions) Grader {
	if o.Context == nil {
		o.Context = context.Background()
	}
	if o.Board == nil {
		o.Board = statuslist.NewBoard(statuslist.DefaultConfig(), nil, nil)
	}
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.CharLimit = 200

	h := help.New()
	h.ShowAll = !o.Prefs.HelpCollapsed

	w, ht := widthHeight()
	return Grader{
		ctx:       o.Context,
		board:     o.Board,
		src:       o.Source,
		score:     o.Score,
		prefs:     o.Prefs,
		savePrefs: o.SavePrefs,
		keys:      newKeyMap(),
		help:      h,
		spin:      spinner.New(spinner.WithSpinner(spinner.Dot)),
		input:     ti,
		loading:   o.Source != nil,
		width:     w,
		height:    ht,
	}
}

// Board exposes the underlying list, mainly for tests and final reporting.
func (m Grader) Board() *statuslist.Board { return m.board }

// Notice is the last non-blocking message shown under the list.
func (m Grader) Notice() string { return m.notice }

func (m Grader) Init() tea.Cmd {
	if m.src == nil {
		return nil
	}
	return tea.Batch(m.spin.Tick, m.load())
}

func (m Grader) load() tea.Cmd {
	ctx, src := m.ctx, m.src
	return func() tea.Msg {
		items, err := src.Load(ctx)
		return loadedMsg{items: items, err: err}
	}
}

func (m Grader) persist(c statuslist.Change) tea.Cmd {
	ctx, board := m.ctx, m.board
	return func() tea.Msg {
		return persistedMsg{change: c, err: board.Persist(ctx, c)}
	}
}

func (m Grader) storePrefs() tea.Cmd {
	if m.savePrefs == nil {
		return nil
	}
	f := m.board.Filter()
	p := m.prefs
	p.Query = f.Query()
	p.StatusFilter = string(f.Status())
	p.Category = f.Category()
	save := m.savePrefs
	return func() tea.Msg { return prefsSavedMsg{err: save(p)} }
}

func (m Grader) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		if m.scoring != nil {
			e, _ := m.scoring.Update(msg)
			m.scoring = &e
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case loadedMsg:
		m.loading = false
		src := statuslist.SourceFunc(func(context.Context) ([]model.Item, error) { return msg.items, msg.err })
		m.loadErr = m.board.Load(m.ctx, src)
		if m.loadErr != nil {
			log.Error().Err(m.loadErr).Msg("grader load failed")
		}
		m.clampCursor()
		return m, nil

	case persistedMsg:
		if m.board.Stale(msg.change) {
			log.Debug().Str("id", msg.change.ID).Uint64("seq", msg.change.Seq).Msg("superseded status result")
		}
		if msg.err != nil {
			log.Warn().Err(msg.err).Str("id", msg.change.ID).Msg("status not saved")
			m.notice = "Could not save status: " + msg.err.Error()
		}
		return m, nil

	case prefsSavedMsg:
		if msg.err != nil {
			log.Warn().Err(msg.err).Msg("prefs not saved")
		}
		return m, nil

	case editDoneMsg:
		return m.updateScoring(msg)

	case tea.KeyMsg:
		if m.scoring != nil {
			return m.updateScoring(msg)
		}
		if m.mode != modeNone {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Grader) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		if cmd := m.storePrefs(); cmd != nil {
			return m, tea.Sequence(cmd, tea.Quit)
		}
		return m, tea.Quit

	case key.Matches(msg, k.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, k.Down):
		if m.cursor < len(m.board.View().Visible())-1 {
			m.cursor++
		}

	case key.Matches(msg, k.Search):
		return m.startInput(modeQuery, m.board.Filter().Query(), "title, author or subject")
	case key.Matches(msg, k.Category):
		return m.startInput(modeCategory, m.board.Filter().Category(), "exact category")
	case key.Matches(msg, k.Status):
		f := m.board.Filter()
		m.board.SetFilter(f.WithStatus(f.Status().Next()))
		m.clampCursor()
	case key.Matches(msg, k.Clear):
		m.board.SetFilter(statuslist.Filter{})
		m.notice = ""
		m.clampCursor()

	case key.Matches(msg, k.Toggle):
		it, ok := m.selected()
		if !ok {
			return m, nil
		}
		c, err := m.board.Toggle(it.ID)
		if err != nil {
			return m, nil
		}
		m.notice = ""
		m.clampCursor()
		if !m.board.Persists() {
			m.notice = "Changed locally only; press enter to submit a grade"
			return m, nil
		}
		return m, m.persist(c)

	case key.Matches(msg, k.Score):
		it, ok := m.selected()
		if !ok || m.score == nil {
			return m, nil
		}
		return m.startScoring(it)

	case key.Matches(msg, k.Reload):
		if m.src == nil {
			return m, nil
		}
		m.loading = true
		m.notice = ""
		return m, tea.Batch(m.spin.Tick, m.load())

	case key.Matches(msg, k.Flat):
		m.prefs.Flat = !m.prefs.Flat
		return m, m.storePrefs()
	case key.Matches(msg, k.Mini):
		m.prefs.Mini = !m.prefs.Mini
		return m, m.storePrefs()

	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.prefs.HelpCollapsed = !m.help.ShowAll
		return m, m.storePrefs()
	}
	return m, nil
}

func (m Grader) startInput(mode inputMode, value, placeholder string) (tea.Model, tea.Cmd) {
	m.mode = mode
	m.input.Prompt = "/ "
	if mode == modeCategory {
		m.input.Prompt = "category: "
	}
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m, m.input.Focus()
}

// updateInput re-filters on every keystroke; enter keeps the value, esc
// drops it.
func (m Grader) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = modeNone
		m.input.Blur()
		return m, nil
	case "esc":
		m.input.SetValue("")
		m.applyInput()
		m.mode = modeNone
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.applyInput()
	return m, cmd
}

func (m *Grader) applyInput() {
	f := m.board.Filter()
	switch m.mode {
	case modeQuery:
		f = f.WithQuery(m.input.Value())
	case modeCategory:
		f = f.WithCategory(m.input.Value())
	}
	m.board.SetFilter(f)
	m.clampCursor()
}

func (m Grader) startScoring(it model.Item) (tea.Model, tea.Cmd) {
	score, id := m.score, it.ID
	submit := func(ctx context.Context, v form.Values) error {
		s, err := form.ScoresFrom(v)
		if err != nil {
			return err
		}
		return score(ctx, id, s)
	}
	e := NewEdit(m.ctx, form.ScoreModal("Score: "+ui.Truncate(it.Title, 60)), nil, submit)
	e.width = m.width
	m.scoring = &e
	m.scoreID = id
	return m, e.Init()
}

func (m Grader) updateScoring(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.scoring == nil {
		return m, nil
	}
	e, cmd := m.scoring.Update(msg)
	if !e.Closed() {
		m.scoring = &e
		return m, cmd
	}
	if e.Saved() {
		if _, err := m.board.MarkDone(m.scoreID); err == nil {
			m.notice = "Grade submitted"
		}
		m.clampCursor()
	}
	m.scoring = nil
	m.scoreID = ""
	return m, nil
}

func (m Grader) selected() (model.Item, bool) {
	vis := m.board.View().Visible()
	if m.cursor < 0 || m.cursor >= len(vis) {
		return model.Item{}, false
	}
	return vis[m.cursor], true
}

func (m *Grader) clampCursor() {
	n := len(m.board.View().Visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Grader) View() string {
	if m.scoring != nil {
		return ui.Panel([]string{m.scoring.View()})
	}
	t := ui.Current()
	cfg := m.board.Config()
	v := m.board.View()
	inner := max(m.width-4, 20)

	lines := []string{
		fmt.Sprintf("%s   %s %d  %s %d  %s %d",
			t.Title.Render(cfg.Title),
			t.Success.Render(t.SymDone), v.Progress.Done,
			t.Pending.Render(t.SymPending), v.Progress.Total-v.Progress.Done,
			t.Accent.Render("Total"), v.Progress.Total),
		ui.ProgressBar(v.Progress, 28),
	}
	if f := m.board.Filter(); f.Active() || m.mode != modeNone {
		lines = append(lines, t.Muted.Render(filterLine(f)))
	}
	if m.mode != modeNone {
		lines = append(lines, m.input.View())
	}
	lines = append(lines, "")

	switch {
	case m.loading:
		lines = append(lines, m.spin.View()+" Loading…")
	case m.loadErr != nil:
		lines = append(lines,
			t.Error.Render("Could not load items."),
			t.Muted.Render(ui.Truncate(m.loadErr.Error(), inner)),
			t.Muted.Render("Press r to retry."))
	case m.prefs.Flat:
		vis := v.Visible()
		if len(vis) == 0 {
			lines = append(lines, t.Muted.Render("(none)"))
		}
		for i, it := range vis {
			lines = append(lines, m.row(it, i, inner))
		}
	default:
		idx := 0
		lines = append(lines, m.group(cfg.Label(model.StatusTodo), v.Pending, &idx, inner)...)
		lines = append(lines, "")
		lines = append(lines, m.group(cfg.Label(model.StatusDone), v.Done, &idx, inner)...)
	}
	if !m.loading && m.loadErr == nil && !m.prefs.Mini {
		if it, ok := m.selected(); ok && it.Summary != "" {
			lines = append(lines, "", t.Muted.Render(ui.Truncate(it.Summary, min(cfg.SummaryWidth, inner))))
		}
	}

	if m.notice != "" {
		lines = append(lines, "", t.Pending.Render(ui.Truncate(m.notice, inner)))
	}
	lines = append(lines, "", m.help.View(m.keys))
	return ui.Panel(lines)
}

func (m Grader) group(label string, rows []statuslist.Row, idx *int, width int) []string {
	t := ui.Current()
	out := []string{t.Accent.Render(fmt.Sprintf("%s (%d)", label, statuslist.VisibleCount(rows)))}
	shown := 0
	for _, r := range rows {
		if !r.Visible {
			continue
		}
		shown++
		out = append(out, m.row(r.Item, *idx, width))
		*idx++
	}
	if shown == 0 {
		out = append(out, t.Muted.Render("(none)"))
	}
	return out
}

// row renders one item; idx is its position among the visible items.
func (m Grader) row(it model.Item, idx, width int) string {
	t := ui.Current()
	cfg := m.board.Config()
	prefix := "  "
	if idx == m.cursor {
		prefix = t.Selected.Render(">") + " "
	}
	icon := t.Muted.Render(cfg.Icon(it.Status))
	title := it.Title
	if it.Done() {
		icon = t.Success.Render(cfg.Icon(it.Status))
		title = t.DoneText.Render(title)
	}
	line := prefix + icon + " " + title
	if meta := rowMeta(it); meta != "" && !m.prefs.Mini {
		line += "  " + t.Muted.Render(meta)
	}
	return ui.Truncate(line, width)
}

func rowMeta(it model.Item) string {
	var parts []string
	if it.Category != "" {
		parts = append(parts, it.Category)
	}
	if len(it.Authors) > 0 {
		parts = append(parts, strings.Join(it.Authors, ", "))
	}
	return strings.Join(parts, " · ")
}

func filterLine(f statuslist.Filter) string {
	parts := []string{"status: " + string(f.Status())}
	if f.Query() != "" {
		parts = append(parts, fmt.Sprintf("search: %q", f.Query()))
	}
	if f.Category() != "" {
		parts = append(parts, "category: "+f.Category())
	}
	return strings.Join(parts, "  ")
}

// RunGrader runs the board full screen and returns the final model.
func RunGrader(o GraderOptions) (Grader, error) {
	ctx := o.Context
	if ctx == nil {
		ctx = context.Background()
	}
	final, err := tea.NewProgram(NewGrader(o), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return Grader{}, err
	}
	g, _ := final.(Grader)
	return g, nil
}
