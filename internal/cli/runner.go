package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/idilsaglam/cusrr/internal/api"
	"github.com/idilsaglam/cusrr/internal/apperr"
	"github.com/idilsaglam/cusrr/internal/config"
	"github.com/idilsaglam/cusrr/internal/form"
	"github.com/idilsaglam/cusrr/internal/log"
	"github.com/idilsaglam/cusrr/internal/model"
	"github.com/idilsaglam/cusrr/internal/statuslist"
	"github.com/idilsaglam/cusrr/internal/store/jsonstore"
	"github.com/idilsaglam/cusrr/internal/tui"
	"github.com/idilsaglam/cusrr/internal/ui"
)

var (
	timeNow        = time.Now
	writeClipboard = clipboard.WriteAll
)

var errNotLoggedIn = errors.New("not logged in; run `cusrr auth login`")

// Run executes args and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{v: config.New(), out: stdout, errOut: stderr, copy: writeClipboard}
	defer log.Close()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if len(args) == 0 {
		root.SetOut(stderr)
		_ = root.Help()
		return 2
	}
	if err := root.ExecuteContext(ctx); err != nil {
		ui.Fail(stderr, err.Error())
		if isUsage(err) || apperr.IsValidation(err) {
			return 2
		}
		return 1
	}
	return 0
}

// -------------- grader ----------------

func newGraderCmd(a *app) *cobra.Command {
	var (
		plain, group            bool
		query, status, category string
	)
	cmd := &cobra.Command{
		Use:   "grader",
		Short: "Grade abstracts on an interactive board",
		Long: `Shows every presentation in two groups, still to grade and completed,
with a progress bar over the whole set.

Keys: / search, tab status filter, c category, space toggle, enter score,
g flat/grouped, m compact, r reload, ? help, q quit.

Examples:
  cusrr grader
  cusrr grader --plain --status todo
  cusrr grader --plain --query alp --category track-a`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			prefs, err := jsonstore.LoadPrefs(a.cfg.Dir)
			if err != nil {
				log.Warn().Err(err).Msg("prefs unreadable; using defaults")
				prefs = jsonstore.Prefs{}
			}
			if !cmd.Flags().Changed("group") {
				group = !prefs.Flat
			}
			f, err := graderFilter(cmd.Flags(), prefs, query, status, category)
			if err != nil {
				return usageErr{err}
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			board, src := presentationBoard(c, a.cfg.StatusPath)
			board.SetFilter(f)

			if plain || !a.interactive() {
				if err := board.Load(ctx, src); err != nil {
					return err
				}
				return a.emit(boardOutput(board), func() error {
					fmt.Fprintln(a.out, ui.Panel(boardLines(board, group)))
					return nil
				})
			}

			_, err = tui.RunGrader(tui.GraderOptions{
				Context:   ctx,
				Board:     board,
				Source:    src,
				Score:     scoreFunc(c),
				Prefs:     prefs,
				SavePrefs: func(p jsonstore.Prefs) error { return jsonstore.SavePrefs(a.cfg.Dir, p) },
			})
			return err
		},
	}
	fl := cmd.Flags()
	fl.BoolVar(&plain, "plain", false, "print the board instead of opening it")
	fl.BoolVar(&group, "group", true, "group output by to-grade/completed (default: last board layout)")
	fl.StringVarP(&query, "query", "q", "", "search title, authors and subject")
	fl.StringVarP(&status, "status", "s", "", "status filter: all|todo|done")
	fl.StringVar(&category, "category", "", "exact category (subject)")
	return cmd
}

// graderFilter starts from the last saved filters; flags win.
func graderFilter(fs *pflag.FlagSet, prefs jsonstore.Prefs, query, status, category string) (statuslist.Filter, error) {
	if !fs.Changed("query") {
		query = prefs.Query
	}
	if !fs.Changed("status") {
		status = prefs.StatusFilter
	}
	if !fs.Changed("category") {
		category = prefs.Category
	}
	sf, err := statuslist.ParseStatusFilter(status)
	if err != nil {
		return statuslist.Filter{}, err
	}
	return statuslist.NewFilter(query, sf, category), nil
}

// presentationBoard persists toggles only when statusPath is configured.
func presentationBoard(c *api.Client, statusPath string) (*statuslist.Board, statuslist.Source) {
	cfg := statuslist.DefaultConfig()
	cfg.Item = statusPath
	var p statuslist.Persister
	if cfg.Item != "" {
		p = statuslist.PresentationPersister{Remote: c, Config: cfg}
	}
	return statuslist.NewBoard(cfg, nil, p), statuslist.PresentationSource{Remote: c, Config: cfg}
}

func scoreFunc(c *api.Client) tui.ScoreFunc {
	return func(ctx context.Context, id string, s form.Scores) error {
		pid, err := strconv.Atoi(id)
		if err != nil {
			return apperr.Invalid("presentation_id", "not a presentation id")
		}
		me, err := c.Me(ctx)
		if err != nil {
			return err
		}
		if !me.Authenticated || me.UserID == nil {
			return errNotLoggedIn
		}
		g, err := s.Grade(pid, *me.UserID)
		if err != nil {
			return err
		}
		return c.SubmitAbstractGrade(ctx, g)
	}
}

type progressOutput struct {
	Done    int `json:"done" yaml:"done"`
	Total   int `json:"total" yaml:"total"`
	Percent int `json:"percent" yaml:"percent"`
}

type boardResult struct {
	Progress progressOutput `json:"progress" yaml:"progress"`
	Items    []model.Item   `json:"items" yaml:"items"`
}

func boardOutput(b *statuslist.Board) boardResult {
	v := b.View()
	items := v.Visible()
	if items == nil {
		items = []model.Item{}
	}
	return boardResult{
		Progress: progressOutput{Done: v.Progress.Done, Total: v.Progress.Total, Percent: v.Progress.Percent()},
		Items:    items,
	}
}

// -------------- toggle / score ----------------

func newToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a presentation between to-grade and completed",
		Long: `Flips one presentation and prints the new progress. The change is sent
to the backend only when status_path (CUSRR_STATUS_PATH) names an endpoint
that stores it, e.g. /api/v1/presentations/{id}. Otherwise it is local to
this run; grading with "cusrr score" is what marks an abstract completed.`,
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := a.client()
			if err != nil {
				return err
			}
			board, src := presentationBoard(c, a.cfg.StatusPath)
			if err := board.Load(ctx, src); err != nil {
				return err
			}
			change, err := board.Toggle(args[0])
			if err != nil {
				if errors.Is(err, apperr.ErrNotFoundLocal) {
					return usagef("no presentation with id %s", args[0])
				}
				return err
			}
			msg := fmt.Sprintf("%s → %s (%s)", args[0], board.Config().Label(change.Status), board.View().Progress)
			if !board.Persists() {
				t := ui.Current()
				fmt.Fprintln(a.out, t.Pending.Render(msg+", local only"))
				fmt.Fprintln(a.out, t.Muted.Render("The server marks an abstract completed once it is graded: cusrr score "+args[0]))
				return nil
			}
			if err := board.Persist(ctx, change); err != nil {
				return err
			}
			ui.OK(a.out, msg)
			return nil
		},
	}
}

func newScoreCmd(a *app) *cobra.Command {
	var originality, clarity, significance int
	var comment string
	cmd := &cobra.Command{
		Use:   "score <presentation-id>",
		Short: "Grade one abstract",
		Long: `Submits originality, clarity and significance scores (0-10 each) for an
abstract. Without the score flags an interactive form opens.

Example:
  cusrr score 12 --originality 7 --clarity 8 --significance 6 --comment "solid"`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := strconv.Atoi(args[0]); err != nil {
				return usagef("score: not a number: %s", args[0])
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			score := scoreFunc(c)
			submit := func(ctx context.Context, v form.Values) error {
				s, err := form.ScoresFrom(v)
				if err != nil {
					return err
				}
				return score(ctx, args[0], s)
			}

			fl := cmd.Flags()
			if fl.Changed("originality") || fl.Changed("clarity") || fl.Changed("significance") || !a.interactive() {
				v := form.Values{"comment": comment}
				for key, n := range map[string]int{"originality": originality, "clarity": clarity, "significance": significance} {
					if fl.Changed(key) {
						v[key] = strconv.Itoa(n)
					}
				}
				m := form.ScoreModal("Score")
				m.Open(v)
				if err := m.Submit(ctx, submit); err != nil {
					return err
				}
				ui.OK(a.out, "grade submitted")
				return nil
			}
			saved, err := tui.RunEdit(ctx, form.ScoreModal("Score presentation "+args[0]), nil, submit)
			if err != nil {
				return err
			}
			a.closed(saved, "grade submitted")
			return nil
		},
	}
	fl := cmd.Flags()
	fl.IntVar(&originality, "originality", 0, "originality score (0-10)")
	fl.IntVar(&clarity, "clarity", 0, "clarity score (0-10)")
	fl.IntVar(&significance, "significance", 0, "significance score (0-10)")
	fl.StringVar(&comment, "comment", "", "comment for the presenters")
	return cmd
}

// -------------- rendering helpers --------------

func boardLines(b *statuslist.Board, group bool) []string {
	t := ui.Current()
	cfg := b.Config()
	v := b.View()
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render(cfg.Title),
		t.Success.Render(t.SymDone), v.Progress.Done,
		t.Pending.Render(t.SymPending), v.Progress.Total-v.Progress.Done,
		t.Accent.Render("Total"), v.Progress.Total,
	)

	lines := []string{header, ui.ProgressBar(v.Progress, 28), ""}
	if group {
		lines = append(lines, groupLines(cfg, v)...)
	} else {
		lines = append(lines, flatLines(cfg, v.Visible())...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Muted.Render("Tip: toggle with `cusrr toggle <id>`"))
	return lines
}

func flatLines(cfg statuslist.Config, items []model.Item) []string {
	t := ui.Current()
	if len(items) == 0 {
		return []string{t.Muted.Render("(none)")}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		idx := fmt.Sprintf("%4s.", it.ID)
		icon := t.Muted.Render(cfg.Icon(it.Status))
		title := it.Title
		if it.Done() {
			icon = t.Success.Render(cfg.Icon(it.Status))
			title = t.DoneText.Render(title)
		}
		line := fmt.Sprintf("%s %s %s", t.Muted.Render(idx), icon, title)
		if it.Category != "" {
			line += "  " + t.Muted.Render(it.Category)
		}
		out = append(out, ui.Truncate(line, 80))
	}
	return out
}

func groupLines(cfg statuslist.Config, v statuslist.View) []string {
	t := ui.Current()
	var lines []string
	for i, g := range []struct {
		status model.Status
		rows   []statuslist.Row
	}{{model.StatusTodo, v.Pending}, {model.StatusDone, v.Done}} {
		if i > 0 {
			lines = append(lines, "")
		}
		var visible []model.Item
		for _, r := range g.rows {
			if r.Visible {
				visible = append(visible, r.Item)
			}
		}
		lines = append(lines, t.Accent.Render(fmt.Sprintf("%s (%d)", cfg.Label(g.status), len(visible))))
		lines = append(lines, flatLines(cfg, visible)...)
	}
	return lines
}
