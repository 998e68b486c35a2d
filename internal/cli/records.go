package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/cusrr/internal/api"
	"github.com/idilsaglam/cusrr/internal/form"
	"github.com/idilsaglam/cusrr/internal/grades"
	"github.com/idilsaglam/cusrr/internal/log"
	"github.com/idilsaglam/cusrr/internal/model"
	"github.com/idilsaglam/cusrr/internal/posters"
	"github.com/idilsaglam/cusrr/internal/ui"
	"github.com/idilsaglam/cusrr/internal/users"
)

// -------------- posters ----------------

type posterSession struct {
	Upcoming []model.Poster `json:"upcoming" yaml:"upcoming"`
	Past     []model.Poster `json:"past" yaml:"past"`
}

func newPostersCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "posters",
		Short: "Show upcoming and past posters",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			all, err := c.PresentationsByType(cmd.Context(), "poster")
			if err != nil {
				return err
			}
			now := timeNow()
			up, past := posters.Split(all, now, limit)
			out := posterSession{Upcoming: up, Past: past}
			return a.emit(out, func() error {
				t := ui.Current()
				lines := []string{t.Title.Render("Poster session"), ""}
				lines = append(lines, posterLines("Upcoming", up, now)...)
				lines = append(lines, "")
				lines = append(lines, posterLines("Past", past, now)...)
				fmt.Fprintln(a.out, ui.Panel(lines))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", posters.DefaultLimit, "posters per section")
	return cmd
}

func posterLines(heading string, ps []model.Poster, now time.Time) []string {
	t := ui.Current()
	lines := []string{t.Accent.Render(heading)}
	if len(ps) == 0 {
		return append(lines, t.Muted.Render("(none)"))
	}
	for _, p := range ps {
		meta := posters.When(p, now)
		if p.Room != "" {
			meta += " · " + p.Room
		}
		lines = append(lines, ui.Truncate(t.SymPending+" "+p.Title+"  "+t.Muted.Render(meta), 100))
	}
	return lines
}

// -------------- grades ----------------

func newGradesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "grades",
		Short: "Average grades per presentation",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c, err := a.client()
			if err != nil {
				return err
			}
			g, err := c.GradeAverages(ctx)
			if err != nil {
				return err
			}
			ag, err := c.AbstractGradeAverages(ctx)
			if err != nil {
				return err
			}
			rows := grades.Merge(g, ag)
			return a.emit(rows, func() error {
				cells := make([][]string, 0, len(rows))
				for _, r := range rows {
					cells = append(cells, r.Cells())
				}
				return a.table(ctx, "Grades", grades.Columns, cells)
			})
		},
	}
}

// -------------- users ----------------

func newUsersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage attendees",
	}

	var noStatus bool
	ls := &cobra.Command{
		Use:   "ls",
		Short: "List users",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c, err := a.client()
			if err != nil {
				return err
			}
			all, err := c.ListUsers(ctx)
			if err != nil {
				return err
			}
			if noStatus {
				kept := all[:0]
				for _, u := range all {
					if users.NoStatus(u) {
						kept = append(kept, u)
					}
				}
				all = kept
			}
			return a.emit(all, func() error {
				rows := make([][]string, 0, len(all))
				for _, u := range all {
					rows = append(rows, users.Cells(u))
				}
				return a.table(ctx, "Users", users.Columns, rows)
			})
		},
	}
	ls.Flags().BoolVar(&noStatus, "no-status", false, "only users without a status")

	var sets []string
	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a user",
		Long: `Opens the user form, or applies --set key=value pairs directly.

Example:
  cusrr users edit 7 --set auth=admin --set presentation_id=12`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID("users edit", args[0])
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			u, err := c.GetUser(ctx, id)
			if err != nil {
				return err
			}
			return a.edit(ctx, form.UserModal(), form.FillUser(u), sets, userSubmit(c, id))
		},
	}
	edit.Flags().StringArrayVar(&sets, "set", nil, "field=value to change (repeatable)")

	var yes bool
	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a user",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("users rm", args[0])
			if err != nil {
				return err
			}
			if err := requireYes(yes, "user "+args[0]); err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			if err := c.DeleteUser(cmd.Context(), id); err != nil {
				return err
			}
			ui.OK(a.out, "user deleted")
			return nil
		},
	}
	rm.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deletion")

	copyEmails := &cobra.Command{
		Use:   "copy-emails",
		Short: "Copy the emails of users without a status to the clipboard",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			all, err := c.ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			emails := users.NoneStatusEmails(all)
			if len(emails) == 0 {
				ui.OK(a.out, "every user has a status")
				return nil
			}
			joined := users.JoinEmails(emails)
			if err := a.copy(joined); err != nil {
				fmt.Fprintln(a.errOut, ui.Current().Pending.Render("clipboard unavailable: "+err.Error()))
				fmt.Fprintln(a.out, joined)
				return nil
			}
			ui.OK(a.out, fmt.Sprintf("copied %d emails", len(emails)))
			return nil
		},
	}

	cmd.AddCommand(ls, edit, rm, copyEmails)
	return cmd
}

func userSubmit(c *api.Client, id int) form.SubmitFunc {
	return func(ctx context.Context, v form.Values) error {
		p, err := form.UserPayload(v)
		if err != nil {
			return err
		}
		_, err = c.UpdateUser(ctx, id, p)
		return err
	}
}

// -------------- blocks ----------------

func newBlocksCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blocks",
		Short: "Schedule blocks",
	}

	var types []string
	var day string
	ls := &cobra.Command{
		Use:   "ls",
		Short: "List schedule blocks",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c, err := a.client()
			if err != nil {
				return err
			}
			var blocks []model.Block
			if day != "" {
				blocks, err = c.BlocksByDay(ctx, day)
			} else {
				blocks, err = c.ListBlocks(ctx, types...)
			}
			if err != nil {
				return err
			}
			return a.emit(blocks, func() error {
				rows := make([][]string, 0, len(blocks))
				for _, b := range blocks {
					rows = append(rows, []string{
						strconv.Itoa(b.ID), b.Day, b.StartTime.String(), b.EndTime.String(),
						b.Title, model.Deref(b.BlockType), model.Deref(b.Location),
					})
				}
				return a.table(ctx, "Schedule", []string{"ID", "Day", "Start", "End", "Title", "Type", "Location"}, rows)
			})
		},
	}
	ls.Flags().StringSliceVar(&types, "type", nil, "block types to include (repeatable)")
	ls.Flags().StringVar(&day, "day", "", "only blocks on this day")

	var sets []string
	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a schedule block",
		Long: `Opens the block form, or applies --set key=value pairs directly. Times use
the 2006-01-02T15:04 layout; an empty sub_length is left out.

Example:
  cusrr blocks edit 3 --set title="Poster session" --set block_type=poster`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID("blocks edit", args[0])
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			b, err := c.GetBlock(ctx, id)
			if err != nil {
				return err
			}
			submit := func(ctx context.Context, v form.Values) error {
				p, err := form.BlockPayload(v)
				if err != nil {
					return err
				}
				_, err = c.UpdateBlock(ctx, id, p)
				return err
			}
			return a.edit(ctx, form.BlockModal(), form.FillBlock(b), sets, submit)
		},
	}
	edit.Flags().StringArrayVar(&sets, "set", nil, "field=value to change (repeatable)")

	cmd.AddCommand(ls, edit)
	return cmd
}

// -------------- presentations ----------------

// withCurrentBlock keeps the presentation's present block selectable even
// when its type is not one presentations are normally assigned to.
func withCurrentBlock(ctx context.Context, c *api.Client, blocks []model.Block, id *int) []model.Block {
	if id == nil {
		return blocks
	}
	for _, b := range blocks {
		if b.ID == *id {
			return blocks
		}
	}
	b, err := c.GetBlock(ctx, *id)
	if err != nil {
		log.Warn().Err(err).Int("block", *id).Msg("current block unavailable")
		return blocks
	}
	return append(blocks, b)
}

func newPresentationsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "presentations",
		Aliases: []string{"pres"},
		Short:   "Manage presentations",
	}

	ls := &cobra.Command{
		Use:   "ls",
		Short: "List presentations",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c, err := a.client()
			if err != nil {
				return err
			}
			ps, err := c.ListPresentations(ctx)
			if err != nil {
				return err
			}
			return a.emit(ps, func() error {
				rows := make([][]string, 0, len(ps))
				for _, p := range ps {
					names := make([]string, 0, len(p.Presenters))
					for _, pr := range p.Presenters {
						names = append(names, pr.Name())
					}
					block := ""
					if p.ScheduleID != nil {
						block = strconv.Itoa(*p.ScheduleID)
					}
					rows = append(rows, []string{
						strconv.Itoa(p.ID), ui.Truncate(p.Title, 40), p.Subject, model.Deref(p.Type),
						p.Time.String(), block, strings.Join(names, ", "),
					})
				}
				return a.table(ctx, "Presentations", []string{"ID", "Title", "Subject", "Type", "Time", "Block", "Presenters"}, rows)
			})
		},
	}

	var sets []string
	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a presentation or assign it to a block",
		Long: `Opens the presentation form, or applies --set key=value pairs directly.
schedule_id must be a poster, presentation or blitz block; leave it empty to
keep the current assignment.

Example:
  cusrr presentations edit 12 --set schedule_id=4`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID("presentations edit", args[0])
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			p, err := c.GetPresentation(ctx, id)
			if err != nil {
				return err
			}
			blocks, err := c.ListBlocks(ctx, form.AssignableBlockTypes...)
			if err != nil {
				return err
			}
			blocks = withCurrentBlock(ctx, c, blocks, p.ScheduleID)
			submit := func(ctx context.Context, v form.Values) error {
				body, err := form.PresentationPayload(v)
				if err != nil {
					return err
				}
				_, err = c.UpdatePresentation(ctx, id, body)
				return err
			}
			return a.edit(ctx, form.PresentationModal(blocks), form.FillPresentation(p), sets, submit)
		},
	}
	edit.Flags().StringArrayVar(&sets, "set", nil, "field=value to change (repeatable)")

	var sub form.AbstractSubmission
	submit := &cobra.Command{
		Use:   "submit",
		Short: "Submit an abstract",
		Long: `Signs up a presentation with its abstract. With a partner, only the
designated submitter files the abstract.

Example:
  cusrr presentations submit --title "Alpha" --subject physics --abstract "..." \
    --partner-email b@x.org --submitter me`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			sub.HasPartner = strings.TrimSpace(sub.PartnerEmail) != ""
			if err := sub.Validate(); err != nil {
				if errors.Is(err, form.ErrPartnerSubmits) {
					fmt.Fprintln(a.out, ui.Current().Pending.Render(err.Error()))
					return nil
				}
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			p, err := c.CreatePresentation(cmd.Context(), sub.Payload())
			if err != nil {
				return err
			}
			ui.OK(a.out, fmt.Sprintf("abstract submitted (presentation %d)", p.ID))
			return nil
		},
	}
	sf := submit.Flags()
	sf.StringVar(&sub.Title, "title", "", "presentation title")
	sf.StringVar(&sub.Abstract, "abstract", "", "abstract text")
	sf.StringVar(&sub.Subject, "subject", "", "subject area")
	sf.StringVar(&sub.Type, "type", "", "poster|presentation|blitz")
	sf.StringVar(&sub.PartnerEmail, "partner-email", "", "partner's email, for paired abstracts")
	sf.StringVar(&sub.SubmitterRole, "submitter", form.RoleMe, "who files a paired abstract: me|partner")

	var upTitle, upNotes string
	upload := &cobra.Command{
		Use:   "upload <id> <file>",
		Short: "Upload slides (.ppt or .pptx)",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("presentations upload", args[0])
			if err != nil {
				return err
			}
			f, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("open: %w", err)
			}
			defer f.Close()
			st, err := f.Stat()
			if err != nil {
				return fmt.Errorf("stat: %w", err)
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			u := api.Upload{Filename: filepath.Base(args[1]), Size: st.Size(), Body: f, Title: upTitle, Notes: upNotes}
			if err := c.UploadPresentationFile(cmd.Context(), id, u); err != nil {
				return err
			}
			ui.OK(a.out, "uploaded "+u.Filename)
			return nil
		},
	}
	upload.Flags().StringVar(&upTitle, "title", "", "title for the upload")
	upload.Flags().StringVar(&upNotes, "notes", "", "notes for the organizers")

	var yes bool
	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a presentation",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("presentations rm", args[0])
			if err != nil {
				return err
			}
			if err := requireYes(yes, "presentation "+args[0]); err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			if err := c.DeletePresentation(cmd.Context(), id); err != nil {
				return err
			}
			ui.OK(a.out, "presentation deleted")
			return nil
		},
	}
	rm.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deletion")

	cmd.AddCommand(ls, edit, submit, upload, rm)
	return cmd
}
