package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/idilsaglam/cusrr/internal/auth"
	"github.com/idilsaglam/cusrr/internal/model"
	"github.com/idilsaglam/cusrr/internal/ui"
)

// -------------- account ----------------

func newAccountCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Your own profile",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the logged-in user",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			me, err := a.me(cmd)
			if err != nil {
				return err
			}
			return a.emit(me, func() error {
				fmt.Fprintln(a.out, ui.Panel(profileLines(me)))
				return nil
			})
		},
	}

	var yes bool
	del := &cobra.Command{
		Use:   "delete",
		Short: "Delete your account and log out",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireYes(yes, "your account"); err != nil {
				return err
			}
			me, err := a.me(cmd)
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			if err := c.DeleteUser(cmd.Context(), *me.UserID); err != nil {
				return err
			}
			if err := auth.DeleteToken(a.cfg.Dir); err != nil {
				return err
			}
			ui.OK(a.out, "account deleted")
			return nil
		},
	}
	del.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deletion")

	cmd.AddCommand(show, del)
	return cmd
}

// me fetches the session user and fails when nobody is logged in.
func (a *app) me(cmd *cobra.Command) (model.Me, error) {
	c, err := a.client()
	if err != nil {
		return model.Me{}, err
	}
	me, err := c.Me(cmd.Context())
	if err != nil {
		return model.Me{}, err
	}
	if !me.Authenticated || me.UserID == nil {
		return model.Me{}, errNotLoggedIn
	}
	return me, nil
}

func profileLines(me model.Me) []string {
	t := ui.Current()
	row := func(label, value string) string {
		if value == "" {
			value = t.Muted.Render("—")
		}
		return t.Muted.Render(fmt.Sprintf("%-13s", label)) + value
	}
	pres := ""
	if me.PresentationID != nil {
		pres = strconv.Itoa(*me.PresentationID)
	}
	return []string{
		t.Title.Render(me.Name),
		"",
		row("Email", me.Email),
		row("Role", me.Auth),
		row("Activity", model.Deref(me.Activity)),
		row("Presentation", pres),
	}
}

// -------------- auth ----------------

func newAuthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the stored session",
	}

	var token string
	login := &cobra.Command{
		Use:   "login",
		Short: "Store a session token",
		Long: `Stores the backend session token in ~/.cusrr/credentials.json (mode 0600).
Without --token the token is read from the terminal without echo, or from
stdin when piped. CUSRR_TOKEN overrides the stored token.`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(token) == "" {
				t, err := a.readToken(cmd.InOrStdin())
				if err != nil {
					return err
				}
				token = t
			}
			ti, err := auth.SetToken(a.cfg.Dir, token)
			if err != nil {
				return usageErr{err}
			}

			c, err := a.client()
			if err != nil {
				return err
			}
			me, err := c.Me(cmd.Context())
			switch {
			case err != nil:
				fmt.Fprintln(a.errOut, ui.Current().Pending.Render("token saved; could not reach the server: "+err.Error()))
			case !me.Authenticated:
				fmt.Fprintln(a.errOut, ui.Current().Pending.Render("token saved, but the server does not accept it"))
			default:
				ui.OK(a.out, "logged in as "+whoName(me))
			}
			if ti.ExpiresAt != nil {
				fmt.Fprintln(a.out, ui.Current().Muted.Render("expires "+humanize.Time(*ti.ExpiresAt)))
			}
			return nil
		},
	}
	login.Flags().StringVar(&token, "token", "", "session token (prompted when empty)")

	logout := &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  exactArgs(0),
		RunE: func(*cobra.Command, []string) error {
			if ti, _ := auth.GetToken(a.cfg.Dir); ti != nil && ti.Source == "env" {
				ui.OK(a.out, "token is provided by "+auth.EnvToken+" (nothing to delete)")
				return nil
			}
			if err := auth.DeleteToken(a.cfg.Dir); err != nil {
				return err
			}
			ui.OK(a.out, "logged out")
			return nil
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show where the token comes from and when it expires",
		Args:  exactArgs(0),
		RunE: func(*cobra.Command, []string) error {
			ti, err := auth.GetToken(a.cfg.Dir)
			if err != nil {
				return err
			}
			if ti == nil {
				return errNotLoggedIn
			}
			t := ui.Current()
			lines := []string{t.Title.Render("Session"), "", "source   " + ti.Source}
			if !ti.CreatedAt.IsZero() {
				lines = append(lines, "saved    "+humanize.Time(ti.CreatedAt))
			}
			switch {
			case ti.ExpiresAt == nil:
				lines = append(lines, "expires  "+t.Muted.Render("unknown"))
			case ti.Expired(timeNow()):
				lines = append(lines, "expires  "+t.Error.Render("expired "+humanize.Time(*ti.ExpiresAt)))
			default:
				lines = append(lines, "expires  "+humanize.Time(*ti.ExpiresAt))
			}
			fmt.Fprintln(a.out, ui.Panel(lines))
			return nil
		},
	}

	whoami := &cobra.Command{
		Use:   "whoami",
		Short: "Print the logged-in user",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			me, err := a.me(cmd)
			if err != nil {
				return err
			}
			return a.emit(me, func() error {
				fmt.Fprintln(a.out, whoName(me))
				return nil
			})
		},
	}

	cmd.AddCommand(login, logout, status, whoami)
	return cmd
}

func whoName(me model.Me) string {
	switch {
	case me.Name != "" && me.Email != "":
		return me.Name + " <" + me.Email + ">"
	case me.Name != "":
		return me.Name
	}
	return me.Email
}

// readToken prompts without echo on a terminal, or reads one line.
func (a *app) readToken(in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(a.errOut, "Session token: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.errOut)
		if err != nil {
			return "", fmt.Errorf("read token: %w", err)
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read token: %w", err)
	}
	return strings.TrimSpace(line), nil
}
