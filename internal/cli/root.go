package cli

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/idilsaglam/cusrr/internal/api"
	"github.com/idilsaglam/cusrr/internal/auth"
	"github.com/idilsaglam/cusrr/internal/config"
	"github.com/idilsaglam/cusrr/internal/log"
	"github.com/idilsaglam/cusrr/internal/ui"
)

// Version is stamped at build time.
var Version = "dev"

// app is the per-invocation state shared by every command.
type app struct {
	v      *viper.Viper
	cfg    config.Config
	out    io.Writer
	errOut io.Writer

	configFile string
	format     string

	// copy puts text on the system clipboard.
	copy func(string) error
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "cusrr",
		Short: "Terminal client for the conference backend",
		Long: `cusrr grades abstracts, edits the schedule and manages attendees
against the conference backend.

Settings come from ~/.cusrr/config.yaml, CUSRR_* environment variables
and flags, in increasing order of precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Flags())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "config file (default ~/.cusrr/config.yaml)")
	pf.String("base-url", "", "backend base URL")
	pf.String("session-cookie", "", "name of the session cookie")
	pf.String("timeout", "", "HTTP timeout, e.g. 15s")
	pf.String("theme", "", "color theme: classic|neon|mono")
	pf.Bool("no-color", false, "disable colors")
	pf.String("log-level", "", "debug|info|warn|error")
	pf.String("log-file", "", "log file (default ~/.cusrr/cusrr.log)")
	pf.String("log-format", "", "json|console")
	pf.String("upload-limit", "", "largest accepted upload, e.g. 20MiB")
	pf.String("dir", "", "state directory (default ~/.cusrr)")
	pf.StringVarP(&a.format, "format", "o", "table", "output format: table|json|yaml")

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageErr{err} })

	root.AddCommand(
		newGraderCmd(a),
		newToggleCmd(a),
		newScoreCmd(a),
		newPostersCmd(a),
		newGradesCmd(a),
		newUsersCmd(a),
		newBlocksCmd(a),
		newPresentationsCmd(a),
		newAccountCmd(a),
		newAuthCmd(a),
	)
	return root
}

// setup resolves configuration once per run and applies the ambient
// settings (logging, theme).
func (a *app) setup(fs *pflag.FlagSet) error {
	bound := pflag.NewFlagSet("bound", pflag.ContinueOnError)
	fs.VisitAll(func(f *pflag.Flag) {
		// Only flags the user set may override env and file values.
		if f.Changed && f.Name != "config" && f.Name != "format" {
			bound.AddFlag(f)
		}
	})
	if err := config.BindFlags(a.v, bound); err != nil {
		return err
	}
	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	switch a.format {
	case formatTable, formatJSON, formatYAML:
	default:
		return usageErr{fmt.Errorf("unknown format %q (want table|json|yaml)", a.format)}
	}

	if err := log.Init(log.Options{File: cfg.LogFile, Console: cfg.IsDevelopment()}); err != nil {
		return err
	}
	log.SetLevel(cfg.LogLevel)
	ui.SetTheme(cfg.Theme)
	ui.SetNoColor(cfg.NoColor || !a.interactive())
	log.Debug().Str("base_url", cfg.BaseURL).Str("dir", cfg.Dir).Msg("config loaded")
	return nil
}

// interactive reports whether output goes to a terminal.
func (a *app) interactive() bool {
	f, ok := a.out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// client builds an API client carrying the stored session, if any.
func (a *app) client() (*api.Client, error) {
	ti, err := auth.GetToken(a.cfg.Dir)
	if err != nil {
		return nil, err
	}
	opts := []api.Option{
		api.WithHTTPClient(&http.Client{Timeout: a.cfg.Timeout}),
		api.WithUploadLimit(int64(a.cfg.UploadLimit)),
		api.WithUserAgent("cusrr/" + Version),
	}
	if ti != nil {
		if ti.Expired(timeNow()) {
			log.Warn().Time("expires_at", *ti.ExpiresAt).Msg("session token expired")
			fmt.Fprintln(a.errOut, ui.Current().Pending.Render("session expired; run `cusrr auth login`"))
		}
		opts = append(opts, api.WithSession(a.cfg.SessionCookie, ti.Token))
	}
	return api.New(a.cfg.BaseURL, opts...)
}

// usageErr marks errors that should exit with code 2.
type usageErr struct{ err error }

func (e usageErr) Error() string { return e.err.Error() }

func (e usageErr) Unwrap() error { return e.err }

func usagef(format string, args ...any) error { return usageErr{fmt.Errorf(format, args...)} }

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usagef("usage: %s", cmd.UseLine())
		}
		return nil
	}
}

func isUsage(err error) bool {
	var u usageErr
	if errors.As(err, &u) {
		return true
	}
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag") || strings.HasPrefix(msg, "required flag")
}
