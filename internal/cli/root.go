// Package cli implements syncadminctl, a terminal client for the sync
// server's admin API built on the same controllers as the web console.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dalemusser/syncadmin/internal/app/system/syncapi"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// errReported marks failures the notifier already printed.
var errReported = errors.New("reported")

// envFiles are loaded, when present, before the environment is parsed.
var envFiles = []string{".env", ".env.local"}

type cliApp struct {
	cfg       Config
	verbose   bool
	assumeYes bool

	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer

	log     *zap.Logger
	api     *syncapi.Client
	confirm *lineConfirmer
	notify  *lineNotifier
}

// Execute runs the command line and returns the process exit code.
func Execute(args []string, in io.Reader, out, errOut io.Writer) int {
	app := &cliApp{
		in:     bufio.NewReader(in),
		out:    out,
		errOut: errOut,
	}
	cmd := newRootCmd(app)
	cmd.SetArgs(args)
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	err := cmd.ExecuteContext(context.Background())
	if app.log != nil {
		_ = app.log.Sync()
	}
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(errOut, "error: "+err.Error())
		}
		return 1
	}
	return 0
}

func newRootCmd(app *cliApp) *cobra.Command {
	cfg, cfgErr := LoadConfig(envFiles...)
	app.cfg = cfg

	cmd := &cobra.Command{
		Use:           "syncadminctl",
		Short:         "Administer a sync server from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cfgErr != nil {
				return cfgErr
			}
			return app.setup(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&app.cfg.Server, "server", cfg.Server, "sync server base URL (SYNCADMIN_SERVER)")
	flags.StringVar(&app.cfg.Token, "token", cfg.Token, "API token (SYNCADMIN_TOKEN)")
	flags.DurationVar(&app.cfg.Timeout, "timeout", cfg.Timeout, "per-request timeout (SYNCADMIN_TIMEOUT)")
	flags.BoolVarP(&app.verbose, "verbose", "v", false, "log requests to stderr")
	flags.BoolVarP(&app.assumeYes, "yes", "y", false, "answer yes to confirmation prompts")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newActivityCmd(app))
	cmd.AddCommand(newUsersCmd(app))
	cmd.AddCommand(newMembersCmd(app))
	return cmd
}

func (a *cliApp) setup(cmd *cobra.Command) error {
	log, err := newLogger(a.verbose)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	a.log = log

	client, err := syncapi.New(syncapi.Config{
		BaseURL: a.cfg.Server,
		Timeout: a.cfg.Timeout,
		Logger:  log,
	})
	if err != nil {
		return err
	}
	a.api = client.WithToken(a.cfg.Token)

	a.confirm = &lineConfirmer{in: a.in, out: a.errOut, assumeYes: a.assumeYes}
	a.notify = &lineNotifier{out: a.errOut}
	return nil
}

// requireToken fails commands that need an authenticated client.
func (a *cliApp) requireToken() error {
	if strings.TrimSpace(a.cfg.Token) == "" {
		return errors.New("no API token: run `syncadminctl login` and set SYNCADMIN_TOKEN, or pass --token")
	}
	return nil
}

// newLogger builds a development logger with --verbose and a production
// logger restricted to errors otherwise.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	return cfg.Build()
}
