// Package cli wires configuration, sources and the exporter into commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jonboulle/clockwork"
	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"followexport/config"
	"followexport/core"
)

type flags struct {
	configFile string
	envFile    string
}

// App holds the process environment the commands run in.
type App struct {
	fs     afero.Fs
	clock  clockwork.Clock
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// newPrompter and newSource are replaced in tests.
	newPrompter func() Prompter
	newSource   func(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (core.Source, error)

	flags flags
	root  *cobra.Command
}

func NewApp() *App {
	a := &App{
		fs:        afero.NewOsFs(),
		clock:     clockwork.NewRealClock(),
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		newSource: NewSource,
	}

	a.newPrompter = func() Prompter {
		if f, ok := a.stdin.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
			return NewLinerPrompter()
		}
		return NewScannerPrompter(a.stdin, a.stdout)
	}

	a.root = a.rootCommand()
	return a
}

func (a *App) Command() *cobra.Command {
	return a.root
}

// Execute runs the command line and returns the process exit code.
func (a *App) Execute(ctx context.Context, args []string) int {
	if args == nil {
		args = []string{}
	}

	a.root.SetArgs(args)
	a.root.SetIn(a.stdin)
	a.root.SetOut(a.stdout)
	a.root.SetErr(a.stderr)

	if err := a.root.ExecuteContext(ctx); err != nil {
		var credErr *core.CredentialError
		if errors.As(err, &credErr) {
			fmt.Fprintf(a.stderr, "Failed to initialize API client: %v\n", err)
		} else {
			fmt.Fprintln(a.stderr, err)
		}
		return 1
	}
	return 0
}

func (a *App) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "followexport",
		Short: "Export the accounts a user follows into a CSV file",
		Long: `followexport reads the list of accounts a user follows, either by scraping
the public profile pages or through the authenticated API, and writes them
to a timestamped CSV file in the output directory.

Without a subcommand an interactive menu is started.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runMenu(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.flags.configFile, "config", "c", "", "config file path (yaml, toml or json)")
	pf.StringVar(&a.flags.envFile, "env-file", ".env", "dotenv file with FOLLOWEXPORT_* variables")
	pf.BoolP("verbose", "v", false, "print debug output")
	pf.String("source", config.SourceScrape, `where followings are read from: "scrape" or "api"`)
	pf.String("output-dir", "media", "directory the CSV files are written to")
	pf.String("log-file", "", "append JSON logs to this file")

	root.AddCommand(
		a.menuCommand(),
		a.exportCommand(),
		a.diffCommand(),
		a.serveCommand(),
	)

	return root
}

func (a *App) menuCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Start the interactive menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runMenu(cmd)
		},
	}
}

func (a *App) runMenu(cmd *cobra.Command) error {
	d, err := a.fullDependencies(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	var caveat string
	if c, ok := d.source.(core.Caveat); ok {
		caveat = c.Caveat()
	}

	prompter := a.newPrompter()
	defer prompter.Close()

	return NewMenu(d.orchestrator, prompter, a.stdout, caveat, d.cfg.Menu.Delay).Loop(cmd.Context())
}
