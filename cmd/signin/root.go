package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexisbeaulieu97/signin/internal/shell"
	"github.com/alexisbeaulieu97/signin/internal/tui/login"
)

// errNotTerminal is returned when the sign-in screen has no terminal to draw on.
var errNotTerminal = errors.New("signin needs an interactive terminal; use 'signin serve' for the HTTP login API")

// isTerminal is swapped in tests.
var isTerminal = func(fd int) bool { return term.IsTerminal(fd) }

type rootFlags struct {
	configFile string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "signin",
		Short:         "Sign in from the terminal against a local user store or a remote service",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSignIn(cmd, flags)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "Path to a signin.yaml config file")
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")
	pf.Bool("log-human", false, "Write human-readable logs instead of JSON")
	pf.String("log-file", "", "Write logs to this file")
	pf.String("theme", "light", "Colour theme (light, dark)")
	pf.String("language", "en", "Interface language (en, de)")
	pf.String("backend", "local", "Authentication backend (local, remote)")
	pf.String("db-type", "sqlite", "User store database type (sqlite, postgres, mysql)")
	pf.String("db-dsn", "signin.db", "User store data source name")
	pf.String("remote-url", "", "Base URL of the remote sign-in service")
	pf.String("address", "127.0.0.1:8080", "Listen address for 'serve'")
	pf.Int("bcrypt-cost", 12, "bcrypt cost for new password hashes")

	cmd.AddCommand(newServeCmd(flags))
	cmd.AddCommand(newUsersCmd(flags))
	cmd.AddCommand(newConfigCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func runSignIn(cmd *cobra.Command, flags *rootFlags) error {
	if !isTerminal(int(os.Stdin.Fd())) {
		return errNotTerminal
	}

	ctx := cmd.Context()
	app, err := newAppContext(ctx, cmd, flags, modeTUI)
	if err != nil {
		return err
	}
	defer app.Close()

	authenticator, err := app.Authenticator(ctx)
	if err != nil {
		return err
	}

	sh := shell.Mount(app.Theme, login.Screen{Options: login.Options{
		Authenticator: authenticator,
		Localizer:     app.Localizer,
		Logger:        app.Logger,
		Context:       ctx,
	}},
		shell.WithLocalizer(app.Localizer),
		shell.WithLogger(app.Logger),
		shell.WithProgramOptions(tea.WithAltScreen()),
	)

	final, err := sh.Run(ctx)
	if err != nil {
		return fmt.Errorf("run sign-in screen: %w", err)
	}
	if frame, ok := final.(shell.Frame); ok {
		if principal, signedIn := frame.Principal(); signedIn {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", app.Localizer.Tf("app.welcome", map[string]any{"Username": principal.Username}))
		}
	}
	return nil
}
