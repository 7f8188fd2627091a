package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/signin/internal/config"
	"github.com/alexisbeaulieu97/signin/internal/i18n"
	"github.com/alexisbeaulieu97/signin/internal/infrastructure/authn"
	"github.com/alexisbeaulieu97/signin/internal/infrastructure/store"
	"github.com/alexisbeaulieu97/signin/internal/logger"
	"github.com/alexisbeaulieu97/signin/internal/ports"
	"github.com/alexisbeaulieu97/signin/internal/ui/components"
)

type appMode int

const (
	// modeTUI never logs to the terminal it draws on.
	modeTUI appMode = iota
	// modeCLI logs to stderr unless a log file is configured.
	modeCLI
)

// AppContext bundles long-lived services created at startup.
type AppContext struct {
	Config    *config.Config
	Logger    ports.Logger
	Localizer *i18n.Localizer
	Theme     components.Theme

	store   *store.Store
	closers []io.Closer
}

func newAppContext(ctx context.Context, cmd *cobra.Command, flags *rootFlags, mode appMode) (*AppContext, error) {
	cfg, err := config.Load(config.LoadOptions{File: flags.configFile, Flags: cmd.Flags()})
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	app := &AppContext{Config: cfg}

	var out io.Writer = io.Discard
	if mode == modeCLI {
		out = cmd.ErrOrStderr()
	}
	if cfg.Log.File != "" {
		f, err := logger.OpenFile(cfg.Log.File)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, f)
		out = f
	}

	log, err := logger.New(logger.Options{
		Level:         cfg.Log.Level,
		HumanReadable: cfg.Log.HumanReadable,
		Writer:        out,
		Component:     "signin",
	})
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Logger = log

	if app.Localizer, err = i18n.New(cfg.Language); err != nil {
		app.Close()
		return nil, err
	}
	if app.Theme, err = components.ThemeByName(cfg.Theme); err != nil {
		app.Close()
		return nil, err
	}

	log.Debug(ctx, "configuration loaded", "backend", cfg.Backend, "db_type", cfg.Database.Type, "theme", cfg.Theme, "language", cfg.Language)
	return app, nil
}

// Store opens the configured user store on first use.
func (a *AppContext) Store(ctx context.Context) (*store.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	st, err := store.Open(ctx, store.Options{
		Type:   a.Config.Database.Type,
		DSN:    a.Config.Database.DSN,
		Logger: a.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("open user store: %w", err)
	}
	a.store = st
	a.closers = append(a.closers, st)
	return st, nil
}

// Authenticator builds the configured backend.
func (a *AppContext) Authenticator(ctx context.Context) (ports.Authenticator, error) {
	switch a.Config.Backend {
	case config.BackendRemote:
		remote, err := authn.NewRemote(a.Config.Remote.URL, authn.RemoteOptions{
			Timeout: a.Config.Remote.Timeout,
			Logger:  a.Logger,
		})
		if err != nil {
			return nil, fmt.Errorf("configure remote backend: %w", err)
		}
		a.Logger.Debug(ctx, "using remote backend", "endpoint", remote.Endpoint())
		return remote, nil
	default:
		return a.LocalAuthenticator(ctx)
	}
}

// LocalAuthenticator authenticates against the user store regardless of the
// configured backend.
func (a *AppContext) LocalAuthenticator(ctx context.Context) (*authn.Local, error) {
	st, err := a.Store(ctx)
	if err != nil {
		return nil, err
	}
	return authn.NewLocal(st.Users(), authn.LocalOptions{Logger: a.Logger}), nil
}

// Hasher hashes passwords with the configured cost.
func (a *AppContext) Hasher() authn.Hasher {
	return authn.NewHasher(a.Config.BcryptCost)
}

// Close releases everything opened by the context, most recent first.
func (a *AppContext) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	a.store = nil
	return errors.Join(errs...)
}
