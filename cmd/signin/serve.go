package main

import (
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/signin/internal/transport/httpapi"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP login API backed by the local user store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := newAppContext(ctx, cmd, flags, modeCLI)
			if err != nil {
				return err
			}
			defer app.Close()

			local, err := app.LocalAuthenticator(ctx)
			if err != nil {
				return err
			}
			st, err := app.Store(ctx)
			if err != nil {
				return err
			}

			n, err := st.Users().Count(ctx)
			if err != nil {
				return err
			}
			if n == 0 {
				app.Logger.Warn(ctx, "user store is empty; add accounts with 'signin users add'", "db_type", st.Type())
			} else {
				app.Logger.Info(ctx, "user store ready", "db_type", st.Type(), "users", n)
			}

			srv := httpapi.New(httpapi.Config{
				Address:       app.Config.Server.Address,
				Authenticator: local,
				Logger:        app.Logger,
				Ready:         st.Ping,
			})
			return httpapi.Run(ctx, srv, app.Logger)
		},
	}

	return cmd
}
