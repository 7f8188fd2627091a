package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexisbeaulieu97/signin/internal/domain/auth"
	"github.com/alexisbeaulieu97/signin/internal/infrastructure/store"
)

func newUsersCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage accounts in the local user store",
	}

	cmd.AddCommand(newUsersAddCmd(flags))
	cmd.AddCommand(newUsersImportCmd(flags))
	cmd.AddCommand(newUsersListCmd(flags))
	cmd.AddCommand(newUsersDeleteCmd(flags))

	return cmd
}

func newUsersAddCmd(flags *rootFlags) *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "add <username>",
		Short: "Create an account; the password is read from the terminal or stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := auth.Role(strings.ToLower(strings.TrimSpace(role)))
			if !r.Valid() {
				return fmt.Errorf("invalid role %q: must be admin or user", role)
			}

			password, err := readPassword(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			app, err := newAppContext(ctx, cmd, flags, modeCLI)
			if err != nil {
				return err
			}
			defer app.Close()

			st, err := app.Store(ctx)
			if err != nil {
				return err
			}
			hash, err := app.Hasher().Hash(password)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}

			user := &store.User{Username: args[0], PasswordHash: hash, Role: r}
			if err := st.Users().Create(ctx, user); err != nil {
				if errors.Is(err, store.ErrDuplicateUser) {
					return fmt.Errorf("user %q already exists", strings.TrimSpace(args[0]))
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s)\n", user.Username, user.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", string(auth.RoleUser), "Account role (admin, user)")

	return cmd
}

func newUsersImportCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Create accounts from a YAML seed file, skipping existing usernames",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := newAppContext(ctx, cmd, flags, modeCLI)
			if err != nil {
				return err
			}
			defer app.Close()

			st, err := app.Store(ctx)
			if err != nil {
				return err
			}

			result, err := store.ImportSeed(ctx, args[0], st.Users(), app.Hasher())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, name := range result.Skipped {
				fmt.Fprintf(out, "skipped %s (already exists)\n", name)
			}
			fmt.Fprintf(out, "imported %d user(s), skipped %d\n", len(result.Created), len(result.Skipped))
			return nil
		},
	}

	return cmd
}

func newUsersListCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts in the local user store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := newAppContext(ctx, cmd, flags, modeCLI)
			if err != nil {
				return err
			}
			defer app.Close()

			st, err := app.Store(ctx)
			if err != nil {
				return err
			}
			users, err := st.Users().List(ctx)
			if err != nil {
				return err
			}

			if len(users) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No users.")
				return nil
			}

			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "USERNAME\tROLE\tCREATED")
			for _, u := range users {
				fmt.Fprintf(writer, "%s\t%s\t%s\n", u.Username, u.Role, u.CreatedAt.UTC().Format("2006-01-02 15:04"))
			}
			return writer.Flush()
		},
	}

	return cmd
}

func newUsersDeleteCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <username>",
		Aliases: []string{"rm"},
		Short:   "Delete an account from the local user store",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := newAppContext(ctx, cmd, flags, modeCLI)
			if err != nil {
				return err
			}
			defer app.Close()

			st, err := app.Store(ctx)
			if err != nil {
				return err
			}

			username := strings.TrimSpace(args[0])
			if err := st.Users().Delete(ctx, username); err != nil {
				if errors.Is(err, store.ErrUserNotFound) {
					return fmt.Errorf("user %q does not exist", username)
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", username)
			return nil
		},
	}

	return cmd
}

// readPassword prompts twice on a terminal; otherwise it reads the first
// line of stdin so that scripts can pipe a password in.
func readPassword(cmd *cobra.Command) (string, error) {
	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read password: %w", err)
		}
		password := strings.TrimRight(line, "\r\n")
		if password == "" {
			return "", errors.New("password must not be empty")
		}
		return password, nil
	}

	prompt := func(label string) (string, error) {
		fmt.Fprint(cmd.ErrOrStderr(), label)
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}

	first, err := prompt("Password: ")
	if err != nil {
		return "", err
	}
	if first == "" {
		return "", errors.New("password must not be empty")
	}
	second, err := prompt("Repeat password: ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", errors.New("passwords do not match")
	}
	return first, nil
}
