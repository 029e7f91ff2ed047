package main

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/temple/internal/auth"
	"github.com/mesh-intelligence/temple/pkg/temple"
	"github.com/mesh-intelligence/temple/pkg/types"
)

// readSecret returns the first line of r without its line ending.
func readSecret(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLoginCmd(a *app) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in as the site administrator",
		Long: `Login checks the administrator credentials and stores a session token.
Without --password the password is read from the first line of stdin.`,
		Args: userArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				secret, err := readSecret(cmd.InOrStdin())
				if err != nil {
					return err
				}
				password = secret
			}
			return a.withTemple(func(tp *temple.Temple) error {
				session, err := tp.Auth.Login(username, password)
				if err != nil {
					return err
				}
				return a.print(cmd, session)
			})
		},
	}
	cmd.Flags().StringVar(&username, "username", auth.DefaultUsername, "administrator username")
	cmd.Flags().StringVar(&password, "password", "", "administrator password")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session",
		Args:  userArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withTemple(func(tp *temple.Temple) error {
				if err := tp.Auth.Logout(); err != nil {
					return err
				}
				return a.print(cmd, map[string]string{"message": "Logged out"})
			})
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  userArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withTemple(func(tp *temple.Temple) error {
				user, err := tp.Auth.CurrentUser()
				if err != nil {
					return err
				}
				return a.print(cmd, user)
			})
		},
	}
}

func newHashPasswordCmd() *cobra.Command {
	var cost int
	cmd := &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for admin_password_hash",
		Long: `hash-password prints a bcrypt hash to put in config.yaml as
admin_password_hash. Without an argument the password is read from stdin.`,
		Args: userArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				secret, err := readSecret(cmd.InOrStdin())
				if err != nil {
					return err
				}
				password = secret
			}
			if password == "" {
				return userErrorf("hash-password: %w", types.ErrInvalidCredentials)
			}
			hash, err := auth.HashPassword(password, cost)
			if err != nil {
				return userError{err}
			}
			_, err = cmd.OutOrStdout().Write([]byte(hash + "\n"))
			return err
		},
	}
	cmd.Flags().IntVar(&cost, "cost", 0, "bcrypt cost (default 10)")
	return cmd
}
