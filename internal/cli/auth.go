package cli

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/marks/internal/domain"
)

func newLoginCmd(rt *runtime) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		Long:  "Exchange an email and password for a session. Missing values are prompted on stdin.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			var err error
			if email == "" {
				if email, err = prompt(in, cmd.ErrOrStderr(), "Email: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = prompt(in, cmd.ErrOrStderr(), "Password: "); err != nil {
					return err
				}
			}
			email = strings.TrimSpace(email)
			if email == "" || password == "" {
				return &domain.ValidationError{Message: "email and password are required"}
			}

			u, err := rt.app.Session.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", u.DisplayName())
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email (prompted if omitted)")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted if omitted)")
	return cmd
}

func newRegisterCmd(rt *runtime) *cobra.Command {
	var username, email, password, confirm, fullName string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			fields := []struct {
				value *string
				label string
			}{
				{&username, "Username: "},
				{&email, "Email: "},
				{&password, "Password: "},
				{&confirm, "Confirm password: "},
			}
			for _, f := range fields {
				if *f.value != "" {
					continue
				}
				v, err := prompt(in, cmd.ErrOrStderr(), f.label)
				if err != nil {
					return err
				}
				*f.value = v
			}

			username, email = strings.TrimSpace(username), strings.TrimSpace(email)
			if username == "" || email == "" {
				return &domain.ValidationError{Message: "username and email are required"}
			}
			if err := domain.ValidateRegistration(password, confirm); err != nil {
				return err
			}

			reg := domain.RegisterInput{Username: username, Email: email, Password: password}
			if name := strings.TrimSpace(fullName); name != "" {
				reg.FullName = &name
			}
			u, err := rt.app.Session.Register(cmd.Context(), reg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s! You are now logged in.\n", u.DisplayName())
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "username (prompted if omitted)")
	cmd.Flags().StringVar(&email, "email", "", "email (prompted if omitted)")
	cmd.Flags().StringVar(&password, "password", "", "password, at least 8 characters (prompted if omitted)")
	cmd.Flags().StringVar(&confirm, "confirm", "", "password confirmation (prompted if omitted)")
	cmd.Flags().StringVar(&fullName, "full-name", "", "optional display name")
	return cmd
}

func newLogoutCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:         "logout",
		Short:       "Forget the stored session",
		Args:        cobra.NoArgs,
		Annotations: noRestore(),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt.app.Session.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u := rt.app.Session.User()
			if u == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
				return nil
			}
			return printUser(cmd.OutOrStdout(), u, time.Now())
		},
	}
}
